package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/domain"
	"gorm.io/gorm"
)

// LeadFilters narrows lead listings. Zero values mean no filtering.
type LeadFilters struct {
	Status     string
	Source     string
	AssignedTo *uuid.UUID
	CapturedBy *uuid.UUID
	Search     string
}

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

// UpdateFields applies a partial update. Callers are responsible for
// including updated_at in the map.
func (r *LeadRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&domain.Lead{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Lead{}, "id = ?", id).Error
}

// List returns leads newest first, optionally narrowed by filters.
func (r *LeadRepository) List(ctx context.Context, filters LeadFilters) ([]domain.Lead, error) {
	var leads []domain.Lead

	query := r.db.WithContext(ctx).Model(&domain.Lead{})

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Source != "" {
		query = query.Where("source = ?", filters.Source)
	}
	if filters.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filters.AssignedTo)
	}
	if filters.CapturedBy != nil {
		query = query.Where("captured_by = ?", *filters.CapturedBy)
	}
	if filters.Search != "" {
		searchPattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where(
			"LOWER(full_name) LIKE ? OR LOWER(lead_number) LIKE ? OR id_number LIKE ? OR cell_number LIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern,
		)
	}

	err := query.Order("created_at DESC").Find(&leads).Error
	return leads, err
}

func (r *LeadRepository) Count(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Lead{}).Count(&count).Error
	return int(count), err
}

// ListDueFollowUps returns leads whose follow-up date has passed and that
// are still in an open status.
func (r *LeadRepository) ListDueFollowUps(ctx context.Context, now time.Time) ([]domain.Lead, error) {
	var leads []domain.Lead
	err := r.db.WithContext(ctx).
		Where("next_follow_up IS NOT NULL AND next_follow_up <= ?", now).
		Where("status NOT IN ?", []domain.LeadStatus{domain.LeadStatusConverted, domain.LeadStatusLost}).
		Order("next_follow_up ASC").
		Find(&leads).Error
	return leads, err
}
