package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/iyfinance/leads-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LeadSequenceRepository handles database operations for lead number
// sequences. One row per year; concurrent captures in the same year are
// serialized on that row.
type LeadSequenceRepository struct {
	db *gorm.DB
}

// NewLeadSequenceRepository creates a new LeadSequenceRepository
func NewLeadSequenceRepository(db *gorm.DB) *LeadSequenceRepository {
	return &LeadSequenceRepository{db: db}
}

// NextSequence atomically retrieves and increments the sequence for a year.
// Uses SELECT FOR UPDATE to prevent race conditions. A missing year row is
// seeded from the count of existing LEAD-<year>-% numbers so numbering
// continues past data that predates the sequence table.
func (r *LeadSequenceRepository) NextSequence(ctx context.Context, year int) (int, error) {
	var seq domain.LeadSequence
	var nextSeq int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("year = ?", year).
			First(&seq)

		if result.Error == gorm.ErrRecordNotFound {
			existing, err := existingLeadCount(tx, year)
			if err != nil {
				return fmt.Errorf("failed to count existing lead numbers: %w", err)
			}

			nextSeq = int(existing) + 1
			seq = domain.LeadSequence{
				Year:         year,
				LastSequence: nextSeq,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create lead sequence: %w", err)
			}
		} else if result.Error != nil {
			return fmt.Errorf("failed to get lead sequence: %w", result.Error)
		} else {
			nextSeq = seq.LastSequence + 1
			if err := tx.Model(&seq).Updates(map[string]interface{}{
				"last_sequence": nextSeq,
				"updated_at":    time.Now(),
			}).Error; err != nil {
				return fmt.Errorf("failed to update lead sequence: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return nextSeq, nil
}

// existingLeadCount counts the lead numbers already issued for a year.
// Data imported before the sequence table carries lowercase prefixes, so
// the match is case-insensitive.
func existingLeadCount(tx *gorm.DB, year int) (int64, error) {
	var existing int64
	prefix := fmt.Sprintf("lead-%d-%%", year)
	err := tx.Model(&domain.Lead{}).
		Where("LOWER(lead_number) LIKE ?", prefix).
		Count(&existing).Error
	return existing, err
}

// CurrentSequence retrieves the current sequence value without
// incrementing. Returns 0 if no sequence exists for the year.
func (r *LeadSequenceRepository) CurrentSequence(ctx context.Context, year int) (int, error) {
	var seq domain.LeadSequence
	result := r.db.WithContext(ctx).
		Where("year = ?", year).
		First(&seq)

	if result.Error == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if result.Error != nil {
		return 0, fmt.Errorf("failed to get lead sequence: %w", result.Error)
	}

	return seq.LastSequence, nil
}
