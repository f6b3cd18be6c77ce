package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BankDetailsRepository struct {
	db *gorm.DB
}

func NewBankDetailsRepository(db *gorm.DB) *BankDetailsRepository {
	return &BankDetailsRepository{db: db}
}

// Upsert writes the banking record for a lead, replacing any existing row
// for the same lead_id.
func (r *BankDetailsRepository) Upsert(ctx context.Context, details *domain.BankDetails) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "lead_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"bank_name", "account_number", "branch_code", "account_type", "updated_at",
			}),
		}).
		Create(details).Error
}

func (r *BankDetailsRepository) GetByLeadID(ctx context.Context, leadID uuid.UUID) (*domain.BankDetails, error) {
	var details domain.BankDetails
	err := r.db.WithContext(ctx).First(&details, "lead_id = ?", leadID).Error
	if err != nil {
		return nil, err
	}
	return &details, nil
}

func (r *BankDetailsRepository) DeleteByLeadID(ctx context.Context, leadID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.BankDetails{}, "lead_id = ?", leadID).Error
}
