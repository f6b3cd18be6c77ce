package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/repository"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeadService owns the lead lifecycle: capture, partial updates, status
// transitions, reassignment, call notes and the 1:1 banking record.
type LeadService struct {
	leads       *repository.LeadRepository
	users       *repository.UserRepository
	bankDetails *repository.BankDetailsRepository
	numbers     *LeadNumberService
	logger      *zap.Logger
}

// NewLeadService creates a new LeadService
func NewLeadService(
	leads *repository.LeadRepository,
	users *repository.UserRepository,
	bankDetails *repository.BankDetailsRepository,
	numbers *LeadNumberService,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		leads:       leads,
		users:       users,
		bankDetails: bankDetails,
		numbers:     numbers,
		logger:      logger,
	}
}

// CaptureResult reports the outcome of a capture. BankDetailsSaved is
// false when the lead went in but its banking record did not; the lead is
// still returned so the caller sees the partial success.
type CaptureResult struct {
	Lead             *domain.Lead
	BankDetails      *domain.BankDetails
	BankDetailsSaved bool
	Warning          string
}

func (s *LeadService) List(ctx context.Context, filters repository.LeadFilters) ([]domain.Lead, error) {
	return s.leads.List(ctx, filters)
}

func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return lead, nil
}

// Capture creates a lead from an agent's submission. The lead number is
// generated server side and capture never fails on numbering. An embedded
// banking record is written after the lead; its failure downgrades the
// result instead of rolling the lead back.
func (s *LeadService) Capture(ctx context.Context, req *domain.CreateLeadRequest, capturedBy uuid.UUID) (*CaptureResult, error) {
	if !domain.ValidateIDNumber(req.IDNumber) {
		return nil, ErrInvalidIDNumber
	}
	if !domain.ValidateCellNumber(req.CellNumber) {
		return nil, ErrInvalidCellNumber
	}
	if err := validateServiceIDs(req.ServicesInterested); err != nil {
		return nil, err
	}

	source := domain.LeadSource(req.Source)
	if !source.IsValid() {
		return nil, fmt.Errorf("%w: source %q", ErrInvalidInput, req.Source)
	}

	priority := domain.LeadPriorityMedium
	if req.Priority != "" {
		priority = domain.LeadPriority(req.Priority)
		if !priority.IsValid() {
			return nil, fmt.Errorf("%w: priority %q", ErrInvalidInput, req.Priority)
		}
	}

	assignedTo := capturedBy
	if req.AssignedTo != nil {
		assignedTo = *req.AssignedTo
	}

	nextFollowUp, err := parseFollowUpDate(req.NextFollowUp)
	if err != nil {
		return nil, err
	}

	lead := &domain.Lead{
		LeadNumber:         s.numbers.Generate(ctx),
		FullName:           req.FullName,
		IDNumber:           req.IDNumber,
		CellNumber:         req.CellNumber,
		Email:              req.Email,
		ResidentialAddress: req.ResidentialAddress,
		Source:             source,
		ServicesInterested: pq.StringArray(req.ServicesInterested),
		Notes:              req.Notes,
		Status:             domain.LeadStatusNew,
		Priority:           priority,
		CapturedBy:         capturedBy,
		AssignedTo:         assignedTo,
		NextFollowUp:       nextFollowUp,
		CallHistory:        domain.CallHistory{},
	}

	if err := s.leads.Create(ctx, lead); err != nil {
		s.logger.Error("failed to create lead",
			zap.String("leadNumber", lead.LeadNumber),
			zap.Error(err))
		return nil, err
	}

	created, err := s.leads.GetByID(ctx, lead.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("lead captured",
		zap.String("leadNumber", created.LeadNumber),
		zap.String("leadId", created.ID.String()),
		zap.String("capturedBy", capturedBy.String()))

	result := &CaptureResult{Lead: created, BankDetailsSaved: true}

	if req.BankDetails != nil {
		details, err := s.UpsertBankDetails(ctx, created.ID, req.BankDetails, capturedBy)
		if err != nil {
			s.logger.Error("lead captured but bank details failed",
				zap.String("leadId", created.ID.String()),
				zap.Error(err))
			result.BankDetailsSaved = false
			result.Warning = "Lead was captured but bank details could not be saved"
		} else {
			result.BankDetails = details
		}
	}

	return result, nil
}

// Update applies a partial update. Only provided fields are written and
// the capturing agent is never touched.
func (s *LeadService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateLeadRequest) (*domain.Lead, error) {
	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.IDNumber != nil {
		if !domain.ValidateIDNumber(*req.IDNumber) {
			return nil, ErrInvalidIDNumber
		}
		updates["id_number"] = *req.IDNumber
	}
	if req.CellNumber != nil {
		if !domain.ValidateCellNumber(*req.CellNumber) {
			return nil, ErrInvalidCellNumber
		}
		updates["cell_number"] = *req.CellNumber
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.ResidentialAddress != nil {
		updates["residential_address"] = *req.ResidentialAddress
	}
	if req.Source != nil {
		updates["source"] = *req.Source
	}
	if req.ServicesInterested != nil {
		if err := validateServiceIDs(*req.ServicesInterested); err != nil {
			return nil, err
		}
		updates["services_interested"] = pq.StringArray(*req.ServicesInterested)
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.Status != nil {
		applyStatusChange(updates, domain.LeadStatus(*req.Status))
	}
	if req.NextFollowUp != nil {
		if *req.NextFollowUp == "" {
			updates["next_follow_up"] = nil
		} else {
			followUp, err := parseFollowUpDate(req.NextFollowUp)
			if err != nil {
				return nil, err
			}
			updates["next_follow_up"] = followUp
		}
	}

	if len(updates) == 0 {
		return lead, nil
	}
	updates["updated_at"] = time.Now()

	if err := s.leads.UpdateFields(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// UpdateStatus moves a lead to a new status. Transitions are free-form;
// entering Converted stamps the conversion time once and leaving it never
// clears the stamp.
func (s *LeadService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.LeadStatus) (*domain.Lead, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidInput, status)
	}

	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	applyStatusChange(updates, status)

	if err := s.leads.UpdateFields(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	s.logger.Info("lead status updated",
		zap.String("leadId", id.String()),
		zap.String("from", string(lead.Status)),
		zap.String("to", string(status)))

	return s.GetByID(ctx, id)
}

// Reassign hands a lead to another agent. Only the assignee changes; the
// capturing agent stays on the record.
func (s *LeadService) Reassign(ctx context.Context, id, assignedTo uuid.UUID) (*domain.Lead, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	assignee, err := s.users.GetByID(ctx, assignedTo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !assignee.Active {
		return nil, ErrAssigneeInactive
	}

	updates := map[string]interface{}{
		"assigned_to": assignedTo,
		"updated_at":  time.Now(),
	}
	if err := s.leads.UpdateFields(ctx, id, updates); err != nil {
		return nil, err
	}

	s.logger.Info("lead reassigned",
		zap.String("leadId", id.String()),
		zap.String("assignedTo", assignedTo.String()))

	return s.GetByID(ctx, id)
}

// AddCallNote appends a note to the lead's call history. The history is a
// single document, so the whole array is rewritten.
func (s *LeadService) AddCallNote(ctx context.Context, id uuid.UUID, note, author string) (*domain.Lead, error) {
	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	history := append(lead.CallHistory, domain.CallNote{
		ID:        uuid.New().String(),
		Note:      note,
		CreatedBy: author,
		CreatedAt: time.Now().UTC(),
	})

	updates := map[string]interface{}{
		"call_history": history,
		"updated_at":   time.Now(),
	}
	if err := s.leads.UpdateFields(ctx, id, updates); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *LeadService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.leads.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("lead deleted", zap.String("leadId", id.String()))
	return nil
}

// UpsertBankDetails writes the banking record for a lead, replacing any
// existing one.
func (s *LeadService) UpsertBankDetails(ctx context.Context, leadID uuid.UUID, req *domain.BankDetailsRequest, capturedBy uuid.UUID) (*domain.BankDetails, error) {
	if _, err := s.GetByID(ctx, leadID); err != nil {
		return nil, err
	}

	accountType := domain.AccountType(req.AccountType)
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: account type %q", ErrInvalidInput, req.AccountType)
	}

	details := &domain.BankDetails{
		LeadID:        leadID,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		BranchCode:    req.BranchCode,
		AccountType:   accountType,
		CapturedBy:    capturedBy,
	}

	if err := s.bankDetails.Upsert(ctx, details); err != nil {
		return nil, err
	}

	return s.bankDetails.GetByLeadID(ctx, leadID)
}

func (s *LeadService) GetBankDetails(ctx context.Context, leadID uuid.UUID) (*domain.BankDetails, error) {
	details, err := s.bankDetails.GetByLeadID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return details, nil
}

// applyStatusChange records a status transition in the updates map.
// Every entry into Converted stamps converted_at to now; leaving
// Converted does not clear it.
func applyStatusChange(updates map[string]interface{}, status domain.LeadStatus) {
	updates["status"] = status
	if status == domain.LeadStatusConverted {
		updates["converted_at"] = time.Now()
	}
}

func validateServiceIDs(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	for _, id := range ids {
		if _, ok := domain.ServiceByID(id); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownService, id)
		}
	}
	return nil
}

func parseFollowUpDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, fmt.Errorf("%w: nextFollowUp must be YYYY-MM-DD", ErrInvalidInput)
	}
	return &t, nil
}
