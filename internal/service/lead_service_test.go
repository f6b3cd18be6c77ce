package service_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/repository"
	"github.com/iyfinance/leads-api/internal/service"
	"github.com/iyfinance/leads-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newLeadService(db *gorm.DB) *service.LeadService {
	logger := zap.NewNop()
	numbers := service.NewLeadNumberService(repository.NewLeadSequenceRepository(db), logger)
	return service.NewLeadService(
		repository.NewLeadRepository(db),
		repository.NewUserRepository(db),
		repository.NewBankDetailsRepository(db),
		numbers,
		logger,
	)
}

func captureRequest() *domain.CreateLeadRequest {
	return &domain.CreateLeadRequest{
		FullName:           "Thabo Mokoena",
		IDNumber:           "8503155800084",
		CellNumber:         "0821234567",
		Email:              "thabo@example.com",
		ResidentialAddress: "12 Church Street, Pretoria",
		Source:             "Walk-in",
		ServicesInterested: []string{"judgement"},
	}
}

func TestLeadServiceCapture(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newLeadService(db)
	agent := testutil.CreateTestUser(t, db, "agent1", domain.UserRoleAgent)
	ctx := context.Background()

	t.Run("captures with defaults", func(t *testing.T) {
		result, err := svc.Capture(ctx, captureRequest(), agent.ID)
		require.NoError(t, err)
		require.NotNil(t, result.Lead)

		lead := result.Lead
		assert.Regexp(t, regexp.MustCompile(`^LEAD-\d{4}-\d{4,}$`), lead.LeadNumber)
		assert.Equal(t, domain.LeadStatusNew, lead.Status)
		assert.Equal(t, domain.LeadPriorityMedium, lead.Priority)
		assert.Equal(t, agent.ID, lead.CapturedBy)
		assert.Equal(t, agent.ID, lead.AssignedTo, "unassigned leads stay with the capturing agent")
		assert.Nil(t, lead.ConvertedAt)
		assert.True(t, result.BankDetailsSaved)
		assert.Nil(t, result.BankDetails)
	})

	t.Run("rejects an invalid ID number", func(t *testing.T) {
		req := captureRequest()
		req.IDNumber = "8503155800085"

		_, err := svc.Capture(ctx, req, agent.ID)
		assert.ErrorIs(t, err, service.ErrInvalidIDNumber)
	})

	t.Run("rejects an invalid cell number", func(t *testing.T) {
		req := captureRequest()
		req.CellNumber = "12345"

		_, err := svc.Capture(ctx, req, agent.ID)
		assert.ErrorIs(t, err, service.ErrInvalidCellNumber)
	})

	t.Run("rejects unknown service IDs", func(t *testing.T) {
		req := captureRequest()
		req.ServicesInterested = []string{"judgement", "payday-loans"}

		_, err := svc.Capture(ctx, req, agent.ID)
		assert.ErrorIs(t, err, service.ErrUnknownService)
	})

	t.Run("rejects an empty service list", func(t *testing.T) {
		req := captureRequest()
		req.ServicesInterested = nil

		_, err := svc.Capture(ctx, req, agent.ID)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("rejects a malformed follow-up date", func(t *testing.T) {
		req := captureRequest()
		followUp := "15 March 2026"
		req.NextFollowUp = &followUp

		_, err := svc.Capture(ctx, req, agent.ID)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("stores the follow-up date", func(t *testing.T) {
		req := captureRequest()
		followUp := "2026-10-01"
		req.NextFollowUp = &followUp

		result, err := svc.Capture(ctx, req, agent.ID)
		require.NoError(t, err)
		require.NotNil(t, result.Lead.NextFollowUp)
		assert.Equal(t, "2026-10-01", result.Lead.NextFollowUp.Format("2006-01-02"))
	})

	t.Run("captures with bank details", func(t *testing.T) {
		req := captureRequest()
		req.BankDetails = &domain.BankDetailsRequest{
			BankName:      "Capitec",
			AccountNumber: "1234567890",
			BranchCode:    "470010",
			AccountType:   "Savings",
		}

		result, err := svc.Capture(ctx, req, agent.ID)
		require.NoError(t, err)
		assert.True(t, result.BankDetailsSaved)
		require.NotNil(t, result.BankDetails)
		assert.Equal(t, result.Lead.ID, result.BankDetails.LeadID)
		assert.Equal(t, domain.AccountTypeSavings, result.BankDetails.AccountType)
		assert.Equal(t, agent.ID, result.BankDetails.CapturedBy)
	})

	t.Run("a bad banking record downgrades instead of failing", func(t *testing.T) {
		req := captureRequest()
		req.BankDetails = &domain.BankDetailsRequest{
			BankName:      "Capitec",
			AccountNumber: "1234567890",
			BranchCode:    "470010",
			AccountType:   "Offshore",
		}

		result, err := svc.Capture(ctx, req, agent.ID)
		require.NoError(t, err, "the lead itself must still be captured")
		assert.False(t, result.BankDetailsSaved)
		assert.NotEmpty(t, result.Warning)
		assert.Nil(t, result.BankDetails)

		_, err = svc.GetBankDetails(ctx, result.Lead.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestLeadServiceUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newLeadService(db)
	agent := testutil.CreateTestUser(t, db, "agent1", domain.UserRoleAgent)
	ctx := context.Background()

	t.Run("applies only provided fields", func(t *testing.T) {
		lead := testutil.CreateTestLead(t, db, "LEAD-2026-0100", agent.ID)

		name := "Updated Name"
		updated, err := svc.Update(ctx, lead.ID, &domain.UpdateLeadRequest{FullName: &name})
		require.NoError(t, err)

		assert.Equal(t, "Updated Name", updated.FullName)
		assert.Equal(t, lead.IDNumber, updated.IDNumber)
		assert.Equal(t, lead.CapturedBy, updated.CapturedBy)
	})

	t.Run("validates a replacement ID number", func(t *testing.T) {
		lead := testutil.CreateTestLead(t, db, "LEAD-2026-0101", agent.ID)

		bad := "8503155800085"
		_, err := svc.Update(ctx, lead.ID, &domain.UpdateLeadRequest{IDNumber: &bad})
		assert.ErrorIs(t, err, service.ErrInvalidIDNumber)
	})

	t.Run("empty follow-up clears the date", func(t *testing.T) {
		lead := testutil.CreateTestLead(t, db, "LEAD-2026-0102", agent.ID)
		followUp := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, db.Model(lead).Update("next_follow_up", followUp).Error)

		empty := ""
		updated, err := svc.Update(ctx, lead.ID, &domain.UpdateLeadRequest{NextFollowUp: &empty})
		require.NoError(t, err)
		assert.Nil(t, updated.NextFollowUp)
	})

	t.Run("unknown lead reports not found", func(t *testing.T) {
		name := "x"
		_, err := svc.Update(ctx, uuid.New(), &domain.UpdateLeadRequest{FullName: &name})
		assert.ErrorIs(t, err, service.ErrLeadNotFound)
	})
}

func TestLeadServiceUpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newLeadService(db)
	agent := testutil.CreateTestUser(t, db, "agent1", domain.UserRoleAgent)
	ctx := context.Background()

	t.Run("moves through the pipeline", func(t *testing.T) {
		lead := testutil.CreateTestLead(t, db, "LEAD-2026-0200", agent.ID)

		updated, err := svc.UpdateStatus(ctx, lead.ID, domain.LeadStatusContacted)
		require.NoError(t, err)
		assert.Equal(t, domain.LeadStatusContacted, updated.Status)
		assert.Nil(t, updated.ConvertedAt)
	})

	t.Run("every entry into Converted re-stamps the conversion time", func(t *testing.T) {
		lead := testutil.CreateTestLead(t, db, "LEAD-2026-0201", agent.ID)

		converted, err := svc.UpdateStatus(ctx, lead.ID, domain.LeadStatusConverted)
		require.NoError(t, err)
		require.NotNil(t, converted.ConvertedAt)

		// leaving Converted keeps the stamp
		reopened, err := svc.UpdateStatus(ctx, lead.ID, domain.LeadStatusQualified)
		require.NoError(t, err)
		require.NotNil(t, reopened.ConvertedAt)

		// backdate the stamp, then convert again: it moves to the new moment
		backdated := time.Now().Add(-24 * time.Hour)
		require.NoError(t, db.Model(&domain.Lead{}).
			Where("id = ?", lead.ID).
			Update("converted_at", backdated).Error)

		again, err := svc.UpdateStatus(ctx, lead.ID, domain.LeadStatusConverted)
		require.NoError(t, err)
		require.NotNil(t, again.ConvertedAt)
		assert.True(t, again.ConvertedAt.After(backdated.Add(time.Hour)))
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		lead := testutil.CreateTestLead(t, db, "LEAD-2026-0202", agent.ID)

		_, err := svc.UpdateStatus(ctx, lead.ID, domain.LeadStatus("Open"))
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestLeadServiceReassign(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newLeadService(db)
	capturer := testutil.CreateTestUser(t, db, "capturer", domain.UserRoleAgent)
	other := testutil.CreateTestUser(t, db, "other", domain.UserRoleAgent)
	ctx := context.Background()

	t.Run("moves the assignee and keeps the capturer", func(t *testing.T) {
		lead := testutil.CreateTestLead(t, db, "LEAD-2026-0300", capturer.ID)

		updated, err := svc.Reassign(ctx, lead.ID, other.ID)
		require.NoError(t, err)
		assert.Equal(t, other.ID, updated.AssignedTo)
		assert.Equal(t, capturer.ID, updated.CapturedBy)
	})

	t.Run("rejects an unknown assignee", func(t *testing.T) {
		lead := testutil.CreateTestLead(t, db, "LEAD-2026-0301", capturer.ID)

		_, err := svc.Reassign(ctx, lead.ID, uuid.New())
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("rejects a deactivated assignee", func(t *testing.T) {
		inactive := testutil.CreateTestUser(t, db, "inactive", domain.UserRoleAgent)
		require.NoError(t, db.Model(inactive).Update("active", false).Error)
		lead := testutil.CreateTestLead(t, db, "LEAD-2026-0302", capturer.ID)

		_, err := svc.Reassign(ctx, lead.ID, inactive.ID)
		assert.ErrorIs(t, err, service.ErrAssigneeInactive)
	})
}

func TestLeadServiceAddCallNote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newLeadService(db)
	agent := testutil.CreateTestUser(t, db, "agent1", domain.UserRoleAgent)
	ctx := context.Background()

	lead := testutil.CreateTestLead(t, db, "LEAD-2026-0400", agent.ID)

	first, err := svc.AddCallNote(ctx, lead.ID, "Called, no answer", "agent1")
	require.NoError(t, err)
	require.Len(t, first.CallHistory, 1)
	assert.Equal(t, "Called, no answer", first.CallHistory[0].Note)
	assert.Equal(t, "agent1", first.CallHistory[0].CreatedBy)
	assert.NotEmpty(t, first.CallHistory[0].ID)

	second, err := svc.AddCallNote(ctx, lead.ID, "Reached client, call back Friday", "agent1")
	require.NoError(t, err)
	require.Len(t, second.CallHistory, 2, "notes append, never replace")
	assert.Equal(t, "Called, no answer", second.CallHistory[0].Note)
	assert.Equal(t, "Reached client, call back Friday", second.CallHistory[1].Note)
}

func TestLeadServiceDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newLeadService(db)
	agent := testutil.CreateTestUser(t, db, "agent1", domain.UserRoleAgent)
	ctx := context.Background()

	lead := testutil.CreateTestLead(t, db, "LEAD-2026-0500", agent.ID)

	require.NoError(t, svc.Delete(ctx, lead.ID))

	_, err := svc.GetByID(ctx, lead.ID)
	assert.ErrorIs(t, err, service.ErrLeadNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, lead.ID), service.ErrLeadNotFound)
}

func TestLeadServiceBankDetails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newLeadService(db)
	agent := testutil.CreateTestUser(t, db, "agent1", domain.UserRoleAgent)
	ctx := context.Background()

	t.Run("upsert replaces the existing record", func(t *testing.T) {
		lead := testutil.CreateTestLead(t, db, "LEAD-2026-0600", agent.ID)

		first, err := svc.UpsertBankDetails(ctx, lead.ID, &domain.BankDetailsRequest{
			BankName:      "Capitec",
			AccountNumber: "1234567890",
			BranchCode:    "470010",
			AccountType:   "Savings",
		}, agent.ID)
		require.NoError(t, err)

		second, err := svc.UpsertBankDetails(ctx, lead.ID, &domain.BankDetailsRequest{
			BankName:      "FNB",
			AccountNumber: "9876543210",
			BranchCode:    "250655",
			AccountType:   "Cheque",
		}, agent.ID)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID, "one banking record per lead")
		assert.Equal(t, "FNB", second.BankName)
		assert.Equal(t, domain.AccountTypeCheque, second.AccountType)
	})

	t.Run("unknown lead reports not found", func(t *testing.T) {
		_, err := svc.UpsertBankDetails(ctx, uuid.New(), &domain.BankDetailsRequest{
			BankName:      "Capitec",
			AccountNumber: "1234567890",
			BranchCode:    "470010",
			AccountType:   "Savings",
		}, agent.ID)
		assert.ErrorIs(t, err, service.ErrLeadNotFound)
	})

	t.Run("missing record reports not found", func(t *testing.T) {
		lead := testutil.CreateTestLead(t, db, "LEAD-2026-0601", agent.ID)

		_, err := svc.GetBankDetails(ctx, lead.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}
