package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/repository"
	"github.com/iyfinance/leads-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedLead(t *testing.T, db *gorm.DB, number string, agent uuid.UUID, status domain.LeadStatus, created time.Time) *domain.Lead {
	t.Helper()
	lead := testutil.CreateTestLead(t, db, number, agent)
	require.NoError(t, db.Model(lead).Updates(map[string]interface{}{
		"status":     status,
		"created_at": created,
	}).Error)
	lead.Status = status
	return lead
}

func TestLeadRepositoryList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewLeadRepository(db)
	ctx := context.Background()

	agentA := testutil.CreateTestUser(t, db, "agenta", domain.UserRoleAgent)
	agentB := testutil.CreateTestUser(t, db, "agentb", domain.UserRoleAgent)

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	oldest := seedLead(t, db, "LEAD-2026-0001", agentA.ID, domain.LeadStatusNew, base)
	middle := seedLead(t, db, "LEAD-2026-0002", agentB.ID, domain.LeadStatusContacted, base.Add(24*time.Hour))
	newest := seedLead(t, db, "LEAD-2026-0003", agentA.ID, domain.LeadStatusConverted, base.Add(48*time.Hour))

	t.Run("orders newest first", func(t *testing.T) {
		leads, err := repo.List(ctx, repository.LeadFilters{})
		require.NoError(t, err)
		require.Len(t, leads, 3)
		assert.Equal(t, newest.ID, leads[0].ID)
		assert.Equal(t, middle.ID, leads[1].ID)
		assert.Equal(t, oldest.ID, leads[2].ID)
	})

	t.Run("filters by status", func(t *testing.T) {
		leads, err := repo.List(ctx, repository.LeadFilters{Status: "Contacted"})
		require.NoError(t, err)
		require.Len(t, leads, 1)
		assert.Equal(t, middle.ID, leads[0].ID)
	})

	t.Run("filters by assignee", func(t *testing.T) {
		leads, err := repo.List(ctx, repository.LeadFilters{AssignedTo: &agentB.ID})
		require.NoError(t, err)
		require.Len(t, leads, 1)
		assert.Equal(t, middle.ID, leads[0].ID)
	})

	t.Run("filters by capturer", func(t *testing.T) {
		leads, err := repo.List(ctx, repository.LeadFilters{CapturedBy: &agentA.ID})
		require.NoError(t, err)
		assert.Len(t, leads, 2)
	})

	t.Run("search matches names case-insensitively", func(t *testing.T) {
		leads, err := repo.List(ctx, repository.LeadFilters{Search: "thabo"})
		require.NoError(t, err)
		assert.Len(t, leads, 3)
	})

	t.Run("search matches lead numbers", func(t *testing.T) {
		leads, err := repo.List(ctx, repository.LeadFilters{Search: "lead-2026-0002"})
		require.NoError(t, err)
		require.Len(t, leads, 1)
		assert.Equal(t, middle.ID, leads[0].ID)
	})

	t.Run("search with no hits returns empty", func(t *testing.T) {
		leads, err := repo.List(ctx, repository.LeadFilters{Search: "nonexistent"})
		require.NoError(t, err)
		assert.Empty(t, leads)
	})
}

func TestLeadRepositoryUpdateFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewLeadRepository(db)
	ctx := context.Background()

	agent := testutil.CreateTestUser(t, db, "agent1", domain.UserRoleAgent)
	lead := testutil.CreateTestLead(t, db, "LEAD-2026-0010", agent.ID)

	t.Run("writes the given fields", func(t *testing.T) {
		err := repo.UpdateFields(ctx, lead.ID, map[string]interface{}{
			"status":     domain.LeadStatusQualified,
			"updated_at": time.Now(),
		})
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, lead.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.LeadStatusQualified, stored.Status)
	})

	t.Run("missing row reports record not found", func(t *testing.T) {
		err := repo.UpdateFields(ctx, uuid.New(), map[string]interface{}{
			"status":     domain.LeadStatusQualified,
			"updated_at": time.Now(),
		})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestLeadRepositoryListDueFollowUps(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewLeadRepository(db)
	ctx := context.Background()

	agent := testutil.CreateTestUser(t, db, "agent1", domain.UserRoleAgent)
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	setFollowUp := func(lead *domain.Lead, due time.Time, status domain.LeadStatus) {
		require.NoError(t, db.Model(lead).Updates(map[string]interface{}{
			"next_follow_up": due,
			"status":         status,
		}).Error)
	}

	overdue := testutil.CreateTestLead(t, db, "LEAD-2026-0020", agent.ID)
	setFollowUp(overdue, now.Add(-48*time.Hour), domain.LeadStatusContacted)

	future := testutil.CreateTestLead(t, db, "LEAD-2026-0021", agent.ID)
	setFollowUp(future, now.Add(48*time.Hour), domain.LeadStatusNew)

	converted := testutil.CreateTestLead(t, db, "LEAD-2026-0022", agent.ID)
	setFollowUp(converted, now.Add(-24*time.Hour), domain.LeadStatusConverted)

	lost := testutil.CreateTestLead(t, db, "LEAD-2026-0023", agent.ID)
	setFollowUp(lost, now.Add(-24*time.Hour), domain.LeadStatusLost)

	// no follow-up date at all
	testutil.CreateTestLead(t, db, "LEAD-2026-0024", agent.ID)

	due, err := repo.ListDueFollowUps(ctx, now)
	require.NoError(t, err)

	require.Len(t, due, 1, "closed leads, future dates and dateless leads are excluded")
	assert.Equal(t, overdue.ID, due[0].ID)
}

func TestLeadRepositoryCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewLeadRepository(db)
	ctx := context.Background()

	agent := testutil.CreateTestUser(t, db, "agent1", domain.UserRoleAgent)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	testutil.CreateTestLead(t, db, "LEAD-2026-0030", agent.ID)
	testutil.CreateTestLead(t, db, "LEAD-2026-0031", agent.ID)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
