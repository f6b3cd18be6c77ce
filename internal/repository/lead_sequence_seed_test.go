package repository

import (
	"testing"

	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExistingLeadCountIgnoresCase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	agent := testutil.CreateTestUser(t, db, "agent1", domain.UserRoleAgent)

	testutil.CreateTestLead(t, db, "LEAD-2026-0001", agent.ID)
	testutil.CreateTestLead(t, db, "lead-2026-0002", agent.ID)
	testutil.CreateTestLead(t, db, "LEAD-2025-0001", agent.ID)

	count, err := existingLeadCount(db, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "lowercase legacy numbers seed the sequence too")
}
