package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/repository"
	"github.com/iyfinance/leads-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepositoryExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	testutil.CreateTestUser(t, db, "existing", domain.UserRoleAgent)

	t.Run("matches on username", func(t *testing.T) {
		exists, err := repo.Exists(ctx, "existing", "other@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("matches on email", func(t *testing.T) {
		exists, err := repo.Exists(ctx, "someoneelse", "existing@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("no match", func(t *testing.T) {
		exists, err := repo.Exists(ctx, "fresh", "fresh@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestUserRepositoryCreateIfAbsent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	newUser := func(username string) *domain.User {
		return &domain.User{
			Username:     username,
			PasswordHash: "hash",
			Role:         domain.UserRoleAgent,
			FullName:     "Test " + username,
			Email:        username + "@example.com",
			Active:       true,
		}
	}

	t.Run("inserts a new account", func(t *testing.T) {
		created, err := repo.CreateIfAbsent(ctx, newUser("race1"))
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("a duplicate username reports no insert", func(t *testing.T) {
		dup := newUser("race1")
		dup.Email = "race1-second@example.com"

		created, err := repo.CreateIfAbsent(ctx, dup)
		require.NoError(t, err, "conflicts resolve silently, not as constraint errors")
		assert.False(t, created)

		var count int64
		require.NoError(t, db.Model(&domain.User{}).Where("username = ?", "race1").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestUserRepositoryListByRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	agent := testutil.CreateTestUser(t, db, "zanele", domain.UserRoleAgent)
	inactive := testutil.CreateTestUser(t, db, "andile", domain.UserRoleAgent)
	require.NoError(t, db.Model(inactive).Update("active", false).Error)
	testutil.CreateTestUser(t, db, "boss", domain.UserRoleManager)

	t.Run("activeOnly skips deactivated accounts", func(t *testing.T) {
		users, err := repo.ListByRole(ctx, domain.UserRoleAgent, true)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, agent.ID, users[0].ID)
	})

	t.Run("without activeOnly both appear, ordered by name", func(t *testing.T) {
		users, err := repo.ListByRole(ctx, domain.UserRoleAgent, false)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "Test andile", users[0].FullName)
		assert.Equal(t, "Test zanele", users[1].FullName)
	})
}

func TestUserRepositoryUpdateFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, "target", domain.UserRoleAgent)

	t.Run("updates the row", func(t *testing.T) {
		require.NoError(t, repo.UpdateFields(ctx, user.ID, map[string]interface{}{"full_name": "Renamed"}))

		stored, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", stored.FullName)
	})

	t.Run("missing row reports record not found", func(t *testing.T) {
		err := repo.UpdateFields(ctx, uuid.New(), map[string]interface{}{"full_name": "x"})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
