package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/auth"
	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/repository"
	"github.com/iyfinance/leads-api/internal/service"
	"github.com/iyfinance/leads-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newNotificationService(db *gorm.DB) *service.NotificationService {
	return service.NewNotificationService(repository.NewNotificationRepository(db), zap.NewNop())
}

func userContext(userID uuid.UUID) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:   userID,
		Username: "agent1",
		Role:     domain.UserRoleAgent,
	})
}

func TestNotificationServiceCreateFollowUpReminder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newNotificationService(db)
	agent := testutil.CreateTestUser(t, db, "agent1", domain.UserRoleAgent)
	lead := testutil.CreateTestLead(t, db, "LEAD-2026-0700", agent.ID)
	ctx := context.Background()

	t.Run("creates a reminder for the agent", func(t *testing.T) {
		require.NoError(t, svc.CreateFollowUpReminder(ctx, agent.ID, lead))

		var notifications []domain.Notification
		require.NoError(t, db.Where("user_id = ?", agent.ID).Find(&notifications).Error)
		require.Len(t, notifications, 1)

		n := notifications[0]
		assert.Equal(t, domain.NotificationTypeFollowUpDue, n.Type)
		assert.Contains(t, n.Title, "LEAD-2026-0700")
		assert.Contains(t, n.Message, lead.FullName)
		assert.False(t, n.Read)
		require.NotNil(t, n.LeadID)
		assert.Equal(t, lead.ID, *n.LeadID)
	})

	t.Run("an unread reminder suppresses duplicates", func(t *testing.T) {
		require.NoError(t, svc.CreateFollowUpReminder(ctx, agent.ID, lead))

		var count int64
		require.NoError(t, db.Model(&domain.Notification{}).Where("user_id = ?", agent.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("a read reminder allows a new one", func(t *testing.T) {
		require.NoError(t, db.Model(&domain.Notification{}).
			Where("user_id = ?", agent.ID).
			Updates(map[string]interface{}{"read": true}).Error)

		require.NoError(t, svc.CreateFollowUpReminder(ctx, agent.ID, lead))

		var count int64
		require.NoError(t, db.Model(&domain.Notification{}).Where("user_id = ?", agent.ID).Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})
}

func TestNotificationServiceGetForCurrentUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newNotificationService(db)
	userID := uuid.New()
	ctx := userContext(userID)

	for i := 0; i < 5; i++ {
		n := &domain.Notification{
			UserID:  userID,
			Type:    domain.NotificationTypeFollowUpDue,
			Title:   "Follow-up due",
			Message: "Reminder",
			Read:    i%2 == 0,
		}
		require.NoError(t, db.Create(n).Error)
	}

	t.Run("pages the list", func(t *testing.T) {
		result, err := svc.GetForCurrentUser(ctx, 1, 2, false)
		require.NoError(t, err)
		assert.Equal(t, int64(5), result.Total)
		assert.Equal(t, 2, result.PageSize)
		assert.Equal(t, 3, result.TotalPages)
	})

	t.Run("clamps nonsense paging values", func(t *testing.T) {
		result, err := svc.GetForCurrentUser(ctx, 0, -1, false)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, 20, result.PageSize)
	})

	t.Run("unreadOnly narrows the list", func(t *testing.T) {
		result, err := svc.GetForCurrentUser(ctx, 1, 20, true)
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Total)
	})

	t.Run("requires a user context", func(t *testing.T) {
		_, err := svc.GetForCurrentUser(context.Background(), 1, 20, false)
		assert.ErrorIs(t, err, service.ErrUserContextRequired)
	})
}

func TestNotificationServiceMarkAsRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newNotificationService(db)
	userID := uuid.New()
	ctx := userContext(userID)

	create := func(owner uuid.UUID) *domain.Notification {
		n := &domain.Notification{
			UserID:  owner,
			Type:    domain.NotificationTypeFollowUpDue,
			Title:   "Follow-up due",
			Message: "Reminder",
		}
		require.NoError(t, db.Create(n).Error)
		return n
	}

	t.Run("marks and stamps read time", func(t *testing.T) {
		n := create(userID)

		require.NoError(t, svc.MarkAsRead(ctx, n.ID))

		var stored domain.Notification
		require.NoError(t, db.First(&stored, "id = ?", n.ID).Error)
		assert.True(t, stored.Read)
		assert.NotNil(t, stored.ReadAt)
	})

	t.Run("marking twice is a no-op", func(t *testing.T) {
		n := create(userID)
		require.NoError(t, svc.MarkAsRead(ctx, n.ID))
		require.NoError(t, svc.MarkAsRead(ctx, n.ID))
	})

	t.Run("rejects another user's notification", func(t *testing.T) {
		n := create(uuid.New())
		assert.ErrorIs(t, svc.MarkAsRead(ctx, n.ID), service.ErrNotificationNotOwned)
	})

	t.Run("unknown notification", func(t *testing.T) {
		assert.ErrorIs(t, svc.MarkAsRead(ctx, uuid.New()), service.ErrNotificationNotFound)
	})
}

func TestNotificationServiceMarkAllAndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newNotificationService(db)
	userID := uuid.New()
	other := uuid.New()
	ctx := userContext(userID)

	for _, owner := range []uuid.UUID{userID, userID, other} {
		n := &domain.Notification{
			UserID:  owner,
			Type:    domain.NotificationTypeFollowUpDue,
			Title:   "Follow-up due",
			Message: "Reminder",
		}
		require.NoError(t, db.Create(n).Error)
	}

	count, err := svc.GetUnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count.Count)

	require.NoError(t, svc.MarkAllAsReadForUser(ctx))

	count, err = svc.GetUnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count.Count)

	// the other user's notifications are untouched
	var unreadOther int64
	require.NoError(t, db.Model(&domain.Notification{}).
		Where("user_id = ? AND read = ?", other, false).
		Count(&unreadOther).Error)
	assert.Equal(t, int64(1), unreadOther)
}
