package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/auth"
	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubUserSource struct {
	users map[uuid.UUID]*domain.User
}

func (s *stubUserSource) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return user, nil
}

func newMiddleware(users ...*domain.User) *auth.Middleware {
	source := &stubUserSource{users: make(map[uuid.UUID]*domain.User)}
	for _, user := range users {
		source.users[user.ID] = user
	}
	return auth.NewMiddleware(newTokenManager(60), source, zap.NewNop())
}

// echoUser writes the authenticated username, proving the context was set.
func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx := auth.MustFromContext(r.Context())
		_, _ = w.Write([]byte(userCtx.Username))
	})
}

func TestMiddlewareAuthenticate(t *testing.T) {
	activeUser := func() *domain.User {
		user := testUser()
		user.Active = true
		return user
	}

	t.Run("passes a valid bearer token through", func(t *testing.T) {
		user := activeUser()
		m := newMiddleware(user)
		token, err := newTokenManager(60).Issue(user)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/leads", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		m.Authenticate(echoUser()).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "sipho", rr.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		m := newMiddleware()

		req := httptest.NewRequest(http.MethodGet, "/leads", nil)
		rr := httptest.NewRecorder()

		m.Authenticate(echoUser()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		m := newMiddleware()

		req := httptest.NewRequest(http.MethodGet, "/leads", nil)
		req.Header.Set("Authorization", "Token abc")
		rr := httptest.NewRecorder()

		m.Authenticate(echoUser()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		m := newMiddleware()

		req := httptest.NewRequest(http.MethodGet, "/leads", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rr := httptest.NewRecorder()

		m.Authenticate(echoUser()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("a deleted account loses access before token expiry", func(t *testing.T) {
		user := activeUser()
		m := newMiddleware() // the account is not in the source
		token, err := newTokenManager(60).Issue(user)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/leads", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		m.Authenticate(echoUser()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("a deactivated account loses access before token expiry", func(t *testing.T) {
		user := activeUser()
		user.Active = false
		m := newMiddleware(user)
		token, err := newTokenManager(60).Issue(user)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/leads", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		m.Authenticate(echoUser()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestMiddlewareRequireManager(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	contextFor := func(role domain.UserRole) context.Context {
		return auth.WithUserContext(context.Background(), &auth.UserContext{
			UserID:   uuid.New(),
			Username: "someone",
			Role:     role,
		})
	}

	t.Run("managers pass", func(t *testing.T) {
		m := newMiddleware()

		req := httptest.NewRequest(http.MethodGet, "/agents", nil).
			WithContext(contextFor(domain.UserRoleManager))
		rr := httptest.NewRecorder()

		m.RequireManager(ok).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("agents are forbidden", func(t *testing.T) {
		m := newMiddleware()

		req := httptest.NewRequest(http.MethodGet, "/agents", nil).
			WithContext(contextFor(domain.UserRoleAgent))
		rr := httptest.NewRecorder()

		m.RequireManager(ok).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("no user context is forbidden", func(t *testing.T) {
		m := newMiddleware()

		req := httptest.NewRequest(http.MethodGet, "/agents", nil)
		rr := httptest.NewRecorder()

		m.RequireManager(ok).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
