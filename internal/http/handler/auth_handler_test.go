package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iyfinance/leads-api/internal/auth"
	"github.com/iyfinance/leads-api/internal/config"
	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/http/handler"
	"github.com/iyfinance/leads-api/internal/repository"
	"github.com/iyfinance/leads-api/internal/service"
	"github.com/iyfinance/leads-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createAuthHandler(db *gorm.DB) *handler.AuthHandler {
	logger := zap.NewNop()
	tokens := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret:       "test-secret",
		TokenTTLMinutes: 60,
		Issuer:          "leads-api-test",
	})
	authService := service.NewAuthService(repository.NewUserRepository(db), tokens, logger)
	return handler.NewAuthHandler(authService, logger)
}

func loginBody(t *testing.T, identifier, password string) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(domain.LoginRequest{Identifier: identifier, Password: password})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestAuthHandlerLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createAuthHandler(db)
	testutil.CreateTestUser(t, db, "sipho", domain.UserRoleAgent)

	t.Run("issues a token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", loginBody(t, "sipho", "password123"))
		rr := httptest.NewRecorder()

		h.Login(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp domain.LoginResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "sipho", resp.User.Username)
	})

	t.Run("wrong password and unknown user answer the same way", func(t *testing.T) {
		for _, creds := range []struct{ identifier, password string }{
			{"sipho", "wrong-password"},
			{"nobody", "password123"},
		} {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", loginBody(t, creds.identifier, creds.password))
			rr := httptest.NewRecorder()

			h.Login(rr, req)

			require.Equal(t, http.StatusUnauthorized, rr.Code)

			var errResp domain.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
			assert.Equal(t, "Invalid username or password", errResp.Message)
		}
	})

	t.Run("a deactivated account cannot log in", func(t *testing.T) {
		dormant := testutil.CreateTestUser(t, db, "dormant", domain.UserRoleAgent)
		require.NoError(t, db.Model(dormant).Update("active", false).Error)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", loginBody(t, "dormant", "password123"))
		rr := httptest.NewRecorder()

		h.Login(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)

		var errResp domain.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
		assert.Equal(t, "This account has been deactivated", errResp.Message)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{"))
		rr := httptest.NewRecorder()

		h.Login(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects missing credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", loginBody(t, "sipho", ""))
		rr := httptest.NewRecorder()

		h.Login(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandlerRegister(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createAuthHandler(db)

	registerBody := func(username string) *bytes.Buffer {
		body, _ := json.Marshal(domain.RegisterRequest{
			Username: username,
			Email:    username + "@iyfinance.co.za",
			Password: "s3cret-password",
			FullName: "New Agent",
			Role:     "agent",
		})
		return bytes.NewBuffer(body)
	}

	t.Run("creates the account", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", registerBody("zanele"))
		rr := httptest.NewRecorder()

		h.Register(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var user domain.UserDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
		assert.Equal(t, "zanele", user.Username)
		assert.True(t, user.Active)
	})

	t.Run("a duplicate username conflicts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", registerBody("zanele"))
		rr := httptest.NewRecorder()

		h.Register(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("rejects an out-of-range role", func(t *testing.T) {
		body, _ := json.Marshal(domain.RegisterRequest{
			Username: "root",
			Email:    "root@iyfinance.co.za",
			Password: "s3cret-password",
			FullName: "Root",
			Role:     "superadmin",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
		rr := httptest.NewRecorder()

		h.Register(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects a short password", func(t *testing.T) {
		body, _ := json.Marshal(domain.RegisterRequest{
			Username: "shortpw",
			Email:    "shortpw@iyfinance.co.za",
			Password: "short",
			FullName: "Short Password",
			Role:     "agent",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
		rr := httptest.NewRecorder()

		h.Register(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandlerMe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createAuthHandler(db)
	agent := testutil.CreateTestUser(t, db, "sipho", domain.UserRoleAgent)

	t.Run("returns the profile", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil).WithContext(agentContext(agent))
		rr := httptest.NewRecorder()

		h.Me(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var user domain.UserDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
		assert.Equal(t, agent.ID, user.ID)
	})

	t.Run("no auth context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		rr := httptest.NewRecorder()

		h.Me(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("a deactivated account is no longer available", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil).WithContext(agentContext(agent))
		require.NoError(t, db.Model(agent).Update("active", false).Error)
		t.Cleanup(func() {
			require.NoError(t, db.Model(agent).Update("active", true).Error)
		})

		rr := httptest.NewRecorder()
		h.Me(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)

		var errResp domain.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
		assert.Equal(t, "Account is no longer available", errResp.Message)
	})
}

func TestAuthHandlerLogout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createAuthHandler(db)
	agent := testutil.CreateTestUser(t, db, "sipho", domain.UserRoleAgent)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil).WithContext(agentContext(agent))
	rr := httptest.NewRecorder()

	h.Logout(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}
