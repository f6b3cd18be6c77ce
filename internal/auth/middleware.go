package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/domain"
	"go.uber.org/zap"
)

// UserSource loads accounts for per-request verification.
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens *TokenManager
	users  UserSource
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens *TokenManager, users UserSource, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// Authenticate is the main authentication middleware. The account behind
// the token is re-read on every request, so deleted and deactivated
// accounts lose access immediately regardless of token expiry.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.Validate(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		userID, err := claims.SubjectID()
		if err != nil {
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			m.logger.Warn("token rejected: account not found",
				zap.String("user_id", userID.String()),
				zap.String("path", r.URL.Path),
			)
			http.Error(w, "Unauthorized: account no longer exists", http.StatusUnauthorized)
			return
		}
		if !user.Active {
			m.logger.Warn("token rejected: account deactivated",
				zap.String("user_id", userID.String()),
				zap.String("username", user.Username),
			)
			http.Error(w, "Unauthorized: account is deactivated", http.StatusUnauthorized)
			return
		}

		userCtx := &UserContext{
			UserID:   user.ID,
			Username: user.Username,
			FullName: user.FullName,
			Role:     user.Role,
		}

		m.logger.Debug("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("user_id", userCtx.UserID.String()),
			zap.String("username", userCtx.Username),
			zap.String("role", string(userCtx.Role)),
			zap.Duration("auth_duration", time.Since(start)),
		)

		ctx := WithUserContext(r.Context(), userCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireManager middleware ensures the user holds the manager role
func (m *Middleware) RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := FromContext(r.Context())
		if !ok {
			http.Error(w, "Forbidden: no user context", http.StatusForbidden)
			return
		}

		if !userCtx.IsManager() {
			http.Error(w, "Forbidden: manager access required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
