package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// AuthService handles login, registration and profile lookups.
type AuthService struct {
	users  *repository.UserRepository
	tokens TokenIssuer
	logger *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users *repository.UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Login authenticates by username or email. An identifier containing "@"
// resolves by email, anything else by username. Unknown accounts, bad
// passwords and deactivated accounts are reported as distinct errors.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.User, string, error) {
	var user *domain.User
	var err error

	if strings.Contains(identifier, "@") {
		user, err = s.users.GetByEmail(ctx, identifier)
	} else {
		user, err = s.users.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrAccountNotFound
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login rejected: password mismatch",
			zap.String("username", user.Username))
		return nil, "", ErrInvalidCredentials
	}

	if !user.Active {
		s.logger.Warn("login rejected: account deactivated",
			zap.String("username", user.Username))
		return nil, "", ErrAccountInactive
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user logged in",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	return user, token, nil
}

// Register creates a new account. Duplicate usernames or emails yield
// ErrDuplicateUser; a racing duplicate insert resolves to the same error
// instead of a constraint failure.
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	role := domain.UserRole(req.Role)
	if !role.IsValid() {
		return nil, ErrInvalidInput
	}

	exists, err := s.users.Exists(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         role,
		FullName:     req.FullName,
		Email:        req.Email,
		Active:       true,
	}

	created, err := s.users.CreateIfAbsent(ctx, user)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrDuplicateUser
	}

	s.logger.Info("user registered",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	return user, nil
}

// Profile returns the account behind a token. Deleted and deactivated
// accounts both fail, which kills sessions that outlived their user.
func (s *AuthService) Profile(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrAccountInactive
	}
	return user, nil
}
