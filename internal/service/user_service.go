package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService manages the agent roster for managers.
type UserService struct {
	users  *repository.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users *repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// List returns every account, active and deactivated.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// ListActiveAgents returns active agent accounts, used for reassignment
// pickers and report denominators.
func (s *UserService) ListActiveAgents(ctx context.Context) ([]domain.User, error) {
	return s.users.ListByRole(ctx, domain.UserRoleAgent, true)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Create adds an account to the roster with a temporary password the
// manager hands over out of band.
func (s *UserService) Create(ctx context.Context, req *domain.CreateAgentRequest) (*domain.User, error) {
	role := domain.UserRoleAgent
	if req.Role != "" {
		role = domain.UserRole(req.Role)
		if !role.IsValid() {
			return nil, ErrInvalidInput
		}
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

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("agent account created",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	return user, nil
}

// Update applies a partial update to an account. Deactivation takes
// effect on the target's next request.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateAgentRequest) (*domain.User, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Role != nil {
		role := domain.UserRole(*req.Role)
		if !role.IsValid() {
			return nil, ErrInvalidInput
		}
		updates["role"] = role
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := s.users.UpdateFields(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

// DisplayNames resolves user IDs to usernames for presentation. Unknown
// IDs fall back to the raw UUID string.
func (s *UserService) DisplayNames(ctx context.Context) (map[uuid.UUID]string, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names, nil
}
