package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iyfinance/leads-api/internal/auth"
	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/mapper"
	"github.com/iyfinance/leads-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login godoc
// @Summary Log in
// @Description Authenticate with a username or email address plus password and receive a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		// Unknown accounts and wrong passwords both answer 401 so the
		// response does not reveal which usernames exist.
		if errors.Is(err, service.ErrAccountNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid username or password",
			})
			return
		}
		if errors.Is(err, service.ErrAccountInactive) {
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error:   "Unauthorized",
				Message: "This account has been deactivated",
			})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to log in",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.LoginResponse{
		Token: token,
		User:  mapper.ToUserDTO(user),
	})
}

// Register godoc
// @Summary Register a new account
// @Description Create a new agent or manager account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "Account data"
// @Success 201 {object} domain.UserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Username or email already taken"
// @Failure 500 {object} domain.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUser) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "An account with this username or email already exists",
			})
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
			})
			return
		}
		h.logger.Error("registration failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to register account",
		})
		return
	}

	respondJSON(w, http.StatusCreated, mapper.ToUserDTO(user))
}

// Me godoc
// @Summary Get current authenticated user
// @Description Returns the profile of the account behind the bearer token
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Authentication required",
		})
		return
	}

	user, err := h.authService.Profile(r.Context(), userCtx.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrAccountInactive) {
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Account is no longer available",
			})
			return
		}
		h.logger.Error("failed to load profile", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to load profile",
		})
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToUserDTO(user))
}

// Logout godoc
// @Summary Log out
// @Description Ends the session. Tokens are stateless, so the client discards the token; the call always succeeds.
// @Tags Auth
// @Produce json
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		h.logger.Info("user logged out",
			zap.String("user_id", userCtx.UserID.String()),
			zap.String("username", userCtx.Username),
		)
	}

	w.WriteHeader(http.StatusNoContent)
}
