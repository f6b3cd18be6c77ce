package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/mapper"
	"github.com/iyfinance/leads-api/internal/service"
	"go.uber.org/zap"
)

// AgentHandler handles agent account management (manager only)
type AgentHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewAgentHandler(userService *service.UserService, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{
		userService: userService,
		logger:      logger,
	}
}

// List godoc
// @Summary List agents
// @Description Get all agent and manager accounts. Pass active=true to list only active agents.
// @Tags Agents
// @Accept json
// @Produce json
// @Param active query bool false "Only active agent accounts, sorted by name" default(false)
// @Success 200 {array} domain.UserDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /agents [get]
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		users []domain.User
		err   error
	)
	if r.URL.Query().Get("active") == "true" {
		users, err = h.userService.ListActiveAgents(r.Context())
	} else {
		users, err = h.userService.List(r.Context())
	}
	if err != nil {
		h.logger.Error("failed to list agents", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list agents",
		})
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToUserDTOs(users))
}

// GetByID godoc
// @Summary Get agent by ID
// @Tags Agents
// @Accept json
// @Produce json
// @Param id path string true "Agent ID" format(uuid)
// @Success 200 {object} domain.UserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id} [get]
func (h *AgentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid agent ID format",
		})
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Agent not found",
			})
			return
		}
		h.logger.Error("failed to get agent", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get agent",
		})
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToUserDTO(user))
}

// Create godoc
// @Summary Create agent
// @Description Create a new agent account (manager only). The role defaults to agent.
// @Tags Agents
// @Accept json
// @Produce json
// @Param request body domain.CreateAgentRequest true "Agent data"
// @Success 201 {object} domain.UserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Username or email already taken"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /agents [post]
func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAgentRequest
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

	user, err := h.userService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUser) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "An account with this username or email already exists",
			})
			return
		}
		h.logger.Error("failed to create agent", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create agent",
		})
		return
	}

	w.Header().Set("Location", "/api/v1/agents/"+user.ID.String())
	respondJSON(w, http.StatusCreated, mapper.ToUserDTO(user))
}

// Update godoc
// @Summary Update agent
// @Description Update an agent account, including activating or deactivating it (manager only)
// @Tags Agents
// @Accept json
// @Produce json
// @Param id path string true "Agent ID" format(uuid)
// @Param request body domain.UpdateAgentRequest true "Fields to update"
// @Success 200 {object} domain.UserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id} [put]
func (h *AgentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid agent ID format",
		})
		return
	}

	var req domain.UpdateAgentRequest
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

	user, err := h.userService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Agent not found",
			})
			return
		}
		h.logger.Error("failed to update agent", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update agent",
		})
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToUserDTO(user))
}
