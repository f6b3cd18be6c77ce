package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/auth"
	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/mapper"
	"github.com/iyfinance/leads-api/internal/repository"
	"github.com/iyfinance/leads-api/internal/service"
	"go.uber.org/zap"
)

type LeadHandler struct {
	leadService   *service.LeadService
	userService   *service.UserService
	exportService *service.ExportService
	logger        *zap.Logger
}

func NewLeadHandler(
	leadService *service.LeadService,
	userService *service.UserService,
	exportService *service.ExportService,
	logger *zap.Logger,
) *LeadHandler {
	return &LeadHandler{
		leadService:   leadService,
		userService:   userService,
		exportService: exportService,
		logger:        logger,
	}
}

// buildFilters reads the list/export query parameters. The literal "all"
// is accepted as a no-filter sentinel alongside the empty string.
func buildFilters(r *http.Request) (repository.LeadFilters, error) {
	filters := repository.LeadFilters{
		Search: r.URL.Query().Get("search"),
	}

	if status := r.URL.Query().Get("status"); status != "" && status != "all" {
		filters.Status = status
	}
	if source := r.URL.Query().Get("source"); source != "" && source != "all" {
		filters.Source = source
	}
	if assignedTo := r.URL.Query().Get("assignedTo"); assignedTo != "" && assignedTo != "all" {
		id, err := uuid.Parse(assignedTo)
		if err != nil {
			return filters, errors.New("invalid assignedTo filter")
		}
		filters.AssignedTo = &id
	}
	if capturedBy := r.URL.Query().Get("capturedBy"); capturedBy != "" && capturedBy != "all" {
		id, err := uuid.Parse(capturedBy)
		if err != nil {
			return filters, errors.New("invalid capturedBy filter")
		}
		filters.CapturedBy = &id
	}

	return filters, nil
}

// List godoc
// @Summary List leads
// @Description Get all leads, newest first, with optional filters
// @Tags Leads
// @Accept json
// @Produce json
// @Param status query string false "Filter by status" Enums(New, Contacted, Qualified, Converted, Lost)
// @Param source query string false "Filter by source" Enums(Walk-in, Phone Call, Referral, Marketing)
// @Param assignedTo query string false "Filter by assigned agent ID" format(uuid)
// @Param capturedBy query string false "Filter by capturing agent ID" format(uuid)
// @Param search query string false "Search by name, lead number, ID number or cell number"
// @Success 200 {array} domain.LeadDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads [get]
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := buildFilters(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
		})
		return
	}

	leads, err := h.leadService.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list leads", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list leads",
		})
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToLeadDTOs(leads))
}

// GetByID godoc
// @Summary Get lead by ID
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID" format(uuid)
// @Success 200 {object} domain.LeadDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id} [get]
func (h *LeadHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid lead ID format",
		})
		return
	}

	lead, err := h.leadService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Lead not found",
			})
			return
		}
		h.logger.Error("failed to get lead", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get lead",
		})
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToLeadDTO(lead))
}

// Create godoc
// @Summary Capture a new lead
// @Description Capture a lead with client and service details. Bank details may be included; if they fail to save the lead is still created and the response carries a warning.
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body domain.CreateLeadRequest true "Lead data"
// @Success 201 {object} domain.LeadCaptureResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads [post]
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.CreateLeadRequest
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

	result, err := h.leadService.Capture(r.Context(), &req, userCtx.UserID)
	if err != nil {
		if status, message, ok := leadInputError(err); ok {
			respondJSON(w, status, domain.ErrorResponse{
				Error:   http.StatusText(status),
				Message: message,
			})
			return
		}
		h.logger.Error("failed to capture lead", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to capture lead",
		})
		return
	}

	response := domain.LeadCaptureResponse{
		Lead:             mapper.ToLeadDTO(result.Lead),
		BankDetailsSaved: result.BankDetailsSaved,
		Warning:          result.Warning,
	}
	if result.BankDetails != nil {
		dto := mapper.ToBankDetailsDTO(result.BankDetails)
		response.BankDetails = &dto
	}

	w.Header().Set("Location", "/api/v1/leads/"+result.Lead.ID.String())
	respondJSON(w, http.StatusCreated, response)
}

// Update godoc
// @Summary Update lead
// @Description Partially update a lead. The capturing agent cannot be changed.
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID" format(uuid)
// @Param request body domain.UpdateLeadRequest true "Fields to update"
// @Success 200 {object} domain.LeadDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id} [put]
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid lead ID format",
		})
		return
	}

	var req domain.UpdateLeadRequest
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

	lead, err := h.leadService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Lead not found",
			})
			return
		}
		if status, message, ok := leadInputError(err); ok {
			respondJSON(w, status, domain.ErrorResponse{
				Error:   http.StatusText(status),
				Message: message,
			})
			return
		}
		h.logger.Error("failed to update lead", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update lead",
		})
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToLeadDTO(lead))
}

// UpdateStatus godoc
// @Summary Update lead status
// @Description Move a lead to a new status. Each move into Converted stamps the conversion time; leaving Converted does not clear it.
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID" format(uuid)
// @Param request body domain.UpdateLeadStatusRequest true "New status"
// @Success 200 {object} domain.LeadDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id}/status [put]
func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid lead ID format",
		})
		return
	}

	var req domain.UpdateLeadStatusRequest
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

	lead, err := h.leadService.UpdateStatus(r.Context(), id, domain.LeadStatus(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Lead not found",
			})
			return
		}
		h.logger.Error("failed to update lead status", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update lead status",
		})
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToLeadDTO(lead))
}

// Assign godoc
// @Summary Reassign lead
// @Description Assign a lead to a different active agent (manager only)
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID" format(uuid)
// @Param request body domain.AssignLeadRequest true "New assignee"
// @Success 200 {object} domain.LeadDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 422 {object} domain.ErrorResponse "Assignee is deactivated"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id}/assign [put]
func (h *LeadHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid lead ID format",
		})
		return
	}

	var req domain.AssignLeadRequest
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

	lead, err := h.leadService.Reassign(r.Context(), id, req.AssignedTo)
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Lead not found",
			})
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Assignee not found",
			})
			return
		}
		if errors.Is(err, service.ErrAssigneeInactive) {
			respondJSON(w, http.StatusUnprocessableEntity, domain.ErrorResponse{
				Error:   "Unprocessable Entity",
				Message: "Cannot assign a lead to a deactivated agent",
			})
			return
		}
		h.logger.Error("failed to reassign lead", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to reassign lead",
		})
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToLeadDTO(lead))
}

// AddNote godoc
// @Summary Add call note
// @Description Append a note to the lead's call history. Notes are append-only.
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID" format(uuid)
// @Param request body domain.AddCallNoteRequest true "Call note"
// @Success 200 {object} domain.LeadDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id}/notes [post]
func (h *LeadHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid lead ID format",
		})
		return
	}

	var req domain.AddCallNoteRequest
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

	lead, err := h.leadService.AddCallNote(r.Context(), id, req.Note, userCtx.Username)
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Lead not found",
			})
			return
		}
		h.logger.Error("failed to add call note", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to add call note",
		})
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToLeadDTO(lead))
}

// Delete godoc
// @Summary Delete lead
// @Description Delete a lead and its bank details (manager only)
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id} [delete]
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid lead ID format",
		})
		return
	}

	if err := h.leadService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Lead not found",
			})
			return
		}
		h.logger.Error("failed to delete lead", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete lead",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetBankDetails godoc
// @Summary Get bank details for a lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID" format(uuid)
// @Success 200 {object} domain.BankDetailsDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id}/bank-details [get]
func (h *LeadHandler) GetBankDetails(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid lead ID format",
		})
		return
	}

	details, err := h.leadService.GetBankDetails(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "No bank details on record for this lead",
			})
			return
		}
		h.logger.Error("failed to get bank details", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get bank details",
		})
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToBankDetailsDTO(details))
}

// UpsertBankDetails godoc
// @Summary Save bank details for a lead
// @Description Create or replace the bank details attached to a lead. Each lead holds at most one set.
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID" format(uuid)
// @Param request body domain.BankDetailsRequest true "Bank details"
// @Success 200 {object} domain.BankDetailsDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id}/bank-details [put]
func (h *LeadHandler) UpsertBankDetails(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid lead ID format",
		})
		return
	}

	var req domain.BankDetailsRequest
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

	details, err := h.leadService.UpsertBankDetails(r.Context(), id, &req, userCtx.UserID)
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Lead not found",
			})
			return
		}
		if status, message, ok := leadInputError(err); ok {
			respondJSON(w, status, domain.ErrorResponse{
				Error:   http.StatusText(status),
				Message: message,
			})
			return
		}
		h.logger.Error("failed to save bank details", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to save bank details",
		})
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToBankDetailsDTO(details))
}

// Export godoc
// @Summary Export leads to CSV
// @Description Download the filtered lead list as a CSV file (manager only)
// @Tags Leads
// @Produce text/csv
// @Param status query string false "Filter by status"
// @Param source query string false "Filter by source"
// @Param assignedTo query string false "Filter by assigned agent ID" format(uuid)
// @Param search query string false "Search by name, lead number, ID number or cell number"
// @Success 200 {string} string "CSV content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/export [get]
func (h *LeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	filters, err := buildFilters(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
		})
		return
	}

	leads, err := h.leadService.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to load leads for export", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to export leads",
		})
		return
	}

	agentNames, err := h.userService.DisplayNames(r.Context())
	if err != nil {
		// Export still works; agent columns fall back to raw IDs.
		h.logger.Warn("failed to resolve agent names for export", zap.Error(err))
		agentNames = nil
	}

	data, err := h.exportService.LeadsCSV(leads, agentNames)
	if err != nil {
		h.logger.Error("failed to build CSV export", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to export leads",
		})
		return
	}

	filename := h.exportService.LeadsCSVFilename(time.Now().UTC())
	h.exportService.Archive(r.Context(), filename, "text/csv", data)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// leadInputError maps lead validation failures to a status and message.
func leadInputError(err error) (int, string, bool) {
	switch {
	case errors.Is(err, service.ErrInvalidIDNumber):
		return http.StatusBadRequest, "ID number is not a valid South African ID number", true
	case errors.Is(err, service.ErrInvalidCellNumber):
		return http.StatusBadRequest, "Cell number must be 10 digits starting with 0", true
	case errors.Is(err, service.ErrUnknownService):
		return http.StatusBadRequest, "One or more selected services are not offered", true
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusBadRequest, "Assigned agent does not exist", true
	case errors.Is(err, service.ErrAssigneeInactive):
		return http.StatusUnprocessableEntity, "Cannot assign a lead to a deactivated agent", true
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, err.Error(), true
	}
	return 0, "", false
}
