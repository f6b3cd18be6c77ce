package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/iyfinance/leads-api/internal/domain"
)

// ServiceHandler serves the fixed catalog of offered services
type ServiceHandler struct{}

func NewServiceHandler() *ServiceHandler {
	return &ServiceHandler{}
}

// List godoc
// @Summary List offered services
// @Description Get the catalog of services leads can be interested in
// @Tags Services
// @Accept json
// @Produce json
// @Success 200 {array} domain.Service
// @Security BearerAuth
// @Router /services [get]
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, domain.Services)
}

// GetByID godoc
// @Summary Get service by ID
// @Tags Services
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} domain.Service
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /services/{id} [get]
func (h *ServiceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	svc, ok := domain.ServiceByID(chi.URLParam(r, "id"))
	if !ok {
		respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
			Error:   "Not Found",
			Message: "Service not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, svc)
}
