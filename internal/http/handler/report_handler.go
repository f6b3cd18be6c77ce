package handler

import (
	"net/http"
	"time"

	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/service"
	"go.uber.org/zap"
)

// ReportHandler serves dashboard aggregates and management reports
type ReportHandler struct {
	reportService *service.ReportService
	exportService *service.ExportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, exportService *service.ExportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
		logger:        logger,
	}
}

// reportFilter reads the report query parameters. Absent values stay
// empty, which the report service treats the same as "all".
func reportFilter(r *http.Request) domain.ReportFilter {
	return domain.ReportFilter{
		DateRange: r.URL.Query().Get("dateRange"),
		Agent:     r.URL.Query().Get("agent"),
		Service:   r.URL.Query().Get("service"),
		Status:    r.URL.Query().Get("status"),
	}
}

// Dashboard godoc
// @Summary Dashboard aggregates
// @Description Get lead totals and status, service and source distributions across all leads
// @Tags Reports
// @Accept json
// @Produce json
// @Success 200 {object} domain.DashboardDTO
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.reportService.Dashboard(r.Context()))
}

// Report godoc
// @Summary Build management report
// @Description Build a filtered report with status distribution, agent performance, revenue by service and source analysis (manager only)
// @Tags Reports
// @Accept json
// @Produce json
// @Param dateRange query string false "Date range" Enums(all, today, week, month)
// @Param agent query string false "Agent ID or 'all'"
// @Param service query string false "Service ID or 'all'"
// @Param status query string false "Lead status or 'all'"
// @Success 200 {object} domain.ReportDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reports [get]
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	report := h.reportService.BuildReport(r.Context(), reportFilter(r))
	respondJSON(w, http.StatusOK, report)
}

// Export godoc
// @Summary Export report to JSON
// @Description Download the filtered report as a JSON file (manager only)
// @Tags Reports
// @Produce json
// @Param dateRange query string false "Date range" Enums(all, today, week, month)
// @Param agent query string false "Agent ID or 'all'"
// @Param service query string false "Service ID or 'all'"
// @Param status query string false "Lead status or 'all'"
// @Success 200 {object} domain.ReportDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reports/export [get]
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	report := h.reportService.BuildReport(r.Context(), reportFilter(r))

	data, err := h.exportService.ReportJSON(report)
	if err != nil {
		h.logger.Error("failed to build report export", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to export report",
		})
		return
	}

	filename := h.exportService.ReportFilename(time.Now().UTC())
	h.exportService.Archive(r.Context(), filename, "application/json", data)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
