package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

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

func createReportHandler(db *gorm.DB) *handler.ReportHandler {
	logger := zap.NewNop()
	reportService := service.NewReportService(
		repository.NewLeadRepository(db),
		repository.NewUserRepository(db),
		logger,
	)
	exportService := service.NewExportService(nil, logger)
	return handler.NewReportHandler(reportService, exportService, logger)
}

func seedReportData(t *testing.T, db *gorm.DB) {
	t.Helper()
	agent := testutil.CreateTestUser(t, db, "agent1", domain.UserRoleAgent)
	testutil.CreateTestLead(t, db, "LEAD-2026-0001", agent.ID)
	converted := testutil.CreateTestLead(t, db, "LEAD-2026-0002", agent.ID)
	require.NoError(t, db.Model(converted).Update("status", domain.LeadStatusConverted).Error)
}

func TestReportHandlerDashboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createReportHandler(db)
	seedReportData(t, db)

	req := httptest.NewRequest(http.MethodGet, "/reports/dashboard", nil)
	rr := httptest.NewRecorder()

	h.Dashboard(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var dashboard domain.DashboardDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dashboard))
	assert.Equal(t, 2, dashboard.TotalLeads)
	assert.Equal(t, 1, dashboard.ConvertedLeads)
	assert.Equal(t, 1, dashboard.StatusDistribution[domain.LeadStatusNew])
	assert.Equal(t, 0, dashboard.StatusDistribution[domain.LeadStatusLost], "every status appears, counted or not")
}

func TestReportHandlerReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createReportHandler(db)
	seedReportData(t, db)

	t.Run("full report", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/reports", nil)
		rr := httptest.NewRecorder()

		h.Report(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var report domain.ReportDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
		assert.Equal(t, 2, report.TotalLeads)
		assert.Equal(t, 1, report.ConvertedLeads)
		assert.NotEmpty(t, report.GeneratedAt)
		require.NotEmpty(t, report.AgentPerformance)
		assert.Equal(t, "Test agent1", report.AgentPerformance[0].AgentName)

		// both seeded leads want judgement (R 4,500); only the converted one earns
		assert.Equal(t, 4500, report.TotalRevenue)

		require.NotEmpty(t, report.ServiceConversion)
		require.NotEmpty(t, report.SourceAnalysis)
		assert.Equal(t, domain.LeadSourceWalkIn, report.SourceAnalysis[0].Source)
		assert.Equal(t, 2, report.SourceAnalysis[0].TotalLeads)
		assert.Equal(t, 1, report.SourceAnalysis[0].ConvertedLeads)
	})

	t.Run("status filter narrows the report", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/reports?status=Converted", nil)
		rr := httptest.NewRecorder()

		h.Report(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var report domain.ReportDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
		assert.Equal(t, 1, report.TotalLeads)
		assert.Equal(t, "Converted", report.Filters.Status)
	})

	t.Run("the all sentinel is not a filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/reports?status=all&agent=all&service=all", nil)
		rr := httptest.NewRecorder()

		h.Report(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var report domain.ReportDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
		assert.Equal(t, 2, report.TotalLeads)
	})
}

func TestReportHandlerExport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createReportHandler(db)
	seedReportData(t, db)

	req := httptest.NewRequest(http.MethodGet, "/reports/export", nil)
	rr := httptest.NewRecorder()

	h.Export(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "report-")

	var report domain.ReportDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 2, report.TotalLeads)
}
