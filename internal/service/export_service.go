package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/storage"
	"go.uber.org/zap"
)

// ExportService renders leads and reports into downloadable files and
// optionally archives a copy to blob storage.
type ExportService struct {
	archive storage.Storage
	logger  *zap.Logger
}

// NewExportService creates a new ExportService. archive may be nil, in
// which case exports are download-only.
func NewExportService(archive storage.Storage, logger *zap.Logger) *ExportService {
	return &ExportService{
		archive: archive,
		logger:  logger,
	}
}

var csvHeader = []string{
	"Lead #", "Client Name", "ID Number", "Cell Number", "Email",
	"Status", "Source", "Services", "Agent", "Created",
}

// LeadsCSV renders leads as CSV. Service IDs resolve to catalog names;
// the Agent column carries the capturing agent, resolved to a username
// where known and falling back to the raw ID.
func (s *ExportService) LeadsCSV(leads []domain.Lead, agentNames map[uuid.UUID]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, lead := range leads {
		agent := lead.CapturedBy.String()
		if name, ok := agentNames[lead.CapturedBy]; ok {
			agent = name
		}

		record := []string{
			lead.LeadNumber,
			lead.FullName,
			lead.IDNumber,
			domain.FormatCellNumber(lead.CellNumber),
			lead.Email,
			string(lead.Status),
			string(lead.Source),
			strings.Join(serviceNames(lead.ServicesInterested), "; "),
			agent,
			lead.CreatedAt.Format("02 Jan 2006"),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReportJSON renders a report as an indented JSON document.
func (s *ExportService) ReportJSON(report *domain.ReportDTO) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// LeadsCSVFilename returns the dated download name for a lead export.
func (s *ExportService) LeadsCSVFilename(now time.Time) string {
	return fmt.Sprintf("leads-export-%s.csv", now.Format("2006-01-02"))
}

// ReportFilename returns the dated download name for a report export.
func (s *ExportService) ReportFilename(now time.Time) string {
	return fmt.Sprintf("report-%s.json", now.Format("2006-01-02"))
}

// Archive stores a copy of an export. Best effort: failures are logged
// and never block the download.
func (s *ExportService) Archive(ctx context.Context, filename, contentType string, data []byte) {
	if s.archive == nil {
		return
	}
	storagePath, size, err := s.archive.Upload(ctx, filename, contentType, bytes.NewReader(data))
	if err != nil {
		s.logger.Warn("failed to archive export",
			zap.String("filename", filename),
			zap.Error(err))
		return
	}
	s.logger.Info("export archived",
		zap.String("filename", filename),
		zap.String("storagePath", storagePath),
		zap.Int64("size", size))
}

func serviceNames(ids []string) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		if svc, ok := domain.ServiceByID(id); ok {
			names[i] = svc.Name
		} else {
			names[i] = id
		}
	}
	return names
}
