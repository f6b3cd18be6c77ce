package service

import (
	"context"
	"strings"
	"time"

	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/repository"
	"go.uber.org/zap"
)

// ReportService aggregates leads into dashboard metrics and filtered
// reports. Reads degrade to empty aggregates on failure; a broken report
// page beats a dead one.
type ReportService struct {
	leads  *repository.LeadRepository
	users  *repository.UserRepository
	logger *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(leads *repository.LeadRepository, users *repository.UserRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		leads:  leads,
		users:  users,
		logger: logger,
	}
}

// Dashboard returns the manager landing-page metrics.
func (s *ReportService) Dashboard(ctx context.Context) *domain.DashboardDTO {
	leads := s.loadLeads(ctx)

	statusDist := StatusDistribution(leads)
	return &domain.DashboardDTO{
		TotalLeads:          len(leads),
		ConvertedLeads:      statusDist[domain.LeadStatusConverted],
		StatusDistribution:  statusDist,
		ServiceDistribution: ServiceDistribution(leads),
		SourceDistribution:  SourceDistribution(leads),
	}
}

// BuildReport assembles the filtered management report.
func (s *ReportService) BuildReport(ctx context.Context, filter domain.ReportFilter) *domain.ReportDTO {
	leads := FilterLeads(s.loadLeads(ctx), filter, time.Now())

	agents, err := s.users.ListByRole(ctx, domain.UserRoleAgent, true)
	if err != nil {
		s.logger.Error("failed to load agents for report", zap.Error(err))
		agents = nil
	}

	revenue, total := RevenueByService(leads)

	return &domain.ReportDTO{
		GeneratedAt:        time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		Filters:            filter,
		TotalLeads:         len(leads),
		ConvertedLeads:     len(convertedLeads(leads)),
		StatusDistribution: StatusDistribution(leads),
		AgentPerformance:   AgentPerformance(leads, agents),
		ServiceConversion:  ServiceConversion(leads),
		RevenueByService:   revenue,
		TotalRevenue:       total,
		SourceAnalysis:     SourceAnalysis(leads),
	}
}

func (s *ReportService) loadLeads(ctx context.Context) []domain.Lead {
	leads, err := s.leads.List(ctx, repository.LeadFilters{})
	if err != nil {
		s.logger.Error("failed to load leads for reporting", zap.Error(err))
		return nil
	}
	return leads
}

// FilterLeads narrows leads by the report filter. Empty values and the
// literal "all" skip a dimension entirely.
func FilterLeads(leads []domain.Lead, filter domain.ReportFilter, now time.Time) []domain.Lead {
	filtered := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if !matchesDateRange(lead.CreatedAt, filter.DateRange, now) {
			continue
		}
		if !isAll(filter.Agent) && lead.CapturedBy.String() != filter.Agent {
			continue
		}
		if !isAll(filter.Service) && !containsString(lead.ServicesInterested, filter.Service) {
			continue
		}
		if !isAll(filter.Status) && string(lead.Status) != filter.Status {
			continue
		}
		filtered = append(filtered, lead)
	}
	return filtered
}

func isAll(value string) bool {
	return value == "" || strings.EqualFold(value, "all")
}

func matchesDateRange(created time.Time, dateRange string, now time.Time) bool {
	switch dateRange {
	case "today":
		return sameDay(created, now)
	case "week":
		return sameWeek(created, now)
	case "month":
		return created.Year() == now.Year() && created.Month() == now.Month()
	default:
		return true
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// sameWeek checks membership of the calendar week starting Sunday.
func sameWeek(t, now time.Time) bool {
	weekStart := now.AddDate(0, 0, -int(now.Weekday()))
	weekStart = time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, now.Location())
	weekEnd := weekStart.AddDate(0, 0, 7)
	return !t.Before(weekStart) && t.Before(weekEnd)
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// StatusDistribution counts leads per status. Every status appears in the
// result, zero-filled, so charts always render all five buckets.
func StatusDistribution(leads []domain.Lead) map[domain.LeadStatus]int {
	dist := make(map[domain.LeadStatus]int, len(domain.AllLeadStatuses))
	for _, status := range domain.AllLeadStatuses {
		dist[status] = 0
	}
	for _, lead := range leads {
		dist[lead.Status]++
	}
	return dist
}

// ServiceDistribution counts lead interest per service. A lead interested
// in N services contributes to N buckets.
func ServiceDistribution(leads []domain.Lead) map[string]int {
	dist := make(map[string]int)
	for _, lead := range leads {
		for _, serviceID := range lead.ServicesInterested {
			dist[serviceID]++
		}
	}
	return dist
}

// SourceDistribution counts leads per source. Only sources present in the
// data appear.
func SourceDistribution(leads []domain.Lead) map[domain.LeadSource]int {
	dist := make(map[domain.LeadSource]int)
	for _, lead := range leads {
		dist[lead.Source]++
	}
	return dist
}

// AgentPerformance computes per-agent conversion over the leads each
// agent captured. Agents without leads report a zero rate rather than a
// division by zero.
func AgentPerformance(leads []domain.Lead, agents []domain.User) []domain.AgentPerformanceDTO {
	perf := make([]domain.AgentPerformanceDTO, 0, len(agents))
	for _, agent := range agents {
		total := 0
		converted := 0
		for _, lead := range leads {
			if lead.CapturedBy != agent.ID {
				continue
			}
			total++
			if lead.Status == domain.LeadStatusConverted {
				converted++
			}
		}

		rate := 0.0
		if total > 0 {
			rate = float64(converted) / float64(total) * 100
		}

		perf = append(perf, domain.AgentPerformanceDTO{
			AgentID:        agent.ID,
			AgentName:      agent.FullName,
			TotalLeads:     total,
			ConvertedLeads: converted,
			ConversionRate: rate,
		})
	}
	return perf
}

// ServiceConversion computes per-service conversion across the whole
// catalog. A lead interested in N services counts toward each of them.
func ServiceConversion(leads []domain.Lead) []domain.ServiceConversionDTO {
	out := make([]domain.ServiceConversionDTO, 0, len(domain.Services))
	for _, svc := range domain.Services {
		total := 0
		converted := 0
		for _, lead := range leads {
			if !containsString(lead.ServicesInterested, svc.ID) {
				continue
			}
			total++
			if lead.Status == domain.LeadStatusConverted {
				converted++
			}
		}

		rate := 0.0
		if total > 0 {
			rate = float64(converted) / float64(total) * 100
		}

		out = append(out, domain.ServiceConversionDTO{
			ServiceID:      svc.ID,
			ServiceName:    svc.Name,
			TotalLeads:     total,
			ConvertedLeads: converted,
			ConversionRate: rate,
		})
	}
	return out
}

// SourceAnalysis computes per-source totals and conversion, in order of
// first appearance. Sources without leads are absent.
func SourceAnalysis(leads []domain.Lead) []domain.SourceAnalysisDTO {
	order := make([]domain.LeadSource, 0, 4)
	totals := make(map[domain.LeadSource]int)
	converted := make(map[domain.LeadSource]int)
	for _, lead := range leads {
		if _, seen := totals[lead.Source]; !seen {
			order = append(order, lead.Source)
		}
		totals[lead.Source]++
		if lead.Status == domain.LeadStatusConverted {
			converted[lead.Source]++
		}
	}

	out := make([]domain.SourceAnalysisDTO, 0, len(order))
	for _, source := range order {
		total := totals[source]
		out = append(out, domain.SourceAnalysisDTO{
			Source:         source,
			TotalLeads:     total,
			ConvertedLeads: converted[source],
			ConversionRate: float64(converted[source]) / float64(total) * 100,
		})
	}
	return out
}

func convertedLeads(leads []domain.Lead) []domain.Lead {
	out := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.Status == domain.LeadStatusConverted {
			out = append(out, lead)
		}
	}
	return out
}

// RevenueByService sums the catalog price of each service a converted
// lead is interested in; leads that never converted contribute nothing.
// Catalog entries whose cost string has no parsable amount are skipped
// silently.
func RevenueByService(leads []domain.Lead) ([]domain.RevenueItemDTO, int) {
	counts := ServiceDistribution(convertedLeads(leads))

	items := make([]domain.RevenueItemDTO, 0, len(domain.Services))
	total := 0
	for _, svc := range domain.Services {
		count := counts[svc.ID]
		if count == 0 {
			continue
		}
		amount, ok := domain.ParseRandAmount(svc.Cost)
		if !ok {
			continue
		}
		revenue := count * amount
		total += revenue
		items = append(items, domain.RevenueItemDTO{
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			LeadCount:   count,
			Revenue:     revenue,
		})
	}
	return items, total
}
