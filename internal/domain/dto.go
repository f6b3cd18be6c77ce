package domain

import (
	"github.com/google/uuid"
)

// DTOs for API responses. Timestamps are ISO 8601 strings.

type LeadDTO struct {
	ID                 uuid.UUID     `json:"id"`
	LeadNumber         string        `json:"leadNumber"`
	FullName           string        `json:"fullName"`
	IDNumber           string        `json:"idNumber"`
	CellNumber         string        `json:"cellNumber"`
	Email              string        `json:"email,omitempty"`
	ResidentialAddress string        `json:"residentialAddress"`
	Source             LeadSource    `json:"source"`
	ServicesInterested []string      `json:"servicesInterested"`
	Notes              string        `json:"notes,omitempty"`
	Status             LeadStatus    `json:"status"`
	Priority           LeadPriority  `json:"priority"`
	CapturedBy         uuid.UUID     `json:"capturedBy"`
	AssignedTo         uuid.UUID     `json:"assignedTo"`
	ConvertedAt        *string       `json:"convertedAt,omitempty"`
	NextFollowUp       *string       `json:"nextFollowUp,omitempty"`
	CallHistory        []CallNoteDTO `json:"callHistory"`
	CreatedAt          string        `json:"createdAt"`
	UpdatedAt          string        `json:"updatedAt"`
}

type CallNoteDTO struct {
	ID        string `json:"id"`
	Note      string `json:"note"`
	CreatedBy string `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
}

type BankDetailsDTO struct {
	ID            uuid.UUID   `json:"id"`
	LeadID        uuid.UUID   `json:"leadId"`
	BankName      string      `json:"bankName"`
	AccountNumber string      `json:"accountNumber"`
	BranchCode    string      `json:"branchCode"`
	AccountType   AccountType `json:"accountType"`
	CapturedBy    uuid.UUID   `json:"capturedBy"`
	CreatedAt     string      `json:"createdAt"`
	UpdatedAt     string      `json:"updatedAt"`
}

type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Role      UserRole  `json:"role"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

type NotificationDTO struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	ReadAt    *string          `json:"readAt,omitempty"`
	LeadID    *uuid.UUID       `json:"leadId,omitempty"`
	CreatedAt string           `json:"createdAt"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Auth requests and responses

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=255"`
	Password   string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"required,max=200"`
	Role     string `json:"role" validate:"required,oneof=agent manager"`
}

// Lead requests

type BankDetailsRequest struct {
	BankName      string `json:"bankName" validate:"required,max=100"`
	AccountNumber string `json:"accountNumber" validate:"required,min=5,max=20,numeric"`
	BranchCode    string `json:"branchCode" validate:"required,len=6,numeric"`
	AccountType   string `json:"accountType" validate:"required,oneof=Savings Cheque Transmission Business Other"`
}

type CreateLeadRequest struct {
	FullName           string              `json:"fullName" validate:"required,max=200"`
	IDNumber           string              `json:"idNumber" validate:"required,len=13,numeric"`
	CellNumber         string              `json:"cellNumber" validate:"required,max=15"`
	Email              string              `json:"email,omitempty" validate:"omitempty,email"`
	ResidentialAddress string              `json:"residentialAddress" validate:"required,max=500"`
	Source             string              `json:"source" validate:"required,oneof=Walk-in 'Phone Call' Referral Marketing"`
	ServicesInterested []string            `json:"servicesInterested" validate:"required,min=1,dive,required"`
	Notes              string              `json:"notes,omitempty" validate:"max=2000"`
	Priority           string              `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
	AssignedTo         *uuid.UUID          `json:"assignedTo,omitempty"`
	NextFollowUp       *string             `json:"nextFollowUp,omitempty"`
	BankDetails        *BankDetailsRequest `json:"bankDetails,omitempty"`
}

// UpdateLeadRequest carries a partial update; only non-nil fields are
// written. The capturing agent is never updatable.
type UpdateLeadRequest struct {
	FullName           *string   `json:"fullName,omitempty" validate:"omitempty,max=200"`
	IDNumber           *string   `json:"idNumber,omitempty" validate:"omitempty,len=13,numeric"`
	CellNumber         *string   `json:"cellNumber,omitempty" validate:"omitempty,max=15"`
	Email              *string   `json:"email,omitempty" validate:"omitempty,email"`
	ResidentialAddress *string   `json:"residentialAddress,omitempty" validate:"omitempty,max=500"`
	Source             *string   `json:"source,omitempty" validate:"omitempty,oneof=Walk-in 'Phone Call' Referral Marketing"`
	ServicesInterested *[]string `json:"servicesInterested,omitempty" validate:"omitempty,min=1,dive,required"`
	Notes              *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Status             *string   `json:"status,omitempty" validate:"omitempty,oneof=New Contacted Qualified Converted Lost"`
	Priority           *string   `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
	NextFollowUp       *string   `json:"nextFollowUp,omitempty"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=New Contacted Qualified Converted Lost"`
}

type AssignLeadRequest struct {
	AssignedTo uuid.UUID `json:"assignedTo" validate:"required"`
}

type AddCallNoteRequest struct {
	Note string `json:"note" validate:"required,max=2000"`
}

// LeadCaptureResponse is returned from lead capture. BankDetailsSaved is
// false when the lead was stored but its bank details were not.
type LeadCaptureResponse struct {
	Lead             LeadDTO         `json:"lead"`
	BankDetails      *BankDetailsDTO `json:"bankDetails,omitempty"`
	BankDetailsSaved bool            `json:"bankDetailsSaved"`
	Warning          string          `json:"warning,omitempty"`
}

// Agent management requests

type CreateAgentRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"required,max=200"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=agent manager"`
}

type UpdateAgentRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	FullName *string `json:"fullName,omitempty" validate:"omitempty,max=200"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=agent manager"`
	Active   *bool   `json:"active,omitempty"`
}

// Reporting

// ReportFilter narrows a report. The zero value and the literal "all"
// both mean no filtering on that dimension.
type ReportFilter struct {
	DateRange string `json:"dateRange,omitempty"`
	Agent     string `json:"agent,omitempty"`
	Service   string `json:"service,omitempty"`
	Status    string `json:"status,omitempty"`
}

type DashboardDTO struct {
	TotalLeads          int                `json:"totalLeads"`
	ConvertedLeads      int                `json:"convertedLeads"`
	StatusDistribution  map[LeadStatus]int `json:"statusDistribution"`
	ServiceDistribution map[string]int     `json:"serviceDistribution"`
	SourceDistribution  map[LeadSource]int `json:"sourceDistribution"`
}

type AgentPerformanceDTO struct {
	AgentID        uuid.UUID `json:"agentId"`
	AgentName      string    `json:"agentName"`
	TotalLeads     int       `json:"totalLeads"`
	ConvertedLeads int       `json:"convertedLeads"`
	ConversionRate float64   `json:"conversionRate"`
}

type RevenueItemDTO struct {
	ServiceID   string `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	LeadCount   int    `json:"leadCount"`
	Revenue     int    `json:"revenue"`
}

// ServiceConversionDTO reports conversion per catalog service. Every
// catalog service appears, with or without leads.
type ServiceConversionDTO struct {
	ServiceID      string  `json:"serviceId"`
	ServiceName    string  `json:"serviceName"`
	TotalLeads     int     `json:"totalLeads"`
	ConvertedLeads int     `json:"convertedLeads"`
	ConversionRate float64 `json:"conversionRate"`
}

// SourceAnalysisDTO reports conversion per lead source. Only sources
// present in the filtered data appear.
type SourceAnalysisDTO struct {
	Source         LeadSource `json:"source"`
	TotalLeads     int        `json:"totalLeads"`
	ConvertedLeads int        `json:"convertedLeads"`
	ConversionRate float64    `json:"conversionRate"`
}

type ReportDTO struct {
	GeneratedAt        string                 `json:"generatedAt"`
	Filters            ReportFilter           `json:"filters"`
	TotalLeads         int                    `json:"totalLeads"`
	ConvertedLeads     int                    `json:"convertedLeads"`
	StatusDistribution map[LeadStatus]int     `json:"statusDistribution"`
	AgentPerformance   []AgentPerformanceDTO  `json:"agentPerformance"`
	ServiceConversion  []ServiceConversionDTO `json:"serviceConversion"`
	RevenueByService   []RevenueItemDTO       `json:"revenueByService"`
	TotalRevenue       int                    `json:"totalRevenue"`
	SourceAnalysis     []SourceAnalysisDTO    `json:"sourceAnalysis"`
}

type UnreadCountDTO struct {
	Count int64 `json:"count"`
}

// PaginatedResponse wraps paged collections
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
