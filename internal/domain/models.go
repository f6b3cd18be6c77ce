package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// BeforeCreate assigns an ID when the database default is unavailable
// (the sqlite test driver has no gen_random_uuid).
func (b *BaseModel) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// LeadStatus represents where a lead sits in the pipeline
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "New"
	LeadStatusContacted LeadStatus = "Contacted"
	LeadStatusQualified LeadStatus = "Qualified"
	LeadStatusConverted LeadStatus = "Converted"
	LeadStatusLost      LeadStatus = "Lost"
)

// AllLeadStatuses lists every status in pipeline order. Status
// distributions are zero-filled from this slice.
var AllLeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusConverted,
	LeadStatusLost,
}

// IsValid checks if the lead status is valid
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

// LeadSource represents how a lead reached the business
type LeadSource string

const (
	LeadSourceWalkIn    LeadSource = "Walk-in"
	LeadSourcePhoneCall LeadSource = "Phone Call"
	LeadSourceReferral  LeadSource = "Referral"
	LeadSourceMarketing LeadSource = "Marketing"
)

// IsValid checks if the lead source is valid
func (s LeadSource) IsValid() bool {
	switch s {
	case LeadSourceWalkIn, LeadSourcePhoneCall, LeadSourceReferral, LeadSourceMarketing:
		return true
	}
	return false
}

// LeadPriority represents the priority of a lead
type LeadPriority string

const (
	LeadPriorityLow    LeadPriority = "Low"
	LeadPriorityMedium LeadPriority = "Medium"
	LeadPriorityHigh   LeadPriority = "High"
)

// IsValid checks if the lead priority is valid
func (p LeadPriority) IsValid() bool {
	switch p {
	case LeadPriorityLow, LeadPriorityMedium, LeadPriorityHigh:
		return true
	}
	return false
}

// UserRole represents the role of a portal account
type UserRole string

const (
	UserRoleAgent   UserRole = "agent"
	UserRoleManager UserRole = "manager"
)

// IsValid checks if the user role is valid
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAgent, UserRoleManager:
		return true
	}
	return false
}

// AccountType represents the type of a bank account
type AccountType string

const (
	AccountTypeSavings      AccountType = "Savings"
	AccountTypeCheque       AccountType = "Cheque"
	AccountTypeTransmission AccountType = "Transmission"
	AccountTypeBusiness     AccountType = "Business"
	AccountTypeOther        AccountType = "Other"
)

// IsValid checks if the account type is valid
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeSavings, AccountTypeCheque, AccountTypeTransmission, AccountTypeBusiness, AccountTypeOther:
		return true
	}
	return false
}

// NotificationType categorizes notifications
type NotificationType string

const (
	NotificationTypeFollowUpDue NotificationType = "follow_up_due"
)

// CallNote is a single entry in a lead's call history
type CallNote struct {
	ID        string    `json:"id"`
	Note      string    `json:"note"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// CallHistory is the append-only list of call notes stored as one jsonb
// document on the lead row. Appends rewrite the whole document.
type CallHistory []CallNote

// Value implements driver.Valuer
func (h CallHistory) Value() (driver.Value, error) {
	if h == nil {
		h = CallHistory{}
	}
	return json.Marshal(h)
}

// Scan implements sql.Scanner
func (h *CallHistory) Scan(value interface{}) error {
	if value == nil {
		*h = CallHistory{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	}
	return fmt.Errorf("unsupported call history column type %T", value)
}

// Lead represents a captured client lead
type Lead struct {
	BaseModel
	LeadNumber         string         `gorm:"type:varchar(20);not null;uniqueIndex;column:lead_number" json:"leadNumber"`
	FullName           string         `gorm:"type:varchar(200);not null;column:full_name" json:"fullName"`
	IDNumber           string         `gorm:"type:varchar(13);not null;index;column:id_number" json:"idNumber"`
	CellNumber         string         `gorm:"type:varchar(15);not null;column:cell_number" json:"cellNumber"`
	Email              string         `gorm:"type:varchar(255);column:email" json:"email,omitempty"`
	ResidentialAddress string         `gorm:"type:text;column:residential_address" json:"residentialAddress"`
	Source             LeadSource     `gorm:"type:varchar(20);not null;column:source" json:"source"`
	ServicesInterested pq.StringArray `gorm:"type:text[];column:services_interested" json:"servicesInterested"`
	Notes              string         `gorm:"type:text;column:notes" json:"notes,omitempty"`
	Status             LeadStatus     `gorm:"type:varchar(20);not null;index;column:status" json:"status"`
	Priority           LeadPriority   `gorm:"type:varchar(10);not null;column:priority" json:"priority"`
	CapturedBy         uuid.UUID      `gorm:"type:uuid;not null;index;column:captured_by" json:"capturedBy"`
	AssignedTo         uuid.UUID      `gorm:"type:uuid;not null;index;column:assigned_to" json:"assignedTo"`
	ConvertedAt        *time.Time     `gorm:"column:converted_at" json:"convertedAt,omitempty"`
	NextFollowUp       *time.Time     `gorm:"column:next_follow_up" json:"nextFollowUp,omitempty"`
	CallHistory        CallHistory    `gorm:"type:jsonb;column:call_history" json:"callHistory"`
}

// TableName specifies the table name
func (Lead) TableName() string {
	return "leads"
}

// User represents a portal account (agent or manager)
type User struct {
	BaseModel
	Username     string   `gorm:"type:varchar(50);not null;uniqueIndex;column:username" json:"username"`
	PasswordHash string   `gorm:"type:varchar(100);not null;column:password_hash" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null;column:role" json:"role"`
	FullName     string   `gorm:"type:varchar(200);not null;column:full_name" json:"fullName"`
	Email        string   `gorm:"type:varchar(255);not null;uniqueIndex;column:email" json:"email"`
	Active       bool     `gorm:"not null;default:true;column:active" json:"active"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// BankDetails holds the banking record captured with a lead. One row per
// lead, written as an upsert keyed on lead_id.
type BankDetails struct {
	BaseModel
	LeadID        uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex;column:lead_id" json:"leadId"`
	BankName      string      `gorm:"type:varchar(100);not null;column:bank_name" json:"bankName"`
	AccountNumber string      `gorm:"type:varchar(20);not null;column:account_number" json:"accountNumber"`
	BranchCode    string      `gorm:"type:varchar(10);not null;column:branch_code" json:"branchCode"`
	AccountType   AccountType `gorm:"type:varchar(20);not null;column:account_type" json:"accountType"`
	CapturedBy    uuid.UUID   `gorm:"type:uuid;not null;column:captured_by" json:"capturedBy"`
}

// TableName specifies the table name
func (BankDetails) TableName() string {
	return "bank_details"
}

// LeadSequence tracks the last issued lead number per year
type LeadSequence struct {
	Year         int       `gorm:"primaryKey;column:year" json:"year"`
	LastSequence int       `gorm:"not null;column:last_sequence" json:"lastSequence"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name
func (LeadSequence) TableName() string {
	return "lead_sequences"
}

// Notification represents an in-app notification for a user
type Notification struct {
	BaseModel
	UserID  uuid.UUID        `gorm:"type:uuid;not null;index;column:user_id" json:"userId"`
	Type    NotificationType `gorm:"type:varchar(50);not null;column:type" json:"type"`
	Title   string           `gorm:"type:varchar(255);not null;column:title" json:"title"`
	Message string           `gorm:"type:text;column:message" json:"message"`
	Read    bool             `gorm:"not null;default:false;index;column:read" json:"read"`
	ReadAt  *time.Time       `gorm:"column:read_at" json:"readAt,omitempty"`
	LeadID  *uuid.UUID       `gorm:"type:uuid;index;column:lead_id" json:"leadId,omitempty"`
}

// TableName specifies the table name
func (Notification) TableName() string {
	return "notifications"
}
