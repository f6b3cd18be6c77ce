package mapper

import (
	"time"

	"github.com/iyfinance/leads-api/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(timestampLayout)
	return &s
}

// ToLeadDTO converts Lead to LeadDTO
func ToLeadDTO(lead *domain.Lead) domain.LeadDTO {
	return domain.LeadDTO{
		ID:                 lead.ID,
		LeadNumber:         lead.LeadNumber,
		FullName:           lead.FullName,
		IDNumber:           lead.IDNumber,
		CellNumber:         lead.CellNumber,
		Email:              lead.Email,
		ResidentialAddress: lead.ResidentialAddress,
		Source:             lead.Source,
		ServicesInterested: []string(lead.ServicesInterested),
		Notes:              lead.Notes,
		Status:             lead.Status,
		Priority:           lead.Priority,
		CapturedBy:         lead.CapturedBy,
		AssignedTo:         lead.AssignedTo,
		ConvertedAt:        formatOptional(lead.ConvertedAt),
		NextFollowUp:       formatOptional(lead.NextFollowUp),
		CallHistory:        ToCallNoteDTOs(lead.CallHistory),
		CreatedAt:          lead.CreatedAt.Format(timestampLayout),
		UpdatedAt:          lead.UpdatedAt.Format(timestampLayout),
	}
}

// ToLeadDTOs converts a slice of Leads to LeadDTOs
func ToLeadDTOs(leads []domain.Lead) []domain.LeadDTO {
	dtos := make([]domain.LeadDTO, len(leads))
	for i := range leads {
		dtos[i] = ToLeadDTO(&leads[i])
	}
	return dtos
}

// ToCallNoteDTOs converts a call history to DTOs. A nil history maps to an
// empty slice so the JSON field is always an array.
func ToCallNoteDTOs(history domain.CallHistory) []domain.CallNoteDTO {
	dtos := make([]domain.CallNoteDTO, len(history))
	for i, note := range history {
		dtos[i] = domain.CallNoteDTO{
			ID:        note.ID,
			Note:      note.Note,
			CreatedBy: note.CreatedBy,
			CreatedAt: note.CreatedAt.UTC().Format(timestampLayout),
		}
	}
	return dtos
}

// ToBankDetailsDTO converts BankDetails to BankDetailsDTO
func ToBankDetailsDTO(details *domain.BankDetails) domain.BankDetailsDTO {
	return domain.BankDetailsDTO{
		ID:            details.ID,
		LeadID:        details.LeadID,
		BankName:      details.BankName,
		AccountNumber: details.AccountNumber,
		BranchCode:    details.BranchCode,
		AccountType:   details.AccountType,
		CapturedBy:    details.CapturedBy,
		CreatedAt:     details.CreatedAt.Format(timestampLayout),
		UpdatedAt:     details.UpdatedAt.Format(timestampLayout),
	}
}

// ToUserDTO converts User to UserDTO. The password hash never leaves the
// domain model.
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		FullName:  user.FullName,
		Email:     user.Email,
		Active:    user.Active,
		CreatedAt: user.CreatedAt.Format(timestampLayout),
		UpdatedAt: user.UpdatedAt.Format(timestampLayout),
	}
}

// ToUserDTOs converts a slice of Users to UserDTOs
func ToUserDTOs(users []domain.User) []domain.UserDTO {
	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = ToUserDTO(&users[i])
	}
	return dtos
}

// ToNotificationDTO converts Notification to NotificationDTO
func ToNotificationDTO(notification *domain.Notification) domain.NotificationDTO {
	return domain.NotificationDTO{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Type:      notification.Type,
		Title:     notification.Title,
		Message:   notification.Message,
		Read:      notification.Read,
		ReadAt:    formatOptional(notification.ReadAt),
		LeadID:    notification.LeadID,
		CreatedAt: notification.CreatedAt.Format(timestampLayout),
	}
}

// ToNotificationDTOs converts a slice of Notifications to NotificationDTOs
func ToNotificationDTOs(notifications []domain.Notification) []domain.NotificationDTO {
	dtos := make([]domain.NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = ToNotificationDTO(&notifications[i])
	}
	return dtos
}
