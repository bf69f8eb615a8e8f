package dto

import (
	"time"

	"github.com/workspacehq/workspace-api/internal/models"
)

// InvitationDTO represents an invitation in API responses
type InvitationDTO struct {
	ID              string                  `json:"id"`
	Email           string                  `json:"email"`
	WorkspaceName   string                  `json:"workspaceName"`
	WorkspaceNumber string                  `json:"workspaceNumber"`
	SenderName      string                  `json:"senderName"`
	Status          models.InvitationStatus `json:"status"`
	UserExists      bool                    `json:"userExists"`
	ExpiresAt       time.Time               `json:"expiresAt"`
}

// ToInvitationDTO converts an invitation to DTO
func ToInvitationDTO(inv models.Invitation) InvitationDTO {
	return InvitationDTO{
		ID:              inv.ID,
		Email:           inv.Email,
		WorkspaceName:   inv.WorkspaceName,
		WorkspaceNumber: inv.WorkspaceNumber,
		SenderName:      inv.SenderName,
		Status:          inv.Status,
		UserExists:      inv.UserExists,
		ExpiresAt:       inv.ExpiresAt,
	}
}
