package models

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
	InvitationExpired  InvitationStatus = "expired"
)

// Invitation lives in the ephemeral store, JSON-serialized, with a 7-day TTL.
// It references workspace and users by id only and is deleted on accept.
type Invitation struct {
	ID              string           `json:"id"`
	Email           string           `json:"email"`
	WorkspaceID     uint64           `json:"workspace_id"`
	WorkspaceName   string           `json:"workspace_name"`
	WorkspaceNumber string           `json:"workspace_number"`
	SenderID        uint64           `json:"sender_id"`
	SenderName      string           `json:"sender_name"`
	Status          InvitationStatus `json:"status"`
	// UserExists records whether the invitee already had an account at send
	// time; it selects the email template.
	UserExists bool      `json:"user_exists"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the invitation's expiry has passed. The store's TTL
// normally removes expired records; this covers index entries that outlive
// the record by a narrow margin.
func (i *Invitation) Expired() bool {
	return time.Now().After(i.ExpiresAt)
}
