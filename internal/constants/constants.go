package constants

import "time"

// Context keys set by the auth middleware.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserName  = "user_name"
)

const (
	MinPasswordLength = 6

	// Invitations live in the ephemeral store for 7 days.
	InvitationTTL = 7 * 24 * time.Hour

	// Dashboard "upcoming" window, in days after today.
	DefaultUpcomingDays = 7
)
