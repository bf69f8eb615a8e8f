package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/workspacehq/workspace-api/internal/auth"
	"github.com/workspacehq/workspace-api/internal/constants"
	"github.com/workspacehq/workspace-api/internal/mailer"
	"github.com/workspacehq/workspace-api/internal/models"
	"github.com/workspacehq/workspace-api/internal/repository"
	"github.com/workspacehq/workspace-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvitationNotFound      = errors.New("invitation not found")
	ErrInvitationExpired       = errors.New("invitation expired or does not exist")
	ErrInvitationEmailMismatch = errors.New("invitation was sent to a different email")
	ErrAlreadyMember           = errors.New("user is already a member of this workspace")
	ErrAlreadyInvited          = errors.New("user has already been invited to this workspace")
	ErrInvalidEmail            = errors.New("invalid email address")
)

// Link resolution outcomes for a clicked invitation link.
const (
	LinkActionLogin    = "login"
	LinkActionRegister = "register"
	LinkActionAccepted = "accepted"
)

// LinkResolution tells an unauthenticated invitee what to do next. Workspace
// is set only when Action is LinkActionAccepted.
type LinkResolution struct {
	Action     string
	Invitation *models.Invitation
	Workspace  *models.Workspace
}

// InvitationService manages the invitation lifecycle: pending -> accepted
// (record deleted) or pending -> expired (TTL'd away).
type InvitationService struct {
	invitationRepo repository.InvitationRepository
	workspaceRepo  repository.WorkspaceRepository
	userRepo       repository.UserRepository
	mail           mailer.Mailer
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(invitationRepo repository.InvitationRepository, workspaceRepo repository.WorkspaceRepository, userRepo repository.UserRepository, mail mailer.Mailer) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		workspaceRepo:  workspaceRepo,
		userRepo:       userRepo,
		mail:           mail,
	}
}

// SendInvitationInput represents parameters to invite an email address to a
// workspace.
type SendInvitationInput struct {
	Email       string
	WorkspaceID uint64
	SenderID    uint64
}

// Send issues an invitation and emails the invitee. The record is persisted
// before dispatch and rolled back if dispatch fails, so no orphaned
// invitation survives a failed notification. Returns the invitation id and
// whether the invitee already had an account.
func (s *InvitationService) Send(input SendInvitationInput) (string, bool, error) {
	if !utils.IsValidEmail(input.Email) {
		return "", false, ErrInvalidEmail
	}

	sender, err := s.userRepo.FindByID(input.SenderID)
	if err != nil {
		return "", false, fmt.Errorf("failed to load sender: %w", err)
	}

	ws, err := s.workspaceRepo.FindByID(input.WorkspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, ErrWorkspaceNotFound
		}
		return "", false, fmt.Errorf("failed to find workspace: %w", err)
	}

	hasAccess, err := s.workspaceRepo.HasAccess(input.SenderID, input.WorkspaceID)
	if err != nil {
		return "", false, fmt.Errorf("failed to verify workspace access: %w", err)
	}
	if !hasAccess {
		return "", false, ErrWorkspaceAccessDenied
	}

	memberAlready, err := s.workspaceRepo.HasAccessByEmail(input.Email, input.WorkspaceID)
	if err != nil {
		return "", false, fmt.Errorf("failed to check membership: %w", err)
	}
	if memberAlready {
		return "", false, ErrAlreadyMember
	}

	pending, err := s.invitationRepo.FindPending(input.Email, input.WorkspaceID)
	if err != nil {
		return "", false, fmt.Errorf("failed to check pending invitations: %w", err)
	}
	if pending != nil {
		return "", false, ErrAlreadyInvited
	}

	userExists := true
	if _, err := s.userRepo.FindByEmail(input.Email); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, fmt.Errorf("failed to look up invitee: %w", err)
		}
		userExists = false
	}

	now := time.Now()
	inv := &models.Invitation{
		ID:              uuid.NewString(),
		Email:           input.Email,
		WorkspaceID:     ws.ID,
		WorkspaceName:   ws.Name,
		WorkspaceNumber: utils.FormatWorkspaceNumber(ws.Number),
		SenderID:        sender.ID,
		SenderName:      sender.Name,
		Status:          models.InvitationPending,
		UserExists:      userExists,
		CreatedAt:       now,
		ExpiresAt:       now.Add(constants.InvitationTTL),
	}

	if err := s.invitationRepo.Save(inv); err != nil {
		return "", false, fmt.Errorf("failed to save invitation: %w", err)
	}

	if err := s.mail.SendInvitation(inv.Email, inv.WorkspaceName, inv.SenderName, inv.ID, inv.UserExists); err != nil {
		// no orphaned invitation behind a failed email
		if delErr := s.invitationRepo.Delete(inv); delErr != nil {
			return "", false, fmt.Errorf("failed to roll back invitation after email failure: %v: %w", delErr, err)
		}
		return "", false, fmt.Errorf("failed to send invitation email: %w", err)
	}

	return inv.ID, userExists, nil
}

// ResolveLink handles a clicked invitation link. Token is optional; a valid
// token for the invitee's own email accepts the invitation immediately, any
// other token falls back to requiring a sign-in.
func (s *InvitationService) ResolveLink(invitationID, token string) (*LinkResolution, error) {
	inv, err := s.invitationRepo.Get(invitationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invitation: %w", err)
	}
	if inv == nil {
		return nil, ErrInvitationExpired
	}

	if token != "" {
		claims, err := auth.ValidateToken(token)
		if err == nil && claims.Email == inv.Email {
			userID, err := claims.UserIDUint()
			if err != nil {
				return nil, fmt.Errorf("malformed token subject: %w", err)
			}
			ws, err := s.Accept(invitationID, userID, claims.Email)
			if err != nil {
				return nil, err
			}
			return &LinkResolution{Action: LinkActionAccepted, Invitation: inv, Workspace: ws}, nil
		}
		// invalid or mismatched token: never auto-trust it
	}

	action := LinkActionRegister
	if inv.UserExists {
		action = LinkActionLogin
	} else if _, err := s.userRepo.FindByEmail(inv.Email); err == nil {
		// invitee registered independently after the invitation was sent
		action = LinkActionLogin
	}
	return &LinkResolution{Action: action, Invitation: inv}, nil
}

// Accept consumes an invitation for an authenticated user. It is idempotent:
// if the user is already a member the invitation is simply cleaned up and the
// workspace returned.
func (s *InvitationService) Accept(invitationID string, userID uint64, userEmail string) (*models.Workspace, error) {
	inv, err := s.invitationRepo.Get(invitationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invitation: %w", err)
	}
	if inv == nil {
		return nil, ErrInvitationNotFound
	}

	if inv.Status != models.InvitationPending || inv.Email != userEmail {
		return nil, ErrInvitationEmailMismatch
	}

	hasAccess, err := s.workspaceRepo.HasAccess(userID, inv.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if hasAccess {
		if err := s.invitationRepo.Delete(inv); err != nil {
			return nil, fmt.Errorf("failed to clean up invitation: %w", err)
		}
		return s.workspaceRepo.FindByID(inv.WorkspaceID)
	}

	return s.join(inv, userID)
}

// AcceptAfterRegistration is Accept for a just-created account; a brand-new
// user cannot already be a member, so the membership probe is skipped.
func (s *InvitationService) AcceptAfterRegistration(invitationID string, userID uint64, userEmail string) (*models.Workspace, error) {
	inv, err := s.invitationRepo.Get(invitationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invitation: %w", err)
	}
	if inv == nil {
		return nil, ErrInvitationNotFound
	}

	if inv.Status != models.InvitationPending || inv.Email != userEmail {
		return nil, ErrInvitationEmailMismatch
	}

	return s.join(inv, userID)
}

func (s *InvitationService) join(inv *models.Invitation, userID uint64) (*models.Workspace, error) {
	if err := s.workspaceRepo.AddMembers(inv.WorkspaceID, []uint64{userID}); err != nil {
		return nil, fmt.Errorf("failed to add workspace member: %w", err)
	}
	if err := s.invitationRepo.Delete(inv); err != nil {
		return nil, fmt.Errorf("failed to clean up invitation: %w", err)
	}
	return s.workspaceRepo.FindByID(inv.WorkspaceID)
}
