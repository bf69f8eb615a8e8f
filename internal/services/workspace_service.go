package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/workspacehq/workspace-api/internal/constants"
	"github.com/workspacehq/workspace-api/internal/models"
	"github.com/workspacehq/workspace-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrWorkspaceNotFound     = errors.New("workspace not found")
	ErrWorkspaceAccessDenied = errors.New("access denied to this workspace")
	ErrWorkspaceNameRequired = errors.New("workspace name is required")
)

// WorkspaceService provides business logic for workspace operations.
type WorkspaceService struct {
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
	invitations   *InvitationService
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(workspaceRepo repository.WorkspaceRepository, userRepo repository.UserRepository, invitations *InvitationService) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		invitations:   invitations,
	}
}

// CreateWorkspaceInput represents parameters to create a new workspace.
type CreateWorkspaceInput struct {
	Name         string
	Description  string
	OwnerID      uint64
	MemberEmails []string
}

// CreateWorkspace creates a workspace. Member emails belonging to existing
// users are added as members directly; unknown emails receive an invitation.
// A failed invitation is logged and skipped, it does not fail the create.
func (s *WorkspaceService) CreateWorkspace(input CreateWorkspaceInput) (*models.Workspace, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrWorkspaceNameRequired
	}

	ws := &models.Workspace{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}
	if err := s.workspaceRepo.Create(ws); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	if len(input.MemberEmails) > 0 {
		if err := s.attachMembers(ws, input); err != nil {
			return nil, err
		}
	}

	return ws, nil
}

func (s *WorkspaceService) attachMembers(ws *models.Workspace, input CreateWorkspaceInput) error {
	existing, err := s.userRepo.FindByEmails(input.MemberEmails)
	if err != nil {
		return fmt.Errorf("failed to look up member emails: %w", err)
	}

	known := make(map[string]uint64, len(existing))
	memberIDs := make([]uint64, 0, len(existing))
	for _, user := range existing {
		known[user.Email] = user.ID
		if user.ID != input.OwnerID {
			memberIDs = append(memberIDs, user.ID)
		}
	}

	if err := s.workspaceRepo.AddMembers(ws.ID, memberIDs); err != nil {
		return fmt.Errorf("failed to add members: %w", err)
	}

	owner, err := s.userRepo.FindByID(input.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to load owner: %w", err)
	}

	for _, email := range input.MemberEmails {
		if _, ok := known[email]; ok {
			continue
		}
		_, _, err := s.invitations.Send(SendInvitationInput{
			Email:       email,
			WorkspaceID: ws.ID,
			SenderID:    owner.ID,
		})
		if err != nil {
			log.Printf("failed to invite %s to workspace %d: %v", email, ws.ID, err)
		}
	}
	return nil
}

// ValidateAccess fails with ErrWorkspaceAccessDenied unless the user owns or
// is a member of the workspace.
func (s *WorkspaceService) ValidateAccess(userID, workspaceID uint64) error {
	ok, err := s.workspaceRepo.HasAccess(userID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to verify workspace access: %w", err)
	}
	if !ok {
		return ErrWorkspaceAccessDenied
	}
	return nil
}

// GetWorkspaceDetails returns a workspace with owner, members and spaces.
func (s *WorkspaceService) GetWorkspaceDetails(workspaceID, userID uint64) (*models.Workspace, error) {
	if err := s.ValidateAccess(userID, workspaceID); err != nil {
		return nil, err
	}

	ws, err := s.workspaceRepo.FindByID(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	return ws, nil
}

// GetSpaces lists the workspace's spaces with task counts.
func (s *WorkspaceService) GetSpaces(workspaceID, userID uint64) ([]repository.SpaceTaskCount, error) {
	if err := s.ValidateAccess(userID, workspaceID); err != nil {
		return nil, err
	}
	return s.workspaceRepo.SpacesWithTaskCounts(workspaceID)
}

// ListForUser returns workspaces the user owns or belongs to.
func (s *WorkspaceService) ListForUser(userID uint64) ([]models.Workspace, error) {
	workspaces, err := s.workspaceRepo.FindByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

// SpaceProgress is one space's task-status rollup. Completed counts DONE;
// in progress counts IN_PROGRESS and IN_REVIEW; todo counts TODO and
// CANCELLED.
type SpaceProgress struct {
	SpaceID     uint64
	SpaceName   string
	SpaceNumber uint64
	Total       int64
	Completed   int64
	InProgress  int64
	Todo        int64
	// Progress is round(100 * Completed / Total); zero when the space is
	// empty.
	Progress int
}

// DashboardData is the read-only workspace rollup.
type DashboardData struct {
	DueToday []models.Task
	Upcoming []models.Task
	Spaces   []SpaceProgress
}

// GetDashboard composes due-soon tasks and per-space progress. Pure reads;
// runs only after the workspace access check.
func (s *WorkspaceService) GetDashboard(workspaceID, userID uint64) (*DashboardData, error) {
	if err := s.ValidateAccess(userID, workspaceID); err != nil {
		return nil, err
	}

	now := time.Now()

	dueToday, err := s.workspaceRepo.DueToday(workspaceID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch today's tasks: %w", err)
	}

	upcoming, err := s.workspaceRepo.DueUpcoming(workspaceID, now, constants.DefaultUpcomingDays)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming tasks: %w", err)
	}

	counts, err := s.workspaceRepo.StatusCountsBySpace(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch status counts: %w", err)
	}

	return &DashboardData{
		DueToday: dueToday,
		Upcoming: upcoming,
		Spaces:   buildSpaceProgress(counts),
	}, nil
}

func buildSpaceProgress(counts []repository.SpaceStatusCount) []SpaceProgress {
	index := make(map[uint64]int)
	progress := make([]SpaceProgress, 0)

	for _, row := range counts {
		i, ok := index[row.SpaceID]
		if !ok {
			i = len(progress)
			index[row.SpaceID] = i
			progress = append(progress, SpaceProgress{
				SpaceID:     row.SpaceID,
				SpaceName:   row.SpaceName,
				SpaceNumber: row.SpaceNumber,
			})
		}

		switch row.Status {
		case models.TaskStatusDone:
			progress[i].Completed += row.Count
		case models.TaskStatusInProgress, models.TaskStatusInReview:
			progress[i].InProgress += row.Count
		case models.TaskStatusTodo, models.TaskStatusCancelled:
			progress[i].Todo += row.Count
		default:
			// empty-status row from a space with no tasks
			continue
		}
		progress[i].Total += row.Count
	}

	for i := range progress {
		if progress[i].Total > 0 {
			progress[i].Progress = int(math.Round(100 * float64(progress[i].Completed) / float64(progress[i].Total)))
		}
	}
	return progress
}
