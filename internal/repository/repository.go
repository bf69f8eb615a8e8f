package repository

import (
	"errors"
	"time"

	"github.com/workspacehq/workspace-api/internal/models"
)

var (
	// ErrVersionConflict is returned when a caller's expected version does not
	// match the live task's version at commit time.
	ErrVersionConflict = errors.New("task version conflict")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByEmails finds all users whose email is in the given set
	FindByEmails(emails []string) ([]models.User, error)
}

// WorkspaceRepository defines the interface for workspace data access.
// It also owns the workspace-scoped access checks: access never inherits from
// space or task, every layer walks up to the owning workspace.
type WorkspaceRepository interface {
	// Create creates a workspace, allocating the next global number inside
	// the same transaction as the insert.
	Create(ws *models.Workspace) error

	// FindByID finds a workspace with owner, members and spaces preloaded
	FindByID(id uint64) (*models.Workspace, error)

	// FindByUser lists workspaces the user owns or is a member of,
	// newest first
	FindByUser(userID uint64) ([]models.Workspace, error)

	// AddMembers adds users to the workspace member set
	AddMembers(workspaceID uint64, userIDs []uint64) error

	// HasAccess reports whether the user is the owner or a member
	HasAccess(userID, workspaceID uint64) (bool, error)

	// HasAccessByEmail is HasAccess keyed by email instead of user id
	HasAccessByEmail(email string, workspaceID uint64) (bool, error)

	// IsOwner reports whether the user owns the workspace
	IsOwner(userID, workspaceID uint64) (bool, error)

	// SpacesWithTaskCounts lists the workspace's spaces ordered by number,
	// with per-space task counts
	SpacesWithTaskCounts(workspaceID uint64) ([]SpaceTaskCount, error)

	// DueToday lists not-done tasks due today, highest priority first
	DueToday(workspaceID uint64, now time.Time) ([]models.Task, error)

	// DueUpcoming lists not-done tasks due within the next `days` days,
	// excluding today, soonest first
	DueUpcoming(workspaceID uint64, now time.Time, days int) ([]models.Task, error)

	// StatusCountsBySpace returns a per-space histogram of task statuses
	StatusCountsBySpace(workspaceID uint64) ([]SpaceStatusCount, error)
}

// SpaceTaskCount pairs a space with its task count.
type SpaceTaskCount struct {
	Space     models.Space
	TaskCount int64
}

// SpaceStatusCount is one row of the per-space status histogram.
type SpaceStatusCount struct {
	SpaceID     uint64
	SpaceName   string
	SpaceNumber uint64
	Status      models.TaskStatus
	Count       int64
}

// SpaceRepository defines the interface for space data access
type SpaceRepository interface {
	// Create creates a space, allocating the next number within its
	// workspace inside the same transaction as the insert.
	Create(space *models.Space) error

	// FindByID finds a space with its workspace preloaded
	FindByID(id uint64) (*models.Space, error)

	// Update updates a space's name and description
	Update(space *models.Space) error

	// Delete removes a space and cascades to its tasks and their versions
	Delete(id uint64) error

	// TaskCount counts live tasks in the space
	TaskCount(spaceID uint64) (int64, error)
}

// TaskPatch is an explicit optional-field update: nil means "leave
// unchanged"; the Clear flags distinguish "set to null" from "absent" for the
// nullable relations.
type TaskPatch struct {
	Title         *string
	Description   *string
	Comment       *string
	Priority      *models.TaskPriority
	Status        *models.TaskStatus
	Tags          *[]string
	DueDate       *time.Time
	ClearDueDate  bool
	AssigneeID    *uint64
	ClearAssignee bool
	ReporterID    *uint64
}

// TaskRepository defines the interface for task data access and the
// snapshot-on-write versioning protocol.
type TaskRepository interface {
	// Create creates a task at version 1, allocating the next number within
	// its space inside the same transaction as the insert. No snapshot is
	// written.
	Create(task *models.Task) error

	// FindByID finds a task with creator, assignee, reporter and
	// space+workspace preloaded
	FindByID(id uint64) (*models.Task, error)

	// FindBySpace lists a space's tasks ordered by task number
	FindBySpace(spaceID uint64) ([]models.Task, error)

	// UpdateWithSnapshot atomically snapshots the current live state under
	// the current version number tagged with actorID, applies the patch,
	// and increments the version. expectedVersion, when non-nil, must match
	// the live version or ErrVersionConflict is returned and nothing is
	// written.
	UpdateWithSnapshot(taskID, actorID uint64, expectedVersion *uint64, patch TaskPatch) (*models.Task, error)

	// RevertToVersion atomically snapshots the current live state, then
	// overwrites the live content fields with the target snapshot's values
	// and increments the version. The version counter never goes backward.
	RevertToVersion(taskID, targetVersion, actorID uint64, expectedVersion *uint64) (*models.Task, error)

	// Versions lists a task's snapshots newest-first
	Versions(taskID uint64) ([]models.TaskVersion, error)

	// VersionByNumber finds a single snapshot by exact version number
	VersionByNumber(taskID, version uint64) (*models.TaskVersion, error)

	// Delete removes a task and its version log
	Delete(id uint64) error

	// CanEdit reports whether the user is the task's creator, assignee or
	// reporter
	CanEdit(taskID, userID uint64) (bool, error)

	// IsCreator reports whether the user created the task
	IsCreator(taskID, userID uint64) (bool, error)

	// DueInRange lists not-done tasks due in [from, to] across all
	// workspaces, for the reminder scan
	DueInRange(from, to time.Time) ([]models.Task, error)
}
