package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/workspacehq/workspace-api/internal/models"
	"github.com/workspacehq/workspace-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrVersionNotFound   = errors.New("task version not found")
	ErrTaskTitleRequired = errors.New("task title is required")
	ErrAssigneeRequired  = errors.New("task assignee is required")
	ErrInvalidPriority   = errors.New("invalid task priority")
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrNotTaskCreator    = errors.New("only the task creator can delete a task")
	ErrTaskEditForbidden = errors.New("user cannot edit this task")
	ErrVersionConflict   = errors.New("task was modified by someone else")
)

// TaskService provides business logic for tasks and their version history.
type TaskService struct {
	taskRepo      repository.TaskRepository
	spaceRepo     repository.SpaceRepository
	workspaceRepo repository.WorkspaceRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, spaceRepo repository.SpaceRepository, workspaceRepo repository.WorkspaceRepository) *TaskService {
	return &TaskService{
		taskRepo:      taskRepo,
		spaceRepo:     spaceRepo,
		workspaceRepo: workspaceRepo,
	}
}

// CreateTaskInput represents parameters to create a task. AssigneeID is
// mandatory; ReporterID defaults to the creator when zero.
type CreateTaskInput struct {
	Title       string
	Description string
	Comment     string
	Priority    models.TaskPriority
	Status      models.TaskStatus
	Tags        []string
	DueDate     *time.Time
	SpaceID     uint64
	CreatorID   uint64
	AssigneeID  uint64
	ReporterID  uint64
}

// CreateTask creates a task at version 1 in a space the user can access.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTaskTitleRequired
	}
	if input.SpaceID == 0 {
		return nil, ErrSpaceNotFound
	}
	if input.AssigneeID == 0 {
		return nil, ErrAssigneeRequired
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	} else if !models.ValidPriority(input.Priority) {
		return nil, ErrInvalidPriority
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	} else if !models.ValidStatus(input.Status) {
		return nil, ErrInvalidStatus
	}
	if input.ReporterID == 0 {
		input.ReporterID = input.CreatorID
	}

	if _, err := s.authorizedSpace(input.SpaceID, input.CreatorID); err != nil {
		return nil, err
	}

	assignee := input.AssigneeID
	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Comment:     input.Comment,
		Priority:    input.Priority,
		Status:      input.Status,
		Tags:        input.Tags,
		DueDate:     input.DueDate,
		SpaceID:     input.SpaceID,
		CreatorID:   input.CreatorID,
		AssigneeID:  &assignee,
		ReporterID:  input.ReporterID,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return s.findTask(task.ID)
}

// GetTask returns a task with its relations after verifying workspace access.
func (s *TaskService) GetTask(taskID, userID uint64) (*models.Task, error) {
	return s.authorizedTask(taskID, userID)
}

// UpdateTaskInput is a partial update plus an optional optimistic-concurrency
// guard: when ExpectedVersion is set and does not match the live version the
// update is rejected with ErrVersionConflict.
type UpdateTaskInput struct {
	Patch           repository.TaskPatch
	ExpectedVersion *uint64
}

// UpdateTask snapshots the task's current state, applies the patch, and
// increments the version. Only the creator, assignee or reporter may edit.
func (s *TaskService) UpdateTask(taskID, userID uint64, input UpdateTaskInput) (*models.Task, error) {
	if err := validatePatch(input.Patch); err != nil {
		return nil, err
	}

	if _, err := s.authorizedTask(taskID, userID); err != nil {
		return nil, err
	}

	canEdit, err := s.taskRepo.CanEdit(taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify edit permission: %w", err)
	}
	if !canEdit {
		return nil, ErrTaskEditForbidden
	}

	task, err := s.taskRepo.UpdateWithSnapshot(taskID, userID, input.ExpectedVersion, input.Patch)
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrVersionConflict
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task and its version log. Creator only.
func (s *TaskService) DeleteTask(taskID, userID uint64) error {
	if _, err := s.authorizedTask(taskID, userID); err != nil {
		return err
	}

	isCreator, err := s.taskRepo.IsCreator(taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to verify creator: %w", err)
	}
	if !isCreator {
		return ErrNotTaskCreator
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// GetVersions lists a task's snapshots, newest first.
func (s *TaskService) GetVersions(taskID, userID uint64) ([]models.TaskVersion, error) {
	if _, err := s.authorizedTask(taskID, userID); err != nil {
		return nil, err
	}
	return s.taskRepo.Versions(taskID)
}

// GetVersion returns one snapshot by exact version number.
func (s *TaskService) GetVersion(taskID, version, userID uint64) (*models.TaskVersion, error) {
	if _, err := s.authorizedTask(taskID, userID); err != nil {
		return nil, err
	}

	snapshot, err := s.taskRepo.VersionByNumber(taskID, version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, fmt.Errorf("failed to find task version: %w", err)
	}
	return snapshot, nil
}

// RevertTask copies a past snapshot's content forward onto the live task as a
// fresh version. The version counter never rewinds.
func (s *TaskService) RevertTask(taskID, targetVersion, userID uint64, expectedVersion *uint64) (*models.Task, error) {
	if _, err := s.authorizedTask(taskID, userID); err != nil {
		return nil, err
	}

	canEdit, err := s.taskRepo.CanEdit(taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify edit permission: %w", err)
	}
	if !canEdit {
		return nil, ErrTaskEditForbidden
	}

	task, err := s.taskRepo.RevertToVersion(taskID, targetVersion, userID, expectedVersion)
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrVersionConflict
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, fmt.Errorf("failed to revert task: %w", err)
	}
	return task, nil
}

func validatePatch(patch repository.TaskPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return ErrTaskTitleRequired
	}
	if patch.Priority != nil && !models.ValidPriority(*patch.Priority) {
		return ErrInvalidPriority
	}
	if patch.Status != nil && !models.ValidStatus(*patch.Status) {
		return ErrInvalidStatus
	}
	// assignee is mandatory at create and stays mandatory after
	if patch.ClearAssignee {
		return ErrAssigneeRequired
	}
	return nil
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) authorizedTask(taskID, userID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	ok, err := s.workspaceRepo.HasAccess(userID, task.Space.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify workspace access: %w", err)
	}
	if !ok {
		return nil, ErrWorkspaceAccessDenied
	}
	return task, nil
}

func (s *TaskService) authorizedSpace(spaceID, userID uint64) (*models.Space, error) {
	space, err := s.spaceRepo.FindByID(spaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, fmt.Errorf("failed to find space: %w", err)
	}

	ok, err := s.workspaceRepo.HasAccess(userID, space.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify workspace access: %w", err)
	}
	if !ok {
		return nil, ErrWorkspaceAccessDenied
	}
	return space, nil
}
