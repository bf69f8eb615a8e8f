package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/workspacehq/workspace-api/internal/models"
	"github.com/workspacehq/workspace-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrSpaceNotFound     = errors.New("space not found")
	ErrSpaceNameRequired = errors.New("space name is required")
)

// SpaceService provides business logic for space operations. Access never
// inherits from the space itself; every check walks up to the owning
// workspace.
type SpaceService struct {
	spaceRepo     repository.SpaceRepository
	taskRepo      repository.TaskRepository
	workspaceRepo repository.WorkspaceRepository
}

// NewSpaceService creates a new SpaceService.
func NewSpaceService(spaceRepo repository.SpaceRepository, taskRepo repository.TaskRepository, workspaceRepo repository.WorkspaceRepository) *SpaceService {
	return &SpaceService{
		spaceRepo:     spaceRepo,
		taskRepo:      taskRepo,
		workspaceRepo: workspaceRepo,
	}
}

// CreateSpaceInput represents parameters to create a space.
type CreateSpaceInput struct {
	Name        string
	Description string
	WorkspaceID uint64
	UserID      uint64
}

// CreateSpace creates a space in a workspace the user can access.
func (s *SpaceService) CreateSpace(input CreateSpaceInput) (*models.Space, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrSpaceNameRequired
	}

	if err := s.validateWorkspaceAccess(input.UserID, input.WorkspaceID); err != nil {
		return nil, err
	}

	space := &models.Space{
		Name:        input.Name,
		Description: input.Description,
		WorkspaceID: input.WorkspaceID,
	}
	if err := s.spaceRepo.Create(space); err != nil {
		return nil, fmt.Errorf("failed to create space: %w", err)
	}
	return space, nil
}

// GetSpace returns a space after verifying workspace access.
func (s *SpaceService) GetSpace(spaceID, userID uint64) (*models.Space, error) {
	return s.authorizedSpace(spaceID, userID)
}

// GetTasks lists a space's tasks ordered by task number.
func (s *SpaceService) GetTasks(spaceID, userID uint64) ([]models.Task, error) {
	if _, err := s.authorizedSpace(spaceID, userID); err != nil {
		return nil, err
	}
	return s.taskRepo.FindBySpace(spaceID)
}

// UpdateSpaceInput represents editable space fields; nil means unchanged.
type UpdateSpaceInput struct {
	Name        *string
	Description *string
}

// UpdateSpace updates a space's name and description.
func (s *SpaceService) UpdateSpace(spaceID, userID uint64, input UpdateSpaceInput) (*models.Space, error) {
	space, err := s.authorizedSpace(spaceID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrSpaceNameRequired
		}
		space.Name = *input.Name
	}
	if input.Description != nil {
		space.Description = *input.Description
	}

	if err := s.spaceRepo.Update(space); err != nil {
		return nil, fmt.Errorf("failed to update space: %w", err)
	}
	return space, nil
}

// DeleteSpace removes a space along with its tasks and their version logs.
func (s *SpaceService) DeleteSpace(spaceID, userID uint64) error {
	if _, err := s.authorizedSpace(spaceID, userID); err != nil {
		return err
	}
	if err := s.spaceRepo.Delete(spaceID); err != nil {
		return fmt.Errorf("failed to delete space: %w", err)
	}
	return nil
}

func (s *SpaceService) authorizedSpace(spaceID, userID uint64) (*models.Space, error) {
	space, err := s.spaceRepo.FindByID(spaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, fmt.Errorf("failed to find space: %w", err)
	}

	if err := s.validateWorkspaceAccess(userID, space.WorkspaceID); err != nil {
		return nil, err
	}
	return space, nil
}

func (s *SpaceService) validateWorkspaceAccess(userID, workspaceID uint64) error {
	ok, err := s.workspaceRepo.HasAccess(userID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to verify workspace access: %w", err)
	}
	if !ok {
		return ErrWorkspaceAccessDenied
	}
	return nil
}
