package dto

import (
	"time"

	"github.com/workspacehq/workspace-api/internal/models"
	"github.com/workspacehq/workspace-api/internal/repository"
	"github.com/workspacehq/workspace-api/internal/services"
	"github.com/workspacehq/workspace-api/internal/utils"
)

// WorkspaceDTO represents a workspace in API responses
type WorkspaceDTO struct {
	ID              uint64    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	WorkspaceNumber string    `json:"workspaceNumber"`
	OwnerID         uint64    `json:"ownerId"`
	CreatedAt       time.Time `json:"createdAt"`
}

// WorkspaceDetailDTO represents a workspace with its owner, members and spaces
type WorkspaceDetailDTO struct {
	WorkspaceDTO
	Owner   UserDTO    `json:"owner"`
	Members []UserDTO  `json:"members"`
	Spaces  []SpaceDTO `json:"spaces"`
}

// SpaceDTO represents a space in API responses. TaskCount is present only on
// listings that compute it.
type SpaceDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SpaceNumber string    `json:"spaceNumber"`
	WorkspaceID uint64    `json:"workspaceId"`
	TaskCount   *int64    `json:"taskCount,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToWorkspaceDTO converts a workspace to DTO
func ToWorkspaceDTO(ws models.Workspace) WorkspaceDTO {
	return WorkspaceDTO{
		ID:              ws.ID,
		Name:            ws.Name,
		Description:     ws.Description,
		WorkspaceNumber: utils.FormatWorkspaceNumber(ws.Number),
		OwnerID:         ws.OwnerID,
		CreatedAt:       ws.CreatedAt,
	}
}

// ToWorkspaceDTOs converts a slice of workspaces to DTOs
func ToWorkspaceDTOs(workspaces []models.Workspace) []WorkspaceDTO {
	dtos := make([]WorkspaceDTO, len(workspaces))
	for i, ws := range workspaces {
		dtos[i] = ToWorkspaceDTO(ws)
	}
	return dtos
}

// ToWorkspaceDetailDTO converts a workspace with preloaded relations to a
// detailed DTO
func ToWorkspaceDetailDTO(ws models.Workspace) WorkspaceDetailDTO {
	spaces := make([]SpaceDTO, len(ws.Spaces))
	for i, space := range ws.Spaces {
		spaces[i] = ToSpaceDTO(space)
	}

	return WorkspaceDetailDTO{
		WorkspaceDTO: ToWorkspaceDTO(ws),
		Owner:        ToUserDTO(ws.Owner),
		Members:      ToUserDTOs(ws.Members),
		Spaces:       spaces,
	}
}

// ToSpaceDTO converts a space to DTO
func ToSpaceDTO(space models.Space) SpaceDTO {
	return SpaceDTO{
		ID:          space.ID,
		Name:        space.Name,
		Description: space.Description,
		SpaceNumber: utils.FormatSpaceNumber(space.Number),
		WorkspaceID: space.WorkspaceID,
		CreatedAt:   space.CreatedAt,
	}
}

// ToSpaceDTOsWithCounts converts space+count rows to DTOs
func ToSpaceDTOsWithCounts(rows []repository.SpaceTaskCount) []SpaceDTO {
	dtos := make([]SpaceDTO, len(rows))
	for i, row := range rows {
		d := ToSpaceDTO(row.Space)
		count := row.TaskCount
		d.TaskCount = &count
		dtos[i] = d
	}
	return dtos
}

// SpaceProgressDTO is one space's rollup on the dashboard
type SpaceProgressDTO struct {
	SpaceID     uint64 `json:"spaceId"`
	SpaceName   string `json:"spaceName"`
	SpaceNumber string `json:"spaceNumber"`
	Total       int64  `json:"total"`
	Completed   int64  `json:"completed"`
	InProgress  int64  `json:"inProgress"`
	Todo        int64  `json:"todo"`
	Progress    int    `json:"progress"`
}

// DashboardDTO is the workspace dashboard payload
type DashboardDTO struct {
	DueToday []TaskDTO          `json:"dueToday"`
	Upcoming []TaskDTO          `json:"upcoming"`
	Spaces   []SpaceProgressDTO `json:"spaces"`
}

// ToDashboardDTO converts dashboard data to DTO
func ToDashboardDTO(data services.DashboardData) DashboardDTO {
	spaces := make([]SpaceProgressDTO, len(data.Spaces))
	for i, sp := range data.Spaces {
		spaces[i] = SpaceProgressDTO{
			SpaceID:     sp.SpaceID,
			SpaceName:   sp.SpaceName,
			SpaceNumber: utils.FormatSpaceNumber(sp.SpaceNumber),
			Total:       sp.Total,
			Completed:   sp.Completed,
			InProgress:  sp.InProgress,
			Todo:        sp.Todo,
			Progress:    sp.Progress,
		}
	}

	return DashboardDTO{
		DueToday: ToTaskDTOs(data.DueToday),
		Upcoming: ToTaskDTOs(data.Upcoming),
		Spaces:   spaces,
	}
}
