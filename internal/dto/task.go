package dto

import (
	"time"

	"github.com/workspacehq/workspace-api/internal/models"
	"github.com/workspacehq/workspace-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Comment     string              `json:"comment"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	Tags        []string            `json:"tags"`
	DueDate     *time.Time          `json:"dueDate"`
	TaskNumber  string              `json:"taskNumber"`
	Version     uint64              `json:"version"`
	SpaceID     uint64              `json:"spaceId"`
	SpaceName   string              `json:"spaceName,omitempty"`
	SpaceNumber string              `json:"spaceNumber,omitempty"`
	Creator     UserDTO             `json:"creator"`
	Assignee    *UserDTO            `json:"assignee"`
	Reporter    UserDTO             `json:"reporter"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// TaskVersionDTO represents one historical snapshot of a task
type TaskVersionDTO struct {
	Version     uint64              `json:"version"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Comment     string              `json:"comment"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	Tags        []string            `json:"tags"`
	DueDate     *time.Time          `json:"dueDate"`
	Assignee    *UserDTO            `json:"assignee"`
	Reporter    UserDTO             `json:"reporter"`
	UpdatedBy   UserDTO             `json:"updatedBy"`
	// SnapshotAt is when this version was superseded, i.e. when the change
	// that replaced it was made.
	SnapshotAt time.Time `json:"snapshotAt"`
}

// ToTaskDTO converts a task with preloaded relations to DTO
func ToTaskDTO(task models.Task) TaskDTO {
	d := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Comment:     task.Comment,
		Priority:    task.Priority,
		Status:      task.Status,
		Tags:        task.Tags,
		DueDate:     task.DueDate,
		TaskNumber:  utils.FormatTaskNumber(task.Number),
		Version:     task.Version,
		SpaceID:     task.SpaceID,
		Creator:     ToUserDTO(task.Creator),
		Reporter:    ToUserDTO(task.Reporter),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.Tags == nil {
		d.Tags = []string{}
	}
	if task.Assignee != nil {
		assignee := ToUserDTO(*task.Assignee)
		d.Assignee = &assignee
	}
	if task.Space.ID != 0 {
		d.SpaceName = task.Space.Name
		d.SpaceNumber = utils.FormatSpaceNumber(task.Space.Number)
	}
	return d
}

// ToTaskDTOs converts a slice of tasks to DTOs
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToTaskVersionDTO converts a snapshot to DTO
func ToTaskVersionDTO(v models.TaskVersion) TaskVersionDTO {
	d := TaskVersionDTO{
		Version:     v.Version,
		Title:       v.Title,
		Description: v.Description,
		Comment:     v.Comment,
		Priority:    v.Priority,
		Status:      v.Status,
		Tags:        v.Tags,
		DueDate:     v.DueDate,
		Reporter:    ToUserDTO(v.Reporter),
		UpdatedBy:   ToUserDTO(v.UpdatedBy),
		SnapshotAt:  v.CreatedAt,
	}
	if v.Tags == nil {
		d.Tags = []string{}
	}
	if v.Assignee != nil {
		assignee := ToUserDTO(*v.Assignee)
		d.Assignee = &assignee
	}
	return d
}

// ToTaskVersionDTOs converts snapshots to DTOs
func ToTaskVersionDTOs(versions []models.TaskVersion) []TaskVersionDTO {
	dtos := make([]TaskVersionDTO, len(versions))
	for i, v := range versions {
		dtos[i] = ToTaskVersionDTO(v)
	}
	return dtos
}
