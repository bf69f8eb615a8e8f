package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/workspacehq/workspace-api/internal/dto"
	apierrors "github.com/workspacehq/workspace-api/internal/errors"
	"github.com/workspacehq/workspace-api/internal/middleware"
	"github.com/workspacehq/workspace-api/internal/models"
	"github.com/workspacehq/workspace-api/internal/repository"
	"github.com/workspacehq/workspace-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type createTaskRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Comment     string              `json:"comment"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	Tags        []string            `json:"tags"`
	DueDate     *time.Time          `json:"dueDate"`
	SpaceID     uint64              `json:"spaceId"`
	AssigneeID  uint64              `json:"assigneeId"`
	ReporterID  uint64              `json:"reporterId"`
}

// Create creates a task at version 1.
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Comment:     req.Comment,
		Priority:    req.Priority,
		Status:      req.Status,
		Tags:        req.Tags,
		DueDate:     req.DueDate,
		SpaceID:     req.SpaceID,
		CreatorID:   userID,
		AssigneeID:  req.AssigneeID,
		ReporterID:  req.ReporterID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Task created successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

type taskRequest struct {
	TaskID uint64 `json:"taskId"`
}

// Details returns a task with its relations.
func (h *TaskHandler) Details(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TaskID == 0 {
		apierrors.BadRequest(c, "taskId is required")
		return
	}

	task, err := h.taskService.GetTask(req.TaskID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    dto.ToTaskDTO(*task),
	})
}

type updateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Comment     *string              `json:"comment"`
	Priority    *models.TaskPriority `json:"priority"`
	Status      *models.TaskStatus   `json:"status"`
	Tags        *[]string            `json:"tags"`
	// DueDate distinguishes absent (leave unchanged) from explicit null
	// (clear) from an RFC3339 instant.
	DueDate         json.RawMessage `json:"dueDate"`
	AssigneeID      *uint64         `json:"assigneeId"`
	ReporterID      *uint64         `json:"reporterId"`
	ExpectedVersion *uint64         `json:"expectedVersion"`
}

// Update applies a partial update, snapshotting the prior state as a new
// version entry.
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseID(c.Param("taskId"))
	if !ok {
		apierrors.BadRequest(c, "Invalid task id")
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	patch := repository.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Comment:     req.Comment,
		Priority:    req.Priority,
		Status:      req.Status,
		Tags:        req.Tags,
		AssigneeID:  req.AssigneeID,
		ReporterID:  req.ReporterID,
	}
	if len(req.DueDate) > 0 {
		if string(req.DueDate) == "null" {
			patch.ClearDueDate = true
		} else {
			var due time.Time
			if err := json.Unmarshal(req.DueDate, &due); err != nil {
				apierrors.BadRequest(c, "Invalid dueDate")
				return
			}
			patch.DueDate = &due
		}
	}

	task, err := h.taskService.UpdateTask(taskID, userID, services.UpdateTaskInput{
		Patch:           patch,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task updated successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// Delete removes a task and its version history. Creator only.
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseID(c.Param("taskId"))
	if !ok {
		apierrors.BadRequest(c, "Invalid task id")
		return
	}

	if err := h.taskService.DeleteTask(taskID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task deleted successfully",
	})
}

// Versions lists a task's snapshots, newest first.
func (h *TaskHandler) Versions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TaskID == 0 {
		apierrors.BadRequest(c, "taskId is required")
		return
	}

	versions, err := h.taskService.GetVersions(req.TaskID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"versions": dto.ToTaskVersionDTOs(versions),
	})
}

type versionRequest struct {
	TaskID  uint64 `json:"taskId"`
	Version uint64 `json:"version"`
}

// VersionDetails returns one snapshot by exact version number.
func (h *TaskHandler) VersionDetails(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req versionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TaskID == 0 || req.Version == 0 {
		apierrors.BadRequest(c, "taskId and version are required")
		return
	}

	version, err := h.taskService.GetVersion(req.TaskID, req.Version, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"version": dto.ToTaskVersionDTO(*version),
	})
}

type revertRequest struct {
	TaskID          uint64  `json:"taskId"`
	Version         uint64  `json:"version"`
	ExpectedVersion *uint64 `json:"expectedVersion"`
}

// Revert copies a past snapshot's content forward as a fresh version.
func (h *TaskHandler) Revert(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req revertRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TaskID == 0 || req.Version == 0 {
		apierrors.BadRequest(c, "taskId and version are required")
		return
	}

	task, err := h.taskService.RevertTask(req.TaskID, req.Version, userID, req.ExpectedVersion)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task reverted successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}
