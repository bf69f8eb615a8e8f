package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/workspacehq/workspace-api/internal/dto"
	apierrors "github.com/workspacehq/workspace-api/internal/errors"
	"github.com/workspacehq/workspace-api/internal/middleware"
	"github.com/workspacehq/workspace-api/internal/services"
)

type SpaceHandler struct {
	spaceService *services.SpaceService
}

func NewSpaceHandler(spaceService *services.SpaceService) *SpaceHandler {
	return &SpaceHandler{spaceService: spaceService}
}

type createSpaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	WorkspaceID uint64 `json:"workspaceId"`
}

// Create creates a space in a workspace the user can access.
func (h *SpaceHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req createSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.WorkspaceID == 0 {
		apierrors.BadRequest(c, "workspaceId is required")
		return
	}

	space, err := h.spaceService.CreateSpace(services.CreateSpaceInput{
		Name:        req.Name,
		Description: req.Description,
		WorkspaceID: req.WorkspaceID,
		UserID:      userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Space created successfully",
		"space":   dto.ToSpaceDTO(*space),
	})
}

type spaceTasksRequest struct {
	SpaceID uint64 `json:"spaceId"`
}

// Tasks lists a space's tasks ordered by task number.
func (h *SpaceHandler) Tasks(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req spaceTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SpaceID == 0 {
		apierrors.BadRequest(c, "spaceId is required")
		return
	}

	tasks, err := h.spaceService.GetTasks(req.SpaceID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   dto.ToTaskDTOs(tasks),
	})
}

type updateSpaceRequest struct {
	SpaceID     uint64  `json:"spaceId"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Update edits a space's name and description.
func (h *SpaceHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req updateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SpaceID == 0 {
		apierrors.BadRequest(c, "spaceId is required")
		return
	}

	space, err := h.spaceService.UpdateSpace(req.SpaceID, userID, services.UpdateSpaceInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Space updated successfully",
		"space":   dto.ToSpaceDTO(*space),
	})
}

// Delete removes a space along with its tasks and their version history.
func (h *SpaceHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	spaceID, ok := parseID(c.Param("id"))
	if !ok {
		apierrors.BadRequest(c, "Invalid space id")
		return
	}

	if err := h.spaceService.DeleteSpace(spaceID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Space deleted successfully",
	})
}
