package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/workspacehq/workspace-api/internal/dto"
	apierrors "github.com/workspacehq/workspace-api/internal/errors"
	"github.com/workspacehq/workspace-api/internal/middleware"
	"github.com/workspacehq/workspace-api/internal/services"
)

type WorkspaceHandler struct {
	workspaceService *services.WorkspaceService
}

func NewWorkspaceHandler(workspaceService *services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

type createWorkspaceRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	MemberEmails []string `json:"memberEmails"`
}

// Create creates a workspace; known member emails join immediately, unknown
// ones are invited.
func (h *WorkspaceHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req createWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ws, err := h.workspaceService.CreateWorkspace(services.CreateWorkspaceInput{
		Name:         req.Name,
		Description:  req.Description,
		OwnerID:      userID,
		MemberEmails: req.MemberEmails,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Workspace created successfully",
		"workspace": dto.ToWorkspaceDTO(*ws),
	})
}

type workspaceRequest struct {
	WorkspaceID uint64 `json:"workspaceId"`
}

// Details returns a workspace with owner, members and spaces.
func (h *WorkspaceHandler) Details(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req workspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.WorkspaceID == 0 {
		apierrors.BadRequest(c, "workspaceId is required")
		return
	}

	ws, err := h.workspaceService.GetWorkspaceDetails(req.WorkspaceID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"workspace": dto.ToWorkspaceDetailDTO(*ws),
	})
}

// Spaces lists the workspace's spaces with task counts. The workspace id
// comes in as a query parameter.
func (h *WorkspaceHandler) Spaces(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	workspaceID, ok := parseID(c.Query("workspaceId"))
	if !ok {
		apierrors.BadRequest(c, "workspaceId is required")
		return
	}

	spaces, err := h.workspaceService.GetSpaces(workspaceID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"spaces":  dto.ToSpaceDTOsWithCounts(spaces),
	})
}

// Dashboard returns due-soon tasks and per-space progress for a workspace.
func (h *WorkspaceHandler) Dashboard(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req workspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.WorkspaceID == 0 {
		apierrors.BadRequest(c, "workspaceId is required")
		return
	}

	data, err := h.workspaceService.GetDashboard(req.WorkspaceID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"dashboard": dto.ToDashboardDTO(*data),
	})
}
