package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/workspacehq/workspace-api/internal/dto"
	apierrors "github.com/workspacehq/workspace-api/internal/errors"
	"github.com/workspacehq/workspace-api/internal/middleware"
	"github.com/workspacehq/workspace-api/internal/repository"
	"github.com/workspacehq/workspace-api/internal/services"
)

type UserHandler struct {
	userRepo         repository.UserRepository
	workspaceService *services.WorkspaceService
}

func NewUserHandler(userRepo repository.UserRepository, workspaceService *services.WorkspaceService) *UserHandler {
	return &UserHandler{userRepo: userRepo, workspaceService: workspaceService}
}

// Profile returns the authenticated user's profile.
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.userRepo.FindByID(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    dto.ToUserDTO(*user),
	})
}

// Workspaces lists workspaces the user owns or belongs to.
func (h *UserHandler) Workspaces(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	workspaces, err := h.workspaceService.ListForUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"workspaces": dto.ToWorkspaceDTOs(workspaces),
	})
}
