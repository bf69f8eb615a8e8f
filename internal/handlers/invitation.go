package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/workspacehq/workspace-api/internal/dto"
	apierrors "github.com/workspacehq/workspace-api/internal/errors"
	"github.com/workspacehq/workspace-api/internal/middleware"
	"github.com/workspacehq/workspace-api/internal/services"
)

type InvitationHandler struct {
	invitationService *services.InvitationService
}

func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

type sendInvitationRequest struct {
	Email       string `json:"email"`
	WorkspaceID uint64 `json:"workspaceId"`
}

// Send invites an email address to a workspace.
func (h *InvitationHandler) Send(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req sendInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.WorkspaceID == 0 {
		apierrors.BadRequest(c, "email and workspaceId are required")
		return
	}

	invitationID, userExists, err := h.invitationService.Send(services.SendInvitationInput{
		Email:       req.Email,
		WorkspaceID: req.WorkspaceID,
		SenderID:    userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      "Invitation sent successfully",
		"invitationId": invitationID,
		"userExists":   userExists,
	})
}

// Join resolves a clicked invitation link. Unauthenticated; a bearer token,
// when present, lets a signed-in invitee accept in one step.
func (h *InvitationHandler) Join(c *gin.Context) {
	invitationID := c.Param("invitationId")
	if invitationID == "" {
		apierrors.BadRequest(c, "Invalid invitation id")
		return
	}

	token := ""
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}

	result, err := h.invitationService.ResolveLink(invitationID, token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	payload := gin.H{
		"success":    true,
		"action":     result.Action,
		"invitation": dto.ToInvitationDTO(*result.Invitation),
	}
	if result.Workspace != nil {
		payload["workspace"] = dto.ToWorkspaceDTO(*result.Workspace)
	}
	c.JSON(http.StatusOK, payload)
}

type acceptInvitationRequest struct {
	InvitationID string `json:"invitationId"`
}

// Accept consumes an invitation for the authenticated user.
func (h *InvitationHandler) Accept(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	email, ok := middleware.GetUserEmail(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req acceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.InvitationID == "" {
		apierrors.BadRequest(c, "invitationId is required")
		return
	}

	ws, err := h.invitationService.Accept(req.InvitationID, userID, email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Invitation accepted",
		"workspace": dto.ToWorkspaceDTO(*ws),
	})
}
