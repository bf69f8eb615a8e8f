package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/workspacehq/workspace-api/internal/dto"
	apierrors "github.com/workspacehq/workspace-api/internal/errors"
	"github.com/workspacehq/workspace-api/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	InvitationID string `json:"invitationId"`
}

// Register creates a new account, optionally accepting a pending invitation.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Register(services.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		InvitationID: req.InvitationID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authPayload("User registered successfully", result))
}

type loginRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	InvitationID string `json:"invitationId"`
}

// Login verifies credentials and issues a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(services.LoginInput{
		Email:        req.Email,
		Password:     req.Password,
		InvitationID: req.InvitationID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, authPayload("Login successful", result))
}

type verifyRequest struct {
	Token string `json:"token"`
}

// Verify checks a raw token and returns the account it belongs to.
func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		apierrors.BadRequest(c, "Token is required")
		return
	}

	user, err := h.authService.Verify(req.Token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    dto.ToUserDTO(*user),
	})
}

func authPayload(message string, result *services.AuthResult) gin.H {
	payload := gin.H{
		"success":            true,
		"message":            message,
		"token":              result.Token,
		"user":               dto.ToUserDTO(*result.User),
		"invitationAccepted": result.InvitationAccepted,
	}
	if result.Workspace != nil {
		payload["workspace"] = dto.ToWorkspaceDTO(*result.Workspace)
	}
	return payload
}
