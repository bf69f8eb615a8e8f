package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/workspacehq/workspace-api/internal/auth"
	"github.com/workspacehq/workspace-api/internal/models"
	"github.com/workspacehq/workspace-api/internal/repository"
	"github.com/workspacehq/workspace-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

var (
	ErrNameRequired       = errors.New("name is required")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrWeakPassword       = errors.New("password does not meet the minimum length")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles registration, login and token verification.
type AuthService struct {
	userRepo    repository.UserRepository
	invitations *InvitationService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, invitations *InvitationService) *AuthService {
	return &AuthService{userRepo: userRepo, invitations: invitations}
}

// AuthResult is the outcome of a successful register or login. Workspace is
// set when an invitation id was supplied and accepted along the way.
type AuthResult struct {
	User               *models.User
	Token              string
	InvitationAccepted bool
	Workspace          *models.Workspace
}

// RegisterInput represents parameters for account creation. InvitationID is
// optional; when present the new account joins the inviting workspace.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	InvitationID string
}

// Register creates an account, issues a token, and accepts a pending
// invitation when one is supplied. A failed invitation accept does not fail
// registration.
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if !utils.IsValidEmail(input.Email) {
		return nil, ErrInvalidEmail
	}
	if !utils.IsValidPassword(input.Password) {
		return nil, ErrWeakPassword
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	result := &AuthResult{User: user, Token: token}
	if input.InvitationID != "" {
		ws, err := s.invitations.AcceptAfterRegistration(input.InvitationID, user.ID, user.Email)
		if err != nil {
			log.Printf("invitation %s not accepted during registration: %v", input.InvitationID, err)
		} else {
			result.InvitationAccepted = true
			result.Workspace = ws
		}
	}
	return result, nil
}

// LoginInput represents login credentials plus an optional invitation to
// accept on the way in.
type LoginInput struct {
	Email        string
	Password     string
	InvitationID string
}

// Login verifies credentials and issues a token. A pending invitation
// matching the account's email is accepted when its id is supplied.
func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	result := &AuthResult{User: user, Token: token}
	if input.InvitationID != "" {
		ws, err := s.invitations.Accept(input.InvitationID, user.ID, user.Email)
		if err != nil {
			log.Printf("invitation %s not accepted during login: %v", input.InvitationID, err)
		} else {
			result.InvitationAccepted = true
			result.Workspace = ws
		}
	}
	return result, nil
}

// Verify checks a raw token and returns the account it belongs to.
func (s *AuthService) Verify(token string) (*models.User, error) {
	claims, err := auth.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := claims.UserIDUint()
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
