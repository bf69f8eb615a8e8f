package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/workspacehq/workspace-api/internal/errors"
	"github.com/workspacehq/workspace-api/internal/services"
)

// respondServiceError applies the canonical error-kind-to-status mapping:
// validation 400, bad credentials 401, authorization 403, missing 404,
// conflicts 409, expired invitation links 410, everything else a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrWorkspaceNameRequired),
		errors.Is(err, services.ErrSpaceNameRequired),
		errors.Is(err, services.ErrTaskTitleRequired),
		errors.Is(err, services.ErrAssigneeRequired),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequest(c, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		apierrors.Unauthorized(c, err.Error())

	case errors.Is(err, services.ErrWorkspaceAccessDenied),
		errors.Is(err, services.ErrTaskEditForbidden),
		errors.Is(err, services.ErrNotTaskCreator),
		errors.Is(err, services.ErrInvitationEmailMismatch):
		apierrors.Forbidden(c, err.Error())

	case errors.Is(err, services.ErrWorkspaceNotFound),
		errors.Is(err, services.ErrSpaceNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrVersionNotFound),
		errors.Is(err, services.ErrInvitationNotFound):
		apierrors.NotFound(c, err.Error())

	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrAlreadyInvited),
		errors.Is(err, services.ErrVersionConflict):
		apierrors.Conflict(c, err.Error())

	case errors.Is(err, services.ErrInvitationExpired):
		apierrors.Gone(c, err.Error())

	default:
		log.Printf("internal error: %v", err)
		apierrors.InternalError(c)
	}
}

// parseID parses a numeric path or body id.
func parseID(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
