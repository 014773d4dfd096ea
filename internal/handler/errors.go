package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/vendor_console/internal/console"
	"github.com/GTDGit/vendor_console/internal/session"
	"github.com/GTDGit/vendor_console/internal/utils"
	"github.com/GTDGit/vendor_console/pkg/vendoractivo"
)

// respondError maps console, session and client errors onto the envelope.
func respondError(c *gin.Context, err error) {
	var actionErr *console.ActionError
	message := err.Error()
	if errors.As(err, &actionErr) {
		message = actionErr.Message()
	}

	switch {
	case errors.Is(err, session.ErrNoToken):
		utils.Error(c, 401, "NO_SESSION", "Log in to the vendor API first")
	case errors.Is(err, session.ErrSessionExpired):
		utils.Error(c, 401, "SESSION_EXPIRED", "Session expired, log in again")
	case errors.Is(err, session.ErrInvalidCredentials):
		utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, console.ErrConfirmationDeclined):
		utils.Error(c, 428, "CONFIRMATION_REQUIRED", "Deletion must be confirmed with confirm=true")
	case errors.Is(err, console.ErrActionInProgress):
		utils.Error(c, 409, "ACTION_IN_PROGRESS", "An action is already in progress for this vendor")
	case errors.Is(err, console.ErrRecordNotFound):
		utils.Error(c, 404, "RECORD_NOT_FOUND", "Vendor not found on the current page")
	case errors.Is(err, console.ErrAdminRole):
		utils.Error(c, 400, "ADMIN_ROLE_IMMUTABLE", "Admin roles cannot be changed")
	case errors.Is(err, console.ErrInvalidRole), errors.Is(err, vendoractivo.ErrInvalidRole):
		utils.Error(c, 422, "INVALID_ROLE", "Role must be 'vendedor' or 'usuario'")
	case errors.Is(err, vendoractivo.ErrInvalidPage):
		utils.Error(c, 400, utils.ErrInvalidPage.Error(), "Page must be a positive integer")
	case errors.Is(err, vendoractivo.ErrRequestFailed):
		utils.Error(c, 502, "REQUEST_FAILED", message)
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled console error")
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
