package server

import (
	"errors"
	"strconv"
	"strings"

	"blogapi/internal/auth"
	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	msgInvalidPostID    = "Invalid post ID"
	msgInvalidCommentID = "Comment ID must be a valid number"
)

// respondError renders err as an envelope. Internal failures are logged with
// their detail; the caller only sees the generic message.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	appErr := models.AsAppError(err)
	if appErr.Status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}
	return models.RespondWithError(c, appErr)
}

// bindBody decodes and validates the request body into dst.
func bindBody(c *fiber.Ctx, dst any) error {
	err := validation.Bind(c.Body(), dst)
	if err == nil {
		return nil
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		return models.NewValidationError(verr.Message)
	}
	return models.NewInternalError(err)
}

// requireIdentity returns the caller attached by the token check.
func requireIdentity(c *fiber.Ctx) (auth.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return auth.Identity{}, models.NewUnauthorizedError("Unauthorized User Access")
	}
	return identity, nil
}

// parseUint reads a base-10 unsigned integer, failing with a 400 carrying message.
func parseUint(raw, message string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil {
		return 0, models.NewValidationError(message)
	}
	return uint(id), nil
}

// parseID extracts a numeric route parameter.
func parseID(c *fiber.Ctx, param, message string) (uint, error) {
	return parseUint(c.Params(param), message)
}

// parsePage reads ?page=, defaulting to 1 for anything missing, malformed or below 1.
func parsePage(c *fiber.Ctx) int {
	page, err := strconv.Atoi(strings.TrimSpace(c.Query("page")))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
