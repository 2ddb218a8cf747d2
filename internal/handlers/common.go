package handlers

import (
	"errors"

	"github.com/AliiiBenn/mini-auth/internal/services"
	"github.com/AliiiBenn/mini-auth/pkg/logger"
	"github.com/AliiiBenn/mini-auth/pkg/response"
	"github.com/gin-gonic/gin"
)

// respondError maps service failures onto the response envelope. The
// authentication message is uniform so callers cannot tell a wrong
// password from an unknown user or a dead token.
func respondError(c *gin.Context, err error) {
	var conflict *services.ConflictError
	switch {
	case errors.Is(err, services.ErrAuthenticationFailed):
		response.Unauthorized(c, "authentication failed")
	case errors.Is(err, services.ErrAuthorizationDenied):
		response.Forbidden(c, "not permitted")
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(c, "not found")
	case errors.As(err, &conflict):
		response.Conflict(c, conflict.Error())
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		response.ServerError(c, "internal server error")
	}
}
