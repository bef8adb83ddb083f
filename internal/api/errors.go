package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/donovan-vargas/recipe-app-api/internal/service"
)

// respondError maps domain errors to HTTP status codes. Anything outside
// the taxonomy is a 500 with no internal detail exposed.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidCredentials.Error()})
	default:
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
