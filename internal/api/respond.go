package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/logger"
	"github.com/forkful/forkful-backend/internal/service"
)

// renderError maps a domain error to its HTTP response. Anything that is
// not a domain error is a 500 and the detail stays out of the body.
func renderError(c *gin.Context, err error) {
	if de := service.AsError(err); de != nil {
		body := gin.H{"error": de.Detail, "code": string(de.Kind)}
		if de.Field != "" {
			body["field"] = de.Field
		}
		c.JSON(statusFor(de.Kind), body)
		return
	}

	log := logger.WithComponent("api")
	log.Error().Err(err).
		Str("path", c.Request.URL.Path).
		Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindPermission:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
