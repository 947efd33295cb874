package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/graph-guard/internal/domain/dto"
	"github.com/guttosm/graph-guard/internal/logger"
)

// ErrorHandler returns a middleware that logs errors attached to the gin
// context and writes a 500 response when the handler wrote nothing.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		requestID := GetRequestID(c)

		log := logger.Logger()
		log.Error().
			Str("request_id", requestID).
			Err(err.Err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Request error")

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError,
				dto.NewError(dto.ErrCodeInternal, "An internal error occurred").WithRequestID(requestID))
		}
	}
}
