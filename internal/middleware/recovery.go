package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/graph-guard/internal/domain/dto"
	"github.com/guttosm/graph-guard/internal/logger"
)

// Recovery returns a middleware that recovers from panics and returns a 500 error.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(c)
				log := logger.Logger()
				log.Error().
					Str("request_id", requestID).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Interface("panic", err).
					Msg("PANIC recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewError(dto.ErrCodeInternal, "An unexpected error occurred").WithRequestID(requestID))
			}
		}()
		c.Next()
	}
}
