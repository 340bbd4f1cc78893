package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/duelcore/matchcore/pkg/errors"
	"github.com/duelcore/matchcore/pkg/httpx"
	"github.com/duelcore/matchcore/pkg/logging"
)

// Recovery returns a middleware that recovers from panics
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				// Get stack trace
				stack := string(debug.Stack())

				// Log the panic
				logger.Error("Panic recovered",
					logging.Any("error", r),
					logging.String("stack", stack),
				)

				// Create a server error
				err := errors.Internal("Internal server error")

				// Send error response
				httpx.Error(c, err)

				// Abort the request
				c.Abort()
			}
		}()

		c.Next()
	}
}
