package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/duelcore/matchcore/internal/httpapi/middleware"
	"github.com/duelcore/matchcore/internal/push"
	"github.com/duelcore/matchcore/pkg/health"
	sharedmw "github.com/duelcore/matchcore/pkg/http/middleware"
	"github.com/duelcore/matchcore/pkg/logging"
)

// SetupRouter wires global middleware, the health, metrics, and websocket
// endpoints, and the seven match lifecycle transitions onto r.
func SetupRouter(
	r *gin.Engine,
	h *Handler,
	pushHandler *push.Handler,
	auth *middleware.Auth,
	reporter health.Reporter,
	logger logging.Logger,
) {
	r.Use(
		sharedmw.Recovery(logger),
		sharedmw.Logger(logger),
		sharedmw.CORS(),
	)

	r.GET("/health", func(c *gin.Context) {
		status := reporter.RunChecks(c.Request.Context())
		httpCode := 200
		if status.Status == health.StatusDown {
			httpCode = 503
		}
		c.JSON(httpCode, status)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", pushHandler.Connect)

	matchesGroup := r.Group("/matches")
	matchesGroup.Use(auth.Authenticate())
	{
		matchesGroup.POST("/invite", h.Invite)
		matchesGroup.POST("/accept", h.Accept)
		matchesGroup.POST("/decline", h.Decline)
		matchesGroup.POST("/cancel", h.Cancel)
		matchesGroup.POST("/report", h.Report)
		matchesGroup.POST("/confirm", h.Confirm)
		matchesGroup.POST("/rematch", h.Rematch)
	}
}
