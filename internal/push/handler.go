package push

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/duelcore/matchcore/pkg/auth/jwt"
	"github.com/duelcore/matchcore/pkg/logging"
)

// HandleResolver resolves a validated token's subject identifier down to
// the handle the hub routes envelopes by. Satisfied by
// internal/identity.Resolver; declared locally so push does not depend on
// identity's persistence concerns.
type HandleResolver interface {
	HandleForIdentifier(ctx context.Context, id string) (handle string, found bool, err error)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades authenticated HTTP requests into push sessions.
type Handler struct {
	hub        *Hub
	jwtManager *jwt.Manager
	resolver   HandleResolver
	logger     logging.Logger
}

// NewHandler builds a push connection handler bound to hub.
func NewHandler(hub *Hub, jwtManager *jwt.Manager, resolver HandleResolver, logger logging.Logger) *Handler {
	return &Handler{hub: hub, jwtManager: jwtManager, resolver: resolver, logger: logger}
}

// Connect validates the bearer token (from the Authorization header or,
// since browsers cannot set headers during the WS handshake, the `token`
// query parameter) and upgrades the connection. The resolved subject
// becomes the routing handle for the session's lifetime.
func (h *Handler) Connect(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	claims, err := h.jwtManager.ValidateToken(token)
	if err != nil {
		h.logger.Warn("push handshake rejected", logging.Error(err))
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	handle, found, err := h.resolver.HandleForIdentifier(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("push handshake identity lookup failed", logging.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if !found {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", logging.PlayerHandle(handle), logging.Error(err))
		return
	}

	h.logger.Info("push session established", logging.PlayerHandle(handle))
	h.hub.Register(conn, handle)
	h.logger.Info("push session closed", logging.PlayerHandle(handle))
}

func bearerToken(c *gin.Context) string {
	if raw := c.Query("token"); raw != "" {
		return raw
	}

	auth := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}
