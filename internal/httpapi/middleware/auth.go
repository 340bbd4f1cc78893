// Package middleware holds gin middleware specific to the match lifecycle
// HTTP surface.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/duelcore/matchcore/internal/identity"
	"github.com/duelcore/matchcore/pkg/auth/jwt"
	apierr "github.com/duelcore/matchcore/pkg/errors"
	"github.com/duelcore/matchcore/pkg/httpx"
)

// HandleKey is the gin context key the caller's authenticated handle is
// stored under once Authenticate succeeds.
const HandleKey = "callerHandle"

// Auth validates the bearer token on every non-auth endpoint and resolves
// its subject identifier down to the caller's handle, the identity the
// Lifecycle Coordinator operates on.
type Auth struct {
	jwtManager *jwt.Manager
	resolver   identity.Resolver
}

// NewAuth builds the bearer-auth middleware.
func NewAuth(jwtManager *jwt.Manager, resolver identity.Resolver) *Auth {
	return &Auth{jwtManager: jwtManager, resolver: resolver}
}

// Authenticate rejects requests with a missing, malformed, or expired
// bearer token, and requests whose subject no longer resolves to a player.
func (a *Auth) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			httpx.Error(c, apierr.AuthFailure("missing or malformed authorization header"))
			c.Abort()
			return
		}

		claims, err := a.jwtManager.ValidateToken(parts[1])
		if err != nil {
			httpx.Error(c, apierr.AuthFailure("invalid or expired token"))
			c.Abort()
			return
		}

		handle, found, err := a.resolver.HandleForIdentifier(c.Request.Context(), claims.UserID)
		if err != nil {
			httpx.Error(c, apierr.Wrap(err, apierr.CodeInternal, "identity lookup failed"))
			c.Abort()
			return
		}
		if !found {
			httpx.Error(c, apierr.AuthFailure("token subject is not a known player"))
			c.Abort()
			return
		}

		c.Set(HandleKey, handle)
		c.Next()
	}
}

// CallerHandle reads the authenticated caller's handle set by Authenticate.
func CallerHandle(c *gin.Context) (string, bool) {
	handle, exists := c.Get(HandleKey)
	if !exists {
		return "", false
	}
	return handle.(string), true
}
