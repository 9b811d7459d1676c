package httppresentation

import (
	"strings"

	"github.com/felipeshurrab/Harmonia/internal/domain/access"
	"github.com/felipeshurrab/Harmonia/internal/domain/fault"
	"github.com/felipeshurrab/Harmonia/internal/observability"
	"github.com/felipeshurrab/Harmonia/internal/observability/logctx"
	"github.com/gin-gonic/gin"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserName = "X-User-Name"
	HeaderUserRole = "X-User-Role"

	actorKey = "harmonia.actor"
)

// ActorMiddleware reads the caller forwarded by the gateway. Requests without
// an id or a known role are rejected.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderUserID))
		role := access.ParseRole(c.GetHeader(HeaderUserRole))
		if id == "" || role == "" {
			writeFault(c, fault.Unauthorized("missing or invalid caller identity"))
			c.Abort()
			return
		}
		c.Set(actorKey, access.Actor{
			ID:   id,
			Name: strings.TrimSpace(c.GetHeader(HeaderUserName)),
			Role: role,
		})
		c.Request = c.Request.WithContext(logctx.WithFields(c.Request.Context(), nil,
			observability.F("actor_id", id),
			observability.F("actor_role", string(role)),
		))
		c.Next()
	}
}

// RequireRole lets through callers holding any of roles.
func RequireRole(roles ...access.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			writeFault(c, fault.Unauthorized(""))
			c.Abort()
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		writeFault(c, fault.Forbidden("role "+string(actor.Role)+" may not perform this operation"))
		c.Abort()
	}
}

func actorFrom(c *gin.Context) (access.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return access.Actor{}, false
	}
	actor, ok := v.(access.Actor)
	return actor, ok
}
