package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jcbcouch/dotnetwebapi/internal/identity"
)

const actorKey = "actor"

// Auth returns a Gin middleware that resolves the acting user from the
// Authorization header using the provided verifier. In ModeNone the
// middleware is a pass-through and requests stay anonymous; in ModeRequired
// a missing or invalid credential aborts with 401.
func Auth(ver identity.Verifier, mode identity.Mode) gin.HandlerFunc {
	if mode == identity.ModeNone {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		// Expect 'Bearer <token>'
		var token string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		actor, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(actorKey, *actor)
		c.Next()
	}
}

// ActorFrom returns the acting user resolved by Auth, if any.
func ActorFrom(c *gin.Context) (identity.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return identity.Actor{}, false
	}
	a, ok := v.(identity.Actor)
	return a, ok
}
