package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// sessionCookieName is the cookie Clerk sets on the application domain.
const sessionCookieName = "__session"

const contextKeyPrincipal = "principal"

// PrincipalFromContext returns the principal set by RequireSession.
// The second return is false for anonymous requests.
func PrincipalFromContext(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(contextKeyPrincipal)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// RequireSession returns a middleware that verifies the Clerk session token
// from the __session cookie or the Authorization header and sets the
// principal in context. If missing or invalid, responds with 401.
func RequireSession(verifier *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		principal, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(contextKeyPrincipal, principal)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
