package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"homeclean/internal/modules/auth"
	"homeclean/internal/pkg/response"
)

// SessionResolver turns a bearer token into a live session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Session, error)
}

// SessionAuth requires an "Authorization: Bearer <token>" header and puts the
// resolved session on both the gin and request contexts.
func SessionAuth(resolver SessionResolver) gin.HandlerFunc {
	return sessionAuth(resolver, false)
}

// SessionAuthQuery also accepts ?token=, which is the only way a browser
// websocket can authenticate.
func SessionAuthQuery(resolver SessionResolver) gin.HandlerFunc {
	return sessionAuth(resolver, true)
}

func sessionAuth(resolver SessionResolver, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok && allowQuery {
			token = c.Query("token")
			ok = token != ""
		}
		if !ok {
			response.Error(c, http.StatusUnauthorized, "AUTH_MISSING", "Authorization token is required")
			c.Abort()
			return
		}

		session, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil || session == nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired session")
			c.Abort()
			return
		}

		c.Set("user_id", session.UserID)
		c.Set("role", string(session.Role))
		c.Set("session", session)
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
