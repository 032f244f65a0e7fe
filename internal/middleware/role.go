package middleware

import (
	"github.com/gin-gonic/gin"

	"homeclean/internal/domain"
	"homeclean/internal/modules/auth"
	"homeclean/internal/pkg/response"
)

// RequireRole lets the request through only when the session has one of roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := auth.SessionFrom(c.Request.Context())
		if session == nil {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		for _, role := range roles {
			if session.Is(role) {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "Access denied: insufficient permissions")
		c.Abort()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
