package middleware

import (
	"context"
	"strings"

	"github.com/Anitej05/Civic-Connect/internal/pkg/response"
	"github.com/Anitej05/Civic-Connect/internal/pkg/token"

	"github.com/gin-gonic/gin"
)

// RoleResolver maps an authenticated user id to their role. Roles live in
// the users collection so they can be changed without reissuing tokens.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID string) (string, error)
}

func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		// Support both "Bearer <token>" (case-insensitive) and raw token in header
		fields := strings.Fields(authHeader)
		var tokenString string
		if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
			tokenString = fields[1]
		} else {
			tokenString = authHeader
		}

		claims, err := token.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// RequireAdmin gates admin endpoints. Must run after Auth.
func RequireAdmin(resolver RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if userID == "" {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		role, err := resolver.RoleOf(c.Request.Context(), userID)
		if err != nil {
			response.Forbidden(c, "Admin access required", "FORBIDDEN")
			c.Abort()
			return
		}
		if role != "admin" {
			response.Forbidden(c, "Admin access required", "FORBIDDEN")
			c.Abort()
			return
		}

		c.Set("role", role)
		c.Next()
	}
}
