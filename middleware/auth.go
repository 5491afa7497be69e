package middleware

import (
	"net/http"
	"strings"

	"ramesh-admin/models"
	"ramesh-admin/utils"

	"github.com/gin-gonic/gin"
)

func abortError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
	c.Abort()
}

// AuthMiddleware validates the bearer token and stores the admin identity
// on the request context. The "Invalid or expired token" message is load
// bearing: clients key their session teardown on it.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortError(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			abortError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set("admin_id", claims.AdminID)
		c.Set("admin_email", claims.Email)
		c.Set("admin_role", claims.Role)
		c.Next()
	}
}

// AdminMiddleware requires an admin or super admin role.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("admin_role")
		if !exists {
			abortError(c, http.StatusForbidden, "Admin access required")
			return
		}
		if role != models.RoleAdmin && role != models.RoleSuperAdmin {
			abortError(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// SuperAdminMiddleware requires the super admin role.
func SuperAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("admin_role")
		if !exists || role != models.RoleSuperAdmin {
			abortError(c, http.StatusForbidden, "Super admin access required")
			return
		}
		c.Next()
	}
}
