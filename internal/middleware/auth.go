package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"symptom-checker-server/internal/config"
	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/utils"
)

// AuthMiddleware creates a middleware for JWT authentication of operators.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "Invalid token: "+err.Error())
			c.Abort()
			return
		}

		c.Set("operatorID", claims.Subject)
		c.Set("operatorRole", claims.Role)

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It should be used *after* AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetOperatorRoleFromContext(c)
		if !ok {
			utils.InternalServerError(c, "Operator role not found in context. AuthMiddleware might be missing.")
			c.Abort()
			return
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				c.Next()
				return
			}
		}

		utils.Forbidden(c, "You do not have permission to access this resource.")
		c.Abort()
	}
}

func GetOperatorIDFromContext(c *gin.Context) (string, bool) {
	operatorID, exists := c.Get("operatorID")
	if !exists {
		return "", false
	}
	id, ok := operatorID.(string)
	return id, ok
}

func GetOperatorRoleFromContext(c *gin.Context) (models.Role, bool) {
	operatorRole, exists := c.Get("operatorRole")
	if !exists {
		return "", false
	}
	role, ok := operatorRole.(models.Role)
	return role, ok
}
