package middleware

import (
	"net/http"
	"strings"

	"courselab_backend/internal/auth"
	"courselab_backend/internal/logger"
	"courselab_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID     = "userID"
	ContextRole       = "role"
	ContextBusinessID = "businessID"
	ContextHasPaid    = "hasPaid"
)

// AuthMiddleware verifies the bearer token and stores the claims in the
// Gin context.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextBusinessID, claims.BusinessID)
		c.Set(ContextHasPaid, claims.HasPaid)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequirePermission gates an operation on the role permission table instead
// of inline role comparisons.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}

		if !auth.HasPermission(role, permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
			return
		}

		c.Next()
	}
}

// GetUserID returns the authenticated user id from the context.
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}
	return id
}

// GetRole returns the authenticated role from the context.
func GetRole(c *gin.Context) models.UserRole {
	roleVal, exists := c.Get(ContextRole)
	if !exists {
		return ""
	}

	role, ok := roleVal.(models.UserRole)
	if !ok {
		// The role may have been stored as a plain string.
		roleStr, isString := roleVal.(string)
		if !isString {
			return ""
		}
		role = models.UserRole(roleStr)
	}
	return role
}
