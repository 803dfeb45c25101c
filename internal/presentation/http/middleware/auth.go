package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/bizcoach-api/internal/presentation/http/dto/response"
	"github.com/sangkips/bizcoach-api/pkg/utils"
)

// Context keys set by AuthMiddleware
const (
	OwnerIDKey    = "user_id"
	OwnerEmailKey = "user_email"
)

// AuthMiddleware creates a JWT authentication middleware. The token subject
// becomes the owner every downstream query is scoped to.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				response.Unauthorized(c, "Token has expired")
			} else {
				response.Unauthorized(c, "Invalid or expired token")
			}
			c.Abort()
			return
		}
		if claims.UserID == uuid.Nil {
			response.Unauthorized(c, "Token has no owner")
			c.Abort()
			return
		}

		c.Set(OwnerIDKey, claims.UserID)
		c.Set(OwnerEmailKey, claims.Email)

		c.Next()
	}
}

// GetOwnerID returns the authenticated owner or uuid.Nil
func GetOwnerID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(OwnerIDKey)
	if !exists {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
