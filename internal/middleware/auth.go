package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TokenClaims is the decoded identity carried by a bearer token.
type TokenClaims struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// TokenValidator is an interface for validating JWT tokens.
type TokenValidator interface {
	ValidateToken(token string) (*TokenClaims, error)
}

// AuthMiddleware creates a middleware that validates JWT tokens.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, validator)
		if !ok {
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("is_admin", claims.IsAdmin)
		c.Next()
	}
}

// OptionalAuthMiddleware decodes a bearer token when present but lets
// anonymous requests through. Read endpoints use it to decorate responses
// with per-caller flags.
func OptionalAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		claims, ok := bearerClaims(c, validator)
		if !ok {
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("is_admin", claims.IsAdmin)
		c.Next()
	}
}

func bearerClaims(c *gin.Context, validator TokenValidator) (*TokenClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
		c.Abort()
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
		c.Abort()
		return nil, false
	}

	claims, err := validator.ValidateToken(parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		c.Abort()
		return nil, false
	}
	return claims, true
}

// CurrentUserID returns the authenticated user id, or uuid.Nil for
// anonymous requests.
func CurrentUserID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
