package middleware

import (
	"net/http"
	"strings"

	"townbank/auth"
	"townbank/domain/entities"

	"github.com/gin-gonic/gin"
)

// Context keys set by Auth
const (
	AccountIDKey = "account_id"
	RoleKey      = "role"
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Auth requires a valid bearer token and stores the caller's identity in the context
func Auth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(AccountIDKey, claims.AccountID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// AccountID returns the authenticated account id
func AccountID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(AccountIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}

// Role returns the role carried by the token
func Role(c *gin.Context) entities.Role {
	role, _ := c.Get(RoleKey)
	r, _ := role.(entities.Role)
	return r
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"kind":    "authorization",
			"code":    "unauthenticated",
			"message": message,
		},
	})
}
