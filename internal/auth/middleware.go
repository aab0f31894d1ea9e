package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/karthikc1125/GroqTales/internal/util"
)

// Middleware validates bearer tokens issued by the external identity
// provider and exposes the caller's opaque user ID to handlers. This
// service never issues or refreshes tokens.
type Middleware struct {
	jwtSecret []byte
}

// NewMiddleware creates an auth middleware with the shared HS256 secret
func NewMiddleware(jwtSecret []byte) *Middleware {
	return &Middleware{jwtSecret: jwtSecret}
}

// RequireAuth rejects requests without a valid bearer token
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := m.userIDFromRequest(c)
		if err != nil {
			util.RespondUnauthorized(c)
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalAuth extracts the caller identity when a valid token is present
// and lets the request proceed anonymously otherwise. The feed endpoint
// uses this: anonymous callers get the trending feed.
func (m *Middleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, err := m.userIDFromRequest(c); err == nil {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

// userIDFromRequest parses the Authorization header and returns the
// token's user ID claim
func (m *Middleware) userIDFromRequest(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("no token provided")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}

	// Accept either claim name; the identity provider uses "sub",
	// older tokens carry "user_id"
	if userID, ok := claims["user_id"].(string); ok && userID != "" {
		return userID, nil
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub, nil
	}
	return "", errors.New("no user id in token")
}
