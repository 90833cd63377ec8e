package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is a private type for context keys to prevent collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin
// context. It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v := c.Request.Context().Value(userIDKey); v != nil {
		if userID, ok := v.(string); ok {
			return userID, true
		}
	}
	return "", false
}

// WithUserID returns a context carrying the acting user's ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
