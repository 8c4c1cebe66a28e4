package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/elskow/naviwish/internal/api"
)

// Define a custom type for context keys
type contextKey string

const (
	// UserContextKey is the key used to store the identity name in the context
	UserContextKey contextKey = "user"
)

type AuthMiddleware struct {
	tokens *TokenIssuer
	log    *zap.Logger
}

func NewAuthMiddleware(tokens *TokenIssuer, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		log:    log,
	}
}

// RequireSession rejects requests without a valid bearer token before any
// handler runs. On success the identity name is stored in the request context.
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		name, err := m.tokens.Verify(bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			m.log.Debug("authentication failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: msgSessionExpiry})
			return
		}

		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), UserContextKey, name))
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Helper function to get the identity name from context
func GetUserFromContext(ctx context.Context) (string, error) {
	name, ok := ctx.Value(UserContextKey).(string)
	if !ok || name == "" {
		return "", errors.New("user not found in context")
	}
	return name, nil
}
