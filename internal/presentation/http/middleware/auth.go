package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/infrastructure/posapi"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/sangkips/pos-console/pkg/utils"
)

// SessionRestorer loads the console session behind a validated token
type SessionRestorer interface {
	Restore(ctx context.Context, claims *utils.JWTClaims) (*service.RestoredSession, error)
}

// AuthMiddleware validates the console token, restores its session and puts
// the backend credentials on the request context.
func AuthMiddleware(jwtManager *utils.JWTManager, sessions SessionRestorer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateSessionToken(parts[1])
		if err != nil {
			response.AbortWithError(c, apperror.ErrSessionExpired)
			return
		}

		restored, err := sessions.Restore(c.Request.Context(), claims)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		user := restored.Session.User
		c.Set("session_id", restored.Session.ID)
		c.Set("user", &user)
		c.Set("user_role", user.ConsoleRole())
		c.Set("credentials", restored.Credentials)

		ctx := posapi.WithCredentials(c.Request.Context(), restored.Credentials)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole creates a middleware that requires one of the given console roles
func RequireRole(roles ...enum.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user_role")
		if !exists {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		role, ok := value.(enum.Role)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, required := range roles {
			if role == required {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}
