package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hokuto/taskhub-api/internal/authz"
	"github.com/hokuto/taskhub-api/internal/constants"
	apierrors "github.com/hokuto/taskhub-api/internal/errors"
	"github.com/hokuto/taskhub-api/internal/models"
	"github.com/hokuto/taskhub-api/internal/services"
)

// RequireAuth validates the bearer token from the Authorization header
// and stores the decoded actor in the request context.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		actor, err := authService.VerifyToken(tokenString)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyActor, actor)
		c.Next()
	}
}

// RequireRole fails requests whose actor does not hold one of the given
// global roles. Must run after RequireAuth.
func RequireRole(roles ...models.GlobalRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := GetActor(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "")
		c.Abort()
	}
}

// GetActor retrieves the authenticated actor from context
func GetActor(c *gin.Context) (authz.Actor, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return authz.Actor{}, false
	}

	actor, ok := value.(authz.Actor)
	if !ok {
		return authz.Actor{}, false
	}
	return actor, true
}
