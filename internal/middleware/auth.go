package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/constants"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/logger"
)

// RequireAuth rejects requests whose session carries no user id.
// The id is copied into the gin context as a uint64.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := sessions.Default(c).Get(constants.ContextKeyUserID)

		userID, ok := toUserID(raw)
		if !ok {
			logger.FromContext(c).WithField("has_session_value", raw != nil).Debug("rejected unauthenticated request")
			apierrors.Unauthorized(c, "")
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID returns the user id set by RequireAuth
func GetUserID(c *gin.Context) (uint64, bool) {
	raw, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUserID(raw)
}

// toUserID accepts the integer types a session codec may hand back
func toUserID(raw any) (uint64, bool) {
	switch v := raw.(type) {
	case uint64:
		return v, v > 0
	case uint:
		return uint64(v), v > 0
	case int64:
		return uint64(v), v > 0
	case int:
		return uint64(v), v > 0
	default:
		return 0, false
	}
}
