package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskflow-api/internal/constants"
	apierrors "github.com/yukikurage/taskflow-api/internal/errors"
	"github.com/yukikurage/taskflow-api/internal/guard"
)

// LoadSession resolves the session cookie into the request context on every
// request. It never rejects; absence of a session just leaves the request
// unauthenticated.
func LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if id, ok := session.Get(constants.ContextKeyUserID).(string); ok && id != "" {
			c.Set(constants.ContextKeyUserID, id)
		}
		c.Next()
	}
}

// CurrentUser returns the resolved-session identity for this request.
func CurrentUser(c *gin.Context) guard.CurrentUser {
	if v, exists := c.Get(constants.ContextKeyUserID); exists {
		if id, ok := v.(string); ok {
			return guard.CurrentUser{ID: id}
		}
	}
	return guard.CurrentUser{}
}

// RequireAuth aborts with 401 when the guard rejects the request.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := guard.Require(CurrentUser(c)); err != nil {
			apierrors.Unauthorized(c, "Not authenticated")
			c.Abort()
			return
		}
		c.Next()
	}
}
