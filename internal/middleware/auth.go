package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medicare-hq/staff-console/internal/model"
	"github.com/medicare-hq/staff-console/internal/session"
	"github.com/medicare-hq/staff-console/internal/visibility"
)

const (
	// ContextSession is the gin context key holding the staff session.
	ContextSession = "session"
	// ContextSessionID holds the console session ID for logout.
	ContextSessionID = "session_id"
)

type AuthMiddleware struct {
	sessions *session.Store
}

func NewAuthMiddleware(sessions *session.Store) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate resolves the console session from the bearer header and
// sets it in the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid authorization header"})
			return
		}

		sess, ok := m.sessions.Get(parts[1])
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "session expired or unknown"})
			return
		}

		c.Set(ContextSession, sess)
		c.Set(ContextSessionID, parts[1])
		c.Next()
	}
}

// RequireTab blocks any request whose role may not see the workspace.
// This is what keeps action affordances outside the visible set
// unreachable even though the registry holds the data.
func (m *AuthMiddleware) RequireTab(tab visibility.Tab) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFromContext(c)
		if sess == nil || !visibility.Visible(sess.Role, tab) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "message": "workspace not available for this role"})
			return
		}
		c.Next()
	}
}

// SessionFromContext returns the authenticated session, or nil.
func SessionFromContext(c *gin.Context) *model.Session {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil
	}
	sess, ok := v.(model.Session)
	if !ok {
		return nil
	}
	return &sess
}
