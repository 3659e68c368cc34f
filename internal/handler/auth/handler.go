package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/medicare-hq/staff-console/internal/backend"
	"github.com/medicare-hq/staff-console/internal/middleware"
	"github.com/medicare-hq/staff-console/internal/model"
	"github.com/medicare-hq/staff-console/internal/session"
	"github.com/medicare-hq/staff-console/internal/visibility"
	apperrors "github.com/medicare-hq/staff-console/pkg/errors"
)

type Handler struct {
	admin    *backend.AdminClient
	sessions *session.Store
	logger   *zerolog.Logger
}

func NewHandler(admin *backend.AdminClient, sessions *session.Store, logger *zerolog.Logger) *Handler {
	return &Handler{admin: admin, sessions: sessions, logger: logger}
}

// Login forwards the credentials to the platform, validates the role,
// and opens a console session bounded by the platform token's expiry.
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	resp, err := h.admin.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if apperrors.IsHTTPStatus(err, http.StatusUnauthorized) || apperrors.IsHTTPStatus(err, http.StatusForbidden) {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid credentials"})
			return
		}
		h.logger.Error().Err(err).Msg("platform login failed")
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": "login unavailable, please retry"})
		return
	}

	role, err := model.ParseRole(resp.Role)
	if err != nil {
		h.logger.Warn().Str("role", resp.Role).Msg("login rejected for unknown role")
		c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "account has no staff role"})
		return
	}

	sessionID := h.sessions.Create(model.Session{
		Token:     resp.AccessToken,
		Name:      resp.Name,
		Role:      role,
		ExpiresAt: session.TokenExpiry(resp.AccessToken),
	})

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"session": sessionID,
			"name":    resp.Name,
			"role":    role,
			"view":    visibility.Resolve(role),
		},
	})
}

// Logout ends the console session.
func (h *Handler) Logout(c *gin.Context) {
	if id := c.GetString(middleware.ContextSessionID); id != "" {
		h.sessions.Delete(id)
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	group := r.Group("/auth")
	{
		group.POST("/login", h.Login)
		group.POST("/logout", auth.Authenticate(), h.Logout)
	}
}
