package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/medicare-hq/staff-console/internal/backend"
	"github.com/medicare-hq/staff-console/internal/dispatcher"
	"github.com/medicare-hq/staff-console/internal/middleware"
	"github.com/medicare-hq/staff-console/internal/model"
	"github.com/medicare-hq/staff-console/internal/registry"
	"github.com/medicare-hq/staff-console/internal/visibility"
	apperrors "github.com/medicare-hq/staff-console/pkg/errors"
)

type Handler struct {
	registry   *registry.Registry
	dispatcher *dispatcher.Dispatcher
	logger     *zerolog.Logger
}

func NewHandler(reg *registry.Registry, disp *dispatcher.Dispatcher, logger *zerolog.Logger) *Handler {
	return &Handler{registry: reg, dispatcher: disp, logger: logger}
}

// labRequest decorates a lab record with its home-collection flag so
// the client does not re-derive it from the free-text label.
type labRequest struct {
	model.Appointment
	HomeCollection bool `json:"home_collection"`
}

// Overview returns the counters plus the role's view definition.
func (h *Handler) Overview(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"stats": h.registry.Stats(),
			"view":  visibility.Resolve(sess.Role),
			"name":  sess.Name,
		},
	})
}

// Appointments serves the doctor workspace: non-lab records only.
func (h *Handler) Appointments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"appointments": h.registry.Consults(),
			"pending":      h.registry.Stats().Doctors,
		},
	})
}

// Lab serves the lab workspace with home-collection flags.
func (h *Handler) Lab(c *gin.Context) {
	tests := h.registry.LabTests()
	out := make([]labRequest, 0, len(tests))
	for _, t := range tests {
		out = append(out, labRequest{Appointment: t, HomeCollection: t.IsHomeCollection()})
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"requests": out,
			"open":     h.registry.Stats().Lab,
		},
	})
}

// Pharmacy serves the pharmacy workspace.
func (h *Handler) Pharmacy(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"orders":    h.registry.Orders(),
			"preparing": h.registry.Stats().Pharmacy,
		},
	})
}

// Refresh triggers a manual snapshot refresh; failures keep the stale
// snapshot and are reported as a retryable condition.
func (h *Handler) Refresh(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	ctx := backend.WithRequestToken(c.Request.Context(), sess.Token)
	if err := h.registry.Refresh(ctx); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": "refresh failed, showing last known data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"stats": h.registry.Stats()}})
}

// UpdateStatus maps a staff action onto the dispatcher.
func (h *Handler) UpdateStatus(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	var action dispatcher.Action
	if err := c.ShouldBindJSON(&action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if !roleMayTarget(sess.Role, action.ItemType) {
		c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "action not available for this role"})
		return
	}

	ctx := backend.WithRequestToken(c.Request.Context(), sess.Token)
	if err := h.dispatcher.Dispatch(ctx, action); err != nil {
		if apperrors.IsValidation(err) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "message": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": "action failed, please retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"stats": h.registry.Stats()}})
}

// roleMayTarget keeps actions inside the role's visible workspaces:
// prescriptions belong to the pharmacy tab, appointment records to the
// appointments or lab tab.
func roleMayTarget(role model.Role, itemType backend.ItemType) bool {
	switch itemType {
	case backend.ItemTypePrescription:
		return visibility.Visible(role, visibility.TabPharmacy)
	case backend.ItemTypeAppointment:
		return visibility.Visible(role, visibility.TabAppointments) ||
			visibility.Visible(role, visibility.TabLab)
	default:
		return false
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	group := r.Group("/dashboard")
	group.Use(auth.Authenticate())
	{
		group.GET("/overview", auth.RequireTab(visibility.TabOverview), h.Overview)
		group.GET("/appointments", auth.RequireTab(visibility.TabAppointments), h.Appointments)
		group.GET("/lab", auth.RequireTab(visibility.TabLab), h.Lab)
		group.GET("/pharmacy", auth.RequireTab(visibility.TabPharmacy), h.Pharmacy)
		group.POST("/refresh", h.Refresh)
		group.POST("/actions/status", h.UpdateStatus)
	}
}
