package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicare-hq/staff-console/internal/backend"
	"github.com/medicare-hq/staff-console/internal/dispatcher"
	"github.com/medicare-hq/staff-console/internal/middleware"
	"github.com/medicare-hq/staff-console/internal/model"
	"github.com/medicare-hq/staff-console/internal/registry"
	"github.com/medicare-hq/staff-console/internal/session"
	"github.com/medicare-hq/staff-console/pkg/metrics"
)

type fakeFetcher struct {
	appointments []model.Appointment
	orders       []model.PharmacyOrder
}

func (f *fakeFetcher) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	return f.appointments, nil
}

func (f *fakeFetcher) ListPharmacyQueue(ctx context.Context) ([]model.PharmacyOrder, error) {
	return f.orders, nil
}

type fakeUpdater struct {
	calls int
	err   error
}

func (f *fakeUpdater) UpdateStatus(ctx context.Context, itemType backend.ItemType, id int, newStatus string, extra *backend.Reschedule) error {
	f.calls++
	return f.err
}

type consoleFixture struct {
	engine   *gin.Engine
	updater  *fakeUpdater
	sessions *session.Store
}

func newFixture(t *testing.T) *consoleFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zerolog.Nop()
	m := metrics.New("test")

	fetcher := &fakeFetcher{
		appointments: []model.Appointment{
			{ID: 1, Type: model.AppointmentTypeStandard, Status: model.AppointmentStatusPending},
			{ID: 2, Type: model.AppointmentTypeLabTest, Status: model.AppointmentStatusPending, DoctorName: "Dr. Home Collection Services"},
		},
		orders: []model.PharmacyOrder{
			{ID: 1, Status: model.OrderStatusPreparing},
		},
	}

	reg := registry.New(fetcher, &logger, m)
	require.NoError(t, reg.Refresh(context.Background()))

	updater := &fakeUpdater{}
	disp := dispatcher.New(updater, reg, &logger, m)

	sessions := session.NewStore()
	auth := middleware.NewAuthMiddleware(sessions)

	engine := gin.New()
	h := NewHandler(reg, disp, &logger)
	h.RegisterRoutes(engine.Group("/api/v1"), auth)

	return &consoleFixture{engine: engine, updater: updater, sessions: sessions}
}

func (f *consoleFixture) login(role model.Role) string {
	return f.sessions.Create(model.Session{Token: "platform-token", Name: "Test Staff", Role: role})
}

func (f *consoleFixture) request(method, path, sessionID, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if sessionID != "" {
		req.Header.Set("Authorization", "Bearer "+sessionID)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	f := newFixture(t)
	w := f.request(http.MethodGet, "/api/v1/dashboard/pharmacy", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGatingOnWorkspaces(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		role model.Role
		path string
		code int
	}{
		{model.RoleAdmin, "/api/v1/dashboard/overview", http.StatusOK},
		{model.RoleAdmin, "/api/v1/dashboard/lab", http.StatusOK},
		{model.RoleDoctor, "/api/v1/dashboard/appointments", http.StatusOK},
		{model.RoleDoctor, "/api/v1/dashboard/lab", http.StatusForbidden},
		{model.RoleDoctor, "/api/v1/dashboard/overview", http.StatusForbidden},
		{model.RoleLab, "/api/v1/dashboard/lab", http.StatusOK},
		{model.RoleLab, "/api/v1/dashboard/pharmacy", http.StatusForbidden},
		{model.RolePharmacist, "/api/v1/dashboard/pharmacy", http.StatusOK},
		{model.RolePharmacist, "/api/v1/dashboard/appointments", http.StatusForbidden},
	}

	for _, tt := range tests {
		w := f.request(http.MethodGet, tt.path, f.login(tt.role), "")
		assert.Equal(t, tt.code, w.Code, "%s on %s", tt.role, tt.path)
	}
}

func TestLabViewFlagsHomeCollection(t *testing.T) {
	f := newFixture(t)
	w := f.request(http.MethodGet, "/api/v1/dashboard/lab", f.login(model.RoleLab), "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"home_collection":true`)
}

func TestActionGatedByRole(t *testing.T) {
	f := newFixture(t)

	// A doctor may not touch pharmacy orders.
	w := f.request(http.MethodPost, "/api/v1/dashboard/actions/status", f.login(model.RoleDoctor),
		`{"item_type":"prescription","item_id":1,"new_status":"ready"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, f.updater.calls, "forbidden actions must not reach the platform")

	// A pharmacist may.
	w = f.request(http.MethodPost, "/api/v1/dashboard/actions/status", f.login(model.RolePharmacist),
		`{"item_type":"prescription","item_id":1,"new_status":"ready"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, f.updater.calls)
}

func TestRescheduleWithoutSlotRejected(t *testing.T) {
	f := newFixture(t)

	w := f.request(http.MethodPost, "/api/v1/dashboard/actions/status", f.login(model.RoleDoctor),
		`{"item_type":"appointment","item_id":1,"new_status":"rescheduled"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 0, f.updater.calls, "validation failure must not reach the platform")
}

func TestActionFailureSurfacesGenericError(t *testing.T) {
	f := newFixture(t)
	f.updater.err = assert.AnError

	w := f.request(http.MethodPost, "/api/v1/dashboard/actions/status", f.login(model.RolePharmacist),
		`{"item_type":"prescription","item_id":1,"new_status":"delivered"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "please retry")
}
