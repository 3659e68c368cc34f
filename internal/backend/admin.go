package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/medicare-hq/staff-console/internal/model"
)

// ItemType selects which record an admin status update targets.
type ItemType string

const (
	ItemTypeAppointment  ItemType = "appointment"
	ItemTypePrescription ItemType = "prescription"
)

// Reschedule carries the new slot for a reschedule update. Presence of
// both fields is the caller's precondition, not this client's.
type Reschedule struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// AdminClient wraps the staff-facing endpoints of the platform API.
type AdminClient struct {
	*Client
}

func NewAdminClient(c *Client) *AdminClient {
	return &AdminClient{Client: c}
}

func (c *AdminClient) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	var resp model.LoginResponse
	req := model.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListAppointments fetches the full appointment queue, lab tests
// included. A payload that is not a JSON array decodes to an empty
// slice rather than an error so a malformed half never poisons the
// snapshot swap.
func (c *AdminClient) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/admin/appointments", nil, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[model.Appointment](c.Client, "appointments", raw), nil
}

// ListPharmacyQueue fetches the pharmacy order queue with the same
// shape tolerance as ListAppointments.
func (c *AdminClient) ListPharmacyQueue(ctx context.Context) ([]model.PharmacyOrder, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/admin/pharmacy_queue", nil, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[model.PharmacyOrder](c.Client, "pharmacy_queue", raw), nil
}

// UpdateStatus issues the single status-update call for a staff action.
func (c *AdminClient) UpdateStatus(ctx context.Context, itemType ItemType, id int, newStatus string, extra *Reschedule) error {
	query := url.Values{}
	query.Set("item_type", string(itemType))
	query.Set("item_id", strconv.Itoa(id))
	query.Set("new_status", newStatus)
	if extra != nil {
		query.Set("new_date", extra.Date)
		query.Set("new_time", extra.Time)
	}
	return c.do(ctx, http.MethodPost, "/admin/update_status", query, nil, nil)
}

func decodeList[T any](c *Client, name string, raw json.RawMessage) []T {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn().Str("list", name).Msg("payload is not a sequence, substituting empty list")
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}
