package dispatcher

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicare-hq/staff-console/internal/backend"
	"github.com/medicare-hq/staff-console/internal/model"
	apperrors "github.com/medicare-hq/staff-console/pkg/errors"
	"github.com/medicare-hq/staff-console/pkg/metrics"
)

// Updater issues the single status-update call. Satisfied by
// backend.AdminClient.
type Updater interface {
	UpdateStatus(ctx context.Context, itemType backend.ItemType, id int, newStatus string, extra *backend.Reschedule) error
}

// Refresher re-fetches the snapshot after a successful action.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Action is a staff-initiated status change.
type Action struct {
	ItemType  backend.ItemType `json:"item_type" binding:"required,oneof=appointment prescription"`
	ID        int              `json:"item_id" binding:"required"`
	NewStatus string           `json:"new_status" binding:"required"`
	Date      string           `json:"new_date,omitempty"`
	Time      string           `json:"new_time,omitempty"`
}

// Selection is the open action-selection state (the "manage" modal of
// the old dashboard). It is cleared only by a successful dispatch or an
// explicit close.
type Selection struct {
	ItemType backend.ItemType `json:"item_type"`
	ID       int              `json:"item_id"`
}

type rescheduleInput struct {
	Date string `validate:"required"`
	Time string `validate:"required"`
}

// Dispatcher turns a staff action into exactly one backend call plus a
// registry refresh. No retries: the staff member is the retry mechanism.
type Dispatcher struct {
	updater  Updater
	registry Refresher
	validate *validator.Validate
	logger   *zerolog.Logger
	metrics  *metrics.Metrics

	mu        sync.Mutex
	selection *Selection
	reschedule rescheduleInput
}

func New(updater Updater, registry Refresher, logger *zerolog.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		updater:  updater,
		registry: registry,
		validate: validator.New(),
		logger:   logger,
		metrics:  m,
	}
}

// Select opens the action-selection state for a record.
func (d *Dispatcher) Select(itemType backend.ItemType, id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selection = &Selection{ItemType: itemType, ID: id}
}

// SetRescheduleFields stages the transient reschedule inputs.
func (d *Dispatcher) SetRescheduleFields(date, timeOfDay string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reschedule = rescheduleInput{Date: date, Time: timeOfDay}
}

// Selection returns the open selection, if any.
func (d *Dispatcher) Selection() *Selection {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selection == nil {
		return nil
	}
	sel := *d.selection
	return &sel
}

// ClearSelection closes the selection without dispatching.
func (d *Dispatcher) ClearSelection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selection = nil
	d.reschedule = rescheduleInput{}
}

// Dispatch validates the action, issues one update call, and on success
// clears the selection state and refreshes the registry. On failure all
// state is left untouched; there is no optimistic update to roll back.
func (d *Dispatcher) Dispatch(ctx context.Context, action Action) error {
	var extra *backend.Reschedule
	if action.NewStatus == string(model.AppointmentStatusRescheduled) {
		in := rescheduleInput{Date: action.Date, Time: action.Time}
		if err := d.validate.Struct(in); err != nil {
			d.metrics.DispatchRejected.Inc()
			return apperrors.NewValidation("a reschedule needs both a date and a time")
		}
		extra = &backend.Reschedule{Date: action.Date, Time: action.Time}
	}

	actionID := uuid.New().String()
	log := d.logger.With().
		Str("action_id", actionID).
		Str("item_type", string(action.ItemType)).
		Int("item_id", action.ID).
		Str("new_status", action.NewStatus).
		Logger()

	if err := d.updater.UpdateStatus(ctx, action.ItemType, action.ID, action.NewStatus, extra); err != nil {
		d.metrics.DispatchFailures.WithLabelValues(string(action.ItemType)).Inc()
		log.Error().Err(err).Msg("status update failed")
		return apperrors.NewBadRequest("action failed, please retry", err)
	}

	d.metrics.DispatchTotal.WithLabelValues(string(action.ItemType), action.NewStatus).Inc()
	log.Info().Msg("status update applied")

	d.ClearSelection()

	if err := d.registry.Refresh(ctx); err != nil {
		// The action itself succeeded; the next signal or manual
		// refresh repairs the snapshot.
		log.Error().Err(err).Msg("post-action refresh failed")
	}
	return nil
}
