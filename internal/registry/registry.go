package registry

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare-hq/staff-console/internal/model"
	"github.com/medicare-hq/staff-console/pkg/metrics"
)

// Fetcher lists both work queues. Satisfied by backend.AdminClient.
type Fetcher interface {
	ListAppointments(ctx context.Context) ([]model.Appointment, error)
	ListPharmacyQueue(ctx context.Context) ([]model.PharmacyOrder, error)
}

// Stats are the sidebar counters derived on every refresh.
type Stats struct {
	Doctors  int `json:"doctors"`
	Lab      int `json:"lab"`
	Pharmacy int `json:"pharmacy"`
}

// Registry holds the in-memory snapshot of appointments and pharmacy
// orders. The snapshot is replaced wholesale: partial results are never
// applied, and a failed refresh keeps the last good snapshot so a
// transient fetch failure never blanks the staff view.
type Registry struct {
	fetcher Fetcher
	logger  *zerolog.Logger
	metrics *metrics.Metrics

	mu           sync.RWMutex
	appointments []model.Appointment
	orders       []model.PharmacyOrder
	stats        Stats
	issued       uint64
	applied      uint64
}

func New(fetcher Fetcher, logger *zerolog.Logger, m *metrics.Metrics) *Registry {
	return &Registry{
		fetcher:      fetcher,
		logger:       logger,
		metrics:      m,
		appointments: []model.Appointment{},
		orders:       []model.PharmacyOrder{},
	}
}

// Refresh fetches both queues and swaps the snapshot. Each refresh is
// stamped with a monotonically increasing sequence; a response is only
// applied while it is the latest issued, so an older in-flight refresh
// can never overwrite a newer one. Errors are logged and returned, but
// callers in the refresh paths treat them as non-fatal.
func (r *Registry) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.issued++
	seq := r.issued
	r.mu.Unlock()

	start := time.Now()

	appointments, err := r.fetcher.ListAppointments(ctx)
	if err != nil {
		r.metrics.RefreshFailures.Inc()
		r.logger.Error().Err(err).Msg("appointment fetch failed, keeping stale snapshot")
		return err
	}

	orders, err := r.fetcher.ListPharmacyQueue(ctx)
	if err != nil {
		r.metrics.RefreshFailures.Inc()
		r.logger.Error().Err(err).Msg("pharmacy fetch failed, keeping stale snapshot")
		return err
	}

	r.metrics.RefreshLatency.Observe(time.Since(start).Seconds())

	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.issued {
		r.metrics.RefreshStale.Inc()
		r.logger.Debug().
			Uint64("seq", seq).
			Uint64("latest", r.issued).
			Msg("discarding refresh superseded by a newer one")
		return nil
	}

	if appointments == nil {
		appointments = []model.Appointment{}
	}
	if orders == nil {
		orders = []model.PharmacyOrder{}
	}

	r.appointments = appointments
	r.orders = orders
	r.stats = deriveStats(appointments, orders)
	r.applied = seq
	r.metrics.RefreshTotal.Inc()
	return nil
}

func deriveStats(appointments []model.Appointment, orders []model.PharmacyOrder) Stats {
	var s Stats
	for _, a := range appointments {
		if !a.IsLabTest() && a.Status == model.AppointmentStatusPending {
			s.Doctors++
		}
		if a.IsLabTest() && a.Status != model.AppointmentStatusCompleted {
			s.Lab++
		}
	}
	for _, o := range orders {
		if o.Status == model.OrderStatusPreparing {
			s.Pharmacy++
		}
	}
	return s
}

// Stats returns the counters derived by the last applied refresh.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}

// Appointments returns a copy of the full appointment snapshot.
func (r *Registry) Appointments() []model.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Appointment, len(r.appointments))
	copy(out, r.appointments)
	return out
}

// Consults returns the non-lab appointments for the appointments tab.
func (r *Registry) Consults() []model.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		if !a.IsLabTest() {
			out = append(out, a)
		}
	}
	return out
}

// LabTests returns the lab queue records.
func (r *Registry) LabTests() []model.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		if a.IsLabTest() {
			out = append(out, a)
		}
	}
	return out
}

// Orders returns a copy of the pharmacy order snapshot.
func (r *Registry) Orders() []model.PharmacyOrder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.PharmacyOrder, len(r.orders))
	copy(out, r.orders)
	return out
}
