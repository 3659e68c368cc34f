package listener

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/medicare-hq/staff-console/pkg/messaging"
	"github.com/medicare-hq/staff-console/pkg/metrics"
)

// ChannelNewAppointment is the only push event the console listens for.
// The signal carries no contract beyond "a refresh is warranted".
const ChannelNewAppointment = "new_appointment"

// Refresher is the registry operation triggered per signal.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Notifier plays the best-effort audio cue. A failing notifier is never
// surfaced; staff simply get a silent refresh.
type Notifier interface {
	Notify(ctx context.Context) error
}

// NopNotifier is used when no cue is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context) error { return nil }

// Listener holds the single push-channel subscription of the console.
type Listener struct {
	broker   messaging.Broker
	registry Refresher
	notifier Notifier
	logger   *zerolog.Logger
	metrics  *metrics.Metrics
}

func New(broker messaging.Broker, registry Refresher, notifier Notifier, logger *zerolog.Logger, m *metrics.Metrics) *Listener {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Listener{
		broker:   broker,
		registry: registry,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
	}
}

// Subscription is the handle for one active subscription. Close tears
// the channel down deterministically; the loop exits once the broker
// closes its message channel.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

// Subscribe connects to the push channel and starts the refresh loop.
// The channel delivers at-least-once and unordered; duplicate signals
// just cause redundant refreshes, which are idempotent.
func (l *Listener) Subscribe(ctx context.Context) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	msgs, err := l.broker.Subscribe(ctx, ChannelNewAppointment)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &Subscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		for range msgs {
			l.metrics.SignalsReceived.Inc()
			l.logger.Debug().Msg("new appointment signal received")

			if err := l.notifier.Notify(ctx); err != nil {
				l.logger.Debug().Err(err).Msg("notification cue failed")
			}

			if err := l.registry.Refresh(ctx); err != nil {
				l.logger.Error().Err(err).Msg("push-triggered refresh failed")
			}
		}
	}()

	return sub, nil
}
