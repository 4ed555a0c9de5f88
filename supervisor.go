package printlink

import (
	"context"
	"errors"
	"time"

	"github.com/allbin/go-printlink/logger"
)

// DefaultRetryInterval is the fixed pause between connection checks.
const DefaultRetryInterval = 10 * time.Second

// ConnectHook runs after every successful connect, e.g. to home the printer.
// Its error is logged and does not stop supervision.
type ConnectHook func(ctx context.Context, adapter Adapter) error

// Supervisor keeps an Adapter connected. It checks the connection once per
// interval and calls Start whenever it is down, forever, with no backoff.
type Supervisor struct {
	adapter   Adapter
	interval  time.Duration
	log       logger.Logger
	onConnect ConnectHook
	metrics   SupervisorMetrics
}

// SupervisorOption is a functional option for configuring a Supervisor
type SupervisorOption func(*Supervisor)

// WithRetryInterval sets the pause between connection checks.
// Non-positive values are ignored.
func WithRetryInterval(d time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithSupervisorLogger sets the logger used by the supervisor
func WithSupervisorLogger(l logger.Logger) SupervisorOption {
	return func(s *Supervisor) {
		if l != nil {
			s.log = l
		}
	}
}

// WithConnectHook sets a hook run after every successful connect
func WithConnectHook(hook ConnectHook) SupervisorOption {
	return func(s *Supervisor) {
		s.onConnect = hook
	}
}

// NewSupervisor creates a supervisor for adapter.
func NewSupervisor(adapter Adapter, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		adapter:  adapter,
		interval: DefaultRetryInterval,
		log:      logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "supervisor")
	return s
}

// Metrics returns the supervisor counters.
func (s *Supervisor) Metrics() *SupervisorMetrics {
	return &s.metrics
}

// Run supervises the connection until ctx is cancelled, which is checked
// once per interval. It returns nil on cancellation and only returns early
// when no printer is configured, since retrying cannot fix that.
func (s *Supervisor) Run(ctx context.Context) error {
	s.log.Info("supervisor started", "interval", s.interval)

	for {
		if !s.adapter.IsConnected() {
			if err := s.connect(ctx); err != nil {
				return err
			}
		}

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("supervisor stopped")
			return nil
		case <-timer.C:
		}
	}
}

func (s *Supervisor) connect(ctx context.Context) error {
	s.metrics.incConnAttemptCount()

	err := s.adapter.Start(ctx)
	switch {
	case err == nil:
		s.metrics.resetConnRetryGauge()
		s.log.Info("printer connection established")
		if s.onConnect != nil {
			if herr := s.onConnect(ctx, s.adapter); herr != nil {
				s.log.Warn("connect hook failed", "error", herr)
			}
		}
		return nil

	case errors.Is(err, ErrNoPrinterConfigured):
		s.log.Error("no printer configured, supervision stopped", "error", err)
		return err

	default:
		s.metrics.incConnRetryGauge()
		s.log.Warn("failed to connect to printer",
			"error", err,
			"attempt", s.metrics.ConnRetryGauge.Load(),
			"retry_in", s.interval,
		)
		return nil
	}
}
