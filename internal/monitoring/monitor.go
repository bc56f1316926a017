package monitoring

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/theblitlabs/parity-watchdog/internal/core/models"
	"github.com/theblitlabs/parity-watchdog/internal/core/ports"
	"github.com/theblitlabs/parity-watchdog/internal/telemetry"
	"github.com/theblitlabs/parity-watchdog/pkg/logger"
)

const defaultInterval = 3 * time.Second

// State of the monitor loop.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Evaluator produces the alert batch for one cycle and the startup report.
type Evaluator interface {
	Evaluate(ctx context.Context) (models.Batch, error)
	StatusReport(ctx context.Context) (string, error)
	Thresholds() models.Thresholds
}

type Config struct {
	Evaluator  Evaluator
	Dispatcher ports.Dispatcher
	Interval   time.Duration
}

// Monitor runs the check, aggregate, dispatch, sleep cycle until its
// context is cancelled.
type Monitor struct {
	evaluator  Evaluator
	dispatcher ports.Dispatcher
	interval   time.Duration
	state      atomic.Int32
	iterations atomic.Int64
}

func New(cfg Config) (*Monitor, error) {
	if cfg.Evaluator == nil {
		return nil, errors.New("monitor requires an evaluator")
	}
	if cfg.Dispatcher == nil {
		return nil, errors.New("monitor requires a dispatcher")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}

	return &Monitor{
		evaluator:  cfg.Evaluator,
		dispatcher: cfg.Dispatcher,
		interval:   cfg.Interval,
	}, nil
}

func (m *Monitor) State() State {
	return State(m.state.Load())
}

// Iterations returns how many loop iterations have completed, including
// failed ones.
func (m *Monitor) Iterations() int64 {
	return m.iterations.Load()
}

// Run sends the startup status report and then loops until ctx is done.
// Errors and panics inside an iteration are logged and the loop carries on
// after the usual sleep. Run only returns once ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	log := logger.WithComponent("monitor")

	if !m.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return fmt.Errorf("monitor already %s", m.State())
	}
	defer m.state.Store(int32(StateStopped))

	th := m.evaluator.Thresholds()
	log.Info().
		Float64("cpu_threshold", th.CPU).
		Float64("memory_threshold", th.Memory).
		Float64("disk_threshold", th.Disk).
		Int("ssh_threshold", th.SSHAttempts).
		Dur("interval", m.interval).
		Bool("delivery_enabled", m.dispatcher.Enabled()).
		Msg("Starting system monitoring")

	m.guard(ctx, "status report", m.sendStatusReport)

	for ctx.Err() == nil {
		result := m.guard(ctx, "iteration", func(ctx context.Context) error {
			_, err := m.RunOnce(ctx)
			return err
		})
		telemetry.RecordIteration(result)
		m.iterations.Add(1)

		if !sleep(ctx, m.interval) {
			break
		}
	}

	log.Info().Int64("iterations", m.Iterations()).Msg("Exiting system monitoring...")
	return nil
}

// RunOnce evaluates every signal and dispatches the batch if it is not empty.
func (m *Monitor) RunOnce(ctx context.Context) (models.Batch, error) {
	batch, err := m.evaluator.Evaluate(ctx)
	if err != nil {
		return batch, fmt.Errorf("evaluate signals: %w", err)
	}

	if !batch.Empty() {
		m.dispatcher.Dispatch(ctx, batch.Messages())
	}
	return batch, nil
}

func (m *Monitor) sendStatusReport(ctx context.Context) error {
	report, err := m.evaluator.StatusReport(ctx)
	if err != nil {
		log := logger.WithComponent("monitor")
		log.Warn().Err(err).Msg("Status report is incomplete")
	}
	m.dispatcher.Dispatch(ctx, []string{report})
	return nil
}

// guard runs fn, turning a returned error or a panic into a log line. It
// returns "ok", "error" or "panic".
func (m *Monitor) guard(ctx context.Context, stage string, fn func(context.Context) error) (result string) {
	log := logger.WithComponent("monitor")

	defer func() {
		if r := recover(); r != nil {
			result = "panic"
			log.Error().Str("stage", stage).Interface("panic", r).Msg("Error in monitoring loop")
		}
	}()

	if err := fn(ctx); err != nil {
		if ctx.Err() != nil {
			return "ok"
		}
		log.Error().Err(err).Str("stage", stage).Msg("Error in monitoring loop")
		return "error"
	}
	return "ok"
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
