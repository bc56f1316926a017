package monitoring

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/theblitlabs/parity-watchdog/internal/alerting"
	"github.com/theblitlabs/parity-watchdog/internal/core/models"
	"github.com/theblitlabs/parity-watchdog/internal/messaging/webhook"
	"github.com/theblitlabs/parity-watchdog/internal/mocks"
)

// scriptedEvaluator replays one step per Evaluate call.
type scriptedEvaluator struct {
	mu      sync.Mutex
	steps   []func() (models.Batch, error)
	calls   int
	reports int
	onCall  func(n int)
}

func (e *scriptedEvaluator) Evaluate(ctx context.Context) (models.Batch, error) {
	e.mu.Lock()
	n := e.calls
	e.calls++
	var step func() (models.Batch, error)
	if n < len(e.steps) {
		step = e.steps[n]
	}
	e.mu.Unlock()

	if e.onCall != nil {
		e.onCall(n)
	}
	if step == nil {
		return nil, nil
	}
	return step()
}

func (e *scriptedEvaluator) StatusReport(context.Context) (string, error) {
	e.mu.Lock()
	e.reports++
	e.mu.Unlock()
	return "**📊 System Status**", nil
}

func (e *scriptedEvaluator) Thresholds() models.Thresholds {
	return models.Thresholds{CPU: 1, Memory: 1, Disk: 1, SSHAttempts: 1}
}

func batchOf(msgs ...string) models.Batch {
	var b models.Batch
	for _, m := range msgs {
		b = append(b, *models.NewAlert(models.SignalCPU, models.SeverityAlert, m, time.Now()))
	}
	return b
}

func TestNewValidates(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	_, err = New(Config{Evaluator: &scriptedEvaluator{}})
	assert.Error(t, err)

	m, err := New(Config{Evaluator: &scriptedEvaluator{}, Dispatcher: new(mocks.MockDispatcher)})
	require.NoError(t, err)
	assert.Equal(t, defaultInterval, m.interval)
	assert.Equal(t, StateIdle, m.State())
}

func TestRunOnceDispatchesNonEmptyBatch(t *testing.T) {
	eval := &scriptedEvaluator{steps: []func() (models.Batch, error){
		func() (models.Batch, error) { return batchOf("cpu high", "disk high"), nil },
		func() (models.Batch, error) { return nil, nil },
	}}
	disp := new(mocks.MockDispatcher)
	disp.On("Dispatch", mock.Anything, []string{"cpu high", "disk high"}).Once()

	m, err := New(Config{Evaluator: eval, Dispatcher: disp, Interval: time.Millisecond})
	require.NoError(t, err)

	batch, err := m.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	batch, err = m.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, batch)

	disp.AssertExpectations(t)
	disp.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestRunSurvivesFailuresAndStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eval := &scriptedEvaluator{
		steps: []func() (models.Batch, error){
			func() (models.Batch, error) { panic("sampler exploded") },
			func() (models.Batch, error) { return nil, errors.New("transient") },
			func() (models.Batch, error) { return batchOf("cpu high"), nil },
		},
		onCall: func(n int) {
			if n == 3 {
				cancel()
			}
		},
	}

	disp := new(mocks.MockDispatcher)
	disp.On("Enabled").Return(true)
	disp.On("Dispatch", mock.Anything, []string{"**📊 System Status**"}).Once()
	disp.On("Dispatch", mock.Anything, []string{"cpu high"}).Once()

	m, err := New(Config{Evaluator: eval, Dispatcher: disp, Interval: time.Millisecond})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop after cancel")
	}

	assert.Equal(t, StateStopped, m.State())
	assert.Equal(t, 1, eval.reports)
	assert.GreaterOrEqual(t, m.Iterations(), int64(4))
	disp.AssertExpectations(t)
}

func TestRunCancelAbortsSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	eval := &scriptedEvaluator{onCall: func(int) { cancel() }}
	disp := new(mocks.MockDispatcher)
	disp.On("Enabled").Return(false)
	disp.On("Dispatch", mock.Anything, mock.Anything)

	m, err := New(Config{Evaluator: eval, Dispatcher: disp, Interval: time.Hour})
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, m.Run(ctx))
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, int64(1), m.Iterations())
}

func TestRunTwiceFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	disp := new(mocks.MockDispatcher)
	disp.On("Enabled").Return(false)
	disp.On("Dispatch", mock.Anything, mock.Anything)

	m, err := New(Config{Evaluator: &scriptedEvaluator{}, Dispatcher: disp})
	require.NoError(t, err)

	require.NoError(t, m.Run(ctx))
	assert.Error(t, m.Run(ctx))
}

func TestRunWithoutDestinationMakesNoCalls(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	eval := &scriptedEvaluator{
		steps: []func() (models.Batch, error){
			func() (models.Batch, error) { return batchOf("cpu high"), nil },
		},
		onCall: func(n int) {
			if n == 1 {
				cancel()
			}
		},
	}

	m, err := New(Config{
		Evaluator:  eval,
		Dispatcher: webhook.NewDispatcher(webhook.DispatcherConfig{URL: ""}),
		Interval:   time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, m.Run(ctx))

	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestRunEndToEndWithRealEvaluator(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(body))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sampler := new(mocks.MockMetricsSampler)
	sampler.On("CPUPercent", mock.Anything).Return(5.0, nil)
	sampler.On("Memory", mock.Anything).Return(models.Usage{Percent: 0.5}, nil)
	sampler.On("Disk", mock.Anything, "/").Return(models.Usage{Percent: 0.5}, nil)
	scanner := new(mocks.MockLogScanner)
	scanner.On("Scan", mock.Anything).Return(models.ScanResult{}, nil)

	eval, err := alerting.NewEvaluator(alerting.EvaluatorConfig{
		Sampler:    sampler,
		Scanner:    scanner,
		Gate:       alerting.NewCooldownGate(time.Hour),
		Thresholds: models.Thresholds{CPU: 1, Memory: 1, Disk: 1, SSHAttempts: 1},
	})
	require.NoError(t, err)

	m, err := New(Config{
		Evaluator:  eval,
		Dispatcher: webhook.NewDispatcher(webhook.DispatcherConfig{URL: srv.URL}),
		Interval:   time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for m.Iterations() < 5 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()
	require.NoError(t, m.Run(ctx))

	mu.Lock()
	defer mu.Unlock()
	// the status report plus exactly one CPU alert; the cooldown holds the rest back
	require.Len(t, bodies, 2)
	assert.Contains(t, bodies[0], "System Status")
	assert.Contains(t, bodies[1], "CPU usage: 5.0%")
}
