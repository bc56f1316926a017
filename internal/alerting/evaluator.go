package alerting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theblitlabs/parity-watchdog/internal/core/models"
	"github.com/theblitlabs/parity-watchdog/internal/core/ports"
	"github.com/theblitlabs/parity-watchdog/internal/monitoring/health"
	"github.com/theblitlabs/parity-watchdog/internal/telemetry"
	"github.com/theblitlabs/parity-watchdog/pkg/logger"
)

type EvaluatorConfig struct {
	Sampler     ports.MetricsSampler
	Scanner     ports.LogScanner
	Gate        *CooldownGate
	Thresholds  models.Thresholds
	DiskPath    string
	ScanTimeout time.Duration
	Registry    *health.Registry
	Now         func() time.Time
}

// Evaluator compares each signal against its threshold and builds the alert
// batch for one cycle.
type Evaluator struct {
	sampler     ports.MetricsSampler
	scanner     ports.LogScanner
	gate        *CooldownGate
	thresholds  models.Thresholds
	diskPath    string
	scanTimeout time.Duration
	registry    *health.Registry
	now         func() time.Time
}

func NewEvaluator(cfg EvaluatorConfig) (*Evaluator, error) {
	if cfg.Sampler == nil {
		return nil, errors.New("evaluator requires a metrics sampler")
	}
	if cfg.Scanner == nil {
		return nil, errors.New("evaluator requires a log scanner")
	}
	if cfg.Gate == nil {
		return nil, errors.New("evaluator requires a cooldown gate")
	}
	if cfg.DiskPath == "" {
		cfg.DiskPath = "/"
	}
	if cfg.Registry == nil {
		cfg.Registry = health.NewRegistry()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Evaluator{
		sampler:     cfg.Sampler,
		scanner:     cfg.Scanner,
		gate:        cfg.Gate,
		thresholds:  cfg.Thresholds,
		diskPath:    cfg.DiskPath,
		scanTimeout: cfg.ScanTimeout,
		registry:    cfg.Registry,
		now:         cfg.Now,
	}, nil
}

func (e *Evaluator) Thresholds() models.Thresholds {
	return e.thresholds
}

func (e *Evaluator) Registry() *health.Registry {
	return e.registry
}

// Evaluate runs the cpu, memory, disk and ssh checks in that order. A failed
// sample is logged and skipped. The returned error is non-nil only when ctx
// ends before every check has run.
func (e *Evaluator) Evaluate(ctx context.Context) (models.Batch, error) {
	log := logger.WithComponent("evaluator")

	checks := []struct {
		signal models.Signal
		run    func(context.Context) (*models.Alert, error)
	}{
		{models.SignalCPU, e.CheckCPU},
		{models.SignalMemory, e.CheckMemory},
		{models.SignalDisk, e.CheckDisk},
		{models.SignalSSHAttempts, e.CheckSSH},
	}

	var batch models.Batch
	for _, c := range checks {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		alert, err := c.run(ctx)
		if err != nil {
			log.Warn().Err(err).Str("signal", c.signal.String()).Msg("Check failed, skipping signal this cycle")
			continue
		}
		if alert != nil {
			batch = append(batch, *alert)
		}
	}

	return batch, nil
}

func (e *Evaluator) CheckCPU(ctx context.Context) (*models.Alert, error) {
	pct, err := e.sampler.CPUPercent(ctx)
	if err != nil {
		e.sampleFailed(models.SignalCPU, err)
		return nil, err
	}
	return e.gateAlert(models.SignalCPU, pct, func() string {
		return FormatCPU(pct, e.thresholds.CPU)
	}), nil
}

func (e *Evaluator) CheckMemory(ctx context.Context) (*models.Alert, error) {
	u, err := e.sampler.Memory(ctx)
	if err != nil {
		e.sampleFailed(models.SignalMemory, err)
		return nil, err
	}
	return e.gateAlert(models.SignalMemory, u.Percent, func() string {
		return FormatMemory(u, e.thresholds.Memory)
	}), nil
}

func (e *Evaluator) CheckDisk(ctx context.Context) (*models.Alert, error) {
	u, err := e.sampler.Disk(ctx, e.diskPath)
	if err != nil {
		e.sampleFailed(models.SignalDisk, err)
		return nil, err
	}
	return e.gateAlert(models.SignalDisk, u.Percent, func() string {
		return FormatDisk(u, e.thresholds.Disk)
	}), nil
}

// CheckSSH never returns an error: an unreadable log becomes a warning alert
// that bypasses the cooldown.
func (e *Evaluator) CheckSSH(ctx context.Context) (*models.Alert, error) {
	scanCtx := ctx
	if e.scanTimeout > 0 {
		var cancel context.CancelFunc
		scanCtx, cancel = context.WithTimeout(ctx, e.scanTimeout)
		defer cancel()
	}

	res, err := e.scanner.Scan(scanCtx)
	if err != nil {
		e.sampleFailed(models.SignalSSHAttempts, err)

		msg := FormatScanError(err)
		telemetry.RecordAlert(models.SignalSSHAttempts.String(), string(models.SeverityWarning))
		return models.NewAlert(models.SignalSSHAttempts, models.SeverityWarning, msg, e.now()), nil
	}

	return e.gateAlert(models.SignalSSHAttempts, float64(res.Count), func() string {
		return FormatSSH(res)
	}), nil
}

// gateAlert applies the threshold and cooldown to a successful sample.
func (e *Evaluator) gateAlert(signal models.Signal, value float64, format func() string) *models.Alert {
	log := logger.WithComponent("evaluator")
	limit := e.thresholds.Limit(signal)

	telemetry.RecordSample(signal.String(), "ok", value)

	if !e.thresholds.Exceeded(signal, value) {
		e.registry.Update(health.SignalHealth{
			Name: signal, Status: health.StatusOK, Value: value, Threshold: limit,
		})
		return nil
	}

	now := e.now()
	if !e.gate.TryFire(signal, now) {
		telemetry.RecordSuppressed(signal.String())
		e.registry.Update(health.SignalHealth{
			Name: signal, Status: health.StatusWarning, Value: value, Threshold: limit,
			Message: "threshold exceeded, alert suppressed by cooldown",
		})
		log.Debug().
			Str("signal", signal.String()).
			Float64("value", value).
			Dur("cooldown", e.gate.Cooldown()).
			Msg("Alert suppressed by cooldown")
		return nil
	}

	msg := format()
	telemetry.RecordAlert(signal.String(), string(models.SeverityAlert))
	e.registry.Update(health.SignalHealth{
		Name: signal, Status: health.StatusWarning, Value: value, Threshold: limit, Message: msg,
	})
	log.Info().
		Str("signal", signal.String()).
		Float64("value", value).
		Float64("threshold", limit).
		Msg("Threshold exceeded")

	return models.NewAlert(signal, models.SeverityAlert, msg, now)
}

func (e *Evaluator) sampleFailed(signal models.Signal, err error) {
	telemetry.RecordSample(signal.String(), "error", 0)
	e.registry.Update(health.SignalHealth{
		Name:      signal,
		Status:    health.StatusError,
		Threshold: e.thresholds.Limit(signal),
		Message:   err.Error(),
	})
}

// StatusReport samples cpu, memory and disk regardless of thresholds. A
// failed reading is shown in the report and also returned.
func (e *Evaluator) StatusReport(ctx context.Context) (string, error) {
	var errs []error

	cpuLine := StatusLine{Label: "CPU", Threshold: e.thresholds.CPU}
	if pct, err := e.sampler.CPUPercent(ctx); err != nil {
		cpuLine.Err = err
		errs = append(errs, fmt.Errorf("cpu: %w", err))
	} else {
		cpuLine.Value = pct
	}

	memLine := StatusLine{Label: "Memory", Threshold: e.thresholds.Memory}
	if u, err := e.sampler.Memory(ctx); err != nil {
		memLine.Err = err
		errs = append(errs, fmt.Errorf("memory: %w", err))
	} else {
		memLine.Value = u.Percent
	}

	diskLine := StatusLine{Label: "Disk", Threshold: e.thresholds.Disk}
	if u, err := e.sampler.Disk(ctx, e.diskPath); err != nil {
		diskLine.Err = err
		errs = append(errs, fmt.Errorf("disk: %w", err))
	} else {
		diskLine.Value = u.Percent
	}

	return FormatStatusReport([]StatusLine{cpuLine, memLine, diskLine}), errors.Join(errs...)
}
