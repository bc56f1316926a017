package services

import (
	"context"
	"fmt"
	"time"

	"github.com/theblitlabs/parity-watchdog/internal/alerting"
	"github.com/theblitlabs/parity-watchdog/internal/api"
	"github.com/theblitlabs/parity-watchdog/internal/api/handlers"
	"github.com/theblitlabs/parity-watchdog/internal/core/config"
	"github.com/theblitlabs/parity-watchdog/internal/core/models"
	"github.com/theblitlabs/parity-watchdog/internal/core/ports"
	"github.com/theblitlabs/parity-watchdog/internal/messaging/webhook"
	"github.com/theblitlabs/parity-watchdog/internal/monitoring"
	"github.com/theblitlabs/parity-watchdog/internal/monitoring/authlog"
	"github.com/theblitlabs/parity-watchdog/internal/monitoring/health"
	"github.com/theblitlabs/parity-watchdog/internal/monitoring/metrics"
	"github.com/theblitlabs/parity-watchdog/internal/server"
	"github.com/theblitlabs/parity-watchdog/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

type Option func(*options)

type options struct {
	sampler    ports.MetricsSampler
	scanner    ports.LogScanner
	dispatcher ports.Dispatcher
}

func WithSampler(s ports.MetricsSampler) Option {
	return func(o *options) { o.sampler = s }
}

func WithScanner(s ports.LogScanner) Option {
	return func(o *options) { o.scanner = s }
}

func WithDispatcher(d ports.Dispatcher) Option {
	return func(o *options) { o.dispatcher = d }
}

// WatchdogService wires the sampler, scanner, evaluator, dispatcher and
// monitor loop from a Config.
type WatchdogService struct {
	cfg        *config.Config
	registry   *health.Registry
	evaluator  *alerting.Evaluator
	dispatcher ports.Dispatcher
	monitor    *monitoring.Monitor
	server     *server.Server
}

func NewWatchdogService(cfg *config.Config, opts ...Option) (*WatchdogService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sampler == nil {
		o.sampler = metrics.NewSystemMetricsCollector(cfg.Monitor.CPUSampleWindow)
	}
	if o.scanner == nil {
		o.scanner = authlog.NewScanner(cfg.Monitor.AuthLogPath)
	}
	if o.dispatcher == nil {
		o.dispatcher = webhook.NewDispatcher(webhook.DispatcherConfig{
			URL:     cfg.Alert.WebhookURL,
			Timeout: cfg.Alert.DeliveryTimeout,
		})
	}

	registry := health.NewRegistry()

	evaluator, err := alerting.NewEvaluator(alerting.EvaluatorConfig{
		Sampler:     o.sampler,
		Scanner:     o.scanner,
		Gate:        alerting.NewCooldownGate(cfg.Alert.Cooldown),
		Thresholds:  cfg.ThresholdValues(),
		DiskPath:    cfg.Monitor.DiskPath,
		ScanTimeout: cfg.Monitor.ScanTimeout,
		Registry:    registry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluator: %w", err)
	}

	monitor, err := monitoring.New(monitoring.Config{
		Evaluator:  evaluator,
		Dispatcher: o.dispatcher,
		Interval:   cfg.Monitor.Interval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create monitor: %w", err)
	}

	s := &WatchdogService{
		cfg:        cfg,
		registry:   registry,
		evaluator:  evaluator,
		dispatcher: o.dispatcher,
		monitor:    monitor,
	}

	if cfg.Server.MetricsAddr != "" {
		statusHandler := handlers.NewStatusHandler(registry, func() string {
			return monitor.State().String()
		})
		s.server = server.NewServer(cfg.Server.MetricsAddr, api.NewRouter(statusHandler, "/api/v1"))
	}

	return s, nil
}

// Run blocks until ctx is cancelled.
func (s *WatchdogService) Run(ctx context.Context) error {
	log := logger.WithComponent("watchdog")

	if !s.dispatcher.Enabled() {
		log.Warn().Msg("DISCORD_WEBHOOK_URL is not set, alerts will only be logged")
	}

	if s.server != nil {
		if _, err := s.server.Start(); err != nil {
			return fmt.Errorf("failed to start status server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := s.server.Stop(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Error during status server shutdown")
			}
		}()
	}

	return s.monitor.Run(ctx)
}

// Report builds the status report without sending it.
func (s *WatchdogService) Report(ctx context.Context) (string, error) {
	return s.evaluator.StatusReport(ctx)
}

// Check runs a single evaluation and optionally dispatches the result.
func (s *WatchdogService) Check(ctx context.Context, dispatch bool) (models.Batch, error) {
	if dispatch {
		return s.monitor.RunOnce(ctx)
	}
	return s.evaluator.Evaluate(ctx)
}

func (s *WatchdogService) Dispatcher() ports.Dispatcher {
	return s.dispatcher
}

func (s *WatchdogService) Registry() *health.Registry {
	return s.registry
}

func (s *WatchdogService) Monitor() *monitoring.Monitor {
	return s.monitor
}
