package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/theblitlabs/parity-watchdog/internal/core/config"
	"github.com/theblitlabs/parity-watchdog/internal/services"
	"github.com/theblitlabs/parity-watchdog/pkg/logger"
)

func newService(configPath string) (*services.WatchdogService, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return services.NewWatchdogService(cfg)
}

// RunMonitor runs the monitoring loop until SIGINT or SIGTERM.
func RunMonitor(configPath string) error {
	log := logger.WithComponent("cli")

	service, err := newService(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutdown signal received, stopping monitor...")
	}()

	if err := service.Run(ctx); err != nil {
		return err
	}

	fmt.Println("\nExiting system monitoring...")
	return nil
}
