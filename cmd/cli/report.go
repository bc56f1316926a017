package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/theblitlabs/parity-watchdog/internal/messaging/webhook"
	"github.com/theblitlabs/parity-watchdog/pkg/logger"
)

// RunReport prints a single status report. Sampling failures are shown in
// the report and logged, not returned.
func RunReport(configPath string, out io.Writer) error {
	service, err := newService(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := service.Report(ctx)
	if err != nil {
		log := logger.WithComponent("cli")
		log.Warn().Err(err).Msg("Status report is incomplete")
	}

	_, err = fmt.Fprintln(out, report)
	return err
}

// RunCheck runs one evaluation cycle and prints the composed alert message.
// With dispatch set, the batch is also delivered to the webhook.
func RunCheck(configPath string, dispatch bool, out io.Writer) error {
	service, err := newService(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	batch, err := service.Check(ctx, dispatch)
	if err != nil {
		return err
	}

	if batch.Empty() {
		_, err = fmt.Fprintln(out, "All signals within thresholds")
		return err
	}

	_, err = fmt.Fprintln(out, webhook.Compose(batch.Messages(), batch[0].Timestamp))
	return err
}
