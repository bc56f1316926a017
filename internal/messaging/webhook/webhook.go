package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theblitlabs/parity-watchdog/internal/core/ports"
	"github.com/theblitlabs/parity-watchdog/internal/telemetry"
	"github.com/theblitlabs/parity-watchdog/pkg/logger"
)

const (
	defaultTimeout = 10 * time.Second

	// HeaderTimeFormat is the local-time layout used in the message header.
	HeaderTimeFormat = "2006-01-02 15:04:05"

	messageSeparator = "\n\n"

	// how much of an error response body is logged
	maxErrorBody = 512
)

// WebhookMessage is the body accepted by Discord-style webhooks.
type WebhookMessage struct {
	Content string `json:"content"`
}

type DispatcherConfig struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
	Now     func() time.Time
}

// Dispatcher posts alert batches to a single webhook URL. Failures are
// logged and counted, never returned.
type Dispatcher struct {
	url    string
	client *http.Client
	now    func() time.Time
}

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Dispatcher{
		url:    strings.TrimSpace(cfg.URL),
		client: client,
		now:    now,
	}
}

// Enabled reports whether a destination URL is configured.
func (d *Dispatcher) Enabled() bool {
	return d.url != ""
}

// Compose joins messages with a blank line and prepends the timestamped header.
func Compose(messages []string, ts time.Time) string {
	return fmt.Sprintf("**System Alert - %s**\n%s",
		ts.Local().Format(HeaderTimeFormat),
		strings.Join(messages, messageSeparator))
}

// Dispatch sends one request carrying every message. It does nothing when
// the batch is empty or no URL is configured.
func (d *Dispatcher) Dispatch(ctx context.Context, messages []string) {
	if len(messages) == 0 || !d.Enabled() {
		return
	}

	batchID := uuid.New().String()
	log := logger.WithComponent("webhook").With().Str("batch_id", batchID).Logger()

	start := time.Now()
	status, err := d.send(ctx, Compose(messages, d.now()))
	duration := time.Since(start)

	if err != nil {
		telemetry.RecordDispatch("failed", duration)
		log.Error().
			Err(err).
			Int("messages", len(messages)).
			Msg("Failed to send alert to webhook")
		return
	}

	telemetry.RecordDispatch("sent", duration)
	log.Info().
		Int("status", status).
		Int("messages", len(messages)).
		Dur("duration", duration).
		Msg("Alert sent to webhook")
}

// send returns the status code on 204 and an error otherwise.
func (d *Dispatcher) send(ctx context.Context, content string) (int, error) {
	payloadBytes, err := json.Marshal(WebhookMessage{Content: content})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return 0, fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, fmt.Errorf("webhook returned status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

var _ ports.Dispatcher = (*Dispatcher)(nil)
