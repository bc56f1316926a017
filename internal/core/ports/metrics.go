package ports

import (
	"context"

	"github.com/theblitlabs/parity-watchdog/internal/core/models"
)

// MetricsSampler reads instantaneous host resource usage.
type MetricsSampler interface {
	CPUPercent(ctx context.Context) (float64, error)
	Memory(ctx context.Context) (models.Usage, error)
	Disk(ctx context.Context, path string) (models.Usage, error)
}

// LogScanner counts failed login attempts in the authentication log.
type LogScanner interface {
	Scan(ctx context.Context) (models.ScanResult, error)
}
