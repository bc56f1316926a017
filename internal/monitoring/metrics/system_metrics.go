package metrics

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/theblitlabs/parity-watchdog/internal/core/models"
	"github.com/theblitlabs/parity-watchdog/internal/core/ports"
	"github.com/theblitlabs/parity-watchdog/pkg/logger"
)

const defaultCPUWindow = 100 * time.Millisecond

// The gopsutil entry points, swapped out in tests.
var (
	cpuPercent    = cpu.PercentWithContext
	virtualMemory = mem.VirtualMemoryWithContext
	diskUsage     = disk.UsageWithContext
)

// SystemMetricsCollector implements the MetricsSampler interface for host metrics
type SystemMetricsCollector struct {
	cpuWindow time.Duration
}

// NewSystemMetricsCollector creates a collector that measures CPU over cpuWindow.
func NewSystemMetricsCollector(cpuWindow time.Duration) *SystemMetricsCollector {
	if cpuWindow <= 0 {
		cpuWindow = defaultCPUWindow
	}

	return &SystemMetricsCollector{
		cpuWindow: cpuWindow,
	}
}

// CPUPercent blocks for the sampling window and returns overall CPU usage.
func (c *SystemMetricsCollector) CPUPercent(ctx context.Context) (float64, error) {
	pcts, err := cpuPercent(ctx, c.cpuWindow, false)
	if err != nil {
		return 0, fmt.Errorf("failed to get CPU info: %w", err)
	}
	if len(pcts) == 0 {
		return 0, fmt.Errorf("failed to get CPU info: no samples returned")
	}

	log := logger.WithComponent("metrics")
	log.Debug().
		Float64("cpu_percent", pcts[0]).
		Str("os", runtime.GOOS).
		Str("arch", runtime.GOARCH).
		Msg("CPU sampled")

	return pcts[0], nil
}

func (c *SystemMetricsCollector) Memory(ctx context.Context) (models.Usage, error) {
	vm, err := virtualMemory(ctx)
	if err != nil {
		return models.Usage{}, fmt.Errorf("failed to get memory info: %w", err)
	}

	return models.Usage{
		Percent:    vm.UsedPercent,
		UsedBytes:  vm.Used,
		TotalBytes: vm.Total,
	}, nil
}

func (c *SystemMetricsCollector) Disk(ctx context.Context, path string) (models.Usage, error) {
	du, err := diskUsage(ctx, path)
	if err != nil {
		return models.Usage{}, fmt.Errorf("failed to get disk usage for %s: %w", path, err)
	}

	return models.Usage{
		Percent:    du.UsedPercent,
		UsedBytes:  du.Used,
		TotalBytes: du.Total,
	}, nil
}

// Ensure SystemMetricsCollector implements ports.MetricsSampler
var _ ports.MetricsSampler = (*SystemMetricsCollector)(nil)
