package alerting

import (
	"fmt"
	"strings"

	"github.com/theblitlabs/parity-watchdog/internal/core/models"
)

const bytesPerGiB = 1024 * 1024 * 1024

// GiB renders a byte count in GiB with one decimal place.
func GiB(b uint64) string {
	return fmt.Sprintf("%.1fGB", float64(b)/bytesPerGiB)
}

// UsedOfTotal renders "1.5GB out of 3.0GB".
func UsedOfTotal(u models.Usage) string {
	return GiB(u.UsedBytes) + " out of " + GiB(u.TotalBytes)
}

func FormatCPU(pct, threshold float64) string {
	return fmt.Sprintf("🚨 CPU usage: %.1f%% (Threshold: %.1f%%)", pct, threshold)
}

func FormatMemory(u models.Usage, threshold float64) string {
	return formatUsage("Memory", u, threshold)
}

func FormatDisk(u models.Usage, threshold float64) string {
	return formatUsage("Disk", u, threshold)
}

func formatUsage(label string, u models.Usage, threshold float64) string {
	return fmt.Sprintf("🚨 %s usage: %.1f%% (Threshold: %.1f%%)\nUsed: %s",
		label, u.Percent, threshold, UsedOfTotal(u))
}

func FormatSSH(res models.ScanResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚨 SSH alert: %d failed login attempts\nRecent attempts:", res.Count)
	for _, line := range res.RecentLines {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

func FormatScanError(err error) string {
	return fmt.Sprintf("⚠️ Error checking SSH logs: %v", err)
}

// StatusLine is one row of the status report.
type StatusLine struct {
	Label     string
	Value     float64
	Threshold float64
	Err       error
}

func FormatStatusReport(lines []StatusLine) string {
	var b strings.Builder
	b.WriteString("**📊 System Status**")
	for _, l := range lines {
		b.WriteString("\n")
		if l.Err != nil {
			fmt.Fprintf(&b, "%s: unavailable (%v)", l.Label, l.Err)
			continue
		}
		fmt.Fprintf(&b, "%s: %.1f%% (Threshold: %.1f%%)", l.Label, l.Value, l.Threshold)
	}
	return b.String()
}
