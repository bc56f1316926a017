package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/theblitlabs/parity-watchdog/internal/core/models"
)

const DefaultConfigPath = ".env"

type Config struct {
	Alert      AlertConfig     `mapstructure:",squash"`
	Thresholds ThresholdConfig `mapstructure:",squash"`
	Monitor    MonitorConfig   `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:",squash"`
}

type AlertConfig struct {
	WebhookURL      string        `mapstructure:"DISCORD_WEBHOOK_URL"`
	DeliveryTimeout time.Duration `mapstructure:"DELIVERY_TIMEOUT"`
	Cooldown        time.Duration `mapstructure:"ALERT_COOLDOWN"`
}

type ThresholdConfig struct {
	CPU         float64 `mapstructure:"THRESHOLD_CPU"`
	Memory      float64 `mapstructure:"THRESHOLD_MEMORY"`
	Disk        float64 `mapstructure:"THRESHOLD_DISK"`
	SSHAttempts int     `mapstructure:"THRESHOLD_SSH_ATTEMPTS"`
}

type MonitorConfig struct {
	Interval        time.Duration `mapstructure:"CHECK_INTERVAL"`
	AuthLogPath     string        `mapstructure:"AUTH_LOG_PATH"`
	DiskPath        string        `mapstructure:"DISK_PATH"`
	CPUSampleWindow time.Duration `mapstructure:"CPU_SAMPLE_WINDOW"`
	ScanTimeout     time.Duration `mapstructure:"SCAN_TIMEOUT"`
}

type ServerConfig struct {
	MetricsAddr string `mapstructure:"METRICS_ADDR"`
}

var defaults = map[string]interface{}{
	"DISCORD_WEBHOOK_URL":    "",
	"DELIVERY_TIMEOUT":       10 * time.Second,
	"ALERT_COOLDOWN":         5 * time.Minute,
	"THRESHOLD_CPU":          80.0,
	"THRESHOLD_MEMORY":       85.0,
	"THRESHOLD_DISK":         90.0,
	"THRESHOLD_SSH_ATTEMPTS": 5,
	"CHECK_INTERVAL":         3 * time.Second,
	"AUTH_LOG_PATH":          "/var/log/auth.log",
	"DISK_PATH":              "/",
	"CPU_SAMPLE_WINDOW":      100 * time.Millisecond,
	"SCAN_TIMEOUT":           5 * time.Second,
	"METRICS_ADDR":           "",
}

// LoadConfig reads the dotenv file at path, if it exists, and overlays the
// process environment on top of it. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cfg.Alert.WebhookURL = strings.TrimSpace(cfg.Alert.WebhookURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects values the monitor cannot run with.
func (c *Config) Validate() error {
	if c.Thresholds.CPU < 0 || c.Thresholds.Memory < 0 || c.Thresholds.Disk < 0 {
		return fmt.Errorf("percentage thresholds must not be negative")
	}
	if c.Thresholds.SSHAttempts < 0 {
		return fmt.Errorf("THRESHOLD_SSH_ATTEMPTS must not be negative, got %d", c.Thresholds.SSHAttempts)
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("CHECK_INTERVAL must be positive, got %s", c.Monitor.Interval)
	}
	if c.Alert.Cooldown < 0 {
		return fmt.Errorf("ALERT_COOLDOWN must not be negative, got %s", c.Alert.Cooldown)
	}
	if c.Monitor.AuthLogPath == "" {
		return fmt.Errorf("AUTH_LOG_PATH must be set")
	}
	if c.Monitor.DiskPath == "" {
		return fmt.Errorf("DISK_PATH must be set")
	}
	if c.Alert.WebhookURL != "" {
		u, err := url.Parse(c.Alert.WebhookURL)
		if err != nil {
			return fmt.Errorf("invalid DISCORD_WEBHOOK_URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid DISCORD_WEBHOOK_URL: unsupported scheme %q", u.Scheme)
		}
	}
	return nil
}

func (c *Config) ThresholdValues() models.Thresholds {
	return models.Thresholds{
		CPU:         c.Thresholds.CPU,
		Memory:      c.Thresholds.Memory,
		Disk:        c.Thresholds.Disk,
		SSHAttempts: c.Thresholds.SSHAttempts,
	}
}

func (c *Config) DeliveryEnabled() bool {
	return c.Alert.WebhookURL != ""
}
