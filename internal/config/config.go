// Package config loads lanwatch settings through viper: built-in
// defaults, an optional YAML file, and LANWATCH_* environment
// overrides, in ascending precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/HerbHall/lanwatch/internal/subnet"
	"github.com/HerbHall/lanwatch/internal/sweep"
)

// Config holds the resolved engine and CLI settings.
type Config struct {
	// LocalAddr optionally pins the local address instead of detecting
	// it from the outbound route.
	LocalAddr string

	// PrefixBits is the assumed subnet prefix length.
	PrefixBits int

	// Concurrency bounds in-flight probes per scan.
	Concurrency int

	// RatePerSec paces probe dispatch; zero disables pacing.
	RatePerSec float64

	// SSHPort is the TCP port checked for SSH availability.
	SSHPort int

	// Per-step probe timeouts.
	PingTimeout time.Duration
	DNSTimeout  time.Duration
	PortTimeout time.Duration

	// Interval is the live-mode refresh interval.
	Interval time.Duration

	// MetricsListen enables the Prometheus listener when non-empty,
	// e.g. "127.0.0.1:9090". Live mode only.
	MetricsListen string
}

// Load reads configuration. path may be empty, in which case
// lanwatch.yaml is searched in the working directory and
// $HOME/.config/lanwatch; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("scan.prefix_bits", subnet.DefaultPrefixBits)
	v.SetDefault("scan.concurrency", sweep.DefaultConcurrency)
	v.SetDefault("scan.rate_per_sec", 0.0)
	v.SetDefault("scan.ssh_port", 22)
	v.SetDefault("scan.ping_timeout", time.Second)
	v.SetDefault("scan.dns_timeout", time.Second)
	v.SetDefault("scan.port_timeout", time.Second)
	v.SetDefault("scan.local_addr", "")
	v.SetDefault("monitor.interval", 10*time.Second)
	v.SetDefault("metrics.listen", "")

	v.SetEnvPrefix("LANWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	} else {
		v.SetConfigName("lanwatch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/lanwatch")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		LocalAddr:     v.GetString("scan.local_addr"),
		PrefixBits:    v.GetInt("scan.prefix_bits"),
		Concurrency:   v.GetInt("scan.concurrency"),
		RatePerSec:    v.GetFloat64("scan.rate_per_sec"),
		SSHPort:       v.GetInt("scan.ssh_port"),
		PingTimeout:   v.GetDuration("scan.ping_timeout"),
		DNSTimeout:    v.GetDuration("scan.dns_timeout"),
		PortTimeout:   v.GetDuration("scan.port_timeout"),
		Interval:      v.GetDuration("monitor.interval"),
		MetricsListen: v.GetString("metrics.listen"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.PrefixBits < 1 || c.PrefixBits > 32 {
		return fmt.Errorf("scan.prefix_bits %d out of range 1..32", c.PrefixBits)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("scan.concurrency must be positive, got %d", c.Concurrency)
	}
	if c.SSHPort < 1 || c.SSHPort > 65535 {
		return fmt.Errorf("scan.ssh_port %d out of range 1..65535", c.SSHPort)
	}
	if c.RatePerSec < 0 {
		return fmt.Errorf("scan.rate_per_sec must not be negative, got %v", c.RatePerSec)
	}
	return nil
}
