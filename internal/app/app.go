// Package app assembles the scanning engine shared by the lanwatch
// commands: configuration, subnet derivation, prober, and coordinator.
package app

import (
	"os"

	"go.uber.org/zap"

	"github.com/HerbHall/lanwatch/internal/config"
	"github.com/HerbHall/lanwatch/internal/probe"
	"github.com/HerbHall/lanwatch/internal/subnet"
	"github.com/HerbHall/lanwatch/internal/sweep"
)

// Engine bundles everything a command needs to run scans.
type Engine struct {
	Config *config.Config
	Sub    *subnet.Subnet
	Coord  *sweep.Coordinator
}

// Build loads configuration (path from LANWATCH_CONFIG, may be empty)
// and wires the engine. Errors here are startup failures; commands
// abort on them.
func Build(logger *zap.Logger) (*Engine, error) {
	cfg, err := config.Load(os.Getenv("LANWATCH_CONFIG"))
	if err != nil {
		return nil, err
	}

	sub, err := buildSubnet(cfg, logger)
	if err != nil {
		return nil, err
	}

	prober := probe.NewICMPProber(probe.Options{
		PingTimeout: cfg.PingTimeout,
		DNSTimeout:  cfg.DNSTimeout,
		PortTimeout: cfg.PortTimeout,
		Port:        cfg.SSHPort,
	}, logger)

	coord := sweep.NewCoordinator(prober, sweep.Options{
		Concurrency: cfg.Concurrency,
		RatePerSec:  cfg.RatePerSec,
	}, logger)

	return &Engine{Config: cfg, Sub: sub, Coord: coord}, nil
}

// buildSubnet resolves the local address (configured, detected, or the
// documented fallback) into the subnet to scan.
func buildSubnet(cfg *config.Config, logger *zap.Logger) (*subnet.Subnet, error) {
	if cfg.LocalAddr != "" {
		return subnet.Parse(cfg.LocalAddr, cfg.PrefixBits)
	}

	local, err := subnet.DetectLocalAddr()
	if err != nil {
		logger.Warn("local address detection failed, using fallback",
			zap.Stringer("fallback", subnet.FallbackLocalAddr),
			zap.Error(err),
		)
		local = subnet.FallbackLocalAddr
	}
	return subnet.New(local, cfg.PrefixBits)
}
