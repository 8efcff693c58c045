// Package probe determines liveness, latency, hostname, and SSH
// availability for a single IPv4 address. A host that does not answer
// the liveness check produces no Result at all: absence means dead.
package probe

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"runtime"
	"strings"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"go.uber.org/zap"
)

// HostnameUnknown is the sentinel hostname for addresses whose reverse
// lookup failed or timed out.
const HostnameUnknown = "Unknown"

// DefaultSSHPort is the port checked for SSH availability.
const DefaultSSHPort = 22

// Result is the outcome of probing one address in one scan cycle.
// Only alive hosts are represented; LatencyMs is therefore always
// meaningful.
type Result struct {
	Addr       netip.Addr `json:"addr"`
	Hostname   string     `json:"hostname"`
	MAC        string     `json:"mac,omitempty"`
	LatencyMs  float64    `json:"latency_ms"`
	SSHOpen    bool       `json:"ssh_open"`
	ObservedAt time.Time  `json:"observed_at"`
}

// Prober probes a single address. A (nil, nil) return means the host
// did not answer: it is absent from the batch, not an error.
type Prober interface {
	Probe(ctx context.Context, addr netip.Addr) (*Result, error)
}

// Options bound each probe step independently so one slow host cannot
// stall a batch beyond its own ceiling.
type Options struct {
	PingTimeout time.Duration // liveness check, default 1s
	DNSTimeout  time.Duration // reverse lookup, default 1s
	PortTimeout time.Duration // TCP connect, default 1s
	Port        int           // default 22
}

func (o Options) withDefaults() Options {
	if o.PingTimeout <= 0 {
		o.PingTimeout = time.Second
	}
	if o.DNSTimeout <= 0 {
		o.DNSTimeout = time.Second
	}
	if o.PortTimeout <= 0 {
		o.PortTimeout = time.Second
	}
	if o.Port <= 0 || o.Port > 65535 {
		o.Port = DefaultSSHPort
	}
	return o
}

// Compile-time interface guard.
var _ Prober = (*ICMPProber)(nil)

// ICMPProber probes hosts with an ICMP echo via pro-bing, then enriches
// alive hosts with reverse DNS, a TCP port check, and a best-effort
// ARP-cache MAC lookup.
type ICMPProber struct {
	opts     Options
	logger   *zap.Logger
	resolver *net.Resolver
	now      func() time.Time
}

// NewICMPProber creates a prober with the given options. Zero option
// fields get defaults.
func NewICMPProber(opts Options, logger *zap.Logger) *ICMPProber {
	return &ICMPProber{
		opts:     opts.withDefaults(),
		logger:   logger,
		resolver: net.DefaultResolver,
		now:      time.Now,
	}
}

// Probe runs the full probe sequence against addr. Steps after the
// liveness check never fail the probe: DNS failure yields the
// HostnameUnknown sentinel and every port-check failure mode collapses
// to SSHOpen=false. All sockets are released before return.
func (p *ICMPProber) Probe(ctx context.Context, addr netip.Addr) (*Result, error) {
	start := p.now()
	rtt, alive, err := p.ping(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("ping %s: %w", addr, err)
	}
	if !alive {
		return nil, nil
	}

	// Prefer the device-measured round trip; fall back to wall clock
	// when the library reports nothing usable.
	latency := float64(rtt) / float64(time.Millisecond)
	if rtt <= 0 {
		latency = float64(p.now().Sub(start)) / float64(time.Millisecond)
	}

	return &Result{
		Addr:       addr,
		Hostname:   p.lookupHostname(ctx, addr),
		MAC:        lookupMAC(addr),
		LatencyMs:  latency,
		SSHOpen:    p.portOpen(ctx, addr),
		ObservedAt: p.now().UTC(),
	}, nil
}

// ping sends a single ICMP echo. It returns alive=false both for
// timeouts and for transport-level run failures; err is reserved for
// failures to construct the pinger at all.
func (p *ICMPProber) ping(ctx context.Context, addr netip.Addr) (rtt time.Duration, alive bool, err error) {
	pinger, err := probing.NewPinger(addr.String())
	if err != nil {
		return 0, false, fmt.Errorf("create pinger: %w", err)
	}

	pinger.Count = 1
	pinger.Timeout = p.opts.PingTimeout
	pinger.SetPrivileged(runtime.GOOS == "windows")

	// Run in a goroutine so the context can interrupt a pending echo.
	done := make(chan error, 1)
	go func() {
		done <- pinger.Run()
	}()

	select {
	case runErr := <-done:
		if runErr != nil {
			p.logger.Debug("ping run failed", zap.Stringer("addr", addr), zap.Error(runErr))
			return 0, false, nil
		}
		stats := pinger.Statistics()
		return stats.AvgRtt, stats.PacketsRecv > 0, nil
	case <-ctx.Done():
		pinger.Stop()
		return 0, false, nil
	}
}

// lookupHostname resolves a reverse-DNS name under its own timeout.
func (p *ICMPProber) lookupHostname(ctx context.Context, addr netip.Addr) string {
	lookupCtx, cancel := context.WithTimeout(ctx, p.opts.DNSTimeout)
	defer cancel()

	names, err := p.resolver.LookupAddr(lookupCtx, addr.String())
	if err != nil || len(names) == 0 {
		return HostnameUnknown
	}
	return strings.TrimSuffix(names[0], ".")
}

// portOpen attempts a bounded TCP connect to the configured port.
func (p *ICMPProber) portOpen(ctx context.Context, addr netip.Addr) bool {
	dialer := net.Dialer{Timeout: p.opts.PortTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", netip.AddrPortFrom(addr, uint16(p.opts.Port)).String())
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
