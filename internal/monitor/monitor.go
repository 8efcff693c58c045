// Package monitor drives the live-mode cycle loop: scan, delta-compute,
// render, wait. The loop itself is sequential; cycle N+1 never starts
// before cycle N has fully drained and been rendered.
package monitor

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/lanwatch/internal/metrics"
	"github.com/HerbHall/lanwatch/internal/subnet"
	"github.com/HerbHall/lanwatch/internal/sweep"
	"github.com/HerbHall/lanwatch/internal/track"
)

const (
	// DefaultInterval is the refresh interval when none is supplied.
	DefaultInterval = 10 * time.Second
	// MinInterval is the floor a supplied interval is clamped to.
	MinInterval = 3 * time.Second
)

// Presenter consumes each completed cycle. Rendering is outside the
// engine; the monitor only hands over read-only views.
type Presenter interface {
	RenderLive(batch *sweep.Batch, delta track.Delta, interval time.Duration)
}

// Summary describes a finished monitoring session.
type Summary struct {
	Scans   int
	EndedAt time.Time
}

// Monitor owns one live-monitoring session over a fixed subnet.
type Monitor struct {
	coord     *sweep.Coordinator
	tracker   *track.Tracker
	presenter Presenter
	recorder  *metrics.Recorder
	logger    *zap.Logger
	sub       *subnet.Subnet
	interval  time.Duration
}

// New assembles a Monitor. recorder may be nil to disable metrics.
func New(coord *sweep.Coordinator, sub *subnet.Subnet, presenter Presenter, recorder *metrics.Recorder, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		coord:     coord,
		tracker:   track.New(),
		presenter: presenter,
		recorder:  recorder,
		logger:    logger,
		sub:       sub,
		interval:  interval,
	}
}

// Run loops until ctx is cancelled and returns the session summary.
// In-cycle failures never abort the loop: a cycle with zero alive hosts
// is rendered as such and monitoring continues.
func (m *Monitor) Run(ctx context.Context) Summary {
	m.logger.Info("live monitor started",
		zap.String("subnet", m.sub.String()),
		zap.Duration("interval", m.interval),
	)

	for {
		batch, err := m.coord.Scan(ctx, m.sub)
		if err != nil {
			// Scan fails only when cancelled before dispatch.
			break
		}

		delta := m.tracker.Update(batch)
		m.recorder.ObserveCycle(batch)
		batch.SortByAddr()
		m.presenter.RenderLive(batch, delta, m.interval)

		select {
		case <-ctx.Done():
		case <-time.After(m.interval):
			continue
		}
		break
	}

	summary := Summary{Scans: m.tracker.Scans(), EndedAt: time.Now()}
	m.logger.Info("live monitor stopped", zap.Int("scans", summary.Scans))
	return summary
}

// ClampInterval enforces the MinInterval floor, warning when a smaller
// value was supplied.
func ClampInterval(d time.Duration, logger *zap.Logger) time.Duration {
	if d < MinInterval {
		logger.Warn("refresh interval below minimum, clamping",
			zap.Duration("requested", d),
			zap.Duration("minimum", MinInterval),
		)
		return MinInterval
	}
	return d
}

// ParseIntervalArg interprets the optional positional CLI argument as
// whole seconds. Non-numeric input falls back to DefaultInterval with a
// warning; small values are floor-clamped by ClampInterval.
func ParseIntervalArg(arg string, logger *zap.Logger) time.Duration {
	secs, err := strconv.Atoi(arg)
	if err != nil {
		logger.Warn("invalid refresh interval, using default",
			zap.String("arg", arg),
			zap.Duration("default", DefaultInterval),
		)
		return DefaultInterval
	}
	return ClampInterval(time.Duration(secs)*time.Second, logger)
}
