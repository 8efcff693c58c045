// Package metrics exposes Prometheus instrumentation for the live
// monitor. A nil *Recorder is a valid no-op, so single-shot scans carry
// no metrics machinery at all.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/HerbHall/lanwatch/internal/sweep"
)

// Recorder aggregates per-cycle scan observations.
type Recorder struct {
	registry    *prometheus.Registry
	cycles      prometheus.Counter
	hostsAlive  prometheus.Gauge
	sshOpen     prometheus.Gauge
	probeErrors prometheus.Counter
	duration    prometheus.Histogram
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		cycles: factory.NewCounter(prometheus.CounterOpts{
			Name: "lanwatch_scan_cycles_total",
			Help: "Completed scan cycles.",
		}),
		hostsAlive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lanwatch_hosts_alive",
			Help: "Alive hosts observed in the most recent cycle.",
		}),
		sshOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lanwatch_hosts_ssh_open",
			Help: "Hosts with the SSH port open in the most recent cycle.",
		}),
		probeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "lanwatch_probe_errors_total",
			Help: "Probe attempts that failed with an internal error.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lanwatch_scan_duration_seconds",
			Help:    "Wall-clock duration of a full scan pass.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
	}
}

// ObserveCycle records one completed batch. Safe on a nil receiver.
func (r *Recorder) ObserveCycle(batch *sweep.Batch) {
	if r == nil {
		return
	}
	r.cycles.Inc()
	r.hostsAlive.Set(float64(len(batch.Results)))
	r.sshOpen.Set(float64(batch.SSHCount()))
	r.probeErrors.Add(float64(batch.ProbeErrors))
	r.duration.Observe(batch.Duration.Seconds())
}

// Handler returns the /metrics handler for the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve runs a metrics HTTP listener on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", r.Handler())

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics listener started", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
