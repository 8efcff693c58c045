// Package sweep fans a host probe out across a subnet under a
// concurrency bound and collects completed results into a batch.
package sweep

import (
	"context"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/HerbHall/lanwatch/internal/probe"
	"github.com/HerbHall/lanwatch/internal/subnet"
)

// DefaultConcurrency bounds in-flight probes. Unbounded dispatch across
// even a /24 risks socket exhaustion, so admission is gated by a
// weighted semaphore rather than one free goroutine per address.
const DefaultConcurrency = 50

// Options configures a Coordinator.
type Options struct {
	// Concurrency is the maximum number of probes in flight.
	Concurrency int
	// RatePerSec paces probe dispatch. Zero disables pacing.
	RatePerSec float64
}

// Coordinator runs one scan pass at a time over a subnet. It is safe to
// reuse across cycles; the scan counter is monotonic per coordinator.
type Coordinator struct {
	prober  probe.Prober
	logger  *zap.Logger
	limit   int64
	limiter *rate.Limiter
	scans   atomic.Uint64
}

// NewCoordinator creates a Coordinator dispatching probes through p.
func NewCoordinator(p probe.Prober, opts Options, logger *zap.Logger) *Coordinator {
	limit := int64(opts.Concurrency)
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	var limiter *rate.Limiter
	if opts.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), 1)
	}
	return &Coordinator{
		prober:  p,
		logger:  logger,
		limit:   limit,
		limiter: limiter,
	}
}

// Scan probes every usable address of sub and returns the completed
// batch. It returns only after every dispatched probe has finished;
// nothing leaks past the batch boundary. Individual probe failures are
// logged and counted but never abort the batch — an empty batch from an
// all-dead subnet is a valid outcome. Cancelling ctx stops dispatching
// further probes and drains the ones already in flight.
func (c *Coordinator) Scan(ctx context.Context, sub *subnet.Subnet) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	batch := &Batch{
		ID:      uuid.New().String(),
		Number:  c.scans.Add(1),
		Started: start.UTC(),
	}

	c.logger.Debug("scan started",
		zap.Uint64("scan", batch.Number),
		zap.String("subnet", sub.String()),
		zap.Int("hosts", sub.HostCount()),
	)

	var (
		sem  = semaphore.NewWeighted(c.limit)
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs atomic.Int64
	)

	for addr := range sub.Hosts() {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				break
			}
		}
		// Acquire fails only on cancellation: stop admitting probes and
		// fall through to the drain.
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}

		wg.Add(1)
		go func(addr netip.Addr) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := c.prober.Probe(ctx, addr)
			if err != nil {
				errs.Add(1)
				c.logger.Info("probe failed", zap.Stringer("addr", addr), zap.Error(err))
				return
			}
			if res == nil {
				return // no reply: absent, not represented in the batch
			}

			mu.Lock()
			batch.Results = append(batch.Results, *res)
			mu.Unlock()
		}(addr)
	}

	wg.Wait()

	batch.Duration = time.Since(start)
	batch.ProbeErrors = int(errs.Load())

	c.logger.Debug("scan complete",
		zap.Uint64("scan", batch.Number),
		zap.Int("alive", len(batch.Results)),
		zap.Int("probe_errors", batch.ProbeErrors),
		zap.Duration("duration", batch.Duration),
	)
	return batch, nil
}
