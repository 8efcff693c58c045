package sweep

import (
	"net/netip"
	"slices"
	"time"

	"github.com/HerbHall/lanwatch/internal/probe"
)

// Batch is the complete set of probe outcomes from one scan pass.
// Results arrive in completion order; callers needing a stable
// presentation order call SortByAddr. Every contained result is an
// alive host — dead hosts are never represented.
type Batch struct {
	ID          string
	Number      uint64
	Started     time.Time
	Duration    time.Duration
	Results     []probe.Result
	ProbeErrors int
}

// SortByAddr orders results by address, the total order used for
// display (addresses are unique within a batch).
func (b *Batch) SortByAddr() {
	slices.SortFunc(b.Results, func(x, y probe.Result) int {
		return x.Addr.Compare(y.Addr)
	})
}

// Addresses returns the set of alive addresses in the batch.
func (b *Batch) Addresses() map[netip.Addr]struct{} {
	set := make(map[netip.Addr]struct{}, len(b.Results))
	for _, r := range b.Results {
		set[r.Addr] = struct{}{}
	}
	return set
}

// SSHCount returns how many hosts accepted the port probe.
func (b *Batch) SSHCount() int {
	n := 0
	for _, r := range b.Results {
		if r.SSHOpen {
			n++
		}
	}
	return n
}

// AvgLatencyMs returns the mean round-trip time, or 0 for an empty batch.
func (b *Batch) AvgLatencyMs() float64 {
	if len(b.Results) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range b.Results {
		sum += r.LatencyMs
	}
	return sum / float64(len(b.Results))
}
