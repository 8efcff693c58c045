// Package track compares consecutive scan batches to detect hosts that
// arrived or departed between cycles.
package track

import (
	"net/netip"
	"slices"

	"github.com/HerbHall/lanwatch/internal/sweep"
)

// Delta is the read-only view of one cycle's changes.
type Delta struct {
	// Arrived holds addresses alive now but not in the previous cycle,
	// sorted ascending.
	Arrived []netip.Addr
	// Departed holds addresses alive previously but not now, sorted
	// ascending.
	Departed []netip.Addr
	// LastArrived is the sticky most-recent newcomer. It persists
	// across cycles with no arrivals and is never cleared by
	// departures. Zero (invalid) until the first arrival.
	LastArrived netip.Addr
	// Scans is the cumulative number of cycles observed.
	Scans int
}

// Tracker holds the rolling state between cycles: the previous alive
// set and the sticky last-arrived address. It is an explicit state
// object owned by the loop driver, mutated only by Update, which the
// single-threaded cycle loop calls between scans.
type Tracker struct {
	prev        map[netip.Addr]struct{}
	lastArrived netip.Addr
	scans       int
}

// New returns a Tracker with an empty previous set, so every host in
// the first batch counts as arrived.
func New() *Tracker {
	return &Tracker{prev: make(map[netip.Addr]struct{})}
}

// Update computes the delta between batch and the previous cycle, then
// replaces the previous set wholesale. When several hosts arrive in the
// same cycle, LastArrived is set to one arbitrary member of the arrived
// set (map iteration order); this nondeterminism is deliberate and
// matches the accepted behavior of picking any single newcomer to
// highlight.
func (t *Tracker) Update(batch *sweep.Batch) Delta {
	current := batch.Addresses()

	var arrived, departed []netip.Addr
	for addr := range current {
		if _, ok := t.prev[addr]; !ok {
			arrived = append(arrived, addr)
		}
	}
	for addr := range t.prev {
		if _, ok := current[addr]; !ok {
			departed = append(departed, addr)
		}
	}

	if len(arrived) > 0 {
		t.lastArrived = arrived[0]
	}
	t.prev = current
	t.scans++

	slices.SortFunc(arrived, netip.Addr.Compare)
	slices.SortFunc(departed, netip.Addr.Compare)

	return Delta{
		Arrived:     arrived,
		Departed:    departed,
		LastArrived: t.lastArrived,
		Scans:       t.scans,
	}
}

// Scans returns the number of cycles observed so far.
func (t *Tracker) Scans() int { return t.scans }
