// Package report renders scan batches as text tables. It is the
// presentation consumer of the engine, deliberately kept apart from it:
// nothing here feeds back into scanning.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/HerbHall/lanwatch/internal/monitor"
	"github.com/HerbHall/lanwatch/internal/subnet"
	"github.com/HerbHall/lanwatch/internal/sweep"
	"github.com/HerbHall/lanwatch/internal/track"
)

const (
	ansiClear     = "\033[2J\033[H"
	ansiHighlight = "\033[42m\033[30m" // green background, black text
	ansiReset     = "\033[0m"

	rule = "=========================================================================="
)

// Renderer writes human-readable frames and tables to w.
type Renderer struct {
	w     io.Writer
	color bool
	clear bool
	now   func() time.Time
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithColor toggles ANSI color and highlight sequences.
func WithColor(enabled bool) Option {
	return func(r *Renderer) { r.color = enabled }
}

// WithScreenClear toggles clearing the screen before live frames.
func WithScreenClear(enabled bool) Option {
	return func(r *Renderer) { r.clear = enabled }
}

// WithNow overrides the clock used for frame headers.
func WithNow(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// New creates a Renderer writing to w. Color and screen clearing are on
// by default; tests disable them.
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{w: w, color: true, clear: true, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Compile-time guard: Renderer satisfies the live-mode presenter.
var _ monitor.Presenter = (*Renderer)(nil)

// RenderBatch prints a single-shot scan result table. The batch is
// expected to be sorted by address.
func (r *Renderer) RenderBatch(batch *sweep.Batch, sub *subnet.Subnet) {
	fmt.Fprintln(r.w, rule)
	fmt.Fprintf(r.w, "ALIVE HOSTS ON %s\n", sub)
	fmt.Fprintln(r.w, rule)
	fmt.Fprintf(r.w, "Scan completed at: %s\n", r.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(r.w, "Found %d alive host(s) in %.2fs\n\n", len(batch.Results), batch.Duration.Seconds())

	if len(batch.Results) == 0 {
		fmt.Fprintln(r.w, "No hosts found.")
		return
	}
	r.writeTable(batch, track.Delta{})
}

// RenderLive prints one live-monitor frame: header, host table, and the
// sticky newcomer highlight. Implements monitor.Presenter.
func (r *Renderer) RenderLive(batch *sweep.Batch, delta track.Delta, interval time.Duration) {
	if r.clear {
		fmt.Fprint(r.w, ansiClear)
	}

	fmt.Fprintln(r.w, rule)
	fmt.Fprintln(r.w, "LIVE NETWORK MONITOR")
	fmt.Fprintln(r.w, rule)
	fmt.Fprintf(r.w, "Time: %s | Scan #%d | Duration: %.2fs | Refresh: %s\n",
		r.now().Format("2006-01-02 15:04:05"), batch.Number, batch.Duration.Seconds(), interval)
	fmt.Fprintf(r.w, "Alive hosts: %d", len(batch.Results))
	if len(batch.Results) > 0 {
		fmt.Fprintf(r.w, " | Avg ping: %s | SSH open: %d/%d",
			formatLatency(batch.AvgLatencyMs()), batch.SSHCount(), len(batch.Results))
	}
	fmt.Fprintln(r.w)
	if len(delta.Arrived) > 0 || len(delta.Departed) > 0 {
		fmt.Fprintf(r.w, "Arrived: %d | Departed: %d\n", len(delta.Arrived), len(delta.Departed))
	}
	fmt.Fprintln(r.w, rule)

	if len(batch.Results) == 0 {
		fmt.Fprintln(r.w, "\nNo hosts found. Devices may be powered off or unreachable.")
	} else {
		fmt.Fprintln(r.w)
		r.writeTable(batch, delta)
	}

	fmt.Fprintln(r.w, "\nPress Ctrl+C to stop monitoring.")
}

// RenderSummary prints the exit banner after live monitoring stops.
func (r *Renderer) RenderSummary(s monitor.Summary) {
	fmt.Fprintln(r.w, rule)
	fmt.Fprintln(r.w, "Live monitoring stopped.")
	fmt.Fprintf(r.w, "Total scans performed: %d\n", s.Scans)
	fmt.Fprintf(r.w, "Session ended at: %s\n", s.EndedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(r.w, rule)
}

// RenderSSHReport prints hosts grouped by SSH availability.
func (r *Renderer) RenderSSHReport(batch *sweep.Batch) {
	var open, closed []int
	for i, res := range batch.Results {
		if res.SSHOpen {
			open = append(open, i)
		} else {
			closed = append(closed, i)
		}
	}

	r.writeSSHGroup(fmt.Sprintf("DEVICES WITH SSH AVAILABLE (%d)", len(open)), batch, open)
	r.writeSSHGroup(fmt.Sprintf("DEVICES WITHOUT SSH (%d)", len(closed)), batch, closed)

	fmt.Fprintln(r.w, rule)
	fmt.Fprintf(r.w, "Summary: %d with SSH, %d without SSH\n", len(open), len(closed))
	fmt.Fprintln(r.w, rule)
}

func (r *Renderer) writeSSHGroup(title string, batch *sweep.Batch, indexes []int) {
	fmt.Fprintln(r.w, rule)
	fmt.Fprintln(r.w, title)
	fmt.Fprintln(r.w, rule)
	if len(indexes) == 0 {
		fmt.Fprintln(r.w, "none")
		return
	}

	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "IP ADDRESS\tHOSTNAME\tSSH")
	for _, i := range indexes {
		res := batch.Results[i]
		state := "closed"
		if res.SSHOpen {
			state = "open"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", res.Addr, truncate(res.Hostname, 30), state)
	}
	tw.Flush()
}

// writeTable prints the per-host table, marking the sticky last-arrived
// host when it is present in the batch.
func (r *Renderer) writeTable(batch *sweep.Batch, delta track.Delta) {
	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tIP ADDRESS\tHOSTNAME\tMAC\tPING\tSSH")

	for _, res := range batch.Results {
		marker := ""
		if delta.LastArrived.IsValid() && res.Addr == delta.LastArrived {
			marker = "NEW"
		}
		ssh := "no"
		if res.SSHOpen {
			ssh = "yes"
		}
		mac := res.MAC
		if mac == "" {
			mac = "-"
		}

		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s",
			marker, res.Addr, truncate(res.Hostname, 25), mac, formatLatency(res.LatencyMs), ssh)
		if marker != "" && r.color {
			line = ansiHighlight + line + ansiReset
		}
		fmt.Fprintln(tw, line)
	}
	tw.Flush()
}

// formatLatency mirrors the tiered precision of the original display:
// sub-millisecond pings keep two decimals, fast pings one, slow none.
func formatLatency(ms float64) string {
	switch {
	case ms < 1:
		return fmt.Sprintf("%.2fms", ms)
	case ms < 10:
		return fmt.Sprintf("%.1fms", ms)
	default:
		return fmt.Sprintf("%.0fms", ms)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max-2]) + ".."
}
