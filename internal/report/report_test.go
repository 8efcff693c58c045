package report

import (
	"bytes"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/HerbHall/lanwatch/internal/monitor"
	"github.com/HerbHall/lanwatch/internal/probe"
	"github.com/HerbHall/lanwatch/internal/subnet"
	"github.com/HerbHall/lanwatch/internal/sweep"
	"github.com/HerbHall/lanwatch/internal/testutil"
	"github.com/HerbHall/lanwatch/internal/track"
)

func plainRenderer(buf *bytes.Buffer) *Renderer {
	clock := testutil.NewClock(time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))
	return New(buf, WithColor(false), WithScreenClear(false), WithNow(clock.Now))
}

func testBatch() *sweep.Batch {
	b := &sweep.Batch{
		Number:   7,
		Duration: 2340 * time.Millisecond,
		Results: []probe.Result{
			{Addr: netip.MustParseAddr("192.168.1.2"), Hostname: "router.lan", MAC: "aa:bb:cc:dd:ee:ff", LatencyMs: 0.84, SSHOpen: true},
			{Addr: netip.MustParseAddr("192.168.1.23"), Hostname: probe.HostnameUnknown, LatencyMs: 4.2, SSHOpen: false},
			{Addr: netip.MustParseAddr("192.168.1.105"), Hostname: "nas.lan", LatencyMs: 117, SSHOpen: true},
		},
	}
	b.SortByAddr()
	return b
}

func TestRenderBatch(t *testing.T) {
	sub, _ := subnet.Parse("192.168.1.1", 24)
	var buf bytes.Buffer

	plainRenderer(&buf).RenderBatch(testBatch(), sub)
	out := buf.String()

	for _, want := range []string{
		"192.168.1.0/24",
		"Found 3 alive host(s)",
		"2026-08-25 12:00:00",
		"192.168.1.2", "router.lan", "aa:bb:cc:dd:ee:ff", "0.84ms", "yes",
		"192.168.1.23", "Unknown", "4.2ms", "no",
		"192.168.1.105", "117ms",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderBatchEmpty(t *testing.T) {
	sub, _ := subnet.Parse("192.168.1.1", 24)
	var buf bytes.Buffer

	plainRenderer(&buf).RenderBatch(&sweep.Batch{}, sub)
	out := buf.String()

	if !strings.Contains(out, "Found 0 alive host(s)") {
		t.Error("output missing zero-host count")
	}
	if !strings.Contains(out, "No hosts found.") {
		t.Error("output missing empty notice")
	}
}

func TestRenderLiveMarksNewcomer(t *testing.T) {
	var buf bytes.Buffer
	delta := track.Delta{
		Arrived:     []netip.Addr{netip.MustParseAddr("192.168.1.23")},
		LastArrived: netip.MustParseAddr("192.168.1.23"),
		Scans:       7,
	}

	plainRenderer(&buf).RenderLive(testBatch(), delta, 10*time.Second)
	out := buf.String()

	if !strings.Contains(out, "Scan #7") {
		t.Error("header missing scan number")
	}
	if !strings.Contains(out, "Alive hosts: 3") {
		t.Error("header missing alive count")
	}
	if !strings.Contains(out, "SSH open: 2/3") {
		t.Error("header missing SSH summary")
	}

	// Only the newcomer's row carries the marker.
	marked := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "NEW") {
			marked++
			if !strings.Contains(line, "192.168.1.23") {
				t.Errorf("marker on wrong row: %q", line)
			}
		}
	}
	if marked != 1 {
		t.Errorf("%d rows marked NEW, want 1", marked)
	}
}

func TestRenderLiveEmptyBatch(t *testing.T) {
	var buf bytes.Buffer

	plainRenderer(&buf).RenderLive(&sweep.Batch{Number: 3}, track.Delta{Scans: 3}, 10*time.Second)
	out := buf.String()

	if !strings.Contains(out, "Alive hosts: 0") {
		t.Error("output missing zero alive count")
	}
	if !strings.Contains(out, "No hosts found") {
		t.Error("output missing empty notice")
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer

	plainRenderer(&buf).RenderSummary(monitor.Summary{
		Scans:   42,
		EndedAt: time.Date(2026, 8, 25, 13, 30, 0, 0, time.UTC),
	})
	out := buf.String()

	if !strings.Contains(out, "Total scans performed: 42") {
		t.Error("summary missing scan count")
	}
	if !strings.Contains(out, "2026-08-25 13:30:00") {
		t.Error("summary missing end timestamp")
	}
}

func TestRenderSSHReport(t *testing.T) {
	var buf bytes.Buffer

	plainRenderer(&buf).RenderSSHReport(testBatch())
	out := buf.String()

	if !strings.Contains(out, "DEVICES WITH SSH AVAILABLE (2)") {
		t.Error("missing SSH-open group header")
	}
	if !strings.Contains(out, "DEVICES WITHOUT SSH (1)") {
		t.Error("missing SSH-closed group header")
	}
	if !strings.Contains(out, "Summary: 2 with SSH, 1 without SSH") {
		t.Error("missing summary line")
	}
}

func TestFormatLatencyTiers(t *testing.T) {
	tests := []struct {
		ms   float64
		want string
	}{
		{0.437, "0.44ms"},
		{4.21, "4.2ms"},
		{117.3, "117ms"},
	}
	for _, tt := range tests {
		if got := formatLatency(tt.ms); got != tt.want {
			t.Errorf("formatLatency(%v) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}
