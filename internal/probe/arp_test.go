package probe

import (
	"net/netip"
	"strings"
	"testing"
)

const sampleARPTable = `IP address       HW type     Flags       HW address            Mask     Device
192.168.1.1      0x1         0x2         aa:bb:cc:dd:ee:ff     *        eth0
192.168.1.42     0x1         0x2         11:22:33:44:55:66     *        eth0
192.168.1.99     0x1         0x0         00:00:00:00:00:00     *        eth0
fe80::1          0x1         0x2         de:ad:be:ef:00:01     *        eth0
garbage line
`

func TestParseARPTable(t *testing.T) {
	table := parseARPTable(strings.NewReader(sampleARPTable))

	if got := table[netip.MustParseAddr("192.168.1.1")]; got != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("192.168.1.1 MAC = %q, want aa:bb:cc:dd:ee:ff", got)
	}
	if got := table[netip.MustParseAddr("192.168.1.42")]; got != "11:22:33:44:55:66" {
		t.Errorf("192.168.1.42 MAC = %q, want 11:22:33:44:55:66", got)
	}
	if _, ok := table[netip.MustParseAddr("192.168.1.99")]; ok {
		t.Error("incomplete entry (zero MAC) should be skipped")
	}
	if len(table) != 2 {
		t.Errorf("table has %d entries, want 2", len(table))
	}
}

func TestParseARPTableEmpty(t *testing.T) {
	if got := parseARPTable(strings.NewReader("")); len(got) != 0 {
		t.Errorf("empty input produced %d entries", len(got))
	}
	// Header only.
	if got := parseARPTable(strings.NewReader("IP address HW type Flags HW address Mask Device\n")); len(got) != 0 {
		t.Errorf("header-only input produced %d entries", len(got))
	}
}
