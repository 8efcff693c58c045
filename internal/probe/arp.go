package probe

import (
	"bufio"
	"io"
	"net/netip"
	"strings"
)

// parseARPTable parses /proc/net/arp formatted input into an address to
// MAC map. Incomplete entries (all-zero MAC) are skipped.
func parseARPTable(r io.Reader) map[netip.Addr]string {
	table := make(map[netip.Addr]string)

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return table // missing header line
	}

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		// Format: IP address, HW type, Flags, HW address, Mask, Device.
		if len(fields) < 6 {
			continue
		}
		mac := fields[3]
		if mac == "00:00:00:00:00:00" || mac == "<incomplete>" {
			continue
		}
		addr, err := netip.ParseAddr(fields[0])
		if err != nil || !addr.Is4() {
			continue
		}
		table[addr] = mac
	}
	return table
}
