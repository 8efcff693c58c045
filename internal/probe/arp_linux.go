//go:build linux

package probe

import (
	"net/netip"
	"os"
)

// lookupMAC reads the kernel ARP cache for addr. Best effort: any
// failure returns the empty string.
func lookupMAC(addr netip.Addr) string {
	f, err := os.Open("/proc/net/arp")
	if err != nil {
		return ""
	}
	defer f.Close()

	return parseARPTable(f)[addr]
}
