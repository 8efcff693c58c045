//go:build !linux

package probe

import "net/netip"

// lookupMAC is unavailable off Linux; the ARP cache has no portable
// read path without shelling out.
func lookupMAC(netip.Addr) string {
	return ""
}
