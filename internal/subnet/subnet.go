// Package subnet models an IPv4 subnet and enumerates its usable host
// addresses. A Subnet is derived once at startup from the machine's
// outbound address and an assumed prefix length.
package subnet

import (
	"errors"
	"fmt"
	"iter"
	"net"
	"net/netip"
)

// DefaultPrefixBits is the assumed prefix length when none is configured.
// A /24 covers the common home and small-office case.
const DefaultPrefixBits = 24

// FallbackLocalAddr is used when local interface introspection fails.
var FallbackLocalAddr = netip.AddrFrom4([4]byte{192, 168, 1, 1})

// ErrInvalidAddress reports malformed subnet input. It is fatal at
// startup; no other error condition exists in this package.
var ErrInvalidAddress = errors.New("invalid address")

// Subnet is an immutable IPv4 subnet. The zero value is not usable;
// construct via New or Parse.
type Subnet struct {
	prefix netip.Prefix
}

// New derives the subnet containing addr with the given prefix length.
func New(addr netip.Addr, bits int) (*Subnet, error) {
	addr = addr.Unmap()
	if !addr.Is4() {
		return nil, fmt.Errorf("%w: %s is not IPv4", ErrInvalidAddress, addr)
	}
	if bits < 1 || bits > 32 {
		return nil, fmt.Errorf("%w: prefix length %d out of range", ErrInvalidAddress, bits)
	}
	p, err := addr.Prefix(bits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return &Subnet{prefix: p}, nil
}

// Parse derives the subnet containing the textual IPv4 address s.
func Parse(s string, bits int) (*Subnet, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return New(addr, bits)
}

// Prefix returns the masked prefix.
func (s *Subnet) Prefix() netip.Prefix { return s.prefix }

// String returns the CIDR form, e.g. "192.168.1.0/24".
func (s *Subnet) String() string { return s.prefix.String() }

// Contains reports whether addr falls inside the subnet.
func (s *Subnet) Contains(addr netip.Addr) bool { return s.prefix.Contains(addr) }

// HostCount returns the number of usable host addresses. Network and
// broadcast addresses are excluded for prefixes up to /30; a /31 has
// two usable addresses (RFC 3021) and a /32 has one.
func (s *Subnet) HostCount() int {
	bits := s.prefix.Bits()
	switch {
	case bits >= 31:
		return 1 << (32 - bits)
	default:
		return (1 << (32 - bits)) - 2
	}
}

// Hosts returns a lazy, restartable sequence of the subnet's usable
// host addresses in ascending order.
func (s *Subnet) Hosts() iter.Seq[netip.Addr] {
	network, broadcast := s.bounds()
	first, last := network+1, broadcast-1
	if s.prefix.Bits() >= 31 {
		first, last = network, broadcast
	}
	return func(yield func(netip.Addr) bool) {
		// Loop with an explicit end check so the top of the address
		// space (last == 0xFFFFFFFF) cannot wrap around.
		for u := first; ; u++ {
			if !yield(fromUint32(u)) {
				return
			}
			if u == last {
				return
			}
		}
	}
}

// bounds returns the network and broadcast addresses as uint32.
func (s *Subnet) bounds() (network, broadcast uint32) {
	network = toUint32(s.prefix.Addr())
	hostBits := 32 - s.prefix.Bits()
	broadcast = network | (1<<hostBits - 1)
	return network, broadcast
}

func toUint32(addr netip.Addr) uint32 {
	b := addr.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func fromUint32(u uint32) netip.Addr {
	return netip.AddrFrom4([4]byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)})
}

// DetectLocalAddr returns the machine's outbound IPv4 address using the
// connected-UDP trick: no packet is sent, the kernel just picks the
// route and source address for 8.8.8.8. Callers should fall back to
// FallbackLocalAddr when this fails.
func DetectLocalAddr() (netip.Addr, error) {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err != nil {
		return netip.Addr{}, fmt.Errorf("detect local address: %w", err)
	}
	defer conn.Close()

	udpAddr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return netip.Addr{}, fmt.Errorf("detect local address: unexpected local addr type %T", conn.LocalAddr())
	}
	addr := udpAddr.AddrPort().Addr().Unmap()
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("detect local address: %s is not IPv4", addr)
	}
	return addr, nil
}
