package subnet

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostCount(t *testing.T) {
	tests := []struct {
		addr string
		bits int
		want int
	}{
		{"192.168.1.50", 24, 254},
		{"10.0.0.1", 16, 65534},
		{"192.168.1.1", 30, 2},
		{"192.168.1.0", 31, 2},
		{"192.168.1.7", 32, 1},
	}
	for _, tt := range tests {
		sub, err := Parse(tt.addr, tt.bits)
		require.NoError(t, err)
		assert.Equal(t, tt.want, sub.HostCount(), "%s/%d", tt.addr, tt.bits)
	}
}

func TestHostsMatchesHostCount(t *testing.T) {
	for _, bits := range []int{16, 24, 29, 30, 31, 32} {
		sub, err := Parse("10.1.2.3", bits)
		require.NoError(t, err)

		n := 0
		for range sub.Hosts() {
			n++
		}
		assert.Equal(t, sub.HostCount(), n, "/%d", bits)
	}
}

func TestHostsExcludesNetworkAndBroadcast(t *testing.T) {
	sub, err := Parse("192.168.1.4", 29) // 192.168.1.0/29
	require.NoError(t, err)

	var got []netip.Addr
	for addr := range sub.Hosts() {
		got = append(got, addr)
	}

	want := []netip.Addr{
		netip.MustParseAddr("192.168.1.1"),
		netip.MustParseAddr("192.168.1.2"),
		netip.MustParseAddr("192.168.1.3"),
		netip.MustParseAddr("192.168.1.4"),
		netip.MustParseAddr("192.168.1.5"),
		netip.MustParseAddr("192.168.1.6"),
	}
	assert.Equal(t, want, got)
}

func TestHostsSlash31IncludesBothAddresses(t *testing.T) {
	sub, err := Parse("192.168.1.0", 31)
	require.NoError(t, err)

	var got []netip.Addr
	for addr := range sub.Hosts() {
		got = append(got, addr)
	}
	assert.Equal(t, []netip.Addr{
		netip.MustParseAddr("192.168.1.0"),
		netip.MustParseAddr("192.168.1.1"),
	}, got)
}

func TestHostsRestartable(t *testing.T) {
	sub, err := Parse("172.16.5.9", 28)
	require.NoError(t, err)

	collect := func() []netip.Addr {
		var out []netip.Addr
		for addr := range sub.Hosts() {
			out = append(out, addr)
		}
		return out
	}
	assert.Equal(t, collect(), collect())
}

func TestHostsEarlyBreak(t *testing.T) {
	sub, err := Parse("192.168.1.1", 24)
	require.NoError(t, err)

	n := 0
	for range sub.Hosts() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestHostsTopOfAddressSpace(t *testing.T) {
	// /31 ending at 255.255.255.255 must terminate despite uint32 wrap.
	sub, err := Parse("255.255.255.254", 31)
	require.NoError(t, err)

	n := 0
	for range sub.Hosts() {
		n++
	}
	assert.Equal(t, 2, n)
}

func TestNewMasksAddress(t *testing.T) {
	sub, err := Parse("192.168.1.77", 24)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.0/24", sub.String())
}

func TestInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		addr string
		bits int
	}{
		{"malformed address", "not-an-address", 24},
		{"ipv6 address", "fe80::1", 24},
		{"zero prefix", "192.168.1.1", 0},
		{"prefix too long", "192.168.1.1", 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.addr, tt.bits)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidAddress)
		})
	}
}

func TestFallbackLocalAddr(t *testing.T) {
	assert.Equal(t, netip.MustParseAddr("192.168.1.1"), FallbackLocalAddr)
}

func TestDetectLocalAddr(t *testing.T) {
	addr, err := DetectLocalAddr()
	if err != nil {
		t.Skipf("no outbound route available: %v", err)
	}
	assert.True(t, addr.Is4())
}
