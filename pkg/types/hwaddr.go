package types

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"
)

// HardwareAddrLen is the length of an EUI-48 hardware address
const HardwareAddrLen = 6

// HardwareAddr is an EUI-48 (ethernet) hardware address.
// It is a value type: copies never share memory with the table it was read from.
type HardwareAddr [HardwareAddrLen]byte

// HardwareAddrFromSlice copies b into a HardwareAddr. It reports false if b is not 6 bytes long.
func HardwareAddrFromSlice(b []byte) (HardwareAddr, bool) {
	var hw HardwareAddr
	if len(b) != HardwareAddrLen {
		return hw, false
	}
	copy(hw[:], b)
	return hw, true
}

// ParseHardwareAddr parses exactly six colon delimited groups of one or two hex digits
func ParseHardwareAddr(s string) (HardwareAddr, error) {
	var hw HardwareAddr

	groups := strings.Split(s, ":")
	if len(groups) != HardwareAddrLen {
		return hw, fmt.Errorf("invalid hardware address %q: got %d groups, want %d", s, len(groups), HardwareAddrLen)
	}
	for i, group := range groups {
		if len(group) == 0 || len(group) > 2 {
			return hw, fmt.Errorf("invalid hardware address %q: bad group %q", s, group)
		}
		v, err := strconv.ParseUint(group, 16, 8)
		if err != nil {
			return hw, fmt.Errorf("invalid hardware address %q: %w", s, err)
		}
		hw[i] = byte(v)
	}
	return hw, nil
}

// IsZero reports whether all bytes are zero (incomplete table entries)
func (hw HardwareAddr) IsZero() bool {
	return hw == HardwareAddr{}
}

// Net returns a freshly allocated net.HardwareAddr
func (hw HardwareAddr) Net() net.HardwareAddr {
	out := make(net.HardwareAddr, HardwareAddrLen)
	copy(out, hw[:])
	return out
}

func (hw HardwareAddr) String() string {
	return net.HardwareAddr(hw[:]).String()
}

// Neighbor is a single (address, hardware address) entry of a neighbor table
type Neighbor struct {
	Addr         netip.Addr
	HardwareAddr HardwareAddr
}

func (n Neighbor) String() string {
	return fmt.Sprintf("%s at %s", n.Addr, n.HardwareAddr)
}
