package neighbor

import (
	"context"
	"encoding/binary"
	"fmt"
	"net/netip"

	"github.com/projectdiscovery/wol/pkg/types"
)

// ribLayout describes how the platform encodes routing messages
type ribLayout struct {
	// hdrLen is sizeof(struct rt_msghdr)
	hdrLen  int
	afInet  byte
	afInet6 byte
	afLink  byte
}

// sdlHeaderLen is the size of the fixed sockaddr_dl fields preceding sdl_data
const sdlHeaderLen = 8

// RoutingTable resolves addresses from the routing table entries that carry
// link-layer information (NET_RT_FLAGS with RTF_LLINFO).
type RoutingTable struct {
	layout ribLayout
	// fetch returns the raw routing messages for an address family
	fetch func(af int) ([]byte, error)
}

// Resolve returns the hardware address of the first link-layer entry for addr
func (rt *RoutingTable) Resolve(ctx context.Context, addr netip.Addr) (types.HardwareAddr, error) {
	return await(ctx, SourceRoute, func() (types.HardwareAddr, error) {
		var (
			hw    types.HardwareAddr
			found bool
		)
		err := rt.walk(familyOf(addr), func(n types.Neighbor) bool {
			if matches(n.Addr, addr) {
				hw, found = n.HardwareAddr, true
				return false
			}
			return true
		})
		if err != nil {
			return hw, err
		}
		if !found {
			return hw, types.NewError(types.ErrNotFound, SourceRoute, fmt.Errorf("no link-layer entry for %s", addr))
		}
		return hw, nil
	})
}

// Neighbors returns every link-layer entry of the family
func (rt *RoutingTable) Neighbors(ctx context.Context, family types.Family) ([]types.Neighbor, error) {
	return await(ctx, SourceRoute, func() ([]types.Neighbor, error) {
		var neighbors []types.Neighbor
		err := rt.walk(family, func(n types.Neighbor) bool {
			neighbors = append(neighbors, n)
			return true
		})
		return neighbors, err
	})
}

func (rt *RoutingTable) walk(family types.Family, visit func(types.Neighbor) bool) error {
	af := rt.layout.afInet
	if family == types.FamilyIPv6 {
		af = rt.layout.afInet6
	}

	b, err := rt.fetch(int(af))
	if err != nil {
		return types.NewError(types.ErrTableUnavailable, SourceRoute, fmt.Errorf("failed to fetch %s routing table: %w", family, err))
	}
	walkRIB(b, rt.layout, visit)
	return nil
}

// walkRIB calls visit for every link-layer entry in b until visit returns false.
// Neighbors hold copies, b may be released as soon as walkRIB returns.
func walkRIB(b []byte, layout ribLayout, visit func(types.Neighbor) bool) {
	for len(b) >= 2 {
		msgLen := int(binary.NativeEndian.Uint16(b))
		if msgLen < layout.hdrLen || msgLen > len(b) {
			// truncated
			return
		}
		rec := b[:msgLen]
		b = b[msgLen:]

		n, ok := parseRIBRecord(rec, layout)
		if !ok {
			continue
		}
		if !visit(n) {
			return
		}
	}
}

// parseRIBRecord decodes the destination sockaddr and the sockaddr_dl following it
func parseRIBRecord(rec []byte, layout ribLayout) (types.Neighbor, bool) {
	var n types.Neighbor

	sa := rec[layout.hdrLen:]
	if len(sa) < 2 {
		return n, false
	}
	saLen := int(sa[0])
	step := roundup(saLen)
	if saLen > len(sa) || step > len(sa) {
		return n, false
	}

	dl := sa[step:]
	if len(dl) < sdlHeaderLen || dl[1] != layout.afLink {
		return n, false
	}
	nlen, alen := int(dl[5]), int(dl[6])
	if alen != types.HardwareAddrLen || sdlHeaderLen+nlen+alen > len(dl) {
		return n, false
	}
	lladdr := dl[sdlHeaderLen+nlen : sdlHeaderLen+nlen+alen]

	switch sa[1] {
	case layout.afInet:
		// sin_len, sin_family, sin_port, sin_addr
		if saLen < 8 {
			return n, false
		}
		n.Addr = netip.AddrFrom4([4]byte(sa[4:8]))
	case layout.afInet6:
		// sin6_len, sin6_family, sin6_port, sin6_flowinfo, sin6_addr
		if saLen < 24 {
			return n, false
		}
		a := [16]byte(sa[8:24])
		// the kernel embeds the interface index in link-local addresses
		if a[0] == 0xfe && a[1]&0xc0 == 0x80 {
			a[2], a[3] = 0, 0
		}
		n.Addr = netip.AddrFrom16(a)
	default:
		return n, false
	}

	n.HardwareAddr, _ = types.HardwareAddrFromSlice(lladdr)
	return n, true
}

// roundup aligns sockaddr lengths to 32 bits, zero length sockaddrs still take 4 bytes
func roundup(n int) int {
	if n > 0 {
		return 1 + ((n - 1) | 3)
	}
	return 4
}
