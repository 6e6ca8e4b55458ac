//go:build linux

package neighbor

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/projectdiscovery/wol/pkg/types"
	"github.com/vishvananda/netlink"
)

// NetlinkTable reads the kernel neighbor table over rtnetlink, for IPv4 and IPv6
type NetlinkTable struct {
	list func(family int) ([]netlink.Neigh, error)
}

// NewNetlinkTable returns a resolver dumping the neighbor table of all links
func NewNetlinkTable() *NetlinkTable {
	return &NetlinkTable{
		list: func(family int) ([]netlink.Neigh, error) {
			return netlink.NeighList(0, family)
		},
	}
}

// Resolve returns the hardware address of the first usable entry for addr
func (t *NetlinkTable) Resolve(ctx context.Context, addr netip.Addr) (types.HardwareAddr, error) {
	neighbors, err := t.Neighbors(ctx, familyOf(addr))
	if err != nil {
		return types.HardwareAddr{}, err
	}
	for _, n := range neighbors {
		if matches(n.Addr, addr) {
			return n.HardwareAddr, nil
		}
	}
	return types.HardwareAddr{}, types.NewError(types.ErrNotFound, SourceNetlink, fmt.Errorf("no entry for %s", addr))
}

// Neighbors returns the usable entries of the family
func (t *NetlinkTable) Neighbors(ctx context.Context, family types.Family) ([]types.Neighbor, error) {
	nlFamily := netlink.FAMILY_V4
	if family == types.FamilyIPv6 {
		nlFamily = netlink.FAMILY_V6
	}

	return await(ctx, SourceNetlink, func() ([]types.Neighbor, error) {
		neighs, err := t.list(nlFamily)
		if err != nil {
			return nil, types.NewError(types.ErrTableUnavailable, SourceNetlink, fmt.Errorf("failed to list %s neighbours: %w", family, err))
		}

		var neighbors []types.Neighbor
		for _, neigh := range neighs {
			n, ok := fromNetlink(neigh)
			if !ok {
				continue
			}
			neighbors = append(neighbors, n)
		}
		return neighbors, nil
	})
}

func fromNetlink(neigh netlink.Neigh) (types.Neighbor, bool) {
	var n types.Neighbor

	// Skip unresolved entries
	if neigh.State&(netlink.NUD_INCOMPLETE|netlink.NUD_FAILED) != 0 {
		return n, false
	}

	addr, ok := netip.AddrFromSlice(neigh.IP)
	if !ok {
		return n, false
	}

	// Skip entries with invalid MAC, must be EUI-48
	hw, ok := types.HardwareAddrFromSlice(neigh.HardwareAddr)
	if !ok || hw.IsZero() {
		return n, false
	}

	n.Addr = addr.Unmap()
	n.HardwareAddr = hw
	return n, true
}
