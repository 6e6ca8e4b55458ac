package neighbor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"

	"github.com/projectdiscovery/wol/pkg/types"
)

// ProcNetARP is the linux ARP cache rendered as text
const ProcNetARP = "/proc/net/arp"

// ProcARP reads the IPv4 neighbor table from a /proc/net/arp formatted file.
// There is no IPv6 counterpart of the file, so IPv6 lookups are unsupported.
type ProcARP struct {
	path string
	open func(name string) (io.ReadCloser, error)
}

// NewProcARP returns a resolver reading the table at path
func NewProcARP(path string) *ProcARP {
	return &ProcARP{
		path: path,
		open: func(name string) (io.ReadCloser, error) {
			return os.Open(name)
		},
	}
}

// Resolve returns the hardware address of the first entry for addr
func (p *ProcARP) Resolve(ctx context.Context, addr netip.Addr) (types.HardwareAddr, error) {
	if familyOf(addr) != types.FamilyIPv4 {
		return types.HardwareAddr{}, types.NewError(types.ErrUnsupported, SourceProcfs, fmt.Errorf("no text neighbor table for IPv6 address %s", addr))
	}

	return await(ctx, SourceProcfs, func() (types.HardwareAddr, error) {
		var (
			hw    types.HardwareAddr
			found bool
		)
		err := p.scan(func(n types.Neighbor) bool {
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
			return hw, types.NewError(types.ErrNotFound, SourceProcfs, fmt.Errorf("no entry for %s in %s", addr, p.path))
		}
		return hw, nil
	})
}

// Neighbors returns all complete entries of the table
func (p *ProcARP) Neighbors(ctx context.Context, family types.Family) ([]types.Neighbor, error) {
	if family != types.FamilyIPv4 {
		return nil, types.NewError(types.ErrUnsupported, SourceProcfs, fmt.Errorf("no text neighbor table for %s", family))
	}

	return await(ctx, SourceProcfs, func() ([]types.Neighbor, error) {
		var neighbors []types.Neighbor
		err := p.scan(func(n types.Neighbor) bool {
			neighbors = append(neighbors, n)
			return true
		})
		return neighbors, err
	})
}

func (p *ProcARP) scan(visit func(types.Neighbor) bool) error {
	f, err := p.open(p.path)
	if err != nil {
		return types.NewError(types.ErrTableUnavailable, SourceProcfs, fmt.Errorf("failed to open %s: %w", p.path, err))
	}
	defer f.Close()

	if err := scanARP(f, visit); err != nil {
		return types.NewError(types.ErrTableUnavailable, SourceProcfs, fmt.Errorf("failed to read %s: %w", p.path, err))
	}
	return nil
}

// scanARP calls visit for every well-formed complete entry until visit returns false
func scanARP(r io.Reader, visit func(types.Neighbor) bool) error {
	scanner := bufio.NewScanner(r)

	// Skip header line
	if !scanner.Scan() {
		return scanner.Err()
	}

	for scanner.Scan() {
		// Format: IP address HW type Flags HW address Mask Device
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}

		addr, err := netip.ParseAddr(fields[0])
		if err != nil || !addr.Is4() {
			continue
		}

		hw, err := types.ParseHardwareAddr(fields[3])
		if err != nil {
			continue
		}

		// Skip incomplete entries
		if hw.IsZero() {
			continue
		}

		if !visit(types.Neighbor{Addr: addr, HardwareAddr: hw}) {
			return nil
		}
	}

	return scanner.Err()
}
