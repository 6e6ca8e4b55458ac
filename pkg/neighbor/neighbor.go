package neighbor

import (
	"context"
	"fmt"
	"net/netip"
	"runtime"
	"sort"

	"github.com/projectdiscovery/wol/pkg/types"
)

// Names of the neighbor table sources
const (
	SourceAuto    = "auto"
	SourceProcfs  = "procfs"
	SourceNetlink = "netlink"
	SourceRoute   = "route"
)

// Resolver returns the hardware address the OS neighbor table holds for an address.
// An invalid (zero) address matches the first hardware entry of the table.
type Resolver interface {
	Resolve(ctx context.Context, addr netip.Addr) (types.HardwareAddr, error)
}

// Lister is implemented by resolvers that can enumerate their table
type Lister interface {
	Neighbors(ctx context.Context, family types.Family) ([]types.Neighbor, error)
}

// New returns the resolver for the named source, "auto" selecting the platform default
func New(source string) (Resolver, error) {
	source = SourceName(source)
	newResolver, ok := platformSources()[source]
	if !ok {
		return nil, types.NewError(types.ErrUnsupported, "neighbor", fmt.Errorf("source %q is not available on %s (available: %v)", source, runtime.GOOS, Sources()))
	}
	return newResolver(), nil
}

// SourceName returns the source New selects for source, resolving "auto"
func SourceName(source string) string {
	if source == "" || source == SourceAuto {
		return DefaultSource
	}
	return source
}

// Sources returns the names of the sources available on this platform
func Sources() []string {
	var names []string
	for name := range platformSources() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// matches compares table and requested addresses numerically, ignoring zones
func matches(entry, want netip.Addr) bool {
	if !want.IsValid() {
		return true
	}
	return entry.Unmap().WithZone("") == want.Unmap().WithZone("")
}

// familyOf returns the table family to query for addr, IPv4 when addr is absent
func familyOf(addr netip.Addr) types.Family {
	if !addr.IsValid() {
		return types.FamilyIPv4
	}
	return types.FamilyOf(addr)
}

// await runs a blocking table read and stops waiting for it once ctx is done.
// Table reads are single system calls that cannot be interrupted.
func await[T any](ctx context.Context, op string, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, types.NewError(types.ErrTableUnavailable, op, err)
	}

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		value, err := fn()
		done <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return zero, types.NewError(types.ErrTableUnavailable, op, ctx.Err())
	case r := <-done:
		return r.value, r.err
	}
}

// unsupported is the resolver of platforms without a neighbor table source
type unsupported struct{}

func (unsupported) Resolve(_ context.Context, addr netip.Addr) (types.HardwareAddr, error) {
	return types.HardwareAddr{}, types.NewError(types.ErrUnsupported, "neighbor", fmt.Errorf("no neighbor table on %s for %s", runtime.GOOS, addr))
}

func (unsupported) Neighbors(_ context.Context, family types.Family) ([]types.Neighbor, error) {
	return nil, types.NewError(types.ErrUnsupported, "neighbor", fmt.Errorf("no %s neighbor table on %s", family, runtime.GOOS))
}
