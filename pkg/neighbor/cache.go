package neighbor

import (
	"context"
	"net/netip"

	"github.com/projectdiscovery/gcache"
	"github.com/projectdiscovery/wol/pkg/types"
)

// Cache memoizes successful resolutions of another resolver for the lifetime of the process.
// Failures are not cached.
type Cache struct {
	resolver Resolver
	entries  gcache.Cache[netip.Addr, types.HardwareAddr]
}

// NewCache wraps resolver with an LRU of size entries, size must be positive
func NewCache(resolver Resolver, size int) *Cache {
	return &Cache{
		resolver: resolver,
		entries: gcache.New[netip.Addr, types.HardwareAddr](size).
			LRU().
			Build(),
	}
}

func (c *Cache) Resolve(ctx context.Context, addr netip.Addr) (types.HardwareAddr, error) {
	key := addr.Unmap().WithZone("")
	if hw, err := c.entries.Get(key); err == nil {
		return hw, nil
	}

	hw, err := c.resolver.Resolve(ctx, addr)
	if err != nil {
		return hw, err
	}
	_ = c.entries.Set(key, hw)
	return hw, nil
}

// Neighbors lists the wrapped resolver's table, bypassing the cache
func (c *Cache) Neighbors(ctx context.Context, family types.Family) ([]types.Neighbor, error) {
	lister, ok := c.resolver.(Lister)
	if !ok {
		return nil, types.NewError(types.ErrUnsupported, "neighbor", nil)
	}
	return lister.Neighbors(ctx, family)
}
