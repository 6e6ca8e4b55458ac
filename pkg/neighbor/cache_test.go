package neighbor

import (
	"context"
	"errors"
	"net/netip"
	"sync/atomic"
	"testing"

	"github.com/projectdiscovery/wol/pkg/types"
)

type countingResolver struct {
	calls   atomic.Int32
	entries map[netip.Addr]types.HardwareAddr
}

func (r *countingResolver) Resolve(_ context.Context, addr netip.Addr) (types.HardwareAddr, error) {
	r.calls.Add(1)
	hw, ok := r.entries[addr]
	if !ok {
		return hw, types.NewError(types.ErrNotFound, "fake", nil)
	}
	return hw, nil
}

func TestCache(t *testing.T) {
	hw := types.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	inner := &countingResolver{entries: map[netip.Addr]types.HardwareAddr{
		netip.MustParseAddr("192.168.1.10"): hw,
	}}
	c := NewCache(inner, 8)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := c.Resolve(ctx, netip.MustParseAddr("192.168.1.10"))
		if err != nil {
			t.Fatal(err)
		}
		if got != hw {
			t.Errorf("Resolve() = %v, want %v", got, hw)
		}
	}
	if got, want := inner.calls.Load(), int32(1); got != want {
		t.Errorf("inner resolver called %d times, want %d", got, want)
	}

	// failures are not cached
	for i := 0; i < 2; i++ {
		if _, err := c.Resolve(ctx, netip.MustParseAddr("192.168.1.11")); !errors.Is(err, types.ErrNotFound) {
			t.Errorf("Resolve(missing) error = %v, want %v", err, types.ErrNotFound)
		}
	}
	if got, want := inner.calls.Load(), int32(3); got != want {
		t.Errorf("inner resolver called %d times, want %d", got, want)
	}
}

func TestCacheNeighborsRequiresLister(t *testing.T) {
	c := NewCache(&countingResolver{}, 1)
	if _, err := c.Neighbors(context.Background(), types.FamilyIPv4); !errors.Is(err, types.ErrUnsupported) {
		t.Errorf("Neighbors() error = %v, want %v", err, types.ErrUnsupported)
	}

	listing := NewCache(fakeProcARP("IP address HW type Flags HW address Mask Device\n10.0.0.1 0x1 0x2 01:02:03:04:05:06 * eth0\n"), 1)
	got, err := listing.Neighbors(context.Background(), types.FamilyIPv4)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Addr != netip.MustParseAddr("10.0.0.1") {
		t.Errorf("Neighbors() = %v, want the single 10.0.0.1 entry", got)
	}
}

func TestNewUnknownSource(t *testing.T) {
	if _, err := New("carrier-pigeon"); !errors.Is(err, types.ErrUnsupported) {
		t.Errorf("New(unknown) error = %v, want %v", err, types.ErrUnsupported)
	}
}

func TestSourceName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", DefaultSource},
		{SourceAuto, DefaultSource},
		{SourceNetlink, SourceNetlink},
		{SourceRoute, SourceRoute},
	}
	for _, tt := range tests {
		if got := SourceName(tt.in); got != tt.want {
			t.Errorf("SourceName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
