package neighbor

import (
	"context"
	"errors"
	"io"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/projectdiscovery/wol/pkg/types"
)

func fakeProcARP(table string) *ProcARP {
	return &ProcARP{
		path: ProcNetARP,
		open: func(string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(table)), nil
		},
	}
}

func TestProcARPResolve(t *testing.T) {
	resolver := NewProcARP(filepath.Join("testdata", "arp"))

	tests := []struct {
		name     string
		addr     netip.Addr
		want     types.HardwareAddr
		wantKind types.Kind
	}{
		{
			name: "complete entry",
			addr: netip.MustParseAddr("192.168.1.1"),
			want: types.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0x01},
		},
		{
			name: "upper case hardware address",
			addr: netip.MustParseAddr("255.255.255.255"),
			want: types.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff},
		},
		{
			name: "ipv4 mapped address",
			addr: netip.MustParseAddr("::ffff:10.0.0.10"),
			want: types.HardwareAddr{0x02, 0x42, 0xac, 0x11, 0x00, 0x02},
		},
		{
			name: "absent address matches first entry",
			addr: netip.Addr{},
			want: types.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0x01},
		},
		{
			name:     "incomplete entry",
			addr:     netip.MustParseAddr("192.168.1.20"),
			wantKind: types.ErrNotFound,
		},
		{
			name:     "five hex groups",
			addr:     netip.MustParseAddr("192.168.1.30"),
			wantKind: types.ErrNotFound,
		},
		{
			name:     "non hex digit",
			addr:     netip.MustParseAddr("192.168.1.40"),
			wantKind: types.ErrNotFound,
		},
		{
			name:     "textual prefix of another entry",
			addr:     netip.MustParseAddr("10.0.0.1"),
			wantKind: types.ErrNotFound,
		},
		{
			name:     "ipv6",
			addr:     netip.MustParseAddr("fe80::1"),
			wantKind: types.ErrUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(context.Background(), tt.addr)
			if tt.wantKind != types.ErrUnknown {
				if !errors.Is(err, tt.wantKind) {
					t.Fatalf("Resolve(%v) error = %v, want %v", tt.addr, err, tt.wantKind)
				}
				if !got.IsZero() {
					t.Errorf("Resolve(%v) = %v on error, want zero address", tt.addr, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%v) unexpected error: %v", tt.addr, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%v) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}

func TestProcARPFirstMatchWins(t *testing.T) {
	resolver := fakeProcARP(`IP address       HW type     Flags       HW address            Mask     Device
192.168.1.5      0x1         0x2         aa:bb:cc:dd:ee        *        eth0
192.168.1.5      0x1         0x2         11:22:33:44:55:66     *        eth1
192.168.1.5      0x1         0x2         66:55:44:33:22:11     *        eth2
`)

	got, err := resolver.Resolve(context.Background(), netip.MustParseAddr("192.168.1.5"))
	if err != nil {
		t.Fatal(err)
	}
	if want := (types.HardwareAddr{0x11, 0x22, 0x33, 0x44, 0x55, 0x66}); got != want {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestProcARPUnavailable(t *testing.T) {
	resolver := NewProcARP(filepath.Join(t.TempDir(), "missing"))
	_, err := resolver.Resolve(context.Background(), netip.MustParseAddr("192.168.1.1"))
	if !errors.Is(err, types.ErrTableUnavailable) {
		t.Fatalf("Resolve() error = %v, want %v", err, types.ErrTableUnavailable)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Resolve() error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestProcARPUnsupportedBeforeOpen(t *testing.T) {
	opened := false
	resolver := &ProcARP{
		path: ProcNetARP,
		open: func(string) (io.ReadCloser, error) {
			opened = true
			return nil, errors.New("unexpected open")
		},
	}
	_, err := resolver.Resolve(context.Background(), netip.MustParseAddr("2001:db8::1"))
	if !errors.Is(err, types.ErrUnsupported) {
		t.Errorf("Resolve() error = %v, want %v", err, types.ErrUnsupported)
	}
	if opened {
		t.Error("table was opened for an IPv6 lookup")
	}
}

func TestProcARPCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fakeProcARP("").Resolve(ctx, netip.MustParseAddr("192.168.1.1"))
	if !errors.Is(err, types.ErrTableUnavailable) || !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want table unavailable caused by context.Canceled", err)
	}
}

func TestProcARPNeighbors(t *testing.T) {
	resolver := NewProcARP(filepath.Join("testdata", "arp"))

	got, err := resolver.Neighbors(context.Background(), types.FamilyIPv4)
	if err != nil {
		t.Fatal(err)
	}
	want := []types.Neighbor{
		{Addr: netip.MustParseAddr("192.168.1.1"), HardwareAddr: types.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0x01}},
		{Addr: netip.MustParseAddr("10.0.0.10"), HardwareAddr: types.HardwareAddr{0x02, 0x42, 0xac, 0x11, 0x00, 0x02}},
		{Addr: netip.MustParseAddr("255.255.255.255"), HardwareAddr: types.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}},
	}
	if len(got) != len(want) {
		t.Fatalf("Neighbors() got %d entries, want %d: %v", len(got), len(want), got)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("Neighbors()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := resolver.Neighbors(context.Background(), types.FamilyIPv6); !errors.Is(err, types.ErrUnsupported) {
		t.Errorf("Neighbors(IPv6) error = %v, want %v", err, types.ErrUnsupported)
	}
}

func TestScanARPEmpty(t *testing.T) {
	visited := 0
	if err := scanARP(strings.NewReader(""), func(types.Neighbor) bool {
		visited++
		return true
	}); err != nil {
		t.Fatal(err)
	}
	if visited != 0 {
		t.Errorf("visited %d entries in an empty table, want 0", visited)
	}
}
