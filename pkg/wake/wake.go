// Package wake resolves the hardware address of a host from the neighbor table
// and sends it a Wake-on-LAN magic packet.
//
// A wake is a linear pipeline that stops at the first failing stage:
//
//	validate port -> parse address -> resolve hardware address -> build packet -> send
//
// Failures are returned as *types.Error values whose Op names the failing stage,
// the caller decides whether a failure terminates the process.
package wake

import (
	"context"
	"fmt"
	"math"
	"net/netip"
	"time"

	"github.com/projectdiscovery/wol/pkg/magicpacket"
	"github.com/projectdiscovery/wol/pkg/neighbor"
	"github.com/projectdiscovery/wol/pkg/transport"
	"github.com/projectdiscovery/wol/pkg/types"
)

// DefaultPort is the discard port magic packets are usually sent to
const DefaultPort = 9

// Pipeline stages reported in errors
const (
	StageValidate = "validate"
	StageParse    = "parse"
	StageResolve  = "resolve"
	StageSend     = "send"
)

// Request holds the inputs of one wake
type Request struct {
	// Address is an IPv4 or IPv6 literal, both looked up in the neighbor table and used as destination
	Address string
	// Port is the destination UDP port
	Port uint
	// IPv6 selects the IPv6 family for parsing and transport
	IPv6 bool
}

// Target is the destination of one magic packet
type Target struct {
	Addr   netip.Addr
	Port   uint16
	Family types.Family
}

func (t Target) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(t.Addr, t.Port)
}

func (t Target) String() string {
	return t.AddrPort().String()
}

// Result describes a sent magic packet
type Result struct {
	Target       Target
	HardwareAddr types.HardwareAddr
}

// SendFunc sends one datagram
type SendFunc func(ctx context.Context, dst netip.AddrPort, payload []byte) error

// Waker runs wakes against one neighbor table
type Waker struct {
	resolver neighbor.Resolver
	send     SendFunc
	timeout  time.Duration
}

// Option configures a Waker
type Option func(*Waker)

// WithSender replaces the UDP transport
func WithSender(send SendFunc) Option {
	return func(w *Waker) {
		w.send = send
	}
}

// WithTimeout bounds resolution and send of each wake, zero disables the bound
func WithTimeout(timeout time.Duration) Option {
	return func(w *Waker) {
		w.timeout = timeout
	}
}

// New returns a Waker resolving hardware addresses with resolver
func New(resolver neighbor.Resolver, opts ...Option) *Waker {
	w := &Waker{
		resolver: resolver,
		send:     transport.Send,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ParseTarget validates the port and parses the address for the requested family
func ParseTarget(req Request) (Target, error) {
	if req.Port == 0 || req.Port > math.MaxUint16 {
		return Target{}, types.NewError(types.ErrInvalidPort, StageValidate, fmt.Errorf("port %d is not in 1-%d", req.Port, math.MaxUint16))
	}

	family := types.FamilyIPv4
	if req.IPv6 {
		family = types.FamilyIPv6
	}

	addr, err := netip.ParseAddr(req.Address)
	if err != nil {
		return Target{}, types.NewError(types.ErrInvalidAddress, StageParse, fmt.Errorf("invalid %s address %q: %w", family, req.Address, err))
	}
	if (family == types.FamilyIPv6) != addr.Is6() {
		return Target{}, types.NewError(types.ErrInvalidAddress, StageParse, fmt.Errorf("%q is not an %s address", req.Address, family))
	}
	// a mapped address would be resolved and sent as IPv4
	if addr.Is4In6() {
		return Target{}, types.NewError(types.ErrInvalidAddress, StageParse, fmt.Errorf("%q is an IPv4-mapped address, use it as IPv4", req.Address))
	}

	return Target{
		Addr:   addr,
		Port:   uint16(req.Port),
		Family: family,
	}, nil
}

// Wake resolves the hardware address of req.Address and sends it a magic packet
func (w *Waker) Wake(ctx context.Context, req Request) (Result, error) {
	target, err := ParseTarget(req)
	if err != nil {
		return Result{}, err
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	hw, err := w.resolver.Resolve(ctx, target.Addr)
	if err != nil {
		return Result{}, types.WithOp(StageResolve, types.ErrTableUnavailable, err)
	}

	packet := magicpacket.New(hw)
	if err := w.send(ctx, target.AddrPort(), packet.Bytes()); err != nil {
		return Result{}, types.WithOp(StageSend, types.ErrSend, err)
	}

	return Result{Target: target, HardwareAddr: hw}, nil
}
