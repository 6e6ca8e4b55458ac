// Package transport sends single UDP datagrams to broadcast, multicast or unicast destinations.
package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/netip"
	"syscall"

	"github.com/projectdiscovery/wol/pkg/types"
)

const op = "transport"

var (
	setBroadcast = enableBroadcast
	listenPacket = func(ctx context.Context, lc *net.ListenConfig, network, address string) (net.PacketConn, error) {
		return lc.ListenPacket(ctx, network, address)
	}
)

// Send opens a datagram socket of dst's family with broadcast delivery enabled,
// writes payload to dst exactly once and closes the socket.
// A deadline on ctx bounds the write.
func Send(ctx context.Context, dst netip.AddrPort, payload []byte) error {
	if !dst.IsValid() {
		return types.NewError(types.ErrInvalidAddress, op, fmt.Errorf("invalid destination %s", dst))
	}
	dst = netip.AddrPortFrom(dst.Addr().Unmap(), dst.Port())
	family := types.FamilyOf(dst.Addr())

	var configErr error
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			if err := c.Control(func(fd uintptr) {
				configErr = setBroadcast(fd)
			}); err != nil {
				return err
			}
			return configErr
		},
	}

	conn, err := listenPacket(ctx, &lc, family.Network(), wildcard(family))
	if err != nil {
		if configErr != nil {
			return types.NewError(types.ErrConfig, op, fmt.Errorf("failed to enable broadcast: %w", configErr))
		}
		return types.NewError(types.ErrSocket, op, fmt.Errorf("failed to open %s socket: %w", family.Network(), err))
	}
	udpConn, ok := conn.(*net.UDPConn)
	if !ok {
		_ = conn.Close()
		return types.NewError(types.ErrSocket, op, fmt.Errorf("unexpected %T for %s", conn, family.Network()))
	}
	// close errors after the write are ignored
	defer func() {
		_ = udpConn.Close()
	}()

	if deadline, ok := ctx.Deadline(); ok {
		if err := udpConn.SetWriteDeadline(deadline); err != nil {
			return types.NewError(types.ErrConfig, op, err)
		}
	}

	n, err := udpConn.WriteToUDPAddrPort(payload, dst)
	if err != nil {
		return types.NewError(types.ErrSend, op, fmt.Errorf("failed to send to %s: %w", dst, err))
	}
	if n != len(payload) {
		return types.NewError(types.ErrSend, op, fmt.Errorf("sent %d of %d bytes to %s: %w", n, len(payload), dst, io.ErrShortWrite))
	}
	return nil
}

func wildcard(family types.Family) string {
	if family == types.FamilyIPv6 {
		return "[::]:0"
	}
	return "0.0.0.0:0"
}
