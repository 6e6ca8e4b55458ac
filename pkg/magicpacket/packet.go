// Package magicpacket builds Wake-on-LAN magic packets.
//
// A magic packet is a synchronization stream of six 0xFF bytes followed by the
// target hardware address repeated sixteen times. SecureOn passwords are not supported.
package magicpacket

import (
	"bytes"
	"fmt"

	"github.com/projectdiscovery/wol/pkg/types"
)

const (
	// syncLen is the length of the 0xFF synchronization stream
	syncLen = 6
	// Repetitions is how many times the hardware address is repeated
	Repetitions = 16
	// Size is the length of a magic packet
	Size = syncLen + Repetitions*types.HardwareAddrLen
)

var syncStream = bytes.Repeat([]byte{0xff}, syncLen)

// Packet is a complete magic packet
type Packet [Size]byte

// New builds the magic packet for hw
func New(hw types.HardwareAddr) Packet {
	var p Packet
	copy(p[:syncLen], syncStream)
	for i := 0; i < Repetitions; i++ {
		copy(p[syncLen+i*types.HardwareAddrLen:], hw[:])
	}
	return p
}

// Bytes returns the wire payload
func (p Packet) Bytes() []byte {
	return p[:]
}

// HardwareAddr returns the address carried by the packet
func (p Packet) HardwareAddr() types.HardwareAddr {
	var hw types.HardwareAddr
	copy(hw[:], p[syncLen:])
	return hw
}

// Parse validates a received payload and returns the hardware address it wakes
func Parse(b []byte) (types.HardwareAddr, error) {
	var hw types.HardwareAddr
	if len(b) != Size {
		return hw, fmt.Errorf("invalid magic packet length: got %d, want %d", len(b), Size)
	}
	if !bytes.Equal(b[:syncLen], syncStream) {
		return hw, fmt.Errorf("invalid magic packet synchronization stream % x", b[:syncLen])
	}
	copy(hw[:], b[syncLen:])
	for i := 1; i < Repetitions; i++ {
		off := syncLen + i*types.HardwareAddrLen
		if !bytes.Equal(b[off:off+types.HardwareAddrLen], hw[:]) {
			return hw, fmt.Errorf("invalid magic packet: repetition %d differs", i)
		}
	}
	return hw, nil
}
