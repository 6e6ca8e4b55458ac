package types

import "net/netip"

// Family is an address family
type Family uint8

const (
	FamilyIPv4 Family = iota
	FamilyIPv6
)

// FamilyOf returns the family of addr, treating IPv4-mapped IPv6 addresses as IPv4
func FamilyOf(addr netip.Addr) Family {
	if addr.Unmap().Is4() {
		return FamilyIPv4
	}
	return FamilyIPv6
}

// Network returns the UDP network name for the family
func (f Family) Network() string {
	if f == FamilyIPv6 {
		return "udp6"
	}
	return "udp4"
}

func (f Family) String() string {
	if f == FamilyIPv6 {
		return "IPv6"
	}
	return "IPv4"
}
