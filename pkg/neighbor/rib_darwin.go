//go:build darwin

package neighbor

import (
	"golang.org/x/net/route"
	"golang.org/x/sys/unix"
)

var darwinLayout = ribLayout{
	hdrLen:  unix.SizeofRtMsghdr,
	afInet:  unix.AF_INET,
	afInet6: unix.AF_INET6,
	afLink:  unix.AF_LINK,
}

// NewRoutingTable returns a resolver reading the kernel routing table through sysctl
func NewRoutingTable() *RoutingTable {
	return &RoutingTable{
		layout: darwinLayout,
		fetch:  fetchLLInfo,
	}
}

// fetchLLInfo dumps the routes carrying link-layer information,
// {CTL_NET, PF_ROUTE, 0, af, NET_RT_FLAGS, RTF_LLINFO}
func fetchLLInfo(af int) ([]byte, error) {
	return route.FetchRIB(af, route.RIBType(unix.NET_RT_FLAGS), unix.RTF_LLINFO)
}
