// Package neighbor resolves hardware addresses from the operating system's
// neighbor table (the ARP cache for IPv4, the neighbor cache for IPv6).
//
// Every table source implements Resolver. The platform fixes the default source:
//   - linux:  the text table exposed at /proc/net/arp (IPv4 only)
//   - darwin: the routing table dumped with NET_RT_FLAGS/RTF_LLINFO (IPv4 and IPv6)
//   - others: none, every lookup fails with types.ErrUnsupported
//
// On linux the kernel neighbor table can also be read over rtnetlink by selecting
// the netlink source explicitly.
//
// Lookups only read the table. Nothing is probed: an address missing from the
// table is reported as types.ErrNotFound, and there is no fallback between sources.
package neighbor
