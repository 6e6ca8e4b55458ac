//go:build linux

package neighbor

// DefaultSource is the source used for "auto"
const DefaultSource = SourceProcfs

func platformSources() map[string]func() Resolver {
	return map[string]func() Resolver{
		SourceProcfs:  func() Resolver { return NewProcARP(ProcNetARP) },
		SourceNetlink: func() Resolver { return NewNetlinkTable() },
	}
}
