//go:build darwin

package neighbor

// DefaultSource is the source used for "auto"
const DefaultSource = SourceRoute

func platformSources() map[string]func() Resolver {
	return map[string]func() Resolver{
		SourceRoute: func() Resolver { return NewRoutingTable() },
	}
}
