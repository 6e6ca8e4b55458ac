//go:build !linux && !darwin

package neighbor

// DefaultSource is the source used for "auto"
const DefaultSource = "none"

func platformSources() map[string]func() Resolver {
	return map[string]func() Resolver{
		DefaultSource: func() Resolver { return unsupported{} },
	}
}
