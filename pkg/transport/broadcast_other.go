//go:build !unix && !windows

package transport

import (
	"fmt"
	"runtime"
)

func enableBroadcast(uintptr) error {
	return fmt.Errorf("SO_BROADCAST is not available on %s", runtime.GOOS)
}
