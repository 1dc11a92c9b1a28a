//go:build !linux

package vdev

import (
	"fmt"
	"runtime"
)

// OpenUinput is only supported on Linux.
func OpenUinput(Layout) (Sink, error) {
	return nil, fmt.Errorf("%w: uinput is not available on %s", ErrDeviceUnavailable, runtime.GOOS)
}
