//go:build !amd64 || purego

package prefetch

import "unsafe"

// hint is a no-op where there is no prefetch kernel.
func hint(p unsafe.Pointer) {}
