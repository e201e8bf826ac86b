//go:build amd64 && !purego

package prefetch

import "unsafe"

// hint issues a PREFETCHT0 for the cache line containing p.
//
//go:noescape
func hint(p unsafe.Pointer)
