// Package align allocates memory that starts on a cache line boundary.
package align

import "unsafe"

// CacheLine is the number of bytes in a cache line.
const CacheLine = 64

const perLine = CacheLine / 4

// Uint32s returns a zeroed slice of n uint32s whose first element begins a
// cache line. The go heap does not move objects, so the alignment holds for
// the lifetime of the slice.
func Uint32s(n int) []uint32 {
	buf := make([]uint32, n+perLine-1)
	off := int(uintptr(unsafe.Pointer(&buf[0]))%CacheLine) / 4
	if off != 0 {
		off = perLine - off
	}
	return buf[off : off+n : off+n]
}
