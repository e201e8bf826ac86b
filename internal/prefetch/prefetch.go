// Package prefetch issues hints that memory will be read soon. A hint never
// faults and never changes program results, it only moves a cache line
// closer to the core ahead of the load that needs it.
package prefetch

import "unsafe"

// Index hints that s[i] will be read soon. The index is clamped into s so
// callers may pass positions outside of it, as happens near the bottom of an
// implicit tree or at the last step of a binary search.
func Index[E any](s []E, i int) {
	if len(s) == 0 {
		return
	}
	hint(unsafe.Pointer(&s[max(0, min(i, len(s)-1))]))
}
