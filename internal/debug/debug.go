//go:build !release

// Package debug holds invariant checks that are compiled out of release
// builds. They belong on construction paths only, never in a query loop.
package debug

// Enabled reports if assertions are checked.
const Enabled = true

// Assert panics with the info if fn returns false.
func Assert(info string, fn func() bool) {
	if !fn() {
		panic("assertion failed: " + info)
	}
}
