//go:build release

package debug

// Enabled reports if assertions are checked.
const Enabled = false

// Assert does nothing in release builds.
func Assert(info string, fn func() bool) {}
