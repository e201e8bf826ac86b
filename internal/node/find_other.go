//go:build !amd64 || purego

package node

// FindPopcnt compares all keys against v and counts the keys that are less
// than v with a population count.
func (n *T) FindPopcnt(v uint32) int { return n.findLanes(v) }

// Accelerated reports if FindPopcnt runs on vector instructions.
func Accelerated() bool { return false }
