//go:build amd64 && !purego

package node

import "golang.org/x/sys/cpu"

// hasAVX2 selects the wide compare kernel. The kernel also needs POPCNT,
// which every AVX2 part has, but check anyway.
var hasAVX2 = cpu.X86.HasAVX2 && cpu.X86.HasPOPCNT

//go:noescape
func findAVX2(n *T, v uint32) int

// FindPopcnt compares all keys against v at once and counts the keys that are
// less than v with a population count.
func (n *T) FindPopcnt(v uint32) int {
	if hasAVX2 {
		return findAVX2(n, v)
	}
	return n.findLanes(v)
}

// Accelerated reports if FindPopcnt runs on vector instructions.
func Accelerated() bool { return hasAVX2 }
