package node

import (
	"math"
	"math/bits"
	"unsafe"

	"github.com/zeebo/stree/internal/align"
)

const (
	// Keys is how many keys a node holds.
	Keys = 16

	// Fanout is how many children an internal node routes to.
	Fanout = Keys + 1

	// Sentinel pads nodes and stands in for "greater than every key". It is
	// never a stored key.
	Sentinel = math.MaxUint32

	// Size is how many bytes a node takes up. It is one cache line.
	Size = uint64(unsafe.Sizeof(T{}))
)

// N.B. it is important that T does not contain pointers, so that arrays of
// them can be carved out of aligned uint32 storage.

// T is a block of ascending keys. Unused slots hold Sentinel and only ever
// appear at the tail.
type T [Keys]uint32

// Finder returns the position of the first key in the node that is >= v, or
// Keys if there is none.
type Finder func(n *T, v uint32) int

// Alloc returns count nodes filled with Sentinel. The first node starts on a
// cache line boundary.
func Alloc(count int) []T {
	buf := align.Uint32s(count * Keys)
	for i := range buf {
		buf[i] = Sentinel
	}
	if count == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), count)
}

// Lt returns 1 if a < b and 0 otherwise. It compiles to a subtract and a
// shift, so it never branches.
func Lt(a, b uint32) int {
	return int((uint64(a) - uint64(b)) >> 63)
}

// LtInt is Lt for non-negative ints.
func LtInt(a, b int) int {
	return int(uint(a-b) >> (bits.UintSize - 1))
}

// FindLinear scans the keys in order and stops at the first one >= v.
func (n *T) FindLinear(v uint32) int {
	for i, k := range n {
		if k >= v {
			return i
		}
	}
	return Keys
}

// FindCount counts the keys < v. Because the keys are ascending this is the
// same position FindLinear returns, but the loop has no early exit.
func (n *T) FindCount(v uint32) int {
	c := 0
	for _, k := range n {
		c += Lt(k, v)
	}
	return c
}

// findLanes is the portable form of FindPopcnt. It builds a less-than mask
// for each 8 key half, merges the two into one pattern and counts the bits.
func (n *T) findLanes(v uint32) int {
	var lo, hi uint
	for i := 0; i < Keys/2; i++ {
		lo |= uint(Lt(n[i], v)) << i
		hi |= uint(Lt(n[i+Keys/2], v)) << i
	}
	return bits.OnesCount16(uint16(lo | hi<<(Keys/2)))
}
