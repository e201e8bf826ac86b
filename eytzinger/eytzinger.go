// Package eytzinger implements an index that stores the keys in the breadth
// first order of an implicit complete binary search tree. Slot k has its
// children at 2k and 2k+1, so a descent is pure index arithmetic and the top
// levels of every search share the same few cache lines.
package eytzinger

import (
	"math/bits"
	"unsafe"

	"github.com/cespare/xxhash"
	"github.com/zeebo/stree/internal/align"
	"github.com/zeebo/stree/internal/node"
	"github.com/zeebo/stree/internal/prefetch"
)

// Sentinel is returned by every query for a value greater than all keys. It
// lives in the guard slot 0.
const Sentinel = node.Sentinel

// prefetchDistance is how many levels ahead a prefetch reaches: the 16
// great-great-grandchildren of slot k are contiguous at 16k, one cache line
// when the array is aligned.
const (
	prefetchDistance = 4
	prefetchStride   = 1 << prefetchDistance
)

// T is the eytzinger index.
type T struct {
	keys  []uint32 // len(keys) == n+1, keys[0] == Sentinel
	iters int      // floor(log2(n+1)), the number of complete levels
}

// New lays the keys out in breadth first order. The keys must be non-empty,
// non-decreasing and below Sentinel. That is not checked.
func New(keys []uint32) *T {
	n := len(keys)
	out := align.Uint32s(n + 1)
	out[0] = Sentinel

	// an in-order walk over the implicit tree visits slots in key order, so
	// hand out the keys as the walk reaches each slot.
	k := leftmost(1, n)
	for _, key := range keys {
		out[k] = key
		k = successor(k, n)
	}

	return &T{
		keys:  out,
		iters: bits.Len(uint(n+1)) - 1,
	}
}

// leftmost descends left from k while there is a left child.
func leftmost(k, n int) int {
	for 2*k <= n {
		k *= 2
	}
	return k
}

// successor returns the slot visited after k by an in-order walk over a
// tree of n slots. It returns 0 after the last slot.
func successor(k, n int) int {
	if 2*k+1 <= n {
		return leftmost(2*k+1, n)
	}
	return answer(k)
}

// answer recovers the slot of the lower bound from the position a descent
// fell out of the tree at. Every right turn appends a 1 bit, so the trailing
// ones are the right turns taken since the last left turn, and dropping them
// plus that left turn leaves the last slot whose key was >= the query. A
// descent that only turned right ends at slot 0, the guard.
func answer(k int) int {
	return k >> (bits.TrailingZeros(^uint(k)) + 1)
}

// Len returns how many keys were indexed.
func (t *T) Len() int { return len(t.keys) - 1 }

// Iters returns how many complete levels the fixed iteration searches walk.
func (t *T) Iters() int { return t.iters }

// Layout returns the array with the guard in slot 0. It is not safe to
// modify it.
func (t *T) Layout() []uint32 { return t.keys }

// Fingerprint returns a hash of the layout of the index.
func (t *T) Fingerprint() uint64 {
	return xxhash.Sum64(unsafe.Slice((*byte)(unsafe.Pointer(&t.keys[0])), 4*len(t.keys)))
}

// step moves from k to the child chosen by comparing against v.
func (t *T) step(k int, v uint32) int {
	return 2*k + node.Lt(t.keys[k], v)
}

// last takes the one step into the possibly incomplete bottom level. If k
// is past the end it counts as a right turn, which answer discards.
func (t *T) last(k int, v uint32) int {
	in := node.LtInt(k, len(t.keys))
	return 2*k + (node.Lt(t.keys[k*in], v) | (1 - in))
}

// QueryBranchy returns the smallest key >= v, or Sentinel, branching on
// every comparison until it falls out of the tree.
func (t *T) QueryBranchy(v uint32) uint32 {
	k := 1
	for k < len(t.keys) {
		if t.keys[k] < v {
			k = 2*k + 1
		} else {
			k = 2 * k
		}
	}
	return t.keys[answer(k)]
}

// Query returns the smallest key >= v, or Sentinel. It walks exactly the
// complete levels, then finishes the partial bottom level with a bounded
// step, so nothing about the loop depends on the data.
func (t *T) Query(v uint32) uint32 {
	k := 1
	for i := 0; i < t.iters; i++ {
		k = t.step(k, v)
	}
	return t.keys[answer(t.last(k, v))]
}

// QueryPrefetch descends with the branch-free step until it falls out of the
// tree. While the 16 great-great-grandchildren of the current slot are still
// in range it prefetches the line holding them.
func (t *T) QueryPrefetch(v uint32) uint32 {
	k := 1
	for prefetchStride*k < len(t.keys) {
		k = t.step(k, v)
		prefetch.Index(t.keys, prefetchStride*k)
	}
	for k < len(t.keys) {
		k = t.step(k, v)
	}
	return t.keys[answer(k)]
}

// QueryBranchlessPrefetch is Query that prefetches four levels ahead on all
// but the last four complete levels, where the prefetch would land past the
// end of the array.
func (t *T) QueryBranchlessPrefetch(v uint32) uint32 {
	k := 1
	until := t.iters - prefetchDistance
	for i := 0; i < until; i++ {
		k = t.step(k, v)
		prefetch.Index(t.keys, prefetchStride*k)
	}
	for i := max(until, 0); i < t.iters; i++ {
		k = t.step(k, v)
	}
	return t.keys[answer(t.last(k, v))]
}
