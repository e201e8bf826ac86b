// Package sorted implements the flat sorted array index searched with a
// branch-free binary search.
package sorted

import (
	"sort"
	"unsafe"

	"github.com/cespare/xxhash"
	"github.com/zeebo/stree/internal/align"
	"github.com/zeebo/stree/internal/node"
	"github.com/zeebo/stree/internal/prefetch"
)

// Sentinel is returned by every query for a value greater than all keys.
const Sentinel = node.Sentinel

// T is an ascending array of keys followed by one Sentinel guard slot. The
// guard plays the part of a virtual one-past-the-end key, so the search
// resolves values above the largest key to Sentinel without a branch.
type T struct {
	keys []uint32 // len(keys) == n+1, keys[n] == Sentinel
}

// New copies the keys into a new index. The keys must be non-empty,
// non-decreasing and below Sentinel. That is not checked.
func New(keys []uint32) *T {
	buf := align.Uint32s(len(keys) + 1)
	copy(buf, keys)
	buf[len(keys)] = Sentinel
	return &T{keys: buf}
}

// Len returns how many keys were indexed.
func (t *T) Len() int { return len(t.keys) - 1 }

// Keys returns the indexed keys. It is not safe to modify them.
func (t *T) Keys() []uint32 { return t.keys[:len(t.keys)-1] }

// Fingerprint returns a hash of the layout of the index.
func (t *T) Fingerprint() uint64 {
	return xxhash.Sum64(unsafe.Slice((*byte)(unsafe.Pointer(&t.keys[0])), 4*len(t.keys)))
}

// Query returns the smallest key >= v, or Sentinel.
//
// Every step halves the window [base, base+length) and moves base with
// arithmetic on the comparison result, so the loop body has no data
// dependent branch.
func (t *T) Query(v uint32) uint32 {
	keys := t.keys
	base, length := 0, len(keys)
	for length > 1 {
		half := length / 2
		base += half * node.Lt(keys[base+half-1], v)
		length -= half
	}
	return keys[base]
}

// QueryPrefetch is Query, but before each comparison resolves it prefetches
// the element the next step compares against in both possible halves. One
// of the two fills is always wasted.
func (t *T) QueryPrefetch(v uint32) uint32 {
	keys := t.keys
	base, length := 0, len(keys)
	for length > 1 {
		half := length / 2
		next := (length - half) / 2
		prefetch.Index(keys, base+next-1)
		prefetch.Index(keys, base+half+next-1)
		base += half * node.Lt(keys[base+half-1], v)
		length -= half
	}
	return keys[base]
}

// QueryBranchy is the textbook binary search that branches on every
// comparison.
func (t *T) QueryBranchy(v uint32) uint32 {
	l, r := 0, len(t.keys)-1
	for l < r {
		m := (l + r) / 2
		if t.keys[m] >= v {
			r = m
		} else {
			l = m + 1
		}
	}
	return t.keys[l]
}

// QueryStd answers with the standard library search as a baseline.
func (t *T) QueryStd(v uint32) uint32 {
	keys := t.keys
	return keys[sort.Search(len(keys)-1, func(i int) bool { return keys[i] >= v })]
}
