// Package blocked implements the S-tree: a static B+ tree whose nodes are
// single cache lines of 16 keys with 17 children each, stored level by level
// in one flat array. A child is found by arithmetic on its parent's position,
// so nodes hold no pointers at all.
package blocked

import (
	"encoding/binary"
	"unsafe"

	"github.com/cespare/xxhash"
	"github.com/zeebo/stree/internal/debug"
	"github.com/zeebo/stree/internal/node"
)

// Sentinel pads the leaves and is returned by every query for a value
// greater than all keys.
const Sentinel = node.Sentinel

// T is the S-tree.
type T struct {
	nodes   []node.T // all levels, root first, then one guard node
	offsets []int    // offsets[h] is the first node of level h
	n       int      // number of keys
}

// New builds a tree over the keys. The keys must be non-empty,
// non-decreasing and below Sentinel. That is not checked.
func New(keys []uint32) *T {
	n := len(keys)
	sizes, offsets := Layout(n)
	height := len(sizes)
	total := offsets[height-1] + sizes[height-1]

	// the extra node after the leaves stays full of Sentinel. a search that
	// runs off the end of the last leaf lands on it.
	nodes := node.Alloc(total + 1)

	leaves := nodes[offsets[height-1]:total]
	debug.Assert("leaf level holds every key", func() bool { return len(leaves) == BlocksNeeded(n) })
	for i, key := range keys {
		leaves[i/node.Keys][i%node.Keys] = key
	}

	// fill the internal levels bottom up. key k of node j separates child k
	// from child k+1, so it is the smallest key under child k+1: the first
	// key of the leftmost leaf below that child.
	for h := height - 2; h >= 0; h-- {
		level := nodes[offsets[h] : offsets[h]+sizes[h]]
		for j := range level {
			for k := range level[j] {
				leaf := child(j, k+1)
				for i := h; i < height-2; i++ {
					leaf = child(leaf, 0)
				}
				if leaf*node.Keys < n {
					level[j][k] = leaves[leaf][0]
				} else {
					level[j][k] = Sentinel
				}
			}
		}

		debug.Assert("internal level is ordered", func() bool { return ordered(level) })
	}

	debug.Assert("leaf level is ordered", func() bool { return ordered(leaves) })

	return &T{
		nodes:   nodes,
		offsets: offsets,
		n:       n,
	}
}

// child returns the position of child r of the node at position i within
// the next level.
func child(i, r int) int { return i*node.Fanout + r }

// ordered returns true if every node is ascending with padding only at the
// tail.
func ordered(nodes []node.T) bool {
	for i := range nodes {
		for k := 1; k < node.Keys; k++ {
			if nodes[i][k] < nodes[i][k-1] {
				return false
			}
		}
	}
	return true
}

// Len returns how many keys were indexed.
func (t *T) Len() int { return t.n }

// Height returns how many levels the tree has.
func (t *T) Height() int { return len(t.offsets) }

// Offsets returns the first node of every level, root first. It is not safe
// to modify it.
func (t *T) Offsets() []int { return t.offsets }

// Nodes returns the nodes of every level followed by the guard node. It is
// not safe to modify them.
func (t *T) Nodes() []node.T { return t.nodes }

// Fingerprint returns a hash of the layout of the tree.
func (t *T) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, off := range t.offsets {
		binary.LittleEndian.PutUint64(buf[:], uint64(off))
		_, _ = h.Write(buf[:])
	}
	_, _ = h.Write(unsafe.Slice((*byte)(unsafe.Pointer(&t.nodes[0])), int(node.Size)*len(t.nodes)))
	return h.Sum64()
}

// Query returns the smallest key >= v, or Sentinel, using the vector node
// search.
func (t *T) Query(v uint32) uint32 {
	nodes, offsets := t.nodes, t.offsets
	last := len(offsets) - 1

	i := 0
	for h := 0; h < last; h++ {
		i = child(i, nodes[offsets[h]+i].FindPopcnt(v))
	}

	i += offsets[last]
	r := nodes[i].FindPopcnt(v)
	return nodes[i+r/node.Keys][r%node.Keys]
}

// QueryLinear answers with the early exit scan node search.
func (t *T) QueryLinear(v uint32) uint32 { return t.search(v, (*node.T).FindLinear) }

// QueryCount answers with the counting node search.
func (t *T) QueryCount(v uint32) uint32 { return t.search(v, (*node.T).FindCount) }

// QueryPopcnt answers with the vector node search.
func (t *T) QueryPopcnt(v uint32) uint32 { return t.search(v, (*node.T).FindPopcnt) }

// search descends one node per level. The leaf search may return Keys when
// every key in the leaf is below v, in which case the answer is the first
// key of the next leaf (or the guard).
func (t *T) search(v uint32, find node.Finder) uint32 {
	nodes, offsets := t.nodes, t.offsets
	last := len(offsets) - 1

	i := 0
	for h := 0; h < last; h++ {
		i = child(i, find(&nodes[offsets[h]+i], v))
	}

	i += offsets[last]
	r := find(&nodes[i], v)
	return nodes[i+r/node.Keys][r%node.Keys]
}
