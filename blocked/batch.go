package blocked

import (
	"unsafe"

	"github.com/zeebo/stree/internal/node"
	"github.com/zeebo/stree/internal/prefetch"
)

// MaxBatch is the most queries QueryBatch interleaves.
const MaxBatch = 128

// Width is the set of fixed batch widths Batch can be instantiated with.
type Width interface {
	[2]uint32 | [4]uint32 | [8]uint32 | [16]uint32 | [32]uint32 | [64]uint32 | [128]uint32
}

// Batch answers a fixed width batch of queries with QueryBatch.
func Batch[B Width](t *T, values B) (out B) {
	t.QueryBatch(words(&values), words(&out))
	return out
}

// words views a fixed width batch as a slice.
func words[B Width](b *B) []uint32 {
	return unsafe.Slice((*uint32)(unsafe.Pointer(b)), len(*b))
}

// QueryBatch writes the answer to values[i] into out[i]. It walks the tree
// level by level for all of the queries at once. As soon as a query knows
// its node on the next level it prefetches it and moves on to the next
// query, so the misses of the whole batch are in flight together instead of
// one after another. At most MaxBatch values may be passed, and out must be
// at least as long as values.
func (t *T) QueryBatch(values, out []uint32) {
	var buf [MaxBatch]int
	cur := buf[:len(values)]
	out = out[:len(values)]

	nodes, offsets := t.nodes, t.offsets
	last := len(offsets) - 1

	for h := 0; h < last; h++ {
		off, next := offsets[h], offsets[h+1]
		for q, i := range cur {
			i = child(i, nodes[off+i].FindPopcnt(values[q]))
			cur[q] = i
			prefetch.Index(nodes, next+i)
		}
	}

	off := offsets[last]
	for q, i := range cur {
		i += off
		r := nodes[i].FindPopcnt(values[q])
		out[q] = nodes[i+r/node.Keys][r%node.Keys]
	}
}

// QueryAll answers every value, interleaving width queries at a time. The
// width is clamped to [1, MaxBatch] and a short final batch is answered with
// a narrower interleave.
func (t *T) QueryAll(values, out []uint32, width int) {
	width = max(1, min(width, MaxBatch))
	out = out[:len(values)]

	for len(values) >= width {
		t.QueryBatch(values[:width], out[:width])
		values, out = values[width:], out[width:]
	}
	if len(values) > 0 {
		t.QueryBatch(values, out)
	}
}
