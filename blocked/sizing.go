package blocked

import "github.com/zeebo/stree/internal/node"

// BlocksNeeded returns how many nodes hold k keys.
func BlocksNeeded(k int) int {
	return (k + node.Keys - 1) / node.Keys
}

// PrevKeys returns how many separator keys the level above a level of k keys
// holds: one node of separators for every Fanout nodes below.
func PrevKeys(k int) int {
	return (BlocksNeeded(k) + node.Fanout - 1) / node.Fanout * node.Keys
}

// Height returns how many levels a tree over k keys has.
func Height(k int) int {
	if k <= node.Keys {
		return 1
	}
	return Height(PrevKeys(k)) + 1
}

// LevelKeys returns how many key slots level h of a tree of the given height
// over k keys holds, counting padding of the levels below but not its own.
func LevelKeys(k, h, height int) int {
	for i := h; i < height-1; i++ {
		k = PrevKeys(k)
	}
	return k
}

// Layout returns the node count and starting node of every level of a tree
// over k keys, root first.
func Layout(k int) (sizes, offsets []int) {
	height := Height(k)
	sizes = make([]int, height)
	offsets = make([]int, height)

	total := 0
	for h := range sizes {
		sizes[h] = BlocksNeeded(LevelKeys(k, h, height))
		offsets[h] = total
		total += sizes[h]
	}

	return sizes, offsets
}
