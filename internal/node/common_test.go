package node

import (
	"sort"

	"github.com/zeebo/stree/internal/pcg"
)

var gen = pcg.New(2345, 2378)

// randomNode returns an ascending node with count real keys drawn below max,
// padded with Sentinel.
func randomNode(count int, max uint32) (n T) {
	for i := range n {
		n[i] = Sentinel
	}
	for i := 0; i < count; i++ {
		n[i] = gen.Uint32n(max)
	}
	sort.Slice(n[:count], func(i, j int) bool { return n[i] < n[j] })
	return n
}

// bruteFind is the definition all of the finders must agree with.
func bruteFind(n *T, v uint32) int {
	return sort.Search(Keys, func(i int) bool { return n[i] >= v })
}
