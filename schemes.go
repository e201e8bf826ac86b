package stree

import (
	"fmt"

	"github.com/zeebo/stree/blocked"
	"github.com/zeebo/stree/eytzinger"
	"github.com/zeebo/stree/sorted"
)

// BatchWidths are the interleave widths the batched schemes run with.
var BatchWidths = []int{2, 4, 8, 16, 32, 64, 128}

// Scheme is one way of answering queries against an index.
type Scheme struct {
	// Name identifies the scheme within its layout.
	Name string

	// Width is the batch width, or 1 for one query at a time.
	Width int

	// Run writes the answer for values[i] into out[i].
	Run func(values, out []uint32)
}

// Schemes returns every way the index can answer queries.
func Schemes(idx Index) []Scheme {
	switch idx := idx.(type) {
	case *sorted.T:
		return []Scheme{
			single("branchless", idx.Query),
			single("branchless_prefetch", idx.QueryPrefetch),
			single("branchy", idx.QueryBranchy),
			single("std", idx.QueryStd),
		}

	case *eytzinger.T:
		return []Scheme{
			single("branchy", idx.QueryBranchy),
			single("branchless", idx.Query),
			single("prefetch", idx.QueryPrefetch),
			single("branchless_prefetch", idx.QueryBranchlessPrefetch),
		}

	case *blocked.T:
		schemes := []Scheme{
			single("linear", idx.QueryLinear),
			single("count", idx.QueryCount),
			single("popcnt", idx.QueryPopcnt),
			single("query", idx.Query),
		}
		for _, width := range BatchWidths {
			width := width
			schemes = append(schemes, Scheme{
				Name:  fmt.Sprintf("batch_%d", width),
				Width: width,
				Run:   func(values, out []uint32) { idx.QueryAll(values, out, width) },
			})
		}
		return schemes

	default:
		return []Scheme{single("query", idx.Query)}
	}
}

func single(name string, query func(uint32) uint32) Scheme {
	return Scheme{
		Name:  name,
		Width: 1,
		Run: func(values, out []uint32) {
			for i, v := range values {
				out[i] = query(v)
			}
		},
	}
}
