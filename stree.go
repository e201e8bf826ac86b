// Package stree answers lower bound queries, the smallest stored key that is
// >= some value, over an immutable ascending set of uint32 keys. It offers
// three static layouts of the same keys: a sorted array (package sorted), an
// eytzinger array (package eytzinger) and a blocked 17-ary tree (package
// blocked). Every layout answers Sentinel for a value above all keys.
//
// The layouts themselves do no checking. Build validates the keys first and
// is the entry point for input that is not already known to be good.
package stree

import (
	"strings"

	"github.com/zeebo/errs"
	"github.com/zeebo/stree/blocked"
	"github.com/zeebo/stree/eytzinger"
	"github.com/zeebo/stree/internal/node"
	"github.com/zeebo/stree/sorted"
)

// Error is the class that contains all the errors from this package.
var Error = errs.Class("stree")

// Sentinel is the answer to a query for a value greater than every key. It
// may not be stored as a key.
const Sentinel = node.Sentinel

// Index is the contract shared by every layout. It is read only once built,
// so it is safe to query from many goroutines at once.
type Index interface {
	// Len returns how many keys were indexed.
	Len() int

	// Query returns the smallest key >= v, or Sentinel if there is none.
	Query(v uint32) uint32

	// Fingerprint returns a hash of the layout. Two builds from the same
	// keys have the same fingerprint.
	Fingerprint() uint64
}

// Batcher is an Index that can interleave a batch of queries.
type Batcher interface {
	Index

	// QueryBatch writes the answer for values[i] into out[i]. At most
	// blocked.MaxBatch values may be passed.
	QueryBatch(values, out []uint32)

	// QueryAll answers every value, interleaving width queries at a time.
	QueryAll(values, out []uint32, width int)
}

// Kind names a layout.
type Kind int

const (
	Sorted Kind = iota
	Eytzinger
	Blocked
)

// Kinds lists every layout.
var Kinds = []Kind{Sorted, Eytzinger, Blocked}

// String returns the name of the layout.
func (k Kind) String() string {
	switch k {
	case Sorted:
		return "sorted"
	case Eytzinger:
		return "eytzinger"
	case Blocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// ParseKind returns the layout with the given name.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(name, k.String()) {
			return k, nil
		}
	}
	return 0, Error.New("unknown index kind: %q", name)
}

// New builds the layout over the keys without checking them. The keys must
// be non-empty, non-decreasing and below Sentinel. It panics on an unknown
// kind.
func New(kind Kind, keys []uint32) Index {
	switch kind {
	case Sorted:
		return sorted.New(keys)
	case Eytzinger:
		return eytzinger.New(keys)
	case Blocked:
		return blocked.New(keys)
	default:
		panic(Error.New("unknown index kind: %d", int(kind)))
	}
}

// Build checks the keys with Validate and builds the layout over them.
func Build(kind Kind, keys []uint32) (Index, error) {
	switch kind {
	case Sorted, Eytzinger, Blocked:
	default:
		return nil, Error.New("unknown index kind: %d", int(kind))
	}
	if err := Validate(keys); err != nil {
		return nil, err
	}
	return New(kind, keys), nil
}

// Validate returns an error if the keys are empty, out of order or contain
// Sentinel.
func Validate(keys []uint32) error {
	if len(keys) == 0 {
		return Error.New("no keys")
	}
	for i, key := range keys {
		if key == Sentinel {
			return Error.New("key %d is the sentinel", i)
		}
		if i > 0 && key < keys[i-1] {
			return Error.New("key %d (%d) is less than key %d (%d)", i, key, i-1, keys[i-1])
		}
	}
	return nil
}

// QueryAll writes the answer for values[i] into out[i], interleaving
// batches of width queries when the index supports it.
func QueryAll(idx Index, values, out []uint32, width int) {
	if b, ok := idx.(Batcher); ok && width > 1 {
		b.QueryAll(values, out, width)
		return
	}
	for i, v := range values {
		out[i] = idx.Query(v)
	}
}
