//go:build gofuzz

package blocked

import (
	"encoding/binary"
	"slices"
	"sort"
)

func Fuzz(data []byte) int {
	// the first four bytes are the query, the rest are keys.
	if len(data) < 8 {
		return -1
	}
	v := binary.LittleEndian.Uint32(data[0:4])
	data = data[4:]

	keys := make([]uint32, 0, len(data)/4)
	for ; len(data) >= 4; data = data[4:] {
		if key := binary.LittleEndian.Uint32(data); key != Sentinel {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return -1
	}
	slices.Sort(keys)

	t := New(keys)
	exp := uint32(Sentinel)
	if i := sort.Search(len(keys), func(i int) bool { return keys[i] >= v }); i < len(keys) {
		exp = keys[i]
	}
	if t.Query(v) != exp || t.QueryLinear(v) != exp || t.QueryCount(v) != exp {
		panic("query disagrees with the keys")
	}
	return 1
}
