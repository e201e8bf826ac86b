package eytzinger

import (
	"sort"
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/stree/internal/pcg"
)

var gen = pcg.New(4321, 8765)

func schemes(t *T) map[string]func(uint32) uint32 {
	return map[string]func(uint32) uint32{
		"QueryBranchy":            t.QueryBranchy,
		"Query":                   t.Query,
		"QueryPrefetch":           t.QueryPrefetch,
		"QueryBranchlessPrefetch": t.QueryBranchlessPrefetch,
	}
}

func lowerBound(keys []uint32, v uint32) uint32 {
	i := sort.Search(len(keys), func(i int) bool { return keys[i] >= v })
	if i == len(keys) {
		return Sentinel
	}
	return keys[i]
}

// inorder walks the layout recursively, the reference the iterative build
// has to match.
func inorder(layout []uint32, k int, out []uint32) []uint32 {
	if k >= len(layout) {
		return out
	}
	out = inorder(layout, 2*k, out)
	out = append(out, layout[k])
	return inorder(layout, 2*k+1, out)
}

func TestEytzinger(t *testing.T) {
	t.Run("Layout", func(t *testing.T) {
		e := New([]uint32{10, 20, 30, 40})
		assert.DeepEqual(t, e.Layout(), []uint32{Sentinel, 30, 20, 40, 10})
		assert.Equal(t, e.Iters(), 2)
		assert.Equal(t, e.Len(), 4)
	})

	t.Run("Scenario", func(t *testing.T) {
		e := New([]uint32{10, 20, 30, 40})
		for name, q := range schemes(e) {
			t.Log(name)
			assert.Equal(t, q(25), uint32(30))
			assert.Equal(t, q(5), uint32(10))
			assert.Equal(t, q(41), uint32(Sentinel))
			assert.Equal(t, q(10), uint32(10))
			assert.Equal(t, q(40), uint32(40))
			assert.Equal(t, q(Sentinel), uint32(Sentinel))
		}
	})

	t.Run("Iters", func(t *testing.T) {
		cases := []struct{ n, iters int }{
			{1, 1}, {2, 1}, {3, 2}, {6, 2}, {7, 3}, {14, 3}, {15, 4}, {1000, 9},
		}
		for _, c := range cases {
			assert.Equal(t, New(make([]uint32, c.n)).Iters(), c.iters)
		}
	})

	t.Run("Successor", func(t *testing.T) {
		for n := 1; n < 200; n++ {
			var order []int
			for k := leftmost(1, n); k != 0; k = successor(k, n) {
				order = append(order, k)
			}
			assert.Equal(t, len(order), n)

			seen := map[int]bool{}
			for _, k := range order {
				assert.That(t, k >= 1 && k <= n)
				assert.That(t, !seen[k])
				seen[k] = true
			}
		}
	})

	t.Run("Inorder", func(t *testing.T) {
		for _, n := range []int{1, 2, 3, 7, 8, 9, 100, 1023, 1024, 1025} {
			keys := make([]uint32, n)
			for i := range keys {
				keys[i] = uint32(3 * i)
			}
			layout := New(keys).Layout()
			assert.DeepEqual(t, inorder(layout, 1, nil), keys)

			for k := 1; 2*k+1 < len(layout); k++ {
				assert.That(t, layout[2*k] < layout[k])
				assert.That(t, layout[k] <= layout[2*k+1])
			}
		}
	})

	t.Run("Random", func(t *testing.T) {
		for _, n := range []int{1, 2, 3, 4, 5, 15, 16, 17, 31, 32, 33, 1000, 4095, 4096, 4097} {
			keys := gen.Sorted(n, 1<<16)
			e := New(keys)
			for i := 0; i < 2000; i++ {
				v := gen.Uint32n(1<<16 + 10)
				exp := lowerBound(keys, v)
				for name, q := range schemes(e) {
					if got := q(v); got != exp {
						t.Fatalf("%s: n=%d v=%d got=%d exp=%d", name, n, v, got, exp)
					}
				}
			}
		}
	})

	t.Run("Duplicates", func(t *testing.T) {
		keys := gen.Sorted(5000, 64)
		e := New(keys)
		for v := uint32(0); v < 70; v++ {
			exp := lowerBound(keys, v)
			for name, q := range schemes(e) {
				if got := q(v); got != exp {
					t.Fatalf("%s: v=%d got=%d exp=%d", name, v, got, exp)
				}
			}
		}
		for name, q := range schemes(e) {
			t.Log(name)
			assert.Equal(t, q(Sentinel-1), uint32(Sentinel))
		}
	})

	t.Run("Fingerprint", func(t *testing.T) {
		keys := gen.Sorted(1000, 1<<20)
		assert.Equal(t, New(keys).Fingerprint(), New(keys).Fingerprint())
	})
}

func FuzzQuery(f *testing.F) {
	f.Add(uint16(4), uint32(25), uint32(10))
	f.Add(uint16(1), uint32(Sentinel), uint32(1))
	f.Fuzz(func(t *testing.T, n uint16, v, stride uint32) {
		if n == 0 {
			return
		}
		stride = stride%1000 + 1
		keys := make([]uint32, n)
		for i := range keys {
			keys[i] = uint32(i) * stride
		}

		e := New(keys)
		exp := lowerBound(keys, v)
		for _, q := range schemes(e) {
			assert.Equal(t, q(v), exp)
		}
	})
}

var blackholeUint32 uint32

func BenchmarkEytzinger(b *testing.B) {
	run := func(b *testing.B, n int) {
		e := New(gen.Sorted(n, 1<<31))
		values := gen.Uint32s(make([]uint32, 4096), 1<<31)

		for name, q := range schemes(e) {
			b.Run(name, func(b *testing.B) {
				b.ReportAllocs()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					blackholeUint32 += q(values[i&4095])
				}
			})
		}
	}

	b.Run("1K", func(b *testing.B) { run(b, 1000) })
	b.Run("100K", func(b *testing.B) { run(b, 100000) })
	b.Run("10M", func(b *testing.B) { run(b, 10000000) })
}
