package node

import (
	"testing"
	"unsafe"

	"github.com/zeebo/assert"
)

func finders() []struct {
	name string
	find Finder
} {
	return []struct {
		name string
		find Finder
	}{
		{"Linear", (*T).FindLinear},
		{"Count", (*T).FindCount},
		{"Lanes", (*T).findLanes},
		{"Popcnt", (*T).FindPopcnt},
	}
}

func TestNode(t *testing.T) {
	t.Run("Size", func(t *testing.T) {
		assert.Equal(t, Size, uint64(64))
	})

	t.Run("Alloc", func(t *testing.T) {
		nodes := Alloc(33)
		assert.Equal(t, len(nodes), 33)
		assert.Equal(t, uintptr(unsafe.Pointer(&nodes[0]))%64, uintptr(0))
		for i := range nodes {
			for _, k := range nodes[i] {
				assert.Equal(t, k, uint32(Sentinel))
			}
		}
		assert.Equal(t, len(Alloc(0)), 0)
	})

	t.Run("Lt", func(t *testing.T) {
		cases := []struct {
			a, b uint32
			lt   int
		}{
			{0, 0, 0}, {0, 1, 1}, {1, 0, 0},
			{Sentinel, Sentinel, 0}, {Sentinel - 1, Sentinel, 1},
			{Sentinel, 0, 0}, {0, Sentinel, 1},
		}
		for _, c := range cases {
			assert.Equal(t, Lt(c.a, c.b), c.lt)
		}

		assert.Equal(t, LtInt(3, 4), 1)
		assert.Equal(t, LtInt(4, 4), 0)
		assert.Equal(t, LtInt(5, 4), 0)
		assert.Equal(t, LtInt(0, 1<<40), 1)
	})

	t.Run("Fixed", func(t *testing.T) {
		var n T
		for i := range n {
			n[i] = uint32(10 * (i + 1))
		}
		cases := []struct {
			v   uint32
			pos int
		}{
			{0, 0}, {10, 0}, {11, 1}, {20, 1}, {155, 15},
			{160, 15}, {161, 16}, {Sentinel, 16},
		}
		for _, f := range finders() {
			for _, c := range cases {
				assert.Equal(t, f.find(&n, c.v), c.pos)
			}
		}
	})

	t.Run("Padded", func(t *testing.T) {
		n := randomNode(0, 1)
		for _, f := range finders() {
			assert.Equal(t, f.find(&n, 0), 0)
			assert.Equal(t, f.find(&n, Sentinel), 0)
		}

		n = T{1, 2, 3, Sentinel, Sentinel, Sentinel, Sentinel, Sentinel,
			Sentinel, Sentinel, Sentinel, Sentinel, Sentinel, Sentinel, Sentinel, Sentinel}
		for _, f := range finders() {
			assert.Equal(t, f.find(&n, 3), 2)
			assert.Equal(t, f.find(&n, 4), 3)
			assert.Equal(t, f.find(&n, Sentinel), 3)
		}
	})

	t.Run("Agree", func(t *testing.T) {
		for iter := 0; iter < 10000; iter++ {
			max := uint32(Sentinel)
			if iter%2 == 0 {
				max = 64 // force lots of duplicates
			}
			n := randomNode(gen.Intn(Keys+1), max)

			values := []uint32{0, Sentinel, gen.Uint32(), gen.Uint32n(max)}
			for _, k := range n {
				values = append(values, k, k-1, k+1)
			}

			for _, v := range values {
				exp := bruteFind(&n, v)
				for _, f := range finders() {
					if got := f.find(&n, v); got != exp {
						t.Fatalf("%s: node=%v v=%d got=%d exp=%d", f.name, n, v, got, exp)
					}
				}
			}
		}
	})
}

func FuzzFind(f *testing.F) {
	f.Add(uint32(0), uint32(1), uint32(5))
	f.Add(uint32(Sentinel), uint32(0), uint32(16))
	f.Fuzz(func(t *testing.T, v, seed uint32, count uint32) {
		var n T
		for i := range n {
			n[i] = Sentinel
		}
		x := seed
		for i := 0; i < int(count%(Keys+1)); i++ {
			x += seed%7 + uint32(i)
			n[i] = x % Sentinel
		}
		for i := 1; i < Keys; i++ {
			if n[i] < n[i-1] {
				return
			}
		}

		exp := bruteFind(&n, v)
		for _, f := range finders() {
			assert.Equal(t, f.find(&n, v), exp)
		}
	})
}

var blackholeInt int

func BenchmarkFind(b *testing.B) {
	n := randomNode(Keys, Sentinel)
	values := make([]uint32, 1024)
	for i := range values {
		values[i] = gen.Uint32()
	}

	for _, f := range finders() {
		b.Run(f.name, func(b *testing.B) {
			b.SetBytes(int64(Size))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				blackholeInt += f.find(&n, values[i&1023])
			}
		})
	}
}
