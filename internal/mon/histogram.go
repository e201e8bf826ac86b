// Package mon records how long operations take.
package mon

import (
	"sort"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/stat"
)

const (
	bufferShift = 12 // 4096 elements
	bufferElems = 1 << bufferShift
	bufferMask  = bufferElems - 1
)

// Capacity is how many of the most recent durations a Histogram keeps.
const Capacity = bufferElems

// Histogram is a ring histogram of durations that have been observed.
type Histogram struct {
	total   int64
	current int64
	durs    [bufferElems]int64
}

// start should be called before done, to keep track of concurrent executions.
func (h *Histogram) start() { atomic.AddInt64(&h.current, 1) }

// done stores the duration in the ring buffer, incrementing the count.
func (h *Histogram) done(dur int64) {
	loc := &h.durs[(atomic.AddInt64(&h.total, 1)-1)&bufferMask]
	atomic.StoreInt64(loc, dur)
	atomic.AddInt64(&h.current, -1)
}

// Observe records a duration that was measured elsewhere.
func (h *Histogram) Observe(dur time.Duration) {
	h.start()
	h.done(int64(dur))
}

// Total returns the amount of times a duration has been added to the histogram.
func (h *Histogram) Total() int64 { return atomic.LoadInt64(&h.total) }

// Current returns the amount of currently recording executions exist
func (h *Histogram) Current() int64 { return atomic.LoadInt64(&h.current) }

// dursLen returns the number of valid entries in the durs buffer.
func (h *Histogram) dursLen() int {
	n := h.Total()
	if n >= bufferElems {
		return bufferElems
	}
	return int(n)
}

// Durations returns a copy of observed durations.
func (h *Histogram) Durations() []int64 {
	out := make([]int64, h.dursLen())
	for i := range out {
		out[i] = atomic.LoadInt64(&h.durs[i&bufferMask])
	}
	return out
}

// floats returns the observed durations as sorted float64 nanoseconds.
func (h *Histogram) floats() []float64 {
	durs := h.Durations()
	out := make([]float64, len(durs))
	for i, dur := range durs {
		out[i] = float64(dur)
	}
	sort.Float64s(out)
	return out
}

// Average returns the average time in nanoseconds. It is zero if nothing
// has been observed.
func (h *Histogram) Average() float64 {
	x := h.floats()
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// Quantile returns the q quantile, for q in [0, 1], of the observed times in
// nanoseconds. It is zero if nothing has been observed.
func (h *Histogram) Quantile(q float64) float64 {
	x := h.floats()
	if len(x) == 0 {
		return 0
	}
	return stat.Quantile(q, stat.Empirical, x, nil)
}
