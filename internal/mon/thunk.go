package mon

import "time"

// Thunk collects the timings of some operation. The zero value is ready to
// use, so declare one per operation as a package variable:
//
//	var buildThunk mon.Thunk
//
//	timer := buildThunk.Start()
//	...
//	timer.Stop()
type Thunk struct {
	his Histogram
}

// Start begins timing an execution.
func (t *Thunk) Start() Timer {
	t.his.start()
	return Timer{his: &t.his, start: time.Now()}
}

// Histogram returns the histogram the thunk records into.
func (t *Thunk) Histogram() *Histogram { return &t.his }

// Timer is a running execution of a Thunk.
type Timer struct {
	his   *Histogram
	start time.Time
}

// Stop records the time since Start and returns it. It should be called
// exactly once.
func (t Timer) Stop() time.Duration {
	dur := time.Since(t.start)
	t.his.done(int64(dur))
	return dur
}
