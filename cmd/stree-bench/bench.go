package main

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash"
	units "github.com/docker/go-units"
	"github.com/rs/zerolog"

	"github.com/zeebo/stree"
	"github.com/zeebo/stree/blocked"
	"github.com/zeebo/stree/internal/mon"
	"github.com/zeebo/stree/internal/pcg"
)

// chunk is how many queries are timed together. Every batch width divides
// it, so a batched scheme never runs a short final batch.
const chunk = 768

// maxKey bounds the generated keys and queries.
const maxKey = 1<<31 - 1

var buildThunk mon.Thunk

type config struct {
	MinExp  int
	MaxExp  int
	Queries int
	Seed    uint64
	Kinds   []stree.Kind
	Dump    string
}

func (c config) check() error {
	switch {
	case c.MinExp < 2:
		return stree.Error.New("min-exp must be at least 2: %d", c.MinExp)
	case c.MaxExp < c.MinExp:
		return stree.Error.New("max-exp %d is below min-exp %d", c.MaxExp, c.MinExp)
	case c.MaxExp > 32:
		return stree.Error.New("max-exp must be at most 32: %d", c.MaxExp)
	case c.Queries <= 0:
		return stree.Error.New("queries must be positive: %d", c.Queries)
	case len(c.Kinds) == 0:
		return stree.Error.New("no index kinds selected")
	}
	return nil
}

// result is the measurement of one scheme over one layout at one size.
type result struct {
	Duration time.Duration `json:"duration_ns"`
	Index    string        `json:"index"`
	Scheme   string        `json:"scheme"`
	Size     int           `json:"size"`
	Latency  float64       `json:"latency_ns"`
	P50      float64       `json:"p50_ns"`
	P99      float64       `json:"p99_ns"`
	Checksum uint64        `json:"checksum"`
}

// sizes returns the input sizes in bytes: 2^b, 5/4 2^b, 3/2 2^b and
// 7/4 2^b for every b in [minExp, maxExp), then 2^maxExp.
func sizes(minExp, maxExp int) []int {
	var out []int
	for b := minExp; b < maxExp; b++ {
		base := 1 << b
		out = append(out, base, base*5/4, base*3/2, base*7/4)
	}
	return append(out, 1<<maxExp)
}

// queryCount rounds n up to a multiple of chunk.
func queryCount(n int) int {
	return (n + chunk - 1) / chunk * chunk
}

// humanSize formats a byte count with a binary unit.
func humanSize(n int) string {
	return units.BytesSize(float64(n))
}

// checksum hashes the answers of a scheme so schemes can be compared
// without keeping every answer around.
func checksum(out []uint32) uint64 {
	h := xxhash.New()
	var buf [4]byte
	for _, v := range out {
		binary.LittleEndian.PutUint32(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// run builds every selected layout at every size and times every scheme of
// it over the same queries.
func run(cfg config, log zerolog.Logger) ([]result, error) {
	steps := sizes(cfg.MinExp, cfg.MaxExp)

	gen := pcg.New(cfg.Seed, 0)
	all := gen.Sorted(max(1, steps[len(steps)-1]/4), maxKey)
	queries := gen.Uint32s(make([]uint32, queryCount(cfg.Queries)), maxKey)
	out := make([]uint32, len(queries))

	var results []result
	mismatches := 0
	dumped := cfg.Dump == ""

	for _, size := range steps {
		keys := all[:max(1, size/4)]
		log.Info().Str("size", humanSize(size)).Int("keys", len(keys)).Msg("running size")

		want, haveWant := uint64(0), false
		for _, kind := range cfg.Kinds {
			timer := buildThunk.Start()
			idx := stree.New(kind, keys)
			dur := timer.Stop()

			log.Debug().
				Stringer("index", kind).
				Dur("build", dur).
				Uint64("fingerprint", idx.Fingerprint()).
				Msg("built index")

			if !dumped && kind == stree.Blocked {
				if err := dump(cfg.Dump, idx.(*blocked.T)); err != nil {
					return nil, err
				}
				log.Info().Str("path", cfg.Dump).Int("keys", len(keys)).Msg("wrote dot graph")
				dumped = true
			}

			for _, s := range stree.Schemes(idx) {
				res := measure(s, queries, out)
				res.Index = kind.String()
				res.Size = size
				results = append(results, res)

				log.Debug().
					Str("index", res.Index).
					Str("scheme", res.Scheme).
					Float64("latency_ns", res.Latency).
					Float64("p99_ns", res.P99).
					Msg("measured scheme")

				if !haveWant {
					want, haveWant = res.Checksum, true
				} else if res.Checksum != want {
					mismatches++
					log.Error().
						Str("index", res.Index).
						Str("scheme", res.Scheme).
						Int("size", size).
						Msg("scheme answers disagree")
				}
			}
		}
	}

	log.Info().
		Int64("builds", buildThunk.Histogram().Total()).
		Float64("build_avg_ns", buildThunk.Histogram().Average()).
		Msg("done")

	if mismatches > 0 {
		return results, stree.Error.New("%d schemes disagreed", mismatches)
	}
	return results, nil
}

// span returns how many queries each latency sample times: whole chunks,
// as few as possible while the samples of a run still fit in a histogram.
func span(queries int) int {
	chunks := (queries + chunk - 1) / chunk
	return (chunks + mon.Capacity - 1) / mon.Capacity * chunk
}

// measure runs the scheme over all of the queries, timing span(len(queries))
// of them per latency sample.
func measure(s stree.Scheme, queries, out []uint32) result {
	his := new(mon.Histogram)
	step := span(len(queries))

	var total time.Duration
	for i := 0; i < len(queries); i += step {
		j := min(i+step, len(queries))

		start := time.Now()
		s.Run(queries[i:j], out[i:j])
		dur := time.Since(start)

		total += dur
		his.Observe(dur / time.Duration(j-i))
	}

	return result{
		Duration: total,
		Scheme:   s.Name,
		Latency:  float64(total) / float64(len(queries)),
		P50:      his.Quantile(0.5),
		P99:      his.Quantile(0.99),
		Checksum: checksum(out),
	}
}

func dump(path string, t *blocked.T) (err error) {
	fh, err := os.Create(path)
	if err != nil {
		return stree.Error.Wrap(err)
	}
	defer func() {
		if cerr := fh.Close(); err == nil {
			err = stree.Error.Wrap(cerr)
		}
	}()
	return stree.Error.Wrap(t.Dump(fh))
}

func writeResults(w io.Writer, results []result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return stree.Error.Wrap(enc.Encode(results))
}
