// Command stree-bench times every query scheme of every index layout over a
// sweep of input sizes and writes the results as JSON.
package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/zeebo/stree"
)

func main() {
	app := cli.App{
		Name:  "stree-bench",
		Usage: "benchmark lower bound search over static index layouts",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "min-exp",
				Usage:   "smallest input size is 2^min-exp bytes",
				Value:   4,
				EnvVars: []string{"STREE_MIN_EXP"},
			},
			&cli.IntFlag{
				Name:    "max-exp",
				Usage:   "largest input size is 2^max-exp bytes",
				Value:   28,
				EnvVars: []string{"STREE_MAX_EXP"},
			},
			&cli.IntFlag{
				Name:    "queries",
				Usage:   "number of queries per scheme, rounded up to a multiple of 768. latency samples group whole chunks of 768 so at most 4096 cover the run",
				Value:   1_000_000,
				EnvVars: []string{"STREE_QUERIES"},
			},
			&cli.Uint64Flag{
				Name:    "seed",
				Usage:   "seed for the generated keys and queries",
				Value:   1,
				EnvVars: []string{"STREE_SEED"},
			},
			&cli.StringFlag{
				Name:    "kinds",
				Usage:   "comma separated layouts to run",
				Value:   "sorted,eytzinger,blocked",
				EnvVars: []string{"STREE_KINDS"},
			},
			&cli.StringFlag{
				Name:    "out",
				Usage:   "path to write the JSON results to, or - for stdout",
				Value:   "-",
				EnvVars: []string{"STREE_OUT"},
			},
			&cli.StringFlag{
				Name:    "dump",
				Usage:   "path to write a dot graph of the smallest blocked tree to",
				EnvVars: []string{"STREE_DUMP"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"STREE_LOG_LEVEL"},
			},
		},
		Action: runBench,
	}

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("stree-bench failed")
	}
}

func runBench(cctx *cli.Context) error {
	level, err := zerolog.ParseLevel(cctx.String("log-level"))
	if err != nil {
		return stree.Error.Wrap(err)
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	kinds, err := parseKinds(cctx.String("kinds"))
	if err != nil {
		return err
	}

	cfg := config{
		MinExp:  cctx.Int("min-exp"),
		MaxExp:  cctx.Int("max-exp"),
		Queries: cctx.Int("queries"),
		Seed:    cctx.Uint64("seed"),
		Kinds:   kinds,
		Dump:    cctx.String("dump"),
	}
	if err := cfg.check(); err != nil {
		return err
	}

	results, err := run(cfg, log)
	if err != nil {
		return err
	}

	out := cctx.String("out")
	if out == "-" {
		return writeResults(os.Stdout, results)
	}

	fh, err := os.Create(out)
	if err != nil {
		return stree.Error.Wrap(err)
	}
	if err := writeResults(fh, results); err != nil {
		_ = fh.Close()
		return err
	}
	if err := fh.Close(); err != nil {
		return stree.Error.Wrap(err)
	}

	log.Info().Str("path", out).Int("results", len(results)).Msg("wrote results")
	return nil
}

func parseKinds(list string) ([]stree.Kind, error) {
	var kinds []stree.Kind
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		kind, err := stree.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	if len(kinds) == 0 {
		return nil, stree.Error.New("no index kinds selected")
	}
	return kinds, nil
}
