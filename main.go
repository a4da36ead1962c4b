package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
	"github.com/spf13/pflag"

	"go.alexhamlin.co/splitmap/internal/log"
	"go.alexhamlin.co/splitmap/internal/splitmap"
)

var (
	flagThreshold   = pflag.Int("threshold", splitmap.DefaultPolicy.Threshold, "Map inputs of up to this many elements without starting workers")
	flagChunkSize   = pflag.Int("chunk-size", splitmap.DefaultPolicy.ChunkSize, "Maximum number of elements handled by one worker")
	flagConcurrency = pflag.Int("concurrency", splitmap.DefaultPolicy.Concurrency, "Maximum number of workers in flight (0 for one per chunk)")
	flagCount       = pflag.IntP("count", "n", 25, "Map the integers 1 through `n`")
	flagDelay       = pflag.Duration("delay", 200*time.Millisecond, "Simulated work per element")
	flagEffect      = pflag.Bool("effect", false, "Discard transformed values and print completion markers")
	flagVerbose     = pflag.BoolP("verbose", "v", false, "Enable verbose logging")
)

func main() {
	pflag.Parse()
	if *flagVerbose {
		log.EnableVerbose()
	}
	if *flagCount < 0 {
		log.Printf("[main] count must not be negative")
		os.Exit(2)
	}

	policy := splitmap.Policy{
		Threshold:   *flagThreshold,
		ChunkSize:   *flagChunkSize,
		Concurrency: *flagConcurrency,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	input := lo.RangeFrom(1, *flagCount)
	seen := mapset.NewSet[int]()
	err := demo(ctx, os.Stdout, policy, *flagEffect, input,
		func(ctx context.Context, t int) (int, error) {
			log.Verbosef("[main] handling %d", t)
			seen.Add(t)
			select {
			case <-time.After(*flagDelay):
				return t*2 + 1, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		})

	switch {
	case errors.Is(err, splitmap.ErrInvalidPolicy):
		log.Printf("[main] %v", err)
		stop()
		os.Exit(2)
	case err != nil:
		log.Printf("[main] mapping failed: %v", err)
		if seen.Cardinality() != len(input) {
			log.Printf("[main] handled %d of %d distinct elements", seen.Cardinality(), len(input))
		}
		stop()
		os.Exit(1)
	}
}

// demo maps input through transform under policy and prints the result to w.
// With effect set, it prints completion markers instead of values.
func demo(
	ctx context.Context, w io.Writer, policy splitmap.Policy, effect bool,
	input []int, transform splitmap.Handler[int, int],
) error {
	if effect {
		m, err := splitmap.NewEffectMapper(policy, func(ctx context.Context, t int) error {
			_, err := transform(ctx, t)
			return err
		})
		if err != nil {
			return err
		}
		return run(ctx, w, m, input)
	}

	m, err := splitmap.NewMapper(policy, transform)
	if err != nil {
		return err
	}
	return run(ctx, w, m, input)
}

func run[R any](ctx context.Context, w io.Writer, m *splitmap.Mapper[int, R], input []int) error {
	log.Printf("[main] mapping %d elements (%v)", len(input), m.Policy())
	start := time.Now()
	out, err := m.Map(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, out)
	log.Printf("[main] done in %v: %+v", time.Since(start).Round(time.Millisecond), m.Stats())
	return nil
}
