package splitmap

import (
	"context"
	"sync/atomic"

	"github.com/samber/lo"

	"go.alexhamlin.co/splitmap/internal/log"
	"go.alexhamlin.co/splitmap/internal/work"
	"go.alexhamlin.co/splitmap/internal/work/catch"
)

// Handler is the type for a [Mapper]'s transform.
//
// When a Mapper splits its input, it calls the handler from several
// goroutines at once. Any state the handler shares between calls must be
// synchronized by the handler itself.
type Handler[T, R any] func(context.Context, T) (R, error)

// EffectHandler is the type for a transform that is called only for its side
// effects. See [NewEffectMapper].
type EffectHandler[T any] func(context.Context, T) error

// Mapper applies a [Handler] to every element of a slice, deciding on each call
// whether to do so sequentially or across a set of worker goroutines, as its
// [Policy] dictates. Results always keep the order of the input.
//
// A Mapper is safe for concurrent use. Each call to [Mapper.Map] is
// independent of every other call.
type Mapper[T, R any] struct {
	policy Policy
	handle Handler[T, R]

	calls    atomic.Uint64
	parallel atomic.Uint64
	chunks   atomic.Uint64
	workers  atomic.Uint64
	elements atomic.Uint64
}

// NewMapper creates a [Mapper] that transforms elements with handle, or
// returns an error if p is invalid.
func NewMapper[T, R any](p Policy, handle Handler[T, R]) (*Mapper[T, R], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Mapper[T, R]{policy: p, handle: handle}, nil
}

// NewEffectMapper is analogous to [NewMapper], but accepts a handler that only
// returns an error. Each element of a successful result is true, marking that
// the handler completed for the corresponding input element.
func NewEffectMapper[T any](p Policy, handle EffectHandler[T]) (*Mapper[T, bool], error) {
	return NewMapper(p, func(ctx context.Context, v T) (bool, error) {
		if err := handle(ctx, v); err != nil {
			return false, err
		}
		return true, nil
	})
}

// Policy returns the policy that m was created with.
func (m *Mapper[T, R]) Policy() Policy {
	return m.policy
}

// Map returns a slice whose i-th element is the handler's result for in[i].
// It does not modify in, but the caller must not modify in until Map returns.
//
// Inputs no longer than the policy's threshold are handled in order on the
// calling goroutine. Longer inputs are split into chunks, each handled in order
// by a worker goroutine. Either way, Map returns only after every handler call
// it started has finished.
//
// If the handler returns an error, Map returns nil and an [*ElementError] for
// the lowest failing index among the elements it handled. A worker stops at the
// first error in its chunk, while other workers finish their chunks. If the
// handler panics or calls [runtime.Goexit] in a worker, Map waits for the
// remaining workers and then repeats the panic or Goexit on the calling
// goroutine.
//
// Once ctx is done, Map starts no more chunks. A skipped chunk fails with
// ctx.Err(), subject to the same lowest-ordinal rule as handler errors.
// Handlers in flight are never interrupted, though they receive ctx and may
// observe it themselves.
func (m *Mapper[T, R]) Map(ctx context.Context, in []T) ([]R, error) {
	m.calls.Add(1)
	if len(in) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	if !m.policy.Parallel(len(in)) {
		return m.mapChunk(ctx, chunk[T]{items: in})
	}

	log.Verbosef("[splitmap] mapping %d elements in %d chunks (%v)",
		len(in), m.policy.Chunks(len(in)), m.policy)
	chunks := partition(in, m.policy.ChunkSize)

	results, stats := work.Run(ctx, m.policy.Concurrency, len(chunks),
		func(ctx context.Context, ordinal int) ([]R, error) {
			return m.mapChunk(ctx, chunks[ordinal])
		})

	m.parallel.Add(1)
	m.chunks.Add(uint64(len(chunks)))
	m.workers.Add(uint64(stats.Spawned))
	if stats.Ejected > 0 {
		log.Verbosef("[splitmap] skipped %d of %d chunks", stats.Ejected, len(chunks))
	}

	return reassemble(results)
}

// mapChunk handles every element of c in order, stopping at the first error.
// The returned slice belongs to the caller alone.
func (m *Mapper[T, R]) mapChunk(ctx context.Context, c chunk[T]) ([]R, error) {
	out := make([]R, len(c.items))
	for i, v := range c.items {
		m.elements.Add(1)
		r, err := m.handle(ctx, v)
		if err != nil {
			log.Verbosef("[splitmap] chunk %d stopped at element %d: %v",
				c.ordinal, c.offset+i, err)
			return nil, &ElementError{Index: c.offset + i, Err: err}
		}
		out[i] = r
	}
	return out, nil
}

// reassemble concatenates chunk outputs in ordinal order. Abnormal exits take
// precedence over errors, and the lowest ordinal wins among either kind.
func reassemble[R any](results []catch.Result[[]R]) ([]R, error) {
	failed := lo.CountBy(results, func(r catch.Result[[]R]) bool { return r.Failed() })
	if failed > 0 {
		log.Verbosef("[splitmap] %d of %d chunks failed", failed, len(results))
		for _, result := range results {
			if !result.Returned() {
				result.Unwrap() // Panics or Goexits.
			}
		}
	}

	parts := make([][]R, len(results))
	for ordinal, result := range results {
		part, err := result.Unwrap()
		if err != nil {
			return nil, err
		}
		parts[ordinal] = part
	}
	return lo.Flatten(parts), nil
}

// Stats conveys the work performed by a [Mapper] since its creation.
type Stats struct {
	// Calls counts calls to [Mapper.Map].
	Calls uint64
	// Parallel counts calls that split their input into chunks.
	Parallel uint64
	// Chunks counts chunks created by parallel calls.
	Chunks uint64
	// Workers counts goroutines started by parallel calls.
	Workers uint64
	// Elements counts calls to the handler.
	Elements uint64
}

// Stats returns the [Stats] for m as of the time of the call.
func (m *Mapper[T, R]) Stats() Stats {
	return Stats{
		Calls:    m.calls.Load(),
		Parallel: m.parallel.Load(),
		Chunks:   m.chunks.Load(),
		Workers:  m.workers.Load(),
		Elements: m.elements.Load(),
	}
}
