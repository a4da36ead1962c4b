package work

import (
	"context"
	"sync"

	"github.com/gammazero/deque"

	"go.alexhamlin.co/splitmap/internal/log"
	"go.alexhamlin.co/splitmap/internal/work/catch"
)

// Handler computes the result for a single ordinal of a [Run].
type Handler[R any] func(ctx context.Context, ordinal int) (R, error)

// Stats describes the work performed by a completed [Run].
type Stats struct {
	// Spawned counts worker goroutines, including any that replaced a worker
	// whose handler called runtime.Goexit.
	Spawned int
	// Started counts ordinals whose handler was called.
	Started int
	// Ejected counts ordinals that were still queued when ctx was done, and
	// whose handler was therefore never called.
	Ejected int
}

// Run calls handle once for each ordinal in [0, n), and blocks until every
// call has finished and every goroutine that Run started has exited. The
// result for each ordinal is stored at the same index of the returned slice.
//
// If concurrency > 0, Run keeps at most that many handlers in flight, starting
// queued ordinals in ascending order as earlier handlers finish. Otherwise,
// it starts one goroutine per ordinal.
//
// Run never stops a handler that is already running. Once ctx is done, Run
// stops starting handlers, and the result for every ordinal still queued at
// that point is a return of the zero R and ctx.Err().
//
// A panic or [runtime.Goexit] in a handler is captured in that ordinal's
// result instead of crashing the program or exiting the caller; use
// [catch.Result.Unwrap] to replay it.
func Run[R any](ctx context.Context, concurrency, n int, handle Handler[R]) ([]catch.Result[R], Stats) {
	if n <= 0 {
		return nil, Stats{}
	}

	s := &scope[R]{
		ctx:     ctx,
		handle:  handle,
		results: make([]catch.Result[R], n),
	}
	for ordinal := range n {
		s.pending.PushBack(ordinal)
	}

	grants := n
	if concurrency > 0 {
		grants = min(concurrency, n)
	}
	for range grants {
		s.spawn()
	}
	s.wg.Wait()
	return s.results, s.stats
}

// scope tracks the pending ordinals of a single [Run], along with the
// goroutines executing them.
//
// Every goroutine started by a scope holds one "work grant": the right and
// the obligation to execute pending ordinals until none remain. A goroutine
// may only exit early by transferring its grant to a new goroutine, which
// preserves the invariant that every queued ordinal is eventually taken by
// some grant holder.
type scope[R any] struct {
	ctx    context.Context
	handle Handler[R]
	wg     sync.WaitGroup

	// Each slot in results is written by exactly one goroutine, and only read
	// after wg.Wait returns.
	results []catch.Result[R]

	mu      sync.Mutex
	pending deque.Deque[int]
	stats   Stats
}

// spawn issues a work grant to a new goroutine. A caller transferring its own
// grant must call spawn before it exits, so that wg cannot reach zero while
// ordinals remain queued.
func (s *scope[R]) spawn() {
	s.mu.Lock()
	s.stats.Spawned++
	s.mu.Unlock()

	s.wg.Add(1)
	go s.work()
}

// work, when invoked in a new goroutine, accepts a work grant and discharges
// it.
func (s *scope[R]) work() {
	defer s.wg.Done()
	for {
		ordinal, ok := s.next()
		if !ok {
			return // The grant is retired.
		}
		s.complete(ordinal)
	}
}

// next either returns an ordinal that the caller must execute, or retires the
// caller's work grant (ok == false).
func (s *scope[R]) next() (ordinal int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending.Len() > 0 {
		if err := s.ctx.Err(); err != nil {
			s.ejectAll(err)
		}
	}
	if s.pending.Len() == 0 {
		return 0, false
	}
	s.stats.Started++
	return s.pending.PopFront(), true
}

// ejectAll resolves every queued ordinal with err. The caller must hold mu.
func (s *scope[R]) ejectAll(err error) {
	n := s.pending.Len()
	for s.pending.Len() > 0 {
		s.results[s.pending.PopFront()] = catch.Return(*new(R), err)
	}
	s.stats.Ejected += n
	log.Verbosef("[work] ejected %d queued tasks: %v", n, err)
}

// complete runs the handler for ordinal while the caller holds a work grant.
func (s *scope[R]) complete(ordinal int) {
	result := catch.Goexit[R]()
	defer func() {
		s.results[ordinal] = result
		if result.Panicked() {
			log.Verbosef("[work] task %d panicked: %v", ordinal, result.Recovered())
		}
		if result.Goexited() {
			// The handler is unwinding our goroutine, so we can no longer
			// discharge the grant ourselves.
			log.Verbosef("[work] task %d called runtime.Goexit; transferring its grant", ordinal)
			s.spawn()
		}
	}()
	result = catch.DoOrExit(func() (R, error) { return s.handle(s.ctx, ordinal) })
}
