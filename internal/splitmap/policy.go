package splitmap

import (
	"errors"
	"fmt"
)

// ErrInvalidPolicy is wrapped by the errors that report an unusable [Policy].
var ErrInvalidPolicy = errors.New("invalid splitmap policy")

// Policy decides how a [Mapper] divides its input between goroutines.
type Policy struct {
	// Threshold is the longest input that is mapped sequentially on the calling
	// goroutine. Longer inputs are split into chunks. Must be >= 0.
	Threshold int
	// ChunkSize is the maximum number of elements handled by one worker.
	// Must be >= 1.
	ChunkSize int
	// Concurrency limits the number of chunks handled at the same time.
	// If Concurrency <= 0, every chunk is handled by its own goroutine.
	Concurrency int
}

// DefaultPolicy maps up to 15 elements inline, and otherwise starts one
// goroutine per chunk of 8 elements.
var DefaultPolicy = Policy{Threshold: 15, ChunkSize: 8}

// Validate returns an error wrapping [ErrInvalidPolicy] if p cannot be used.
func (p Policy) Validate() error {
	if p.Threshold < 0 {
		return fmt.Errorf("%w: threshold %d is negative", ErrInvalidPolicy, p.Threshold)
	}
	if p.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk size %d is less than 1", ErrInvalidPolicy, p.ChunkSize)
	}
	return nil
}

// Parallel reports whether an input of n elements is split across workers.
func (p Policy) Parallel(n int) bool {
	return n > p.Threshold
}

// Chunks returns the number of chunks, and therefore workers, that an input of
// n elements is split into. It is 0 for inputs mapped sequentially.
func (p Policy) Chunks(n int) int {
	if !p.Parallel(n) {
		return 0
	}
	chunks := n / p.ChunkSize
	if n%p.ChunkSize != 0 {
		chunks++ // n+ChunkSize-1 can overflow.
	}
	return chunks
}

func (p Policy) String() string {
	concurrency := "unlimited"
	if p.Concurrency > 0 {
		concurrency = fmt.Sprint(p.Concurrency)
	}
	return fmt.Sprintf("threshold=%d chunk-size=%d concurrency=%s", p.Threshold, p.ChunkSize, concurrency)
}
