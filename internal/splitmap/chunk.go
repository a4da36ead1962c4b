package splitmap

import "github.com/samber/lo"

// chunk is a contiguous run of input elements handled by a single worker.
// Its ordinal alone determines where its output lands in the full result.
type chunk[T any] struct {
	ordinal int
	offset  int // Index of items[0] within the full input.
	items   []T
}

// partition splits in into consecutive chunks of at most size elements, front
// to back, such that only the final chunk may be short. The chunks share
// memory with in and never overlap.
func partition[T any](in []T, size int) []chunk[T] {
	parts := lo.Chunk(in, size)
	chunks := make([]chunk[T], len(parts))
	offset := 0
	for ordinal, items := range parts {
		chunks[ordinal] = chunk[T]{ordinal: ordinal, offset: offset, items: items}
		offset += len(items)
	}
	return chunks
}
