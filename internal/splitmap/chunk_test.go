package splitmap

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition(t *testing.T) {
	in := lo.RangeFrom(1, 25)
	chunks := partition(in, 8)

	require.Len(t, chunks, 4)
	sizes := lo.Map(chunks, func(c chunk[int], _ int) int { return len(c.items) })
	assert.Equal(t, []int{8, 8, 8, 1}, sizes)

	var rebuilt []int
	for ordinal, c := range chunks {
		assert.Equal(t, ordinal, c.ordinal)
		assert.Equal(t, 8*ordinal, c.offset)
		assert.Equal(t, in[c.offset], c.items[0])
		rebuilt = append(rebuilt, c.items...)
	}
	assert.Equal(t, in, rebuilt)
}

func TestPartitionExact(t *testing.T) {
	chunks := partition(lo.Range(16), 8)
	require.Len(t, chunks, 2)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, chunks[0].items)
	assert.Equal(t, []int{8, 9, 10, 11, 12, 13, 14, 15}, chunks[1].items)
}

func TestPartitionSingletons(t *testing.T) {
	chunks := partition([]string{"a", "b", "c"}, 1)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.offset)
		assert.Len(t, c.items, 1)
	}
}
