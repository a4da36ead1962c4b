package splitmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyValidate(t *testing.T) {
	testCases := []struct {
		name   string
		policy Policy
		valid  bool
	}{
		{"default", DefaultPolicy, true},
		{"zero threshold", Policy{Threshold: 0, ChunkSize: 1}, true},
		{"negative threshold", Policy{Threshold: -1, ChunkSize: 8}, false},
		{"zero chunk size", Policy{Threshold: 15, ChunkSize: 0}, false},
		{"negative concurrency", Policy{Threshold: 15, ChunkSize: 8, Concurrency: -4}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.policy.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidPolicy)
			}
		})
	}
}

func TestPolicyThresholdBoundary(t *testing.T) {
	assert.False(t, DefaultPolicy.Parallel(0))
	assert.False(t, DefaultPolicy.Parallel(15))
	assert.True(t, DefaultPolicy.Parallel(16))

	assert.Equal(t, 0, DefaultPolicy.Chunks(15))
	assert.Equal(t, 2, DefaultPolicy.Chunks(16))
	assert.Equal(t, 4, DefaultPolicy.Chunks(25))
	assert.Equal(t, 4, DefaultPolicy.Chunks(32))
	assert.Equal(t, 5, DefaultPolicy.Chunks(33))

	huge := Policy{Threshold: 15, ChunkSize: math.MaxInt}
	assert.True(t, huge.Parallel(16))
	assert.Equal(t, 1, huge.Chunks(16))
	assert.Len(t, partition(make([]int, 16), huge.ChunkSize), huge.Chunks(16))
	assert.Equal(t, 1, huge.Chunks(math.MaxInt))
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "threshold=15 chunk-size=8 concurrency=unlimited", DefaultPolicy.String())
	assert.Equal(t, "threshold=0 chunk-size=2 concurrency=4",
		Policy{ChunkSize: 2, Concurrency: 4}.String())
}
