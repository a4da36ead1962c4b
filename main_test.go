package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"go.alexhamlin.co/splitmap/internal/splitmap"
)

func doubleAddOne(_ context.Context, t int) (int, error) {
	return t*2 + 1, nil
}

func TestDemo(t *testing.T) {
	var out bytes.Buffer
	err := demo(t.Context(), &out, splitmap.DefaultPolicy, false, lo.RangeFrom(1, 25), doubleAddOne)
	assert.NoError(t, err)
	assert.Equal(t,
		"[3 5 7 9 11 13 15 17 19 21 23 25 27 29 31 33 35 37 39 41 43 45 47 49 51]\n",
		out.String())

	out.Reset()
	err = demo(t.Context(), &out, splitmap.DefaultPolicy, true, lo.RangeFrom(1, 3), doubleAddOne)
	assert.NoError(t, err)
	assert.Equal(t, "[true true true]\n", out.String())
}

func TestDemoInvalidPolicy(t *testing.T) {
	policy := splitmap.Policy{Threshold: 15, ChunkSize: 0}
	for _, effect := range []bool{false, true} {
		var out bytes.Buffer
		err := demo(t.Context(), &out, policy, effect, lo.RangeFrom(1, 25),
			func(context.Context, int) (int, error) {
				t.Error("transform called under an invalid policy")
				return 0, nil
			})
		assert.ErrorIs(t, err, splitmap.ErrInvalidPolicy, "effect=%v", effect)
		assert.Empty(t, out.String())
	}
}

func TestDemoMappingError(t *testing.T) {
	errTooBig := errors.New("too big")
	var out bytes.Buffer
	err := demo(t.Context(), &out, splitmap.DefaultPolicy, true, lo.RangeFrom(1, 25),
		func(_ context.Context, x int) (int, error) {
			if x > 20 {
				return 0, errTooBig
			}
			return x, nil
		})
	assert.ErrorIs(t, err, errTooBig)
	assert.NotErrorIs(t, err, splitmap.ErrInvalidPolicy)
	assert.Empty(t, out.String())
}
