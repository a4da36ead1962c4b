package splitmap

import "context"

// Apply maps in through fn using [DefaultPolicy]. See [Mapper.Map].
func Apply[T, R any](in []T, fn func(T) (R, error)) ([]R, error) {
	return ApplyPolicy(context.Background(), DefaultPolicy, in,
		func(_ context.Context, v T) (R, error) { return fn(v) })
}

// ApplyForEffect calls fn for every element of in using [DefaultPolicy], and
// returns one true marker per element once all calls have succeeded. See
// [NewEffectMapper].
func ApplyForEffect[T any](in []T, fn func(T) error) ([]bool, error) {
	m, err := NewEffectMapper(DefaultPolicy, func(_ context.Context, v T) error { return fn(v) })
	if err != nil {
		return nil, err
	}
	return m.Map(context.Background(), in)
}

// ApplyPolicy maps in through handle with a one-off [Mapper] for p.
func ApplyPolicy[T, R any](ctx context.Context, p Policy, in []T, handle Handler[T, R]) ([]R, error) {
	m, err := NewMapper(p, handle)
	if err != nil {
		return nil, err
	}
	return m.Map(ctx, in)
}
