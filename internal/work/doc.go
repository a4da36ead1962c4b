// Package work runs a fixed set of ordinal-indexed tasks across a bounded
// number of goroutines, and joins all of them before returning.
package work
