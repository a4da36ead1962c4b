// Package catch records how a function exited, so that a panic or
// [runtime.Goexit] on a worker goroutine can be replayed on the goroutine that
// waits for it.
package catch

import "runtime"

type exit uint8

const (
	exitReturn exit = iota
	exitPanic
	exitGoexit
)

// Result holds the outcome of one function call: a returned value and error,
// a recovered panic value, or a [runtime.Goexit]. The zero Result holds a
// return of a zero T and nil error.
type Result[T any] struct {
	exit     exit
	value    T
	err      error
	panicval any
}

// DoOrExit calls fn on the current goroutine and records a return or panic.
// A [runtime.Goexit] from fn is not stopped; callers that must observe it
// should store [Goexit] before the call and overwrite it with the result.
func DoOrExit[T any](fn func() (T, error)) (r Result[T]) {
	r.exit = exitPanic
	defer func() {
		if r.exit == exitPanic {
			r.panicval = recover()
		}
	}()
	r.value, r.err = fn()
	r.exit = exitReturn
	return
}

// Return builds a Result holding "return value, err".
func Return[T any](value T, err error) Result[T] {
	return Result[T]{exit: exitReturn, value: value, err: err}
}

// Goexit builds a Result holding a call to [runtime.Goexit].
func Goexit[T any]() Result[T] {
	return Result[T]{exit: exitGoexit}
}

// Unwrap replays r on the current goroutine. It returns the captured value and
// error only when [Result.Returned] is true; otherwise it re-panics with the
// captured value or calls [runtime.Goexit].
//
// There is deliberately no accessor that returns the error of a panicked or
// Goexited result.
func (r Result[T]) Unwrap() (T, error) {
	switch r.exit {
	case exitPanic:
		panic(r.panicval)
	case exitGoexit:
		runtime.Goexit()
		panic("catch: continued after runtime.Goexit")
	default:
		return r.value, r.err
	}
}

// Returned is true if r holds a normal return, with or without an error.
func (r Result[T]) Returned() bool { return r.exit == exitReturn }

// Panicked is true if r holds a panic.
func (r Result[T]) Panicked() bool { return r.exit == exitPanic }

// Goexited is true if r holds a [runtime.Goexit].
func (r Result[T]) Goexited() bool { return r.exit == exitGoexit }

// Failed is true if r holds anything other than a return with a nil error.
func (r Result[T]) Failed() bool { return r.exit != exitReturn || r.err != nil }

// Recovered returns the panic value held by r, if any. Under the GODEBUG
// setting panicnil=1 a true panic(nil) recovers as nil; use [Result.Panicked]
// to tell it apart from a return.
func (r Result[T]) Recovered() any { return r.panicval }
