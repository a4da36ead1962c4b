/*
Package splitmap maps a slice through a function, fanning the work out to
goroutines only when the input is long enough to be worth it.

A [Policy] sets the threshold at or below which a [Mapper] stays on the
calling goroutine, and the size of the chunks it otherwise hands to workers.
Chunks are cut from the front of the input and tagged with their position, so
the output always matches the input's order no matter which worker finishes
first. Every call is synchronous: it returns only after all of its workers
have exited.

Failures are all or nothing. A call that fails returns a nil slice and an
error, or re-raises a worker's panic on the calling goroutine, but never a
partially filled result.
*/
package splitmap
