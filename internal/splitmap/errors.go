package splitmap

import "fmt"

// ElementError reports that a [Handler] failed for one element of the input.
type ElementError struct {
	// Index is the position of the failing element in the input.
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}
