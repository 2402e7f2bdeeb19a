// Package utils holds small helpers around the engine, currently the
// execution timeout boundary for running produced programs.
package utils

import (
	"fmt"
	"time"
)

// TimeoutError signals that a thunk did not finish within its deadline.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("execution timed out after %s", e.After)
}

// RunWithTimeout runs thunk and returns its result, or a *TimeoutError if
// the deadline passes first. The engine never executes programs itself; this
// boundary is for callers applying primitive values to inputs. The thunk is
// not cancelled on timeout, only abandoned, so long-running thunks should
// watch their own cancellation signal.
func RunWithTimeout[T any](timeout time.Duration, thunk func() (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := thunk()
		done <- outcome{value: v, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-time.After(timeout):
		var zero T
		return zero, &TimeoutError{After: timeout}
	}
}
