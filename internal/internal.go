package internal

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
)

// ClampWorkers limits the number of workers for an input of size n to n - 1,
// so that each worker has at least one element to scan beyond its own
// reduction. The result may be below 2, in which case callers must fall back
// to a sequential scan.
func ClampWorkers(n, workers int) int {
	switch {
	case n < 0:
		panic(fmt.Sprintf("invalid input size: %v", n))
	case workers < 0:
		panic(fmt.Sprintf("invalid number of workers: %v", workers))
	case workers > n-1:
		workers = max(n-1, 0)
	}
	return workers
}

type runtimeError struct{ error }

func (runtimeError) RuntimeError() {}

// WrapPanic adds stack trace information to a recovered panic.
func WrapPanic(p interface{}) interface{} {
	if p != nil {
		s := fmt.Sprintf("%v\n%s\nrethrown at", p, debug.Stack())
		if _, isError := p.(error); isError {
			r := errors.New(s)
			if _, isRuntimeError := p.(runtime.Error); isRuntimeError {
				return runtimeError{r}
			}
			return r
		}
		return s
	}
	return nil
}
