// Package parallel provides a fixed team of workers for parallel
// algorithms that proceed in phases, such as the parallel prefix sums
// in package scan.
//
// In contrast to fork/join style recursion, all members of a team are
// started together and live for the whole algorithm, so that they can
// rendezvous on a sync.Barrier between phases.
package parallel

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/exascience/pscan/internal"
)

var errPanicked = errors.New("team member panicked")

// Team receives a team size n and a worker function f, and invokes f
// once for each worker id from 0 to n-1, each in its own goroutine.
//
// Team returns only when all invocations have terminated, returning
// the first error value that is different from nil. The context that
// is passed to f is canceled as soon as one invocation returns an
// error or panics, so that the other members can stop waiting for it,
// for example in sync.Barrier.Wait.
//
// Team panics if n < 1.
//
// If one or more invocations panic, the corresponding goroutines
// recover the panics, and Team eventually panics with the recovered
// panic value of the member with the lowest id.
func Team(n int, f func(ctx context.Context, id int) error) error {
	if n < 1 {
		panic(fmt.Sprintf("invalid team size: %v", n))
	}
	if n == 1 {
		return f(context.Background(), 0)
	}
	panics := make([]interface{}, n)
	g, ctx := errgroup.WithContext(context.Background())
	for id := 0; id < n; id++ {
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					panics[id] = internal.WrapPanic(p)
					err = errPanicked
				}
			}()
			return f(ctx, id)
		})
	}
	err := g.Wait()
	for _, p := range panics {
		if p != nil {
			panic(p)
		}
	}
	return err
}
