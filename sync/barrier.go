/*
Package sync provides synchronization primitives similar to the sync
package of Go's standard library, however here with a focus on
parallel performance rather than concurrency. So far, this package
only provides a barrier on which a fixed team of workers can
rendezvous between the phases of a parallel algorithm. For other
synchronization primitives, such as condition variables, mutual
exclusion locks, object pools, or atomic memory primitives, please
use the standard library.
*/
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrBroken is returned by Wait on a barrier that an earlier Wait abandoned.
var ErrBroken = errors.New("barrier is broken")

/*
A Barrier is a synchronization point for a fixed number of parties. Each
call to Wait blocks until all parties have called Wait, at which point all
of them are released together and the barrier is reset for the next phase.

A Barrier can be waited on any number of times, as long as every party
waits the same number of times.

If a party gives up waiting because its context is done, the barrier is
broken: parties that are currently waiting stay blocked until their own
contexts are done, and all later calls to Wait return ErrBroken. Teams that
share a context which is canceled on the first failure, such as the ones
run by parallel.Team, therefore never deadlock on a broken barrier.

The zero Barrier is not valid. Use NewBarrier.
*/
type Barrier struct {
	mutex   sync.Mutex
	parties int
	arrived int
	broken  bool
	release chan struct{}
}

// NewBarrier returns a barrier for the given number of parties.
//
// NewBarrier panics if parties < 1.
func NewBarrier(parties int) *Barrier {
	if parties < 1 {
		panic(fmt.Sprintf("invalid number of parties: %v", parties))
	}
	return &Barrier{
		parties: parties,
		release: make(chan struct{}),
	}
}

// Parties returns the number of parties that must call Wait to release the
// barrier.
func (b *Barrier) Parties() int {
	return b.parties
}

// Wait blocks until all parties have called Wait, or until ctx is done.
//
// Wait returns nil when the barrier is released, ctx.Err() when ctx is done
// first, and ErrBroken when the barrier was broken before.
func (b *Barrier) Wait(ctx context.Context) error {
	b.mutex.Lock()
	if b.broken {
		b.mutex.Unlock()
		return ErrBroken
	}
	b.arrived++
	if b.arrived == b.parties {
		close(b.release)
		b.release = make(chan struct{})
		b.arrived = 0
		b.mutex.Unlock()
		return nil
	}
	release := b.release
	b.mutex.Unlock()

	select {
	case <-release:
		return nil
	case <-ctx.Done():
		b.mutex.Lock()
		defer b.mutex.Unlock()
		select {
		case <-release:
			// released concurrently with cancelation
			return nil
		default:
		}
		b.broken = true
		return ctx.Err()
	}
}
