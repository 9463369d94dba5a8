// Package scan provides parallel prefix sums, also known as scans or
// partial sums.
//
// A prefix sum of a sequence in with respect to an associative operator op
// is the sequence out where out[i] = op(...op(op(in[0], in[1]), in[2])...,
// in[i]). The operator does not need to be commutative, and no neutral
// element is required.
//
// PartialSum chooses an algorithm and a team size according to a
// config.Settings snapshot. Linear runs the two-phase algorithm directly.
package scan

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/exascience/pscan/config"
	"github.com/exascience/pscan/internal"
	"github.com/exascience/pscan/parallel"
	"github.com/exascience/pscan/partition"
	"github.com/exascience/pscan/sequential"
	"github.com/exascience/pscan/sync"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger installs the logger that scans report their dispatch decisions
// to at debug level. A nil logger disables logging again.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

func check[T any](in, out []T, op func(x, y T) T) {
	if op == nil {
		panic("invalid operator: nil")
	}
	if len(out) < len(in) {
		panic(fmt.Sprintf("invalid output length: %v < %v", len(out), len(in)))
	}
}

/*
PartialSum computes the inclusive prefix sum of in into out with respect
to op, and returns len(in).

The settings are used as follows: inputs with fewer than s.MinimalN
elements are scanned sequentially; otherwise s.Algorithm selects the
parallel algorithm, which runs with at most s.Workers() workers and
dilatation s.EffectiveDilatation(). The zero Settings are valid: they
select the linear algorithm with pscan.MaxWorkerCount() workers, no
dilatation, and no sequential threshold.

out may be the same slice as in, but must not overlap it otherwise.

PartialSum panics if op is nil, if out is shorter than in, if
s.Algorithm is not implemented, or if s does not pass s.Validate().
Selecting an unimplemented algorithm is never silently replaced by
another one. If op panics, PartialSum eventually panics with the same
value, and the contents of out are undefined.
*/
func PartialSum[T any](in, out []T, op func(x, y T) T, s config.Settings) int {
	check(in, out, op)
	switch s.Algorithm {
	case config.Linear:
		if err := s.Validate(); err != nil {
			panic(fmt.Sprintf("invalid settings: %v", err))
		}
		if len(in) < s.MinimalN {
			logger.Load().Debug("sequential partial sum",
				zap.Int("n", len(in)),
				zap.Int("minimalN", s.MinimalN))
			return sequential.PartialSum(in, out, op)
		}
		return Linear(in, out, op, s.Workers(), s.EffectiveDilatation())
	default:
		panic(fmt.Sprintf("partial sum algorithm not implemented: %v", s.Algorithm))
	}
}

// Of returns a newly allocated prefix sum of in with respect to op, using
// config.Default() settings.
func Of[T any](in []T, op func(x, y T) T) []T {
	out := make([]T, len(in))
	PartialSum(in, out, op, config.Default())
	return out
}

/*
Linear computes the inclusive prefix sum of in into out with respect to op
using a team of at most workers goroutines, and returns len(in).

The input is divided into workers+1 chunks by partition.Borders with the
given dilatation. The algorithm proceeds in two parallel phases separated
by a short sequential one, all executed by the same team:

 1. Worker 0 scans the first chunk into out. Each other worker id reduces
    chunk id into a local sum without writing any output.
 2. After all workers arrive at a barrier, worker 0 scans the local sums,
    so that sums[id] becomes the combination of all elements up to the end
    of chunk id.
 3. After a second barrier, each worker id scans chunk id+1 into out,
    seeded with sums[id].

The team size is clamped to len(in)-1 so that every chunk contains at least
one element. If that leaves fewer than two workers, in is scanned
sequentially instead, and neither the borders nor the local sums are
allocated.

out may be the same slice as in, but must not overlap it otherwise. Linear
panics if op is nil, if out is shorter than in, if workers < 0, or if
dilatation is not a positive finite number.
*/
func Linear[T any](in, out []T, op func(x, y T) T, workers int, dilatation float64) int {
	check(in, out, op)
	n := len(in)
	if n == 0 {
		return 0
	}
	workers = internal.ClampWorkers(n, workers)
	if workers < 2 {
		logger.Load().Debug("sequential partial sum",
			zap.Int("n", n),
			zap.Int("workers", workers))
		return sequential.PartialSum(in, out, op)
	}

	borders := partition.Borders(n, workers, dilatation)
	sums := make([]T, workers)
	barrier := sync.NewBarrier(workers)

	logger.Load().Debug("linear partial sum",
		zap.Int("n", n),
		zap.Int("workers", workers),
		zap.Float64("dilatation", dilatation),
		zap.Ints("borders", borders))

	err := parallel.Team(workers, func(ctx context.Context, id int) error {
		if id == 0 {
			out[0] = in[0]
			sequential.Scan(in[1:borders[1]], out[1:borders[1]], op, in[0])
			sums[0] = out[borders[1]-1]
		} else {
			sums[id] = sequential.Reduce(in[borders[id]+1:borders[id+1]], in[borders[id]], op)
		}

		if err := barrier.Wait(ctx); err != nil {
			return err
		}

		if id == 0 {
			sequential.Scan(sums[1:], sums[1:], op, sums[0])
		}

		if err := barrier.Wait(ctx); err != nil {
			return err
		}

		low, high := borders[id+1], borders[id+2]
		sequential.Scan(in[low:high], out[low:high], op, sums[id])
		return nil
	})
	if err != nil {
		panic(fmt.Sprintf("unreachable: %v", err))
	}
	return n
}
