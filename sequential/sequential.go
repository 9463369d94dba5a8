// Package sequential provides the sequential building blocks of the parallel
// scan in package scan: a seeded scan over a subrange, a seeded reduction,
// and a whole-range partial sum.
//
// PartialSum is also what a parallel scan falls back to for inputs that are
// too small to be worth dividing, and it is the reference that parallel
// results are checked against in tests.
package sequential

import "fmt"

func checkOperands[T any](in, out []T, op func(x, y T) T) {
	if op == nil {
		panic("invalid operator: nil")
	}
	if len(out) < len(in) {
		panic(fmt.Sprintf("invalid output length: %v < %v", len(out), len(in)))
	}
}

// Scan combines seed with each element of in from left to right and writes
// every intermediate result to the corresponding position of out, that is
// out[0] = op(seed, in[0]), out[1] = op(out[0], in[1]), and so on.
//
// Scan returns the end of the written range in out, which is len(in). An
// empty in leaves out untouched and returns 0.
//
// out may be the same slice as in. Scan panics if op is nil or out is
// shorter than in.
func Scan[T any](in, out []T, op func(x, y T) T, seed T) int {
	checkOperands(in, out, op)
	out = out[:len(in)]
	for i, x := range in {
		seed = op(seed, x)
		out[i] = seed
	}
	return len(in)
}

// Reduce combines seed with each element of in from left to right and returns
// the final result without emitting intermediate ones. Reduce(in, seed, op)
// equals the last value written by Scan(in, out, op, seed), or seed if in is
// empty.
func Reduce[T any](in []T, seed T, op func(x, y T) T) T {
	if op == nil {
		panic("invalid operator: nil")
	}
	for _, x := range in {
		seed = op(seed, x)
	}
	return seed
}

// PartialSum computes the inclusive prefix sum of in into out, so that out[i]
// is the combination of in[0] through in[i]. Since no neutral element is
// known for op, the first element is copied unchanged and serves as the seed
// for the rest.
//
// PartialSum returns len(in). out may be the same slice as in. PartialSum
// panics if op is nil or out is shorter than in.
func PartialSum[T any](in, out []T, op func(x, y T) T) int {
	checkOperands(in, out, op)
	if len(in) == 0 {
		return 0
	}
	out[0] = in[0]
	return Scan(in[1:], out[1:], op, in[0]) + 1
}
