package pscan

import (
	"runtime"

	"golang.org/x/exp/constraints"
)

// A Number is any type that supports the arithmetic operators used by Add
// and Mul.
type Number interface {
	constraints.Integer | constraints.Float | constraints.Complex
}

/*
MaxWorkerCount returns the ceiling on the number of workers a parallel scan
uses when its settings do not specify one.

This is runtime.GOMAXPROCS(0), so it follows both the GOMAXPROCS environment
variable and the CPU affinity of the process.
*/
func MaxWorkerCount() int {
	return runtime.GOMAXPROCS(0)
}

// Add returns x + y.
func Add[T Number](x, y T) T { return x + y }

// Mul returns x * y.
func Mul[T Number](x, y T) T { return x * y }

// Min returns the smaller of x and y.
func Min[T constraints.Ordered](x, y T) T { return min(x, y) }

// Max returns the larger of x and y.
func Max[T constraints.Ordered](x, y T) T { return max(x, y) }

// Concat returns x + y for strings. It is associative but not commutative.
func Concat(x, y string) string { return x + y }

// And returns x && y.
func And(x, y bool) bool { return x && y }

// Or returns x || y.
func Or(x, y bool) bool { return x || y }
