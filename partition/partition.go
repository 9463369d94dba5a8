// Package partition divides a range [0, n) into contiguous chunks for a team
// of workers. A partition is represented by its borders: chunk i covers the
// half-open interval from borders[i] to borders[i+1]. The first border is
// always 0, the last one is always n, and borders never decrease.
package partition

import (
	"fmt"
	"math"
)

// EqualSplit divides [0, n) into parts chunks whose sizes differ by at most
// one, with the longer chunks first. It returns parts+1 borders.
//
// EqualSplit panics if n < 0 or parts < 1.
func EqualSplit(n, parts int) []int {
	if n < 0 {
		panic(fmt.Sprintf("invalid range size: %v", n))
	}
	if parts < 1 {
		panic(fmt.Sprintf("invalid number of parts: %v", parts))
	}
	size, longer := n/parts, n%parts
	borders := make([]int, parts+1)
	pos := 0
	for i := 0; i < parts; i++ {
		borders[i] = pos
		pos += size
		if i < longer {
			pos++
		}
	}
	borders[parts] = n
	return borders
}

/*
Dilated divides [0, n) into workers+1 chunks for a parallel scan where the
head chunk absorbs the imbalance between worker 0 and the others. It returns
workers+2 borders.

All chunks but the first have the same length L = floor(n / (workers + d)),
and the first chunk takes the remaining n - workers*L elements. A dilatation
factor d of 1 yields chunks of roughly equal size, d > 1 enlarges the head
chunk, and d < 1 shrinks it.

If n > workers, L is kept between 1 and (n-1)/workers so that no chunk is
empty. If n <= workers, the inner borders collapse to n.

Dilated panics if n < 0, workers < 1, or d is not a positive finite number.
*/
func Dilated(n, workers int, d float64) []int {
	if n < 0 {
		panic(fmt.Sprintf("invalid range size: %v", n))
	}
	if workers < 1 {
		panic(fmt.Sprintf("invalid number of workers: %v", workers))
	}
	if !(d > 0) || math.IsInf(d, 0) {
		panic(fmt.Sprintf("invalid dilatation: %v", d))
	}
	length := int(float64(n) / (float64(workers) + d))
	if n > workers {
		// keep the head chunk non-empty when rounding of a tiny d eats it
		length = max(1, min(length, (n-1)/workers))
	}
	borders := make([]int, workers+2)
	start := n - workers*length
	for i := 1; i <= workers; i++ {
		borders[i] = start
		start += length
	}
	borders[workers+1] = n
	return borders
}

// Borders returns the workers+2 borders for a parallel scan of n elements:
// EqualSplit(n, workers+1) if d == 1, and Dilated(n, workers, d) otherwise.
func Borders(n, workers int, d float64) []int {
	if d == 1 {
		if workers < 1 {
			panic(fmt.Sprintf("invalid number of workers: %v", workers))
		}
		return EqualSplit(n, workers+1)
	}
	return Dilated(n, workers, d)
}
