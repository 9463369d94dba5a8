package scan

import (
	"fmt"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/floats"

	"github.com/exascience/pscan"
	"github.com/exascience/pscan/config"
	"github.com/exascience/pscan/sequential"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var dilatations = []float64{0.5, 1, 1.7, 3}

func makeRandomSlice(size, limit int) []int {
	result := make([]int, size)
	for i := range result {
		result[i] = rand.Intn(limit) - limit/2
	}
	return result
}

func sequentialPartialSum[T any](in []T, op func(x, y T) T) []T {
	out := make([]T, len(in))
	sequential.PartialSum(in, out, op)
	return out
}

func linear[T any](in []T, op func(x, y T) T, workers int, dilatation float64) []T {
	out := make([]T, len(in))
	end := Linear(in, out, op, workers, dilatation)
	if end != len(in) {
		panic(fmt.Sprintf("Linear returned %v for %v elements", end, len(in)))
	}
	return out
}

func TestScenarios(t *testing.T) {
	t.Run("A", func(t *testing.T) {
		got := linear([]int{1, 2, 3, 4, 5, 6, 7, 8}, pscan.Add[int], 3, 1)
		assert.Equal(t, []int{1, 3, 6, 10, 15, 21, 28, 36}, got)
	})
	t.Run("B", func(t *testing.T) {
		got := linear([]int{1, 1, 1, 1, 1, 1}, pscan.Add[int], 10, 1)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, got)
	})
	t.Run("C", func(t *testing.T) {
		for _, workers := range []int{0, 1, 2, 64} {
			assert.Empty(t, linear([]int{}, pscan.Add[int], workers, 1))
			assert.Equal(t, 0, Linear[int](nil, nil, pscan.Add[int], workers, 1))
		}
	})
	t.Run("D", func(t *testing.T) {
		for _, workers := range []int{0, 1, 2, 64} {
			assert.Equal(t, []int{5}, linear([]int{5}, pscan.Add[int], workers, 1))
		}
	})
	t.Run("E", func(t *testing.T) {
		got := linear([]string{"a", "b", "c", "d"}, pscan.Concat, 2, 1)
		assert.Equal(t, []string{"a", "ab", "abc", "abcd"}, got)
	})
}

func TestLinearMatchesSequential(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 8, 17, 100, 1000, 12345} {
		in := makeRandomSlice(n, 1000)
		want := sequentialPartialSum(in, pscan.Add[int])
		for _, workers := range []int{1, 2, 3, 4, 7, n - 1, n, n + 5} {
			for _, d := range dilatations {
				assert.Equal(t, want, linear(in, pscan.Add[int], workers, d),
					"n=%v workers=%v dilatation=%v", n, workers, d)
			}
		}
	}
}

// Concatenation is associative but not commutative, so any reordering of
// chunks or of operands shows up in the result.
func TestLinearNonCommutative(t *testing.T) {
	in := make([]string, 500)
	for i := range in {
		in[i] = strconv.Itoa(i%10) + ","
	}
	want := sequentialPartialSum(in, pscan.Concat)
	for _, workers := range []int{2, 3, 5, 16} {
		for _, d := range dilatations {
			assert.Equal(t, want, linear(in, pscan.Concat, workers, d), "workers=%v dilatation=%v", workers, d)
		}
	}
}

type matrix [2][2]int

func mul(a, b matrix) (c matrix) {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			c[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j]
		}
	}
	return
}

func TestLinearMatrixProducts(t *testing.T) {
	in := make([]matrix, 300)
	for i := range in {
		in[i] = matrix{{1, i % 3}, {i % 2, 1}}
	}
	want := sequentialPartialSum(in, mul)
	for _, workers := range []int{2, 3, 8} {
		assert.Equal(t, want, linear(in, mul, workers, 1), "workers=%v", workers)
	}
}

func TestLinearWorkerClamp(t *testing.T) {
	for n := 2; n < 12; n++ {
		in := makeRandomSlice(n, 100)
		clamped := linear(in, pscan.Add[int], n-1, 1)
		for _, workers := range []int{n - 1, n, 2 * n, 1000} {
			assert.Equal(t, clamped, linear(in, pscan.Add[int], workers, 1), "n=%v workers=%v", n, workers)
		}
	}
	// two elements leave a single worker, which is the sequential path
	in := []int{4, 9}
	assert.Equal(t, sequentialPartialSum(in, pscan.Add[int]), linear(in, pscan.Add[int], 8, 1))
}

func TestLinearInPlace(t *testing.T) {
	in := makeRandomSlice(5000, 1<<20)
	want := sequentialPartialSum(in, pscan.Add[int])
	for _, workers := range []int{1, 2, 3, 9} {
		for _, d := range dilatations {
			s := append([]int(nil), in...)
			Linear(s, s, pscan.Add[int], workers, d)
			assert.Equal(t, want, s, "workers=%v dilatation=%v", workers, d)
		}
	}
}

func TestLinearLongerOutput(t *testing.T) {
	out := []int{0, 0, 0, 0, -1, -1}
	assert.Equal(t, 4, Linear([]int{1, 2, 3, 4}, out, pscan.Add[int], 2, 1))
	assert.Equal(t, []int{1, 3, 6, 10, -1, -1}, out)
}

func TestLinearFloat64(t *testing.T) {
	in := make([]float64, 100000)
	for i := range in {
		in[i] = rand.Float64()
	}
	want := floats.CumSum(make([]float64, len(in)), in)
	for _, workers := range []int{2, 3, 8} {
		assert.InDeltaSlice(t, want, linear(in, pscan.Add[float64], workers, 1.3), 1e-6, "workers=%v", workers)
	}
}

func TestLinearOperatorPanic(t *testing.T) {
	in := make([]int, 1000)
	in[700] = -1
	op := func(x, y int) int {
		if y < 0 {
			panic("negative element")
		}
		return x + y
	}
	assert.Panics(t, func() { Linear(in, make([]int, len(in)), op, 4, 1) })
	assert.Panics(t, func() { Linear(in, make([]int, len(in)), op, 1, 1) })
}

func TestLinearContractViolations(t *testing.T) {
	assert.Panics(t, func() { Linear([]int{1, 2, 3}, make([]int, 3), nil, 2, 1) })
	assert.Panics(t, func() { Linear([]int{1, 2, 3}, make([]int, 2), pscan.Add[int], 2, 1) })
	assert.Panics(t, func() { Linear(make([]int, 10), make([]int, 10), pscan.Add[int], -1, 1) })
	assert.Panics(t, func() { Linear(make([]int, 10), make([]int, 10), pscan.Add[int], 3, 0) })
}

func TestPartialSum(t *testing.T) {
	in := makeRandomSlice(3000, 1000)
	want := sequentialPartialSum(in, pscan.Add[int])

	s := config.Default()
	out := make([]int, len(in))
	require.Equal(t, len(in), PartialSum(in, out, pscan.Add[int], s))
	assert.Equal(t, want, out)

	s.MaxWorkers, s.Dilatation, s.MinimalN = 5, 2, 0
	out = make([]int, len(in))
	PartialSum(in, out, pscan.Add[int], s)
	assert.Equal(t, want, out)

	assert.Equal(t, want, Of(in, pscan.Add[int]))
	assert.Empty(t, Of([]int{}, pscan.Add[int]))
}

func TestPartialSumZeroSettings(t *testing.T) {
	in := makeRandomSlice(100, 1000)
	want := sequentialPartialSum(in, pscan.Add[int])
	for _, s := range []config.Settings{{}, {MaxWorkers: 4}, {MaxWorkers: 3, MinimalN: 10}} {
		out := make([]int, len(in))
		require.NotPanics(t, func() { PartialSum(in, out, pscan.Add[int], s) }, "settings %+v", s)
		assert.Equal(t, want, out, "settings %+v", s)
	}
}

func TestPartialSumInvalidSettings(t *testing.T) {
	for _, s := range []config.Settings{{MaxWorkers: -1}, {Dilatation: -2}, {MinimalN: -1}} {
		assert.Panics(t, func() { PartialSum(make([]int, 10), make([]int, 10), pscan.Add[int], s) }, "settings %+v", s)
	}
}

func TestPartialSumUnsupportedAlgorithm(t *testing.T) {
	for _, a := range []config.Algorithm{config.Recursive, config.Algorithm(42)} {
		s := config.Default()
		s.Algorithm = a
		assert.Panics(t, func() { PartialSum([]int{1, 2, 3}, make([]int, 3), pscan.Add[int], s) }, "algorithm %v", a)
		// even inputs that need no parallelism
		assert.Panics(t, func() { PartialSum([]int{}, []int{}, pscan.Add[int], s) }, "algorithm %v", a)
	}
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	linear(makeRandomSlice(100, 10), pscan.Add[int], 4, 1)
	linear([]int{1, 2}, pscan.Add[int], 4, 1)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "linear partial sum", entries[0].Message)
	assert.Equal(t, int64(4), entries[0].ContextMap()["workers"])
	assert.Equal(t, "sequential partial sum", entries[1].Message)
}

func BenchmarkLinear(b *testing.B) {
	in := makeRandomSlice(1<<20, 1000)
	out := make([]int, len(in))
	for _, workers := range []int{1, 2, 4, pscan.MaxWorkerCount()} {
		b.Run(strconv.Itoa(workers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				Linear(in, out, pscan.Add[int], workers, 1)
			}
		})
	}
}
