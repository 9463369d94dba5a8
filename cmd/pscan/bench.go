package main

import (
	"fmt"
	"io"
	"math/rand"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/exascience/pscan"
	"github.com/exascience/pscan/config"
	"github.com/exascience/pscan/scan"
	"github.com/exascience/pscan/sequential"
)

var (
	benchSize   int
	benchRepeat int
	benchSeed   int64
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare parallel and sequential prefix sums",
	Long: `Bench times the parallel partial sum against the sequential one on random
int64 input, and against gonum's floats.CumSum on random float64 input. The
integer results are checked for equality, the float results for a small
relative difference, since reassociation changes rounding.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		if benchSize < 0 || benchRepeat < 1 {
			return fmt.Errorf("invalid size %v or repeat count %v", benchSize, benchRepeat)
		}
		return bench(cmd.OutOrStdout(), benchSize, benchRepeat, benchSeed, s)
	},
}

func init() {
	flags := benchCmd.Flags()
	flags.IntVarP(&benchSize, "size", "n", 1<<22, "number of elements")
	flags.IntVarP(&benchRepeat, "repeat", "r", 5, "number of timed runs per variant, the fastest one is reported")
	flags.Int64Var(&benchSeed, "seed", 1, "random seed for the input")
}

func fastest(repeat int, f func()) time.Duration {
	best := time.Duration(1<<63 - 1)
	for i := 0; i < repeat; i++ {
		start := time.Now()
		f()
		best = min(best, time.Since(start))
	}
	return best
}

// sameFloats reports the first index where got differs from want by more
// than a small absolute or relative tolerance, or -1.
func sameFloats(want, got []float64) int {
	for i := range want {
		if !scalar.EqualWithinAbsOrRel(want[i], got[i], 1e-6, 1e-6) {
			return i
		}
	}
	return -1
}

func bench(w io.Writer, n, repeat int, seed int64, s config.Settings) error {
	rnd := rand.New(rand.NewSource(seed))
	ints := make([]int64, n)
	for i := range ints {
		ints[i] = rnd.Int63n(1000)
	}
	flts := make([]float64, n)
	for i := range flts {
		flts[i] = rnd.Float64()
	}

	seqInts := make([]int64, n)
	parInts := make([]int64, n)
	seqFlts := make([]float64, n)
	parFlts := make([]float64, n)

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "variant\telements\tworkers\ttime\n")
	report := func(variant string, workers int, d time.Duration) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%v\n", variant, n, workers, d)
		logger.Info("bench",
			zap.String("variant", variant),
			zap.Int("n", n),
			zap.Int("workers", workers),
			zap.Duration("time", d))
	}

	report("sequential int64", 1, fastest(repeat, func() {
		sequential.PartialSum(ints, seqInts, pscan.Add[int64])
	}))
	report("parallel int64", s.Workers(), fastest(repeat, func() {
		scan.PartialSum(ints, parInts, pscan.Add[int64], s)
	}))
	report("gonum float64", 1, fastest(repeat, func() {
		floats.CumSum(seqFlts, flts)
	}))
	report("parallel float64", s.Workers(), fastest(repeat, func() {
		scan.PartialSum(flts, parFlts, pscan.Add[float64], s)
	}))
	if err := tw.Flush(); err != nil {
		return err
	}

	if !slices.Equal(seqInts, parInts) {
		return fmt.Errorf("parallel int64 result differs from sequential result")
	}
	if i := sameFloats(seqFlts, parFlts); i >= 0 {
		return fmt.Errorf("parallel float64 result differs at %d: %v != %v", i, parFlts[i], seqFlts[i])
	}
	return nil
}
