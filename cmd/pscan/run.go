package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/exascience/pscan"
	"github.com/exascience/pscan/config"
	"github.com/exascience/pscan/scan"
)

var operator string

var runCmd = &cobra.Command{
	Use:   "run [values...]",
	Short: "Print the prefix sums of the given values",
	Long: `Run prints the inclusive prefix sums of its arguments, one per line.
Without arguments, whitespace separated values are read from standard input.

The operator is one of add, mul, min, max (integer values) or concat
(arbitrary strings).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			if args, err = readFields(cmd.InOrStdin()); err != nil {
				return err
			}
		}
		logger.Debug("running", zap.String("operator", operator), zap.Int("n", len(args)))
		return runScan(cmd.OutOrStdout(), args, operator, s)
	},
}

func init() {
	runCmd.Flags().StringVarP(&operator, "op", "o", "add", "combining operator: add, mul, min, max, concat")
}

func readFields(r io.Reader) ([]string, error) {
	var fields []string
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		fields = append(fields, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return fields, nil
}

func intOperator(name string) (func(x, y int64) int64, bool) {
	switch name {
	case "add":
		return pscan.Add[int64], true
	case "mul":
		return pscan.Mul[int64], true
	case "min":
		return pscan.Min[int64], true
	case "max":
		return pscan.Max[int64], true
	}
	return nil, false
}

func runScan(w io.Writer, args []string, op string, s config.Settings) error {
	bw := bufio.NewWriter(w)
	if op == "concat" {
		out := make([]string, len(args))
		scan.PartialSum(args, out, pscan.Concat, s)
		for _, v := range out {
			fmt.Fprintln(bw, v)
		}
		return bw.Flush()
	}

	f, ok := intOperator(op)
	if !ok {
		return fmt.Errorf("unknown operator %q", op)
	}
	in := make([]int64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value at position %d: %w", i, err)
		}
		in[i] = v
	}
	scan.PartialSum(in, in, f, s)
	for _, v := range in {
		fmt.Fprintln(bw, v)
	}
	return bw.Flush()
}
