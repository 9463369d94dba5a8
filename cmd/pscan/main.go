// Command pscan computes prefix sums from the command line and benchmarks
// the parallel scan against its sequential counterparts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/exascience/pscan/config"
	"github.com/exascience/pscan/scan"
)

var (
	// Global flags
	verbose    bool
	configPath string
	workers    int
	dilatation float64
	algorithm  string
	minimalN   int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pscan",
	Short: "Parallel prefix sums",
	Long: `pscan computes inclusive prefix sums (scans) with a parallel two-phase
algorithm and compares it against sequential implementations.

Settings are taken from the defaults, then from the YAML file given with
--config, and finally from the command line flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		scan.SetLogger(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "log scan dispatch decisions")
	flags.StringVarP(&configPath, "config", "c", "", "YAML settings file")
	flags.IntVarP(&workers, "workers", "w", 0, "maximum number of workers (0 means GOMAXPROCS)")
	flags.Float64VarP(&dilatation, "dilatation", "d", 1.0, "chunk size skew for the first worker")
	flags.StringVarP(&algorithm, "algorithm", "a", "linear", "parallel algorithm")
	flags.IntVar(&minimalN, "minimal-n", 1000, "input size below which scans run sequentially")

	rootCmd.AddCommand(runCmd, benchCmd)
}

// loadSettings combines defaults, the settings file, and explicitly set flags.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	s := config.Default()
	if configPath != "" {
		var err error
		if s, err = config.Load(configPath); err != nil {
			return config.Settings{}, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("workers") {
		s.MaxWorkers = workers
	}
	if flags.Changed("dilatation") {
		s.Dilatation = dilatation
	}
	if flags.Changed("algorithm") {
		a, err := config.ParseAlgorithm(algorithm)
		if err != nil {
			return config.Settings{}, err
		}
		s.Algorithm = a
	}
	if flags.Changed("minimal-n") {
		s.MinimalN = minimalN
	}
	if err := s.Validate(); err != nil {
		return config.Settings{}, err
	}
	logger.Debug("settings",
		zap.Int("maxWorkers", s.MaxWorkers),
		zap.Int("workers", s.Workers()),
		zap.Float64("dilatation", s.Dilatation),
		zap.Stringer("algorithm", s.Algorithm),
		zap.Int("minimalN", s.MinimalN))
	return s, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
