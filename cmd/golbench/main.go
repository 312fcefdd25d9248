package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/golbench/internal/config"
	"github.com/san-kum/golbench/internal/logging"
)

var (
	logLevel string
	logFile  string

	width      int
	height     int
	cellSize   int
	fps        int
	show       bool
	window     bool
	warmup     int
	iterations int
	outputFile string
	name       string
	seed       int64
	workers    int
	configFile string
	preset     string
	metricsAdr string
	jsonOut    string
	theme      string

	watch    bool
	baseline string

	generations int
	sizes       []int
	sweepWarmup int
	sweepIters  int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "golbench",
		Short:         "game of life update strategy benchmark",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file")

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "check every available strategy against the scalar reference",
		Args:  cobra.NoArgs,
		RunE:  verifyStrategies,
	}
	verifyCmd.Flags().IntVar(&generations, "generations", 16, "generations per corpus grid")
	verifyCmd.Flags().Int64Var(&seed, "seed", 0, "seed for the random corpus grids")
	verifyCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all CPUs)")

	reportCmd := &cobra.Command{
		Use:   "report [csv]",
		Short: "summarize a results file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  reportResults,
	}
	reportCmd.Flags().BoolVar(&watch, "watch", false, "re-render whenever the file changes")
	reportCmd.Flags().StringVar(&baseline, "baseline", "scalar", "experiment to compute speedups against")

	sweepCmd := &cobra.Command{
		Use:   "sweep [strategy...]",
		Short: "benchmark strategies over a range of square grid sizes",
		RunE:  sweepStrategies,
	}
	sweepCmd.Flags().IntSliceVar(&sizes, "sizes", []int{64, 128, 256, 512, 1024}, "grid side lengths")
	sweepCmd.Flags().IntVar(&sweepWarmup, "warmup", 10, "number of warmup iterations")
	sweepCmd.Flags().IntVar(&sweepIters, "iterations", 50, "number of measured iterations")
	sweepCmd.Flags().StringVar(&outputFile, "output", config.DefaultOutput, "results CSV to append to")
	sweepCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for the initial grids")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all CPUs)")

	strategiesCmd := &cobra.Command{
		Use:   "strategies",
		Short: "list update strategies and whether they can run here",
		Args:  cobra.NoArgs,
		RunE:  listStrategies,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(newRunCmd(), verifyCmd, reportCmd, sweepCmd, strategiesCmd, presetsCmd)
	return rootCmd
}

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [strategy]",
		Short: "benchmark or animate one update strategy",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStrategy,
	}
	runCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "width of the area in pixels")
	runCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "height of the area in pixels")
	runCmd.Flags().IntVar(&cellSize, "cell-size", config.DefaultCellSize, "size of each cell in pixels")
	runCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frames per second when showing")
	runCmd.Flags().BoolVar(&show, "show", false, "show the visualization (disables measurements)")
	runCmd.Flags().BoolVar(&window, "window", false, "with --show, use a native window instead of the terminal")
	runCmd.Flags().IntVar(&warmup, "warmup", config.DefaultWarmup, "number of warmup iterations")
	runCmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "number of measured iterations")
	runCmd.Flags().StringVar(&outputFile, "output", config.DefaultOutput, "results CSV to append to")
	runCmd.Flags().StringVar(&name, "name", "", "experiment name (default: strategy name)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for the initial grid")
	runCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all CPUs)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&metricsAdr, "metrics-addr", "", "serve prometheus metrics on this address")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "write a JSON run summary to this path (- for stdout)")
	runCmd.Flags().StringVar(&theme, "theme", "minimal", "terminal display theme")
	return runCmd
}

func newLogger() (*slog.Logger, func() error, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return nil, nil, err
	}
	logger, closeFn, err := logging.New(logging.Config{Level: level, File: logFile})
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return logger, closeFn, nil
}
