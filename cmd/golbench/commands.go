package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/san-kum/golbench/internal/bench"
	"github.com/san-kum/golbench/internal/compute"
	"github.com/san-kum/golbench/internal/config"
	"github.com/san-kum/golbench/internal/grid"
	"github.com/san-kum/golbench/internal/metrics"
	"github.com/san-kum/golbench/internal/report"
	"github.com/san-kum/golbench/internal/storage"
)

// availableCandidates lists every registered strategy that can run here.
// Each candidate builds a fresh instance per verified grid.
func availableCandidates(opts compute.Options, skip ...string) []bench.Candidate {
	var out []bench.Candidate
	for _, n := range compute.Names() {
		if containsString(skip, n) {
			continue
		}
		s, err := newStrategy(n, opts)
		if err != nil {
			continue
		}
		s.Cleanup()
		out = append(out, bench.Candidate{
			Name: n,
			New:  func() (compute.Strategy, error) { return newStrategy(n, opts) },
		})
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func verifyStrategies(cmd *cobra.Command, args []string) error {
	_, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	candidates := availableCandidates(compute.Options{Workers: workers}, "scalar")

	corpus := bench.DefaultCorpus(seed)
	fmt.Printf("verifying %d strategies on %d grids, %d generations each\n\n", len(candidates), len(corpus), generations)

	v := bench.NewVerifier(compute.NewScalar(), generations)
	mismatches, err := v.Run(ctx, corpus, candidates)
	if errors.Is(err, bench.ErrInterrupted) {
		fmt.Println("\nverification stopped by user")
		return nil
	}
	if err != nil {
		return err
	}

	failed := make(map[string]int)
	for _, m := range mismatches {
		failed[m.Strategy]++
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STRATEGY\tCASES\tSTATUS")
	for _, c := range candidates {
		status := "ok"
		if n := failed[c.Name]; n > 0 {
			status = fmt.Sprintf("FAIL (%d)", n)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", c.Name, len(corpus), status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(mismatches) > 0 {
		fmt.Println()
		for _, m := range mismatches {
			fmt.Printf("  %s\n", m)
		}
		return fmt.Errorf("%d mismatches", len(mismatches))
	}
	return nil
}

func reportResults(cmd *cobra.Command, args []string) error {
	_, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	path := config.DefaultOutput
	if len(args) > 0 {
		path = args[0]
	}
	log := storage.NewCSVLog(path)
	opts := report.Options{
		Baseline: baseline,
		Color:    isatty.IsTerminal(os.Stdout.Fd()),
	}

	render := func() error {
		records, err := log.ReadAll()
		if err != nil {
			return err
		}
		if watch {
			fmt.Print("\033[H\033[2J")
			fmt.Printf("%s (watching, ctrl+c to stop)\n\n", path)
		}
		return report.Render(os.Stdout, records, opts)
	}

	if err := render(); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return report.Watch(ctx, path, report.DefaultDebounce, render)
}

func sweepStrategies(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	names := args
	if len(names) == 0 {
		names = []string{"scalar", "conv", "fft", "parallel", "device"}
	}
	for _, n := range sizes {
		if n < 1 {
			return fmt.Errorf("%w: size %d", config.ErrInvalidConfig, n)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := storage.NewCSVLog(outputFile)
	rec := metrics.NewRecorder()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STRATEGY\tSIZE\tCELLS\tAVG (s)\tMIN (s)\tMAX (s)")

	for _, n := range names {
		for _, side := range sizes {
			strategy, err := newStrategy(n, compute.Options{Workers: workers})
			if err != nil {
				logger.Warn("skipping strategy", "strategy", n, "error", err)
				break
			}

			g, err := grid.Random(side, side, seed)
			if err != nil {
				strategy.Cleanup()
				return err
			}

			d := bench.New(bench.ModeBenchmark, strategy, rec, bench.Options{
				Name:       n,
				Warmup:     sweepWarmup,
				Iterations: sweepIters,
				Writer:     out,
				Logger:     logger,
			})
			res, err := d.Run(ctx, g)
			if errors.Is(err, bench.ErrInterrupted) {
				w.Flush()
				fmt.Println("\nSimulation stopped by user")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%dx%d\t%d\t%.6f\t%.6f\t%.6f\n",
				n, side, side, res.Cells, res.Average, res.Stats.Min, res.Stats.Max)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nresults appended to %s\n", outputFile)
	return nil
}

func listStrategies(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tAVAILABLE\tDETAIL")
	for _, n := range compute.Names() {
		s, err := compute.New(n, compute.Options{})
		if err != nil {
			fmt.Fprintf(w, "%s\tno\t%s\n", n, firstLine(err.Error()))
			continue
		}
		avail := "no"
		if s.Available() {
			avail = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", n, avail, s.Name())
		s.Cleanup()
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tGRID\tCELL\tWARMUP\tITERS\tSHOW")
	for _, p := range config.ListPresets() {
		cfg, err := config.GetPreset(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%d\t%d\t%v\n",
			p, cfg.Rows(), cfg.Cols(), cfg.CellSize, cfg.Warmup, cfg.Iterations, cfg.Show)
	}
	return w.Flush()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
