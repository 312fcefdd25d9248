package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/san-kum/golbench/internal/bench"
	"github.com/san-kum/golbench/internal/compute"
	"github.com/san-kum/golbench/internal/config"
	"github.com/san-kum/golbench/internal/grid"
	"github.com/san-kum/golbench/internal/gui"
	"github.com/san-kum/golbench/internal/metrics"
	"github.com/san-kum/golbench/internal/storage"
	"github.com/san-kum/golbench/internal/viz"
)

// loadRunConfig layers defaults, preset, config file and explicit flags in
// that order.
func loadRunConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("cell-size") {
		cfg.CellSize = cellSize
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("show") {
		cfg.Show = show
	}
	if flags.Changed("warmup") {
		cfg.Warmup = warmup
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("output") {
		cfg.Output = outputFile
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if len(args) > 0 {
		cfg.Strategy = args[0]
	}
	switch {
	case flags.Changed("name"):
		cfg.Name = name
	case !cfg.IsSet("name"):
		cfg.Name = cfg.Strategy
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newStrategy(name string, opts compute.Options) (compute.Strategy, error) {
	if name == "auto" {
		return compute.AutoSelect(opts), nil
	}
	s, err := compute.New(name, opts)
	if err != nil {
		return nil, err
	}
	if !s.Available() {
		s.Cleanup()
		return nil, fmt.Errorf("%w: %s", compute.ErrNoDevice, name)
	}
	return s, nil
}

func newDisplay(cfg *config.Config, logger *slog.Logger) (bench.Display, error) {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return nil, errors.New("--show needs a terminal on stdout")
	}
	if window {
		w, err := gui.NewWindow(cfg.Width, cfg.Height, cfg.CellSize, gui.DefaultTitle)
		if err == nil {
			return w, nil
		}
		logger.Warn("native window unavailable, using terminal", "error", err)
	}
	return viz.NewTerminalDisplay(cfg.Width, cfg.Height, cfg.CellSize,
		viz.WithTitle(gui.DefaultTitle), viz.WithTheme(theme)), nil
}

// serveMetrics exports rec on addr until the returned stop is called; stop
// blocks until the server has shut down.
func serveMetrics(ctx context.Context, rec *metrics.Recorder, strategy, addr string, logger *slog.Logger) (stop func()) {
	exporter := metrics.NewExporter(nil)
	rec.SetObserver(exporter.Observer(strategy))

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := exporter.Serve(ctx, addr); err != nil {
			logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)

	return func() {
		cancel()
		<-done
	}
}

func runStrategy(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadRunConfig(cmd, args)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	logger = logger.With("run_id", runID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec := metrics.NewRecorder()
	if metricsAdr != "" {
		defer serveMetrics(ctx, rec, cfg.Strategy, metricsAdr, logger)()
	}

	mode := bench.ModeBenchmark
	rows, cols := cfg.Rows(), cfg.Cols()
	opts := bench.Options{
		Name:       cfg.Name,
		Warmup:     cfg.Warmup,
		Iterations: cfg.Iterations,
		FPS:        cfg.FPS,
		Logger:     logger,
	}

	// The display comes first so a GPU strategy can share its GL context.
	if cfg.Show {
		fmt.Println("Warning: Performance measurements are not enabled when visualization is enabled.")
		disp, err := newDisplay(cfg, logger)
		if err != nil {
			return err
		}
		mode = bench.ModeInteractive
		rows, cols = disp.GridDimensions()
		opts.Display = disp
	} else {
		opts.Writer = storage.NewCSVLog(cfg.Output)
	}

	strategy, err := newStrategy(cfg.Strategy, compute.Options{Workers: cfg.Workers})
	if err != nil {
		if opts.Display != nil {
			opts.Display.Cleanup()
		}
		return err
	}

	fmt.Printf("Initializing grid with %d cells\n", rows*cols)
	g, err := grid.Random(rows, cols, cfg.Seed)
	if err != nil {
		strategy.Cleanup()
		if opts.Display != nil {
			opts.Display.Cleanup()
		}
		return err
	}

	logger.Info("run starting",
		"mode", mode,
		"strategy", strategy.Name(),
		"rows", rows, "cols", cols,
		"seed", cfg.Seed)

	start := time.Now()
	driver := bench.New(mode, strategy, rec, opts)
	res, err := driver.Run(ctx, g)
	if err != nil {
		if errors.Is(err, bench.ErrInterrupted) {
			fmt.Println("\nSimulation stopped by user")
			return nil
		}
		var stepErr *bench.StepError
		if errors.As(err, &stepErr) {
			logger.Error("update failed", "iteration", stepErr.Iteration, "strategy", stepErr.Strategy, "error", stepErr.Err)
		}
		return err
	}

	if mode == bench.ModeInteractive {
		logger.Info("display closed", "generations", res.Generations, "elapsed", res.Elapsed)
		return nil
	}

	fmt.Printf("Average update time per iteration after %d iterations: %.6f seconds\n", res.Iterations, res.Average)
	logger.Info("run finished",
		"average", res.Average,
		"min", res.Stats.Min,
		"max", res.Stats.Max,
		"output", cfg.Output,
		"elapsed", time.Since(start))

	if jsonOut != "" {
		summary := storage.RunSummary{
			ID:         runID,
			Name:       res.Name,
			Strategy:   res.Strategy,
			Rows:       rows,
			Cols:       cols,
			Seed:       cfg.Seed,
			Warmup:     cfg.Warmup,
			Iterations: res.Iterations,
			Average:    res.Average,
			Min:        res.Stats.Min,
			Max:        res.Stats.Max,
			StdDev:     res.Stats.StdDev,
			Elapsed:    res.Elapsed.Seconds(),
			Timestamp:  time.Now(),
		}
		if jsonOut == "-" {
			return storage.WriteJSON(os.Stdout, summary)
		}
		return storage.ExportJSON(jsonOut, summary)
	}
	return nil
}
