package bench

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/golbench/internal/compute"
	"github.com/san-kum/golbench/internal/grid"
	"github.com/san-kum/golbench/internal/metrics"
)

// Driver runs a strategy either as a timed benchmark or as an interactive
// animation. The recorder is only touched from the goroutine calling Run.
type Driver struct {
	mode     Mode
	strategy compute.Strategy
	recorder *metrics.Recorder
	opts     Options
	logger   *slog.Logger
}

func New(mode Mode, s compute.Strategy, rec *metrics.Recorder, opts Options) *Driver {
	if rec == nil {
		rec = metrics.NewRecorder()
	}
	if opts.Name == "" && s != nil {
		opts.Name = s.Name()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		mode:     mode,
		strategy: s,
		recorder: rec,
		opts:     opts,
		logger:   logger,
	}
}

func (d *Driver) Mode() Mode                  { return d.mode }
func (d *Driver) Recorder() *metrics.Recorder { return d.recorder }

// Run drives g until the run completes, the display quits or ctx ends. The
// strategy is cleaned up on every exit path.
func (d *Driver) Run(ctx context.Context, g *grid.Grid) (*Result, error) {
	if err := d.validate(g); err != nil {
		return nil, err
	}
	defer d.strategy.Cleanup()

	if d.mode == ModeInteractive {
		return d.runInteractive(ctx, g)
	}
	return d.runBenchmark(ctx, g)
}

func (d *Driver) validate(g *grid.Grid) error {
	if d.strategy == nil {
		return fmt.Errorf("%w: no strategy", ErrInvalidOptions)
	}
	if g == nil || !g.Valid() {
		return fmt.Errorf("%w: invalid initial grid", ErrInvalidOptions)
	}
	switch d.mode {
	case ModeBenchmark:
		if d.opts.Warmup < 0 {
			return fmt.Errorf("%w: warmup must be >= 0, got %d", ErrInvalidOptions, d.opts.Warmup)
		}
		if d.opts.Iterations < 1 {
			return fmt.Errorf("%w: iterations must be >= 1, got %d", ErrInvalidOptions, d.opts.Iterations)
		}
		if d.opts.Writer == nil {
			return fmt.Errorf("%w: benchmark mode needs a record writer", ErrInvalidOptions)
		}
	case ModeInteractive:
		if d.opts.Display == nil {
			return fmt.Errorf("%w: interactive mode needs a display", ErrInvalidOptions)
		}
		if d.opts.FPS < 1 {
			return fmt.Errorf("%w: fps must be >= 1, got %d", ErrInvalidOptions, d.opts.FPS)
		}
	default:
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidOptions, d.mode)
	}
	return nil
}

func (d *Driver) runBenchmark(ctx context.Context, g *grid.Grid) (*Result, error) {
	warmup, iters := d.opts.Warmup, d.opts.Iterations
	rec := d.recorder
	rec.Clear()
	step := Timed(d.strategy, rec)

	d.logger.Debug("benchmark started",
		"strategy", d.strategy.Name(),
		"rows", g.Rows(), "cols", g.Cols(),
		"warmup", warmup, "iterations", iters)

	cur := g
	start := time.Now()
	for i := 1; ; i++ {
		select {
		case <-ctx.Done():
			rec.Clear()
			return nil, ErrInterrupted
		default:
		}

		next, err := step.Update(cur)
		if err != nil {
			rec.Clear()
			return nil, &StepError{Iteration: i, Strategy: d.strategy.Name(), Err: err}
		}
		cur = next

		if i < warmup {
			continue
		}
		if i == warmup {
			rec.Clear()
			d.logger.Debug("warmup complete", "iteration", i)
			continue
		}
		if i-warmup < iters {
			continue
		}

		res := &Result{
			Mode:        ModeBenchmark,
			Name:        d.opts.Name,
			Strategy:    d.strategy.Name(),
			Cells:       g.Len(),
			Average:     rec.Average(),
			Iterations:  iters,
			Samples:     rec.Len(),
			Generations: i,
			Elapsed:     time.Since(start),
			Stats:       rec.Summary(),
			Final:       cur,
		}
		rec.Clear()

		if err := d.opts.Writer.Append(res.Record()); err != nil {
			return res, fmt.Errorf("write record: %w", err)
		}
		d.logger.Debug("benchmark finished", "average", res.Average, "elapsed", res.Elapsed)
		return res, nil
	}
}

func (d *Driver) runInteractive(ctx context.Context, g *grid.Grid) (*Result, error) {
	disp := d.opts.Display
	defer func() {
		if err := disp.Cleanup(); err != nil {
			d.logger.Warn("display cleanup failed", "error", err)
		}
	}()

	d.recorder.Disable()

	res := &Result{
		Mode:     ModeInteractive,
		Name:     d.opts.Name,
		Strategy: d.strategy.Name(),
		Cells:    g.Len(),
	}
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	if err := disp.Draw(g); err != nil {
		return nil, fmt.Errorf("draw: %w", err)
	}

	cur := g
	for i := 1; ; i++ {
		select {
		case <-ctx.Done():
			return nil, ErrInterrupted
		default:
		}

		next, err := d.strategy.Update(cur)
		if err != nil {
			return nil, &StepError{Iteration: i, Strategy: d.strategy.Name(), Err: err}
		}
		cur = next
		res.Generations = i
		res.Final = cur

		if err := disp.Draw(cur); err != nil {
			return nil, fmt.Errorf("draw: %w", err)
		}
		if !disp.HandleEvents() {
			return res, nil
		}
		disp.Tick(d.opts.FPS)
	}
}
