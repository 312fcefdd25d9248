package bench

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/golbench/internal/compute"
	"github.com/san-kum/golbench/internal/grid"
	"github.com/san-kum/golbench/internal/logging"
	"github.com/san-kum/golbench/internal/metrics"
	"github.com/san-kum/golbench/internal/storage"
)

type memWriter struct {
	records []storage.Record
	err     error
}

func (m *memWriter) Append(rec storage.Record) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

type countingStrategy struct {
	compute.Strategy
	calls    int
	cleanups int
	failAt   int
	onUpdate func(call int)
}

func newCounting() *countingStrategy {
	return &countingStrategy{Strategy: compute.NewScalar()}
}

func (c *countingStrategy) Update(g *grid.Grid) (*grid.Grid, error) {
	c.calls++
	if c.onUpdate != nil {
		c.onUpdate(c.calls)
	}
	if c.failAt > 0 && c.calls == c.failAt {
		return nil, errors.New("kernel fault")
	}
	return c.Strategy.Update(g)
}

func (c *countingStrategy) Cleanup() { c.cleanups++ }

func randomGrid(t *testing.T, rows, cols int) *grid.Grid {
	t.Helper()
	g, err := grid.Random(rows, cols, grid.DefaultSeed)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestDriver_TimingIsolation(t *testing.T) {
	s := newCounting()
	w := &memWriter{}
	rec := metrics.NewRecorder()
	d := New(ModeBenchmark, s, rec, Options{Warmup: 5, Iterations: 10, Writer: w, Logger: logging.Discard()})

	res, err := d.Run(context.Background(), randomGrid(t, 16, 16))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if res.Samples != 10 {
		t.Errorf("expected 10 samples, got %d", res.Samples)
	}
	if res.Iterations != 10 {
		t.Errorf("expected iterations 10, got %d", res.Iterations)
	}
	if res.Generations != 15 || s.calls != 15 {
		t.Errorf("expected 15 updates, got generations=%d calls=%d", res.Generations, s.calls)
	}
	if rec.Len() != 0 {
		t.Errorf("recorder should be cleared after the run, has %d", rec.Len())
	}
	if s.cleanups != 1 {
		t.Errorf("expected one cleanup, got %d", s.cleanups)
	}
}

func TestDriver_SampleCount(t *testing.T) {
	tests := []struct {
		warmup, iters int
	}{
		{0, 1},
		{0, 7},
		{1, 4},
		{3, 3},
	}

	for _, tt := range tests {
		w := &memWriter{}
		d := New(ModeBenchmark, compute.NewScalar(), nil, Options{Warmup: tt.warmup, Iterations: tt.iters, Writer: w, Logger: logging.Discard()})
		res, err := d.Run(context.Background(), randomGrid(t, 8, 8))
		if err != nil {
			t.Fatalf("W=%d M=%d: %v", tt.warmup, tt.iters, err)
		}
		if res.Samples != tt.iters {
			t.Errorf("W=%d M=%d: expected %d samples, got %d", tt.warmup, tt.iters, tt.iters, res.Samples)
		}
		wantGen := tt.warmup + tt.iters
		if res.Generations != wantGen {
			t.Errorf("W=%d M=%d: expected %d generations, got %d", tt.warmup, tt.iters, wantGen, res.Generations)
		}
	}
}

func TestDriver_EndToEndCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	log := storage.NewCSVLog(path)
	s := compute.NewScalar()
	d := New(ModeBenchmark, s, metrics.NewRecorder(), Options{Name: "scalar", Warmup: 2, Iterations: 3, Writer: log, Logger: logging.Discard()})

	initial := randomGrid(t, 10, 10)
	res, err := d.Run(context.Background(), initial)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one row, got %d: %q", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "scalar,100,") || !strings.HasSuffix(lines[0], ",3") {
		t.Errorf("unexpected row %q", lines[0])
	}

	records, err := log.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if records[0].Average < 0 || records[0].Average != res.Average {
		t.Errorf("expected average %v, got %v", res.Average, records[0].Average)
	}

	// Five generations of the reference implementation.
	want := initial
	for i := 0; i < 5; i++ {
		want, _ = compute.NewScalar().Update(want)
	}
	if !res.Final.Equal(want) {
		t.Error("final grid does not match five scalar generations")
	}
}

func TestDriver_DefaultNameFromStrategy(t *testing.T) {
	w := &memWriter{}
	d := New(ModeBenchmark, compute.NewConv(), nil, Options{Iterations: 1, Writer: w, Logger: logging.Discard()})
	if _, err := d.Run(context.Background(), randomGrid(t, 4, 4)); err != nil {
		t.Fatal(err)
	}
	if w.records[0].Name != "conv" {
		t.Errorf("expected name conv, got %s", w.records[0].Name)
	}
}

func TestDriver_StepErrorWritesNothing(t *testing.T) {
	s := newCounting()
	s.failAt = 4
	w := &memWriter{}
	d := New(ModeBenchmark, s, nil, Options{Warmup: 2, Iterations: 5, Writer: w, Logger: logging.Discard()})

	_, err := d.Run(context.Background(), randomGrid(t, 8, 8))

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if stepErr.Iteration != 4 {
		t.Errorf("expected failure at iteration 4, got %d", stepErr.Iteration)
	}
	if len(w.records) != 0 {
		t.Errorf("expected no records, got %d", len(w.records))
	}
	if s.cleanups != 1 {
		t.Error("strategy cleanup skipped on error")
	}
}

func TestDriver_CancelWritesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newCounting()
	s.onUpdate = func(call int) {
		if call == 3 {
			cancel()
		}
	}
	w := &memWriter{}
	d := New(ModeBenchmark, s, nil, Options{Warmup: 2, Iterations: 100, Writer: w, Logger: logging.Discard()})

	_, err := d.Run(ctx, randomGrid(t, 8, 8))
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted, got %v", err)
	}
	if len(w.records) != 0 {
		t.Errorf("expected no records, got %d", len(w.records))
	}
	if s.calls != 3 {
		t.Errorf("expected run to stop after 3 updates, got %d", s.calls)
	}
	if s.cleanups != 1 {
		t.Error("strategy cleanup skipped on interrupt")
	}
}

func TestDriver_WriteError(t *testing.T) {
	w := &memWriter{err: errors.New("disk full")}
	d := New(ModeBenchmark, compute.NewScalar(), nil, Options{Iterations: 2, Writer: w, Logger: logging.Discard()})

	res, err := d.Run(context.Background(), randomGrid(t, 4, 4))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected write error, got %v", err)
	}
	if res == nil || res.Samples != 2 {
		t.Error("expected result alongside write error")
	}
}

func TestDriver_InvalidOptions(t *testing.T) {
	g := randomGrid(t, 4, 4)
	tests := []struct {
		name string
		d    *Driver
	}{
		{"negative warmup", New(ModeBenchmark, compute.NewScalar(), nil, Options{Warmup: -1, Iterations: 1, Writer: &memWriter{}})},
		{"zero iterations", New(ModeBenchmark, compute.NewScalar(), nil, Options{Iterations: 0, Writer: &memWriter{}})},
		{"no writer", New(ModeBenchmark, compute.NewScalar(), nil, Options{Iterations: 1})},
		{"no display", New(ModeInteractive, compute.NewScalar(), nil, Options{FPS: 60})},
		{"zero fps", New(ModeInteractive, compute.NewScalar(), nil, Options{Display: &fakeDisplay{}})},
		{"no strategy", New(ModeBenchmark, nil, nil, Options{Iterations: 1, Writer: &memWriter{}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.d.Run(context.Background(), g); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("expected ErrInvalidOptions, got %v", err)
			}
		})
	}
}

type fakeDisplay struct {
	draws   int
	ticks   int
	quitAt  int
	cleaned bool
	lastFPS int
	drawErr error
}

func (f *fakeDisplay) Draw(*grid.Grid) error {
	f.draws++
	return f.drawErr
}

func (f *fakeDisplay) HandleEvents() bool { return f.draws <= f.quitAt }

func (f *fakeDisplay) Tick(fps int) {
	f.ticks++
	f.lastFPS = fps
}

func (f *fakeDisplay) Cleanup() error {
	f.cleaned = true
	return nil
}

func (f *fakeDisplay) GridDimensions() (int, int) { return 8, 8 }

func TestDriver_Interactive(t *testing.T) {
	disp := &fakeDisplay{quitAt: 4}
	rec := metrics.NewRecorder()
	s := newCounting()
	d := New(ModeInteractive, s, rec, Options{FPS: 30, Display: disp, Logger: logging.Discard()})

	res, err := d.Run(context.Background(), randomGrid(t, 8, 8))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// Initial draw plus one per generation; quits once draws exceed 4.
	if res.Generations != 4 {
		t.Errorf("expected 4 generations, got %d", res.Generations)
	}
	if disp.ticks != 3 || disp.lastFPS != 30 {
		t.Errorf("expected 3 ticks at 30 fps, got %d at %d", disp.ticks, disp.lastFPS)
	}
	if !disp.cleaned {
		t.Error("display cleanup not called")
	}
	if rec.Enabled() || rec.Len() != 0 {
		t.Error("recorder should be disabled and empty in interactive mode")
	}
	if s.cleanups != 1 {
		t.Error("strategy cleanup not called")
	}
}

func TestDriver_InteractiveCleanupOnError(t *testing.T) {
	disp := &fakeDisplay{quitAt: 100}
	s := newCounting()
	s.failAt = 2
	d := New(ModeInteractive, s, nil, Options{FPS: 60, Display: disp, Logger: logging.Discard()})

	_, err := d.Run(context.Background(), randomGrid(t, 8, 8))
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if !disp.cleaned {
		t.Error("display cleanup skipped on error")
	}
}

func TestDriver_InteractiveCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	disp := &fakeDisplay{quitAt: 100}
	d := New(ModeInteractive, compute.NewScalar(), nil, Options{FPS: 60, Display: disp, Logger: logging.Discard()})

	if _, err := d.Run(ctx, randomGrid(t, 8, 8)); !errors.Is(err, ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted, got %v", err)
	}
	if !disp.cleaned {
		t.Error("display cleanup skipped on interrupt")
	}
}

func TestTimed_RecordsEveryCall(t *testing.T) {
	rec := metrics.NewRecorder()
	s := newCounting()
	s.failAt = 2
	timed := Timed(s, rec)
	g := randomGrid(t, 4, 4)

	_, _ = timed.Update(g)
	_, _ = timed.Update(g)
	_, _ = timed.Update(g)

	if rec.Len() != 3 {
		t.Errorf("expected 3 samples including the failed call, got %d", rec.Len())
	}
	if timed.Name() != "scalar" {
		t.Errorf("decorator should keep the strategy name, got %s", timed.Name())
	}
}
