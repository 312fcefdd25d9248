package bench

import (
	"log/slog"
	"time"

	"github.com/san-kum/golbench/internal/grid"
	"github.com/san-kum/golbench/internal/metrics"
	"github.com/san-kum/golbench/internal/storage"
)

type Mode int

const (
	ModeBenchmark Mode = iota
	ModeInteractive
)

func (m Mode) String() string {
	switch m {
	case ModeBenchmark:
		return "benchmark"
	case ModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// RecordWriter persists one benchmark result.
type RecordWriter interface {
	Append(rec storage.Record) error
}

// Display renders generations in interactive mode. HandleEvents returns
// false once the user asked to quit.
type Display interface {
	Draw(g *grid.Grid) error
	HandleEvents() bool
	Tick(fps int)
	Cleanup() error
	GridDimensions() (rows, cols int)
}

type Options struct {
	Name       string
	Warmup     int
	Iterations int
	FPS        int

	Writer  RecordWriter
	Display Display
	Logger  *slog.Logger
}

type Result struct {
	Mode        Mode
	Name        string
	Strategy    string
	Cells       int
	Average     float64
	Iterations  int
	Samples     int
	Generations int
	Elapsed     time.Duration
	Stats       metrics.Stats
	Final       *grid.Grid
}

// Record converts a benchmark result to its persisted form.
func (r *Result) Record() storage.Record {
	return storage.Record{
		Name:       r.Name,
		Cells:      r.Cells,
		Average:    r.Average,
		Iterations: r.Iterations,
	}
}
