// Package report summarizes the benchmark results log as tables and ASCII
// plots, one series per experiment name.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/golbench/internal/storage"
)

type Options struct {
	// Baseline names the experiment speedups are computed against. Empty
	// disables the speedup table.
	Baseline string
	Color    bool
	Width    int
	Height   int
}

func (o Options) plotSize() (w, h int) {
	w, h = o.Width, o.Height
	if w <= 0 {
		w = 60
	}
	if h <= 0 {
		h = 12
	}
	return w, h
}

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Cyan,
	asciigraph.Yellow,
	asciigraph.Green,
	asciigraph.Magenta,
	asciigraph.Red,
	asciigraph.Blue,
}

// Point is the mean of every row sharing an experiment name and grid size.
type Point struct {
	Cells      int
	Average    float64
	Iterations int
	Runs       int
}

type Series struct {
	Name   string
	Points []Point
}

// Summarize groups records by name and averages repeated runs of the same
// grid size. Points are sorted by cell count.
func Summarize(records []storage.Record) []Series {
	groups := storage.GroupByName(records)
	out := make([]Series, 0, len(groups))
	for _, g := range groups {
		byCells := make(map[int]*Point)
		for _, rec := range g.Records {
			p, ok := byCells[rec.Cells]
			if !ok {
				p = &Point{Cells: rec.Cells}
				byCells[rec.Cells] = p
			}
			p.Average += rec.Average
			p.Iterations += rec.Iterations
			p.Runs++
		}

		points := make([]Point, 0, len(byCells))
		for _, p := range byCells {
			p.Average /= float64(p.Runs)
			points = append(points, *p)
		}
		sort.Slice(points, func(i, j int) bool { return points[i].Cells < points[j].Cells })
		out = append(out, Series{Name: g.Name, Points: points})
	}
	return out
}

// Render writes the results table, an optional speedup table and a
// log-scale plot of average update time against grid size.
func Render(w io.Writer, records []storage.Record, opts Options) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "no results")
		return err
	}
	series := Summarize(records)

	heading := func(s string) string { return s }
	if opts.Color {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
		heading = func(s string) string { return style.Render(s) }
	}

	fmt.Fprintln(w, heading("results"))
	if err := writeResults(w, series); err != nil {
		return err
	}

	if opts.Baseline != "" {
		if rows := Speedups(series, opts.Baseline); len(rows) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, heading("speedup vs "+opts.Baseline))
			if err := writeSpeedups(w, rows); err != nil {
				return err
			}
		}
	}

	if graph := Plot(series, opts); graph != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, graph)
	}
	return nil
}

func writeResults(out io.Writer, series []Series) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCELLS\tAVG (s)\tITERS\tRUNS\tCELLS/S")
	for _, s := range series {
		for _, p := range s.Points {
			fmt.Fprintf(w, "%s\t%d\t%.6f\t%d\t%d\t%s\n",
				s.Name, p.Cells, p.Average, p.Iterations, p.Runs, throughput(p))
		}
	}
	return w.Flush()
}

func throughput(p Point) string {
	if p.Average <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.3g", float64(p.Cells)/p.Average)
}

type SpeedupRow struct {
	Name    string
	Cells   int
	Speedup float64
}

// Speedups compares every non-baseline point to the baseline point with the
// same cell count. Sizes the baseline never ran are skipped.
func Speedups(series []Series, baseline string) []SpeedupRow {
	base := make(map[int]float64)
	for _, s := range series {
		if s.Name != baseline {
			continue
		}
		for _, p := range s.Points {
			base[p.Cells] = p.Average
		}
	}
	if len(base) == 0 {
		return nil
	}

	var rows []SpeedupRow
	for _, s := range series {
		if s.Name == baseline {
			continue
		}
		for _, p := range s.Points {
			b, ok := base[p.Cells]
			if !ok || p.Average <= 0 {
				continue
			}
			rows = append(rows, SpeedupRow{Name: s.Name, Cells: p.Cells, Speedup: b / p.Average})
		}
	}
	return rows
}

func writeSpeedups(out io.Writer, rows []SpeedupRow) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCELLS\tSPEEDUP")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%.2fx\n", r.Name, r.Cells, r.Speedup)
	}
	return w.Flush()
}

// Plot draws log10 of the average time per experiment, one point per grid
// size in ascending order. It returns "" when nothing is plottable.
func Plot(series []Series, opts Options) string {
	var (
		data    [][]float64
		legends []string
		sizes   []int
	)
	for _, s := range series {
		var values []float64
		for _, p := range s.Points {
			if p.Average > 0 {
				values = append(values, math.Log10(p.Average))
				sizes = append(sizes, p.Cells)
			}
		}
		if len(values) == 0 {
			continue
		}
		data = append(data, values)
		legends = append(legends, s.Name)
	}
	if len(data) == 0 {
		return ""
	}

	width, height := opts.plotSize()
	sort.Ints(sizes)
	caption := fmt.Sprintf("log10 avg update time (s), grid sizes %d..%d cells", sizes[0], sizes[len(sizes)-1])

	options := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesLegends(legends...),
	}
	// legends index the colour list, so it must always cover every series
	colors := make([]asciigraph.AnsiColor, len(data))
	for i := range colors {
		colors[i] = asciigraph.Default
		if opts.Color {
			colors[i] = seriesColors[i%len(seriesColors)]
		}
	}
	options = append(options, asciigraph.SeriesColors(colors...))
	return asciigraph.PlotMany(data, options...)
}
