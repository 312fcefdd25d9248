package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/golbench/internal/grid"
)

func TestCanvas_SetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8, got %U", c.Grid[0][1])
	}

	c.Unset(0, 0)
	if c.Grid[0][0] != 0x2800 {
		t.Errorf("expected empty cell, got %U", c.Grid[0][0])
	}

	c.Set(-1, 0)
	c.Set(100, 100)
}

func TestCanvas_PlotFits(t *testing.T) {
	g, _ := grid.FromRows([][]uint8{
		{1, 0},
		{0, 1},
		{0, 0},
		{1, 1},
	})
	c := NewCanvas(1, 1)

	if stride := c.Plot(g); stride != 1 {
		t.Fatalf("expected stride 1, got %d", stride)
	}
	// dots 1, 5, 7, 8
	want := rune(0x2800 | 0x1 | 0x10 | 0x40 | 0x80)
	if c.Grid[0][0] != want {
		t.Errorf("expected %U, got %U", want, c.Grid[0][0])
	}
}

func TestCanvas_PlotSamples(t *testing.T) {
	g, _ := grid.New(16, 8)
	g.Set(0, 0, 1)
	g.Set(15, 7, 1)
	c := NewCanvas(2, 2)

	stride := c.Plot(g)
	if stride != 2 {
		t.Fatalf("expected stride 2, got %d", stride)
	}
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected top-left dot, got %U", c.Grid[0][0])
	}
	// (15,7) is skipped by stride 2 sampling.
	if c.Grid[1][1] != 0x2800 {
		t.Errorf("expected empty bottom-right, got %U", c.Grid[1][1])
	}
}

func TestCanvas_PlotEmptyCanvas(t *testing.T) {
	g, _ := grid.New(4, 4)
	if stride := NewCanvas(0, 0).Plot(g); stride != 0 {
		t.Errorf("expected stride 0, got %d", stride)
	}
}

func TestCanvas_String(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(c.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if len([]rune(lines[0])) != 3 {
		t.Errorf("expected 3 runes per line, got %d", len([]rune(lines[0])))
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 4); got != "────" {
		t.Errorf("expected placeholder, got %q", got)
	}
	if got := Sparkline([]float64{0, 7}, 4); got != "▁█" {
		t.Errorf("expected ▁█, got %q", got)
	}
	if got := Sparkline([]float64{1, 2, 3, 4, 5}, 2); len([]rune(got)) != 2 {
		t.Errorf("expected width 2, got %q", got)
	}
}
