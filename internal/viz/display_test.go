package viz

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/golbench/internal/grid"
)

func TestModel_QuitKey(t *testing.T) {
	quit := 0
	m := newModel("test", ThemeMinimal, func() { quit++ })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if quit != 1 {
		t.Errorf("expected quit callback, got %d calls", quit)
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if quit != 2 {
		t.Error("esc should also quit")
	}
}

func TestModel_ThemeCycle(t *testing.T) {
	m := newModel("test", ThemeMinimal, nil)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if next.(model).theme.Name != Themes[1].Name {
		t.Errorf("expected %s, got %s", Themes[1].Name, next.(model).theme.Name)
	}
}

func TestModel_Frame(t *testing.T) {
	g, _ := grid.FromRows([][]uint8{{1, 1}, {0, 1}})
	m := newModel("Game of Life", ThemeMinimal, nil)

	next, _ := m.Update(frameMsg{grid: g, generation: 7})
	nm := next.(model)
	if nm.population != 3 || nm.generation != 7 {
		t.Errorf("unexpected state gen=%d pop=%d", nm.generation, nm.population)
	}
	if len(nm.history) != 1 {
		t.Errorf("expected 1 history point, got %d", len(nm.history))
	}

	view := nm.View()
	for _, want := range []string{"Game of Life", "gen", "pop", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_HistoryBounded(t *testing.T) {
	g, _ := grid.New(2, 2)
	var tm tea.Model = newModel("t", ThemeMinimal, nil)
	for i := 0; i < historyLen+30; i++ {
		tm, _ = tm.Update(frameMsg{grid: g, generation: i})
	}
	if n := len(tm.(model).history); n != historyLen {
		t.Errorf("expected %d history points, got %d", historyLen, n)
	}
}

func TestTerminalDisplay_Lifecycle(t *testing.T) {
	d := NewTerminalDisplay(80, 40, 2, WithProgramOptions(tea.WithInput(nil), tea.WithOutput(io.Discard)))

	rows, cols := d.GridDimensions()
	if rows != 20 || cols != 40 {
		t.Fatalf("expected 20x40 grid, got %dx%d", rows, cols)
	}

	g, _ := grid.Random(rows, cols, 1)
	if err := d.Draw(g); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if !d.HandleEvents() {
		t.Error("display should keep running before quit")
	}
	d.Tick(1000)

	if err := d.Cleanup(); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if d.HandleEvents() {
		t.Error("display should report quit after cleanup")
	}
	if err := d.Draw(g); err == nil {
		t.Error("expected error drawing after cleanup")
	}
	if err := d.Cleanup(); err != nil {
		t.Errorf("second cleanup failed: %v", err)
	}
}

func TestGetTheme(t *testing.T) {
	if GetTheme("sunset").Name != "sunset" {
		t.Error("expected sunset theme")
	}
	if GetTheme("nope").Name != ThemeMinimal.Name {
		t.Error("expected fallback to minimal")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
}
