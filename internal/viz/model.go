package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/golbench/internal/grid"
)

const (
	historyLen = 120
	chromeRows = 3
)

type frameMsg struct {
	grid       *grid.Grid
	generation int
}

type fpsMsg float64

type model struct {
	title         string
	keys          keyMap
	help          help.Model
	theme         Theme
	styles        styles
	frame         *grid.Grid
	generation    int
	population    int
	history       []float64
	fps           float64
	width, height int
	onQuit        func()
}

func newModel(title string, theme Theme, onQuit func()) model {
	return model{
		title:  title,
		keys:   defaultKeyMap(),
		help:   help.New(),
		theme:  theme,
		styles: newStyles(theme),
		width:  80,
		height: 24,
		onQuit: onQuit,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.onQuit != nil {
				m.onQuit()
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Theme):
			m.theme = nextTheme(m.theme)
			m.styles = newStyles(m.theme)
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	case frameMsg:
		m.frame = msg.grid
		m.generation = msg.generation
		m.population = msg.grid.Population()
		m.history = append(m.history, float64(m.population))
		if len(m.history) > historyLen {
			m.history = m.history[len(m.history)-historyLen:]
		}
	case fpsMsg:
		m.fps = float64(msg)
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render(m.title))
	b.WriteString(m.styles.label.Render(fmt.Sprintf("  theme %s", m.theme.Name)))
	b.WriteByte('\n')

	stride := 0
	if m.frame != nil {
		canvas := NewCanvas(max(m.width, 1), max(m.height-chromeRows, 1))
		stride = canvas.Plot(m.frame)
		b.WriteString(m.styles.cells.Render(canvas.String()))
	}
	b.WriteByte('\n')

	b.WriteString(m.status(stride))
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m model) status(stride int) string {
	field := func(label, value string) string {
		return m.styles.label.Render(label+" ") + m.styles.value.Render(value)
	}
	parts := []string{
		field("gen", fmt.Sprintf("%d", m.generation)),
		field("pop", fmt.Sprintf("%d", m.population)),
		field("fps", fmt.Sprintf("%.1f", m.fps)),
	}
	if stride > 1 {
		parts = append(parts, field("stride", fmt.Sprintf("%d", stride)))
	}
	line := strings.Join(parts, "  ")
	if w := m.width - lipgloss.Width(line) - 2; w > 8 && len(m.history) > 1 {
		line += "  " + m.styles.spark.Render(Sparkline(m.history, w))
	}
	return line
}
