package viz

import (
	"context"
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/san-kum/golbench/internal/grid"
)

var ErrDisplayClosed = errors.New("viz: display closed")

// TerminalDisplay runs a Bubble Tea program in the background and feeds it
// one frame per Draw. Frames are copied so the caller may reuse its grids.
type TerminalDisplay struct {
	rows, cols int
	program    *tea.Program

	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}
	runErr   error

	limiter    *rate.Limiter
	generation int
	frames     int
	lastFPS    time.Time

	cleanupOnce sync.Once
}

type Option func(*displayConfig)

type displayConfig struct {
	title   string
	theme   Theme
	program []tea.ProgramOption
}

func WithTitle(title string) Option {
	return func(c *displayConfig) { c.title = title }
}

func WithTheme(name string) Option {
	return func(c *displayConfig) { c.theme = GetTheme(name) }
}

// WithProgramOptions passes options to the underlying Tea program, such as
// custom input and output streams.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(c *displayConfig) { c.program = append(c.program, opts...) }
}

// NewTerminalDisplay starts the display. The grid has height/cellSize rows
// and width/cellSize columns.
func NewTerminalDisplay(width, height, cellSize int, opts ...Option) *TerminalDisplay {
	cfg := displayConfig{title: "Game of Life", theme: ThemeMinimal}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cellSize < 1 {
		cellSize = 1
	}

	d := &TerminalDisplay{
		rows:    height / cellSize,
		cols:    width / cellSize,
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		lastFPS: time.Now(),
	}

	progOpts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithoutSignalHandler()}, cfg.program...)
	d.program = tea.NewProgram(newModel(cfg.title, cfg.theme, d.requestQuit), progOpts...)

	go func() {
		defer close(d.done)
		if _, err := d.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			d.runErr = err
		}
	}()
	return d
}

func (d *TerminalDisplay) requestQuit() {
	d.quitOnce.Do(func() { close(d.quit) })
}

func (d *TerminalDisplay) GridDimensions() (rows, cols int) { return d.rows, d.cols }

func (d *TerminalDisplay) Draw(g *grid.Grid) error {
	select {
	case <-d.done:
		if d.runErr != nil {
			return d.runErr
		}
		return ErrDisplayClosed
	default:
	}
	d.program.Send(frameMsg{grid: g.Clone(), generation: d.generation})
	d.generation++
	return nil
}

// HandleEvents reports false once the user pressed a quit key or the program
// stopped.
func (d *TerminalDisplay) HandleEvents() bool {
	select {
	case <-d.quit:
		return false
	case <-d.done:
		return false
	default:
		return true
	}
}

// Tick blocks until the next frame slot at fps and pushes the measured
// frame rate to the status line once per second.
func (d *TerminalDisplay) Tick(fps int) {
	if fps < 1 {
		fps = 1
	}
	if d.limiter == nil {
		d.limiter = rate.NewLimiter(rate.Limit(fps), 1)
	} else if d.limiter.Limit() != rate.Limit(fps) {
		d.limiter.SetLimit(rate.Limit(fps))
	}
	_ = d.limiter.Wait(context.Background())

	d.frames++
	if elapsed := time.Since(d.lastFPS); elapsed >= time.Second {
		d.program.Send(fpsMsg(float64(d.frames) / elapsed.Seconds()))
		d.frames = 0
		d.lastFPS = time.Now()
	}
}

// Cleanup stops the program and restores the terminal. It is safe to call
// more than once.
func (d *TerminalDisplay) Cleanup() error {
	d.cleanupOnce.Do(func() {
		d.requestQuit()
		d.program.Quit()
		<-d.done
	})
	return d.runErr
}
