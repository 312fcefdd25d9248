//go:build opengl

package gui

import (
	"fmt"
	"image/color"
	"runtime"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/golbench/internal/grid"
)

var (
	ColAlive   = color.RGBA{255, 255, 255, 255}
	ColDead    = color.RGBA{0, 0, 0, 255}
	ColTextDim = rl.NewColor(120, 120, 120, 255)
)

// Window draws each generation as one texel per cell, scaled up by the cell
// size. All methods must be called from the goroutine that created it.
type Window struct {
	rows, cols int
	cellSize   int
	title      string
	tex        rl.Texture2D
	pixels     []color.RGBA

	fps        int
	frames     int
	lastUpdate time.Time
	generation int
	population int
	closed     bool
}

func NewWindow(width, height, cellSize int, title string) (*Window, error) {
	rows, cols := dimensions(width, height, cellSize)
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("gui: %dx%d window holds no cells of size %d", width, height, cellSize)
	}

	runtime.LockOSThread()
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(width), int32(height), title)
	if !rl.IsWindowReady() {
		runtime.UnlockOSThread()
		return nil, ErrNoWindow
	}
	rl.SetExitKey(0)

	img := rl.GenImageColor(cols, rows, rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	return &Window{
		rows:       rows,
		cols:       cols,
		cellSize:   cellSize,
		title:      title,
		tex:        tex,
		pixels:     make([]color.RGBA, rows*cols),
		lastUpdate: time.Now(),
	}, nil
}

func (w *Window) GridDimensions() (rows, cols int) { return w.rows, w.cols }

func (w *Window) Draw(g *grid.Grid) error {
	if w.closed {
		return ErrNoWindow
	}
	if g.Rows() != w.rows || g.Cols() != w.cols {
		return fmt.Errorf("gui: grid %dx%d does not fit window grid %dx%d", g.Rows(), g.Cols(), w.rows, w.cols)
	}

	pop := 0
	for i, v := range g.Cells() {
		if v == 1 {
			w.pixels[i] = ColAlive
			pop++
		} else {
			w.pixels[i] = ColDead
		}
	}
	w.population = pop
	rl.UpdateTexture(w.tex, w.pixels)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	rl.DrawTextureEx(w.tex, rl.NewVector2(0, 0), 0, float32(w.cellSize), rl.White)
	rl.DrawText(fmt.Sprintf("gen %d  pop %d", w.generation, w.population), 8, 8, 14, ColTextDim)
	rl.EndDrawing()

	w.generation++
	return nil
}

// HandleEvents returns false once the window was closed or Esc/Q pressed.
func (w *Window) HandleEvents() bool {
	if w.closed {
		return false
	}
	return !rl.WindowShouldClose() && !rl.IsKeyPressed(rl.KeyEscape) && !rl.IsKeyPressed(rl.KeyQ)
}

// Tick caps the frame rate and refreshes the measured FPS in the title once
// per second. raylib sleeps inside EndDrawing to honor the target.
func (w *Window) Tick(fps int) {
	if fps != w.fps {
		rl.SetTargetFPS(int32(fps))
		w.fps = fps
	}

	w.frames++
	if elapsed := time.Since(w.lastUpdate); elapsed >= time.Second {
		actual := float64(w.frames) / elapsed.Seconds()
		rl.SetWindowTitle(fmt.Sprintf("%s - %.1f FPS", w.title, actual))
		w.frames = 0
		w.lastUpdate = time.Now()
	}
}

func (w *Window) Cleanup() error {
	if w.closed {
		return nil
	}
	w.closed = true
	rl.UnloadTexture(w.tex)
	rl.CloseWindow()
	runtime.UnlockOSThread()
	return nil
}
