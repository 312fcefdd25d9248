//go:build !opengl

package gui

import "github.com/san-kum/golbench/internal/grid"

type Window struct{}

func NewWindow(width, height, cellSize int, title string) (*Window, error) {
	return nil, ErrNoWindow
}

func (w *Window) Draw(*grid.Grid) error            { return ErrNoWindow }
func (w *Window) HandleEvents() bool               { return false }
func (w *Window) Tick(int)                         {}
func (w *Window) Cleanup() error                   { return nil }
func (w *Window) GridDimensions() (rows, cols int) { return 0, 0 }
