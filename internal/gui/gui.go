// Package gui shows generations in a native raylib window. It is only
// available in builds with the opengl tag; otherwise NewWindow returns
// ErrNoWindow and callers fall back to the terminal display.
package gui

import "errors"

var ErrNoWindow = errors.New("gui: window support not compiled in")

const DefaultTitle = "Game of Life"

// dimensions maps a pixel area to grid rows and columns.
func dimensions(width, height, cellSize int) (rows, cols int) {
	if cellSize < 1 {
		cellSize = 1
	}
	return height / cellSize, width / cellSize
}
