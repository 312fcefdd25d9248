// Package viz renders generations in the terminal using the Bubble Tea
// framework.
//
//   - [TerminalDisplay]: runs the Tea program and feeds it frames
//   - [Canvas]: Braille-based pixel canvas, 2x4 cells per character
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Q, Esc, Ctrl+C - Quit
//	T              - Cycle color themes
//
// Grids larger than the terminal are sampled with a uniform stride; the
// stride in use is shown in the status line.
package viz
