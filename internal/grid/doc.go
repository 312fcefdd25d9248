// Package grid provides the binary cell grid shared by every update strategy.
//
// A [Grid] has fixed dimensions chosen at construction and stores one byte
// per cell, 0 for dead and 1 for alive. Neighborhoods use a zero-padded
// boundary: cells outside the grid are permanently dead and the grid does not
// wrap around.
//
//	g, _ := grid.Random(1000, 1000, grid.DefaultSeed)
//	n := g.Neighbors(0, 0) // at most 3 for a corner
package grid
