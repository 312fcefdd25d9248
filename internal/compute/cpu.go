package compute

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/golbench/internal/grid"
)

// Grids with fewer rows than this are stepped on the calling goroutine.
const parallelThreshold = 16

// ParallelStrategy partitions rows across worker goroutines. Each worker
// writes a disjoint band of output rows, so no locking is needed.
type ParallelStrategy struct {
	workers int
}

func NewParallel(workers int) *ParallelStrategy {
	if workers < 1 {
		workers = 1
	}
	return &ParallelStrategy{workers: workers}
}

func (p *ParallelStrategy) Name() string    { return "parallel" }
func (p *ParallelStrategy) Available() bool { return true }
func (p *ParallelStrategy) Cleanup()        {}
func (p *ParallelStrategy) Workers() int    { return p.workers }

func (p *ParallelStrategy) Update(g *grid.Grid) (*grid.Grid, error) {
	rows, cols := g.Rows(), g.Cols()
	next, err := grid.New(rows, cols)
	if err != nil {
		return nil, err
	}
	src, dst := g.Cells(), next.Cells()

	if rows < parallelThreshold || p.workers == 1 {
		stepRows(src, dst, rows, cols, 0, rows)
		return next, nil
	}

	workers := min(p.workers, rows)
	chunkSize := (rows + workers - 1) / workers

	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, rows)
		if start >= end {
			break
		}
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("compute: worker rows [%d,%d): %v", start, end, r)
				}
			}()
			stepRows(src, dst, rows, cols, start, end)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return next, nil
}

// stepRows writes the next state of rows [start, end) into dst.
func stepRows(src, dst []uint8, rows, cols, start, end int) {
	for r := start; r < end; r++ {
		for c := 0; c < cols; c++ {
			total := 0
			for dr := -1; dr <= 1; dr++ {
				nr := r + dr
				if nr < 0 || nr >= rows {
					continue
				}
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					nc := c + dc
					if nc < 0 || nc >= cols {
						continue
					}
					total += int(src[nr*cols+nc])
				}
			}
			dst[r*cols+c] = nextState(src[r*cols+c], total)
		}
	}
}
