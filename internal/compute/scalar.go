package compute

import "github.com/san-kum/golbench/internal/grid"

// ScalarStrategy is the reference nested-loop implementation.
type ScalarStrategy struct{}

func NewScalar() *ScalarStrategy { return &ScalarStrategy{} }

func (s *ScalarStrategy) Name() string    { return "scalar" }
func (s *ScalarStrategy) Available() bool { return true }
func (s *ScalarStrategy) Cleanup()        {}

func (s *ScalarStrategy) Update(g *grid.Grid) (*grid.Grid, error) {
	rows, cols := g.Rows(), g.Cols()
	next, err := grid.New(rows, cols)
	if err != nil {
		return nil, err
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			next.Set(r, c, nextState(g.At(r, c), g.Neighbors(r, c)))
		}
	}
	return next, nil
}
