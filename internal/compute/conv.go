package compute

import "github.com/san-kum/golbench/internal/grid"

// neighborKernel sums the eight surrounding cells; the zero center excludes
// the cell itself.
var neighborKernel = [3][3]uint8{
	{1, 1, 1},
	{1, 0, 1},
	{1, 1, 1},
}

// ConvStrategy counts neighbors for the whole grid with a zero-padded 2-D
// convolution and applies the rule with whole-grid masks instead of per-cell
// branching.
type ConvStrategy struct {
	neighbors []uint8
	birth     []bool
	survive   []bool
	scratch   []bool
}

func NewConv() *ConvStrategy { return &ConvStrategy{} }

func (s *ConvStrategy) Name() string    { return "conv" }
func (s *ConvStrategy) Available() bool { return true }

func (s *ConvStrategy) Cleanup() {
	s.neighbors, s.birth, s.survive, s.scratch = nil, nil, nil, nil
}

func (s *ConvStrategy) Update(g *grid.Grid) (*grid.Grid, error) {
	rows, cols := g.Rows(), g.Cols()
	next, err := grid.New(rows, cols)
	if err != nil {
		return nil, err
	}
	s.reserve(g.Len())

	cells := g.Cells()
	convolveSame(cells, rows, cols, &neighborKernel, s.neighbors)

	// birth = (cells == 0) & (n == 3)
	// survive = (cells == 1) & ((n == 2) | (n == 3))
	maskEq(s.birth, cells, 0)
	andMask(s.birth, maskEq(s.scratch, s.neighbors, 3))
	maskEq(s.survive, cells, 1)
	andMask(s.survive, orMask(maskEq(s.scratch, s.neighbors, 2), s.neighbors, 3))
	orInto(s.birth, s.survive)

	fill(next.Cells(), s.birth, 1)
	return next, nil
}

func (s *ConvStrategy) reserve(n int) {
	if len(s.neighbors) == n {
		clear(s.neighbors)
		return
	}
	s.neighbors = make([]uint8, n)
	s.birth = make([]bool, n)
	s.survive = make([]bool, n)
	s.scratch = make([]bool, n)
}

// convolveSame writes the same-size convolution of src with k into dst,
// treating cells outside the grid as zero. dst must be zeroed.
func convolveSame(src []uint8, rows, cols int, k *[3][3]uint8, dst []uint8) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			w := k[i][j]
			if w == 0 {
				continue
			}
			// out[r][c] += k[i][j] * src[r-(i-1)][c-(j-1)]
			dr, dc := 1-i, 1-j
			r0, r1 := max(0, -dr), min(rows, rows-dr)
			c0, c1 := max(0, -dc), min(cols, cols-dc)
			if c0 >= c1 {
				continue
			}
			for r := r0; r < r1; r++ {
				out := dst[r*cols+c0 : r*cols+c1]
				in := src[(r+dr)*cols+c0+dc : (r+dr)*cols+c1+dc]
				for x := range out {
					out[x] += w * in[x]
				}
			}
		}
	}
}

func maskEq(dst []bool, src []uint8, v uint8) []bool {
	for i, x := range src {
		dst[i] = x == v
	}
	return dst
}

// orMask sets dst[i] where src[i] == v.
func orMask(dst []bool, src []uint8, v uint8) []bool {
	for i, x := range src {
		dst[i] = dst[i] || x == v
	}
	return dst
}

func andMask(dst, m []bool) {
	for i, b := range m {
		dst[i] = dst[i] && b
	}
}

func orInto(dst, m []bool) {
	for i, b := range m {
		dst[i] = dst[i] || b
	}
}

func fill(dst []uint8, m []bool, v uint8) {
	for i, b := range m {
		if b {
			dst[i] = v
		}
	}
}
