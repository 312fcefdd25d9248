package compute

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/golbench/internal/grid"
)

// FFTStrategy counts neighbors by multiplying spectra: the grid and the
// neighbor kernel are zero-padded to (rows+2)x(cols+2) so the circular
// product equals the linear convolution, then the rule is applied per cell.
// The kernel spectrum is cached per grid shape.
type FFTStrategy struct {
	rows, cols int
	kernel     [][]complex128
	padded     [][]float64
}

func NewFFT() *FFTStrategy { return &FFTStrategy{} }

func (s *FFTStrategy) Name() string    { return "fft" }
func (s *FFTStrategy) Available() bool { return true }

func (s *FFTStrategy) Cleanup() {
	s.rows, s.cols = 0, 0
	s.kernel, s.padded = nil, nil
}

func (s *FFTStrategy) Update(g *grid.Grid) (*grid.Grid, error) {
	rows, cols := g.Rows(), g.Cols()
	next, err := grid.New(rows, cols)
	if err != nil {
		return nil, err
	}
	s.prepare(rows, cols)

	cells := g.Cells()
	for r := range s.padded {
		clear(s.padded[r])
	}
	for r := 0; r < rows; r++ {
		row := s.padded[r]
		for c := 0; c < cols; c++ {
			row[c] = float64(cells[r*cols+c])
		}
	}

	freq := fft.FFT2Real(s.padded)
	for r := range freq {
		kr := s.kernel[r]
		for c := range freq[r] {
			freq[r][c] *= kr[c]
		}
	}
	counts := fft.IFFT2(freq)

	out := next.Cells()
	for r := 0; r < rows; r++ {
		// full-convolution index (r+1, c+1) is the "same" output for (r, c)
		src := counts[r+1]
		for c := 0; c < cols; c++ {
			n := int(math.Round(real(src[c+1])))
			out[r*cols+c] = nextState(cells[r*cols+c], n)
		}
	}
	return next, nil
}

func (s *FFTStrategy) prepare(rows, cols int) {
	if s.rows == rows && s.cols == cols && s.kernel != nil {
		return
	}
	pr, pc := rows+2, cols+2
	s.padded = make([][]float64, pr)
	k := make([][]float64, pr)
	for r := range s.padded {
		s.padded[r] = make([]float64, pc)
		k[r] = make([]float64, pc)
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			k[r][c] = float64(neighborKernel[r][c])
		}
	}
	s.kernel = fft.FFT2Real(k)
	s.rows, s.cols = rows, cols
}
