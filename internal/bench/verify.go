package bench

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/golbench/internal/compute"
	"github.com/san-kum/golbench/internal/grid"
)

// Case is one named starting grid for cross-strategy verification.
type Case struct {
	Name string
	Grid *grid.Grid
}

// Mismatch describes the first cell where a strategy departed from the
// reference, or the error it returned.
type Mismatch struct {
	Strategy   string
	Case       string
	Generation int
	Row, Col   int
	Err        error
}

func (m Mismatch) String() string {
	if m.Err != nil {
		return fmt.Sprintf("%s/%s gen %d: %v", m.Strategy, m.Case, m.Generation, m.Err)
	}
	return fmt.Sprintf("%s/%s gen %d: cell (%d,%d) differs", m.Strategy, m.Case, m.Generation, m.Row, m.Col)
}

// Candidate names a strategy under verification. New is called once per
// corpus case so that strategies holding shape-bound state, such as device
// buffers, start every case fresh.
type Candidate struct {
	Name string
	New  func() (compute.Strategy, error)
}

// Verifier checks candidate strategies against a reference over a corpus.
// Each candidate runs in its own goroutine against precomputed reference
// generations.
type Verifier struct {
	reference   compute.Strategy
	generations int
}

func NewVerifier(reference compute.Strategy, generations int) *Verifier {
	if generations < 1 {
		generations = 1
	}
	return &Verifier{reference: reference, generations: generations}
}

func (v *Verifier) Run(ctx context.Context, corpus []Case, candidates []Candidate) ([]Mismatch, error) {
	expected := make([][]*grid.Grid, len(corpus))
	for i, c := range corpus {
		seq, err := v.sequence(ctx, v.reference, c.Grid)
		if err != nil {
			return nil, fmt.Errorf("reference %s on %s: %w", v.reference.Name(), c.Name, err)
		}
		expected[i] = seq
	}

	var (
		mu         sync.Mutex
		mismatches []Mismatch
	)
	eg, egCtx := errgroup.WithContext(ctx)
	for _, cand := range candidates {
		eg.Go(func() error {
			for i, c := range corpus {
				if m, bad := v.checkCase(egCtx, cand, c, expected[i]); bad {
					mu.Lock()
					mismatches = append(mismatches, m)
					mu.Unlock()
				}
			}
			return egCtx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return mismatches, ErrInterrupted
	}
	return mismatches, nil
}

func (v *Verifier) checkCase(ctx context.Context, cand Candidate, c Case, want []*grid.Grid) (Mismatch, bool) {
	s, err := cand.New()
	if err != nil {
		return Mismatch{Strategy: cand.Name, Case: c.Name, Err: err}, true
	}
	defer s.Cleanup()
	return v.check(ctx, cand.Name, s, c, want)
}

func (v *Verifier) sequence(ctx context.Context, s compute.Strategy, g *grid.Grid) ([]*grid.Grid, error) {
	seq := make([]*grid.Grid, 0, v.generations)
	cur := g
	for i := 0; i < v.generations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := s.Update(cur)
		if err != nil {
			return nil, err
		}
		seq = append(seq, next)
		cur = next
	}
	return seq, nil
}

func (v *Verifier) check(ctx context.Context, name string, s compute.Strategy, c Case, want []*grid.Grid) (Mismatch, bool) {
	cur := c.Grid
	for gen, exp := range want {
		if ctx.Err() != nil {
			return Mismatch{}, false
		}
		next, err := s.Update(cur)
		if err != nil {
			return Mismatch{Strategy: name, Case: c.Name, Generation: gen + 1, Err: err}, true
		}
		if r, col, differ := next.Diff(exp); differ {
			return Mismatch{Strategy: name, Case: c.Name, Generation: gen + 1, Row: r, Col: col}, true
		}
		cur = next
	}
	return Mismatch{}, false
}

// DefaultCorpus returns the boundary and random grids used by verify.
func DefaultCorpus(seed int64) []Case {
	cases := []Case{
		{"1x1 alive", mustRows([][]uint8{{1}})},
		{"all dead", filled(12, 9, 0)},
		{"all alive", filled(12, 9, 1)},
		{"checkerboard", checkerboard(10, 10)},
		{"single row", mustRows([][]uint8{{1, 1, 1, 0, 1, 1, 0, 1}})},
		{"single column", mustRows([][]uint8{{1}, {1}, {1}, {0}, {1}})},
		{"blinker", mustRows([][]uint8{{0, 0, 0}, {1, 1, 1}, {0, 0, 0}})},
	}
	for _, pos := range [][2]int{{0, 0}, {0, 7}, {7, 0}, {7, 7}, {0, 3}, {3, 0}, {7, 4}, {4, 7}} {
		g := filled(8, 8, 0)
		g.Set(pos[0], pos[1], 1)
		cases = append(cases, Case{fmt.Sprintf("cell at %d,%d", pos[0], pos[1]), g})
	}
	for i, dims := range [][2]int{{33, 47}, {64, 64}, {17, 5}} {
		g, err := grid.Random(dims[0], dims[1], seed+int64(i))
		if err != nil {
			panic(err)
		}
		cases = append(cases, Case{fmt.Sprintf("random %dx%d", dims[0], dims[1]), g})
	}
	return cases
}

func mustRows(rows [][]uint8) *grid.Grid {
	g, err := grid.FromRows(rows)
	if err != nil {
		panic(err)
	}
	return g
}

func filled(rows, cols int, v uint8) *grid.Grid {
	g, err := grid.New(rows, cols)
	if err != nil {
		panic(err)
	}
	for i := range g.Cells() {
		g.Cells()[i] = v
	}
	return g
}

func checkerboard(rows, cols int) *grid.Grid {
	g := filled(rows, cols, 0)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Set(r, c, uint8((r+c)%2))
		}
	}
	return g
}
