package compute_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/golbench/internal/compute"
	"github.com/san-kum/golbench/internal/grid"
)

func mustGrid(g *grid.Grid, err error) *grid.Grid {
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return g
}

func filled(rows, cols int, v uint8) *grid.Grid {
	g := mustGrid(grid.New(rows, cols))
	for i := range g.Cells() {
		g.Cells()[i] = v
	}
	return g
}

func single(rows, cols, r, c int) *grid.Grid {
	g := mustGrid(grid.New(rows, cols))
	g.Set(r, c, 1)
	return g
}

func checkerboard(rows, cols int) *grid.Grid {
	g := mustGrid(grid.New(rows, cols))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Set(r, c, uint8((r+c)%2))
		}
	}
	return g
}

type corpusEntry struct {
	name string
	grid *grid.Grid
}

func corpus() []corpusEntry {
	entries := []corpusEntry{
		{"1x1 dead", filled(1, 1, 0)},
		{"1x1 alive", filled(1, 1, 1)},
		{"all dead", filled(20, 17, 0)},
		{"all alive", filled(20, 17, 1)},
		{"checkerboard", checkerboard(33, 31)},
		{"single row", mustGrid(grid.Random(1, 40, 5))},
		{"single column", mustGrid(grid.Random(40, 1, 6))},
		{"corner top-left", single(9, 11, 0, 0)},
		{"corner top-right", single(9, 11, 0, 10)},
		{"corner bottom-left", single(9, 11, 8, 0)},
		{"corner bottom-right", single(9, 11, 8, 10)},
		{"edge top", single(9, 11, 0, 5)},
		{"edge bottom", single(9, 11, 8, 5)},
		{"edge left", single(9, 11, 4, 0)},
		{"edge right", single(9, 11, 4, 10)},
	}
	for _, seed := range []int64{0, 1, 42} {
		entries = append(entries, corpusEntry{
			name: fmt.Sprintf("random seed %d", seed),
			grid: mustGrid(grid.Random(37, 53, seed)),
		})
	}
	return entries
}

func strategies() []compute.Strategy {
	return []compute.Strategy{
		compute.NewConv(),
		compute.NewFFT(),
		compute.NewParallel(4),
		compute.NewParallel(1),
		compute.NewDeviceStrategy(compute.NewSimDevice(3), compute.DefaultBlockSize),
		compute.NewDeviceStrategy(compute.NewSimDevice(2), 5),
	}
}

var _ = Describe("Update strategies", func() {
	reference := compute.NewScalar()

	for _, entry := range corpus() {
		It("agree with the scalar strategy on "+entry.name, func() {
			want, err := reference.Update(entry.grid)
			Expect(err).NotTo(HaveOccurred())

			for _, s := range strategies() {
				input := entry.grid.Clone()
				got, err := s.Update(input)
				Expect(err).NotTo(HaveOccurred(), s.Name())
				Expect(got.Equal(want)).To(BeTrue(), "%s diverged:\n%s\nwant:\n%s", s.Name(), got, want)
				Expect(input.Equal(entry.grid)).To(BeTrue(), "%s modified its input", s.Name())
				s.Cleanup()
			}
		})
	}

	It("stay in lockstep across many generations", func() {
		start := mustGrid(grid.Random(64, 48, 9))
		ss := strategies()
		defer func() {
			for _, s := range ss {
				s.Cleanup()
			}
		}()

		want := start
		current := make([]*grid.Grid, len(ss))
		for i := range current {
			current[i] = start
		}

		for gen := 0; gen < 25; gen++ {
			var err error
			want, err = reference.Update(want)
			Expect(err).NotTo(HaveOccurred())

			for i, s := range ss {
				current[i], err = s.Update(current[i])
				Expect(err).NotTo(HaveOccurred())
				Expect(current[i].Equal(want)).To(BeTrue(), "%s diverged at generation %d", s.Name(), gen)
			}
		}
	})
})

var _ = Describe("Rule", func() {
	DescribeTable("next state of the center cell",
		func(alive uint8, neighbors int, want uint8) {
			g := mustGrid(grid.New(3, 3))
			g.Set(1, 1, alive)
			positions := [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}
			for _, p := range positions[:neighbors] {
				g.Set(p[0], p[1], 1)
			}
			Expect(g.Neighbors(1, 1)).To(Equal(neighbors))

			for _, s := range append(strategies(), compute.NewScalar()) {
				next, err := s.Update(g)
				Expect(err).NotTo(HaveOccurred())
				Expect(next.At(1, 1)).To(Equal(want), s.Name())
				s.Cleanup()
			}
		},
		Entry("dead with 3 is born", uint8(0), 3, uint8(1)),
		Entry("alive with 3 survives", uint8(1), 3, uint8(1)),
		Entry("alive with 2 survives", uint8(1), 2, uint8(1)),
		Entry("dead with 2 stays dead", uint8(0), 2, uint8(0)),
		Entry("alive with 0 dies", uint8(1), 0, uint8(0)),
		Entry("alive with 1 dies", uint8(1), 1, uint8(0)),
		Entry("alive with 4 dies", uint8(1), 4, uint8(0)),
		Entry("alive with 8 dies", uint8(1), 8, uint8(0)),
		Entry("dead with 6 stays dead", uint8(0), 6, uint8(0)),
	)

	It("oscillates a blinker without wrapping at the border", func() {
		g := mustGrid(grid.FromRows([][]uint8{
			{0, 1, 0},
			{0, 1, 0},
			{0, 1, 0},
		}))
		want := mustGrid(grid.FromRows([][]uint8{
			{0, 0, 0},
			{1, 1, 1},
			{0, 0, 0},
		}))

		for _, s := range append(strategies(), compute.NewScalar()) {
			next, err := s.Update(g)
			Expect(err).NotTo(HaveOccurred())
			Expect(next.Equal(want)).To(BeTrue(), s.Name())

			back, err := s.Update(next)
			Expect(err).NotTo(HaveOccurred())
			Expect(back.Equal(g)).To(BeTrue(), s.Name())
			s.Cleanup()
		}
	})

	It("keeps a 2x2 block still life in a grid with no margin", func() {
		block := mustGrid(grid.FromRows([][]uint8{
			{1, 1},
			{1, 1},
		}))
		for _, s := range append(strategies(), compute.NewScalar()) {
			next, err := s.Update(block)
			Expect(err).NotTo(HaveOccurred())
			Expect(next.Equal(block)).To(BeTrue(), s.Name())
			s.Cleanup()
		}
	})
})
