package bench

import (
	"github.com/san-kum/golbench/internal/compute"
	"github.com/san-kum/golbench/internal/grid"
	"github.com/san-kum/golbench/internal/metrics"
)

type timedStrategy struct {
	compute.Strategy
	rec *metrics.Recorder
}

// Timed wraps s so that every Update, including any transfers it performs,
// is recorded in rec.
func Timed(s compute.Strategy, rec *metrics.Recorder) compute.Strategy {
	return &timedStrategy{Strategy: s, rec: rec}
}

func (t *timedStrategy) Update(g *grid.Grid) (*grid.Grid, error) {
	var next *grid.Grid
	err := t.rec.Time(func() error {
		var err error
		next, err = t.Strategy.Update(g)
		return err
	})
	return next, err
}
