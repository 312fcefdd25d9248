package bench

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/golbench/internal/compute"
	"github.com/san-kum/golbench/internal/grid"
)

type flipStrategy struct {
	compute.Strategy
}

func (f flipStrategy) Name() string { return "flip" }

func (f flipStrategy) Update(g *grid.Grid) (*grid.Grid, error) {
	next, err := f.Strategy.Update(g)
	if err != nil {
		return nil, err
	}
	next.Set(0, 0, 1-next.At(0, 0))
	return next, nil
}

type brokenStrategy struct {
	compute.Strategy
}

func (brokenStrategy) Name() string { return "broken" }

func (brokenStrategy) Update(*grid.Grid) (*grid.Grid, error) {
	return nil, errors.New("no device")
}

func fixed(name string, s compute.Strategy) Candidate {
	return Candidate{Name: name, New: func() (compute.Strategy, error) { return s, nil }}
}

func TestVerifier_AllStrategiesAgree(t *testing.T) {
	v := NewVerifier(compute.NewScalar(), 6)
	candidates := []Candidate{
		{Name: "conv", New: func() (compute.Strategy, error) { return compute.NewConv(), nil }},
		{Name: "fft", New: func() (compute.Strategy, error) { return compute.NewFFT(), nil }},
		{Name: "parallel", New: func() (compute.Strategy, error) { return compute.NewParallel(3), nil }},
		{Name: "device", New: func() (compute.Strategy, error) {
			return compute.NewDeviceStrategy(compute.NewSimDevice(2), 4), nil
		}},
	}

	mismatches, err := v.Run(context.Background(), DefaultCorpus(grid.DefaultSeed), candidates)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range mismatches {
		t.Errorf("unexpected mismatch: %s", m)
	}
}

func TestVerifier_ReportsMismatch(t *testing.T) {
	v := NewVerifier(compute.NewScalar(), 2)
	corpus := []Case{{"all dead", filled(4, 4, 0)}}

	mismatches, err := v.Run(context.Background(), corpus, []Candidate{
		fixed("flip", flipStrategy{compute.NewScalar()}),
		fixed("broken", brokenStrategy{compute.NewScalar()}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(mismatches) != 2 {
		t.Fatalf("expected 2 mismatches, got %v", mismatches)
	}
	for _, m := range mismatches {
		switch m.Strategy {
		case "flip":
			if m.Generation != 1 || m.Row != 0 || m.Col != 0 || m.Err != nil {
				t.Errorf("unexpected flip mismatch %+v", m)
			}
		case "broken":
			if m.Err == nil {
				t.Errorf("expected error for broken strategy")
			}
		default:
			t.Errorf("unexpected strategy %s", m.Strategy)
		}
	}
}

func TestVerifier_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := NewVerifier(compute.NewScalar(), 3)
	_, err := v.Run(ctx, DefaultCorpus(1), []Candidate{fixed("conv", compute.NewConv())})
	if err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestDefaultCorpus_Deterministic(t *testing.T) {
	a := DefaultCorpus(7)
	b := DefaultCorpus(7)
	if len(a) != len(b) {
		t.Fatal("corpus size differs")
	}
	for i := range a {
		if a[i].Name != b[i].Name || !a[i].Grid.Equal(b[i].Grid) {
			t.Errorf("case %d differs between calls", i)
		}
	}
}

func TestVerifier_FreshDevicePerCase(t *testing.T) {
	var built []*compute.SimDevice
	device := Candidate{Name: "device", New: func() (compute.Strategy, error) {
		dev := compute.NewSimDevice(2)
		built = append(built, dev)
		return compute.NewDeviceStrategy(dev, 4), nil
	}}
	corpus := []Case{
		{"small", filled(3, 3, 1)},
		{"wide", checkerboard(5, 11)},
		{"tall", checkerboard(9, 2)},
	}

	mismatches, err := NewVerifier(compute.NewScalar(), 4).Run(context.Background(), corpus, []Candidate{device})
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range mismatches {
		t.Errorf("unexpected mismatch: %s", m)
	}
	if len(built) != len(corpus) {
		t.Fatalf("expected %d device instances, got %d", len(corpus), len(built))
	}
	for i, dev := range built {
		if dev.Live() != 0 {
			t.Errorf("case %d: %d buffers still live after cleanup", i, dev.Live())
		}
	}
}

func TestVerifier_ConstructorError(t *testing.T) {
	failing := Candidate{Name: "opengl", New: func() (compute.Strategy, error) {
		return nil, compute.ErrNoDevice
	}}
	corpus := []Case{{"all dead", filled(4, 4, 0)}}

	mismatches, err := NewVerifier(compute.NewScalar(), 1).Run(context.Background(), corpus, []Candidate{failing})
	if err != nil {
		t.Fatal(err)
	}
	if len(mismatches) != 1 || !errors.Is(mismatches[0].Err, compute.ErrNoDevice) || mismatches[0].Strategy != "opengl" {
		t.Errorf("expected one ErrNoDevice mismatch, got %v", mismatches)
	}
}
