package compute

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/san-kum/golbench/internal/grid"
)

// Strategy computes one Game of Life generation. Update must not modify its
// input and returns a new grid holding exactly one rule application.
type Strategy interface {
	Name() string
	Available() bool
	Update(g *grid.Grid) (*grid.Grid, error)
	Cleanup()
}

// Options tunes strategy construction. Zero values select defaults.
type Options struct {
	Workers   int
	BlockSize int
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

func (o Options) blockSize() int {
	if o.BlockSize > 0 {
		return o.BlockSize
	}
	return DefaultBlockSize
}

var registry = map[string]func(Options) (Strategy, error){
	"scalar": func(Options) (Strategy, error) { return NewScalar(), nil },
	"conv":   func(Options) (Strategy, error) { return NewConv(), nil },
	"fft":    func(Options) (Strategy, error) { return NewFFT(), nil },
	"parallel": func(o Options) (Strategy, error) {
		return NewParallel(o.workers()), nil
	},
	"device": func(o Options) (Strategy, error) {
		return NewDeviceStrategy(NewSimDevice(o.workers()), o.blockSize()), nil
	},
	"opengl": func(o Options) (Strategy, error) {
		dev, err := NewOpenGLDevice()
		if err != nil {
			return nil, err
		}
		return NewDeviceStrategy(dev, o.blockSize()), nil
	},
}

// New builds the named strategy.
func New(name string, opts Options) (Strategy, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownStrategy, name, Names())
	}
	return fn(opts)
}

// Names lists registered strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AutoSelect returns the fastest strategy usable on this machine: the OpenGL
// device when a GPU context can be created, otherwise the parallel CPU loop.
func AutoSelect(opts Options) Strategy {
	if s, err := New("opengl", opts); err == nil && s.Available() {
		return s
	}
	return NewParallel(opts.workers())
}
