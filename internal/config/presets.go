package config

import (
	"fmt"
	"sort"
)

// Presets are named grid sizes. Fields not listed fall back to the defaults.
var Presets = map[string]*Config{
	"tiny":   {Width: 64, Height: 64, Warmup: 5, Iterations: 20},
	"small":  {Width: 256, Height: 256, Warmup: 20, Iterations: 100},
	"medium": {Width: 512, Height: 512, Warmup: 50, Iterations: 100},
	"large":  {Width: 1000, Height: 1000, Warmup: 50, Iterations: 100},
	"huge":   {Width: 2048, Height: 2048, Warmup: 10, Iterations: 50},
	"screen": {Width: 800, Height: 600, CellSize: 4, FPS: 30, Show: true},
}

// GetPreset returns the defaults overlaid with the named preset.
func GetPreset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	cfg := DefaultConfig()
	cfg.Width = p.Width
	cfg.Height = p.Height
	if p.CellSize > 0 {
		cfg.CellSize = p.CellSize
	}
	if p.FPS > 0 {
		cfg.FPS = p.FPS
	}
	if p.Warmup > 0 {
		cfg.Warmup = p.Warmup
	}
	if p.Iterations > 0 {
		cfg.Iterations = p.Iterations
	}
	cfg.Show = p.Show
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
