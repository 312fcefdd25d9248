package config

import (
	"fmt"
	"maps"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 1000
	DefaultHeight     = 1000
	DefaultCellSize   = 1
	DefaultFPS        = 60
	DefaultWarmup     = 50
	DefaultIterations = 100
	DefaultOutput     = "output.csv"
	DefaultName       = "Default"
	DefaultStrategy   = "scalar"
)

// Config describes one benchmark or interactive run. Grid dimensions are
// derived from the pixel size and the cell size.
type Config struct {
	Width      int    `yaml:"width" validate:"gte=1"`
	Height     int    `yaml:"height" validate:"gte=1"`
	CellSize   int    `yaml:"cell_size" validate:"gte=1"`
	FPS        int    `yaml:"fps" validate:"gte=1"`
	Show       bool   `yaml:"show"`
	Warmup     int    `yaml:"warmup" validate:"gte=0"`
	Iterations int    `yaml:"iterations" validate:"gte=1"`
	Output     string `yaml:"output" validate:"required"`
	Name       string `yaml:"name" validate:"required"`
	Strategy   string `yaml:"strategy" validate:"required"`
	Seed       int64  `yaml:"seed"`
	Workers    int    `yaml:"workers" validate:"gte=0"`

	set map[string]bool // yaml keys present in the loaded file
}

func DefaultConfig() *Config {
	return &Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		CellSize:   DefaultCellSize,
		FPS:        DefaultFPS,
		Warmup:     DefaultWarmup,
		Iterations: DefaultIterations,
		Output:     DefaultOutput,
		Name:       DefaultName,
		Strategy:   DefaultStrategy,
	}
}

// Load reads a YAML file on top of the defaults. Keys absent from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if len(doc.Content) == 0 {
		return cfg, nil
	}
	root := doc.Content[0]
	if err := root.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if root.Kind == yaml.MappingNode {
		cfg.set = make(map[string]bool, len(root.Content)/2)
		for i := 0; i < len(root.Content); i += 2 {
			cfg.set[root.Content[i].Value] = true
		}
	}
	return cfg, nil
}

// IsSet reports whether the file cfg was loaded from names the yaml key,
// even when its value equals the default.
func (c *Config) IsSet(key string) bool {
	return c.set[key]
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Rows() int  { return c.Height / c.CellSize }
func (c *Config) Cols() int  { return c.Width / c.CellSize }
func (c *Config) Cells() int { return c.Rows() * c.Cols() }

var validate = validator.New()

// Validate checks field rules and that the grid has at least one row and
// one column. Every failure wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return &FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param(), Value: fe.Value()}
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.CellSize > c.Width || c.CellSize > c.Height {
		return &FieldError{Field: "CellSize", Rule: "lte", Param: "min(width, height)", Value: c.CellSize}
	}
	return nil
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.set = maps.Clone(c.set)
	return &cp
}
