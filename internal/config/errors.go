package config

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid configuration")

var ErrUnknownPreset = errors.New("unknown preset")

// FieldError reports the first field rule a configuration violates.
type FieldError struct {
	Field string
	Rule  string
	Param string
	Value any
}

func (e *FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("invalid configuration: %s=%v fails %s=%s", e.Field, e.Value, e.Rule, e.Param)
	}
	return fmt.Sprintf("invalid configuration: %s=%v fails %s", e.Field, e.Value, e.Rule)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidConfig
}
