package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions indicates a grid with fewer than one row or column.
	ErrInvalidDimensions = errors.New("grid: invalid dimensions")

	// ErrRaggedRows indicates literal rows of unequal length.
	ErrRaggedRows = errors.New("grid: rows have unequal length")

	// ErrInvalidCell indicates a cell value other than 0 or 1.
	ErrInvalidCell = errors.New("grid: cell value must be 0 or 1")
)

// DimensionError reports the rejected dimensions.
type DimensionError struct {
	Rows, Cols int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("grid: invalid dimensions %dx%d", e.Rows, e.Cols)
}

func (e *DimensionError) Unwrap() error { return ErrInvalidDimensions }

type CellError struct {
	Row, Col int
	Value    uint8
}

func (e *CellError) Error() string {
	return fmt.Sprintf("grid: cell (%d,%d) has value %d, want 0 or 1", e.Row, e.Col, e.Value)
}

func (e *CellError) Unwrap() error { return ErrInvalidCell }
