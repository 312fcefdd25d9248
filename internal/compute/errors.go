package compute

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStrategy indicates a strategy name missing from the registry.
	ErrUnknownStrategy = errors.New("compute: unknown strategy")

	// ErrNoDevice indicates that no accelerator device could be opened.
	ErrNoDevice = errors.New("compute: no device available")

	// ErrDimensionMismatch indicates a grid whose shape differs from the
	// device buffers allocated on the first call.
	ErrDimensionMismatch = errors.New("compute: grid dimensions differ from device buffers")

	// ErrForeignBuffer indicates a buffer allocated by a different device.
	ErrForeignBuffer = errors.New("compute: buffer does not belong to device")

	// ErrBufferSize indicates a transfer or launch larger than the buffer.
	ErrBufferSize = errors.New("compute: buffer too small")

	// ErrDeviceClosed indicates use of a device after Close.
	ErrDeviceClosed = errors.New("compute: device closed")
)

// DeviceError wraps a failed device operation with its name.
type DeviceError struct {
	Device string
	Op     string
	Err    error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("compute: %s %s: %v", e.Device, e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }
