package compute

import (
	"fmt"

	"github.com/san-kum/golbench/internal/grid"
)

// DefaultBlockSize is the edge length of a square thread block.
const DefaultBlockSize = 16

// Buffer is a device-resident cell array.
type Buffer interface {
	Len() int
}

// LaunchConfig describes a 2-D tiled kernel launch: GridX x GridY blocks of
// BlockX x BlockY threads, one thread per cell.
type LaunchConfig struct {
	BlockX, BlockY int
	GridX, GridY   int
}

// NewLaunchConfig covers a rows x cols grid with square blocks of the given
// size. X runs along columns and Y along rows.
func NewLaunchConfig(rows, cols, block int) LaunchConfig {
	if block < 1 {
		block = DefaultBlockSize
	}
	return LaunchConfig{
		BlockX: block,
		BlockY: block,
		GridX:  (cols + block - 1) / block,
		GridY:  (rows + block - 1) / block,
	}
}

// Threads returns the total number of threads launched.
func (l LaunchConfig) Threads() int {
	return l.BlockX * l.BlockY * l.GridX * l.GridY
}

// Device is an accelerator that runs the Life kernel over device buffers.
// Launch is asynchronous; results are only defined after Synchronize.
type Device interface {
	Name() string
	Available() bool
	Alloc(n int) (Buffer, error)
	Upload(dst Buffer, src []uint8) error
	Launch(cfg LaunchConfig, cur, next Buffer, rows, cols int) error
	Synchronize() error
	Download(dst []uint8, src Buffer) error
	Free(b Buffer)
	Close() error
}

// DeviceStrategy offloads each generation to a Device. It owns two device
// buffers, allocated on the first call and reused afterwards, whose roles
// swap after every launch.
type DeviceStrategy struct {
	dev   Device
	block int

	cur, next  Buffer
	rows, cols int
	launch     LaunchConfig
}

func NewDeviceStrategy(dev Device, block int) *DeviceStrategy {
	if block < 1 {
		block = DefaultBlockSize
	}
	return &DeviceStrategy{dev: dev, block: block}
}

func (s *DeviceStrategy) Name() string    { return "device:" + s.dev.Name() }
func (s *DeviceStrategy) Available() bool { return s.dev.Available() }

// Launch returns the kernel launch configuration, valid after the first Update.
func (s *DeviceStrategy) Launch() LaunchConfig { return s.launch }

func (s *DeviceStrategy) Update(g *grid.Grid) (*grid.Grid, error) {
	rows, cols := g.Rows(), g.Cols()
	if err := s.ensure(rows, cols); err != nil {
		return nil, err
	}

	if err := s.dev.Upload(s.cur, g.Cells()); err != nil {
		return nil, s.wrap("upload", err)
	}
	if err := s.dev.Launch(s.launch, s.cur, s.next, rows, cols); err != nil {
		return nil, s.wrap("launch", err)
	}
	if err := s.dev.Synchronize(); err != nil {
		return nil, s.wrap("synchronize", err)
	}

	s.cur, s.next = s.next, s.cur

	out, err := grid.New(rows, cols)
	if err != nil {
		return nil, err
	}
	if err := s.dev.Download(out.Cells(), s.cur); err != nil {
		return nil, s.wrap("download", err)
	}
	return out, nil
}

func (s *DeviceStrategy) ensure(rows, cols int) error {
	if s.cur != nil {
		if rows != s.rows || cols != s.cols {
			return fmt.Errorf("%w: buffers %dx%d, grid %dx%d", ErrDimensionMismatch, s.rows, s.cols, rows, cols)
		}
		return nil
	}

	cur, err := s.dev.Alloc(rows * cols)
	if err != nil {
		return s.wrap("alloc", err)
	}
	next, err := s.dev.Alloc(rows * cols)
	if err != nil {
		s.dev.Free(cur)
		return s.wrap("alloc", err)
	}

	s.cur, s.next = cur, next
	s.rows, s.cols = rows, cols
	s.launch = NewLaunchConfig(rows, cols, s.block)
	return nil
}

func (s *DeviceStrategy) wrap(op string, err error) error {
	return &DeviceError{Device: s.dev.Name(), Op: op, Err: err}
}

// Close releases both device buffers and closes the device, returning any
// launch error still pending on it.
func (s *DeviceStrategy) Close() error {
	if s.cur != nil {
		s.dev.Free(s.cur)
		s.dev.Free(s.next)
		s.cur, s.next = nil, nil
	}
	if err := s.dev.Close(); err != nil {
		return s.wrap("close", err)
	}
	return nil
}

// Cleanup is Close for callers that cannot act on the error.
func (s *DeviceStrategy) Cleanup() { _ = s.Close() }
