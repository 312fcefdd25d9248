package compute

import (
	"fmt"
	"sync"
)

type simBuffer struct {
	owner *SimDevice
	data  []uint8
}

func (b *simBuffer) Len() int { return len(b.data) }

// SimDevice is a software device with SIMT semantics. A launch returns
// immediately; its blocks are scheduled onto a fixed set of multiprocessor
// goroutines and every thread computes exactly one cell. Transfers wait for
// any launch still in flight, as on a default stream.
type SimDevice struct {
	sms int

	mu       sync.Mutex
	inflight chan error
	fault    error // launch error seen by Free, reported by the next Synchronize
	allocs   int
	live     int
	closed   bool
}

// NewSimDevice creates a device with the given number of multiprocessors.
func NewSimDevice(sms int) *SimDevice {
	if sms < 1 {
		sms = 1
	}
	return &SimDevice{sms: sms}
}

func (d *SimDevice) Name() string    { return fmt.Sprintf("sim(%d)", d.sms) }
func (d *SimDevice) Available() bool { return true }

// Allocs returns the number of buffers allocated over the device lifetime.
func (d *SimDevice) Allocs() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.allocs
}

// Live returns the number of buffers not yet freed.
func (d *SimDevice) Live() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

func (d *SimDevice) Alloc(n int) (Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrDeviceClosed
	}
	d.allocs++
	d.live++
	return &simBuffer{owner: d, data: make([]uint8, n)}, nil
}

func (d *SimDevice) buffer(b Buffer) (*simBuffer, error) {
	sb, ok := b.(*simBuffer)
	if !ok || sb.owner != d {
		return nil, ErrForeignBuffer
	}
	return sb, nil
}

func (d *SimDevice) Upload(dst Buffer, src []uint8) error {
	if err := d.Synchronize(); err != nil {
		return err
	}
	b, err := d.buffer(dst)
	if err != nil {
		return err
	}
	if len(src) > len(b.data) {
		return ErrBufferSize
	}
	copy(b.data, src)
	return nil
}

func (d *SimDevice) Download(dst []uint8, src Buffer) error {
	if err := d.Synchronize(); err != nil {
		return err
	}
	b, err := d.buffer(src)
	if err != nil {
		return err
	}
	if len(dst) > len(b.data) {
		return ErrBufferSize
	}
	copy(dst, b.data)
	return nil
}

func (d *SimDevice) Launch(cfg LaunchConfig, cur, next Buffer, rows, cols int) error {
	in, err := d.buffer(cur)
	if err != nil {
		return err
	}
	out, err := d.buffer(next)
	if err != nil {
		return err
	}
	if rows*cols > len(in.data) || rows*cols > len(out.data) {
		return ErrBufferSize
	}
	if cfg.GridX*cfg.BlockX < cols || cfg.GridY*cfg.BlockY < rows {
		return fmt.Errorf("compute: launch %dx%d blocks of %dx%d does not cover %dx%d grid",
			cfg.GridX, cfg.GridY, cfg.BlockX, cfg.BlockY, rows, cols)
	}
	if err := d.Synchronize(); err != nil {
		return err
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDeviceClosed
	}
	done := make(chan error, 1)
	d.inflight = done
	d.mu.Unlock()

	go func() {
		done <- d.run(cfg, in.data, out.data, rows, cols)
	}()
	return nil
}

// Synchronize blocks until the in-flight launch, if any, has completed and
// returns its error, or an earlier one retained by Free.
func (d *SimDevice) Synchronize() error {
	d.wait()
	d.mu.Lock()
	err := d.fault
	d.fault = nil
	d.mu.Unlock()
	return err
}

// wait joins the in-flight launch and keeps its error for Synchronize.
func (d *SimDevice) wait() {
	d.mu.Lock()
	done := d.inflight
	d.inflight = nil
	d.mu.Unlock()

	if done == nil {
		return
	}
	if err := <-done; err != nil {
		d.mu.Lock()
		if d.fault == nil {
			d.fault = err
		}
		d.mu.Unlock()
	}
}

func (d *SimDevice) run(cfg LaunchConfig, in, out []uint8, rows, cols int) error {
	blocks := make(chan [2]int, cfg.GridX*cfg.GridY)
	for by := 0; by < cfg.GridY; by++ {
		for bx := 0; bx < cfg.GridX; bx++ {
			blocks <- [2]int{bx, by}
		}
	}
	close(blocks)

	var (
		wg       sync.WaitGroup
		faultMu  sync.Mutex
		firstErr error
	)
	for sm := 0; sm < d.sms; sm++ {
		wg.Add(1)
		go func(sm int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					faultMu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("compute: kernel fault on sm %d: %v", sm, r)
					}
					faultMu.Unlock()
				}
			}()
			for blk := range blocks {
				for ty := 0; ty < cfg.BlockY; ty++ {
					for tx := 0; tx < cfg.BlockX; tx++ {
						r := blk[1]*cfg.BlockY + ty
						c := blk[0]*cfg.BlockX + tx
						lifeKernel(in, out, rows, cols, r, c)
					}
				}
			}
		}(sm)
	}
	wg.Wait()
	return firstErr
}

// lifeKernel is the per-thread body: threads outside the grid exit early.
func lifeKernel(in, out []uint8, rows, cols, r, c int) {
	if r >= rows || c >= cols {
		return
	}
	total := 0
	for dr := -1; dr <= 1; dr++ {
		nr := r + dr
		if nr < 0 || nr >= rows {
			continue
		}
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nc := c + dc
			if nc < 0 || nc >= cols {
				continue
			}
			total += int(in[nr*cols+nc])
		}
	}
	out[r*cols+c] = nextState(in[r*cols+c], total)
}

func (d *SimDevice) Free(b Buffer) {
	sb, err := d.buffer(b)
	if err != nil || sb.data == nil {
		return
	}
	d.wait()
	d.mu.Lock()
	sb.data = nil
	d.live--
	d.mu.Unlock()
}

func (d *SimDevice) Close() error {
	err := d.Synchronize()
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return err
}
