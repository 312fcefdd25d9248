// Package compute provides interchangeable Game of Life update strategies.
//
// Every [Strategy] maps a grid to its next generation and all of them agree
// bit for bit on every input:
//
//   - scalar: reference nested loop with explicit bounds checks
//   - conv: zero-padded 3x3 convolution followed by whole-grid masks
//   - parallel: row bands stepped concurrently on worker goroutines
//   - device: kernel launches on a [Device] with ping-pong buffers
//
// Strategies are built by name:
//
//	s, err := compute.New("parallel", compute.Options{Workers: 8})
//	next, err := s.Update(g)
//
// # Devices
//
// The default build ships [SimDevice], a software device that schedules
// 16x16 thread blocks onto multiprocessor goroutines. Build with
//
//	go build -tags opengl,opengl43 ./cmd/golbench
//
// to enable the GLSL compute shader device.
package compute
