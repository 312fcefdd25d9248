// Package metrics measures update latency.
//
// A [Recorder] is an explicit, caller-owned sample set: the benchmark driver
// clears it at the warmup boundary, reads the average at the end of the
// measurement window and disables it entirely in interactive mode. An
// optional [Exporter] mirrors every sample into Prometheus collectors.
package metrics
