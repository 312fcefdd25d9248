package metrics

import (
	"math"
	"time"
)

// Observer receives every recorded sample in seconds.
type Observer interface {
	Observe(seconds float64)
}

// Recorder collects per-call durations. It is owned by a single goroutine
// and is not safe for concurrent use.
type Recorder struct {
	samples  []float64
	disabled bool
	observer Observer
}

func NewRecorder() *Recorder {
	return &Recorder{samples: make([]float64, 0, 128)}
}

// SetObserver forwards future samples to o in addition to storing them.
func (r *Recorder) SetObserver(o Observer) { r.observer = o }

// Record appends d unless the recorder is disabled.
func (r *Recorder) Record(d time.Duration) {
	if r.disabled {
		return
	}
	s := d.Seconds()
	r.samples = append(r.samples, s)
	if r.observer != nil {
		r.observer.Observe(s)
	}
}

// Average returns the arithmetic mean of the samples, or 0 when there are none.
func (r *Recorder) Average() float64 {
	if len(r.samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range r.samples {
		sum += s
	}
	return sum / float64(len(r.samples))
}

// Clear drops all samples. The disabled flag is left as is.
func (r *Recorder) Clear() { r.samples = r.samples[:0] }

func (r *Recorder) Disable()      { r.disabled = true }
func (r *Recorder) Enable()       { r.disabled = false }
func (r *Recorder) Enabled() bool { return !r.disabled }
func (r *Recorder) Len() int      { return len(r.samples) }

// Samples returns a copy of the recorded durations in seconds.
func (r *Recorder) Samples() []float64 {
	out := make([]float64, len(r.samples))
	copy(out, r.samples)
	return out
}

// Start begins a timed scope; calling the returned func records the elapsed
// time. Use with defer so every exit path is measured.
func (r *Recorder) Start() (stop func()) {
	start := time.Now()
	return func() { r.Record(time.Since(start)) }
}

// Time runs fn and records its duration whether it returns normally, returns
// an error or panics.
func (r *Recorder) Time(fn func() error) error {
	defer r.Start()()
	return fn()
}

// Stats summarizes a sample set.
type Stats struct {
	Count  int
	Mean   float64
	Min    float64
	Max    float64
	StdDev float64
}

// Summary computes Stats over the current samples. An empty recorder yields
// the zero Stats.
func (r *Recorder) Summary() Stats {
	n := len(r.samples)
	if n == 0 {
		return Stats{}
	}
	st := Stats{Count: n, Mean: r.Average(), Min: r.samples[0], Max: r.samples[0]}
	variance := 0.0
	for _, s := range r.samples {
		st.Min = math.Min(st.Min, s)
		st.Max = math.Max(st.Max, s)
		variance += (s - st.Mean) * (s - st.Mean)
	}
	st.StdDev = math.Sqrt(variance / float64(n))
	return st
}
