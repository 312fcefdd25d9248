package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter publishes update latencies as Prometheus metrics.
type Exporter struct {
	reg         *prometheus.Registry
	updates     *prometheus.HistogramVec
	generations *prometheus.CounterVec
}

// NewExporter registers the golbench collectors on reg. A nil reg gets a
// fresh registry.
func NewExporter(reg *prometheus.Registry) *Exporter {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Exporter{
		reg: reg,
		updates: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "golbench",
			Name:      "update_seconds",
			Help:      "Wall time of one measured grid update.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"strategy"}),
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "golbench",
			Name:      "generations_total",
			Help:      "Measured generations computed.",
		}, []string{"strategy"}),
	}
}

type strategyObserver struct {
	hist    prometheus.Observer
	counter prometheus.Counter
}

func (o strategyObserver) Observe(seconds float64) {
	o.hist.Observe(seconds)
	o.counter.Inc()
}

// Observer returns a recorder Observer labelled with the strategy name.
func (e *Exporter) Observer(strategy string) Observer {
	return strategyObserver{
		hist:    e.updates.WithLabelValues(strategy),
		counter: e.generations.WithLabelValues(strategy),
	}
}

func (e *Exporter) Registry() *prometheus.Registry { return e.reg }

func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (e *Exporter) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
