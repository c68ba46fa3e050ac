package session

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors shared by instrumented backends.
type Metrics struct {
	operations *prometheus.CounterVec
	lookups    *prometheus.CounterVec
	errors     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the backend collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "plugsession",
				Name:      "backend_operations_total",
				Help:      "Session backend operations by backend and operation.",
			},
			[]string{"backend", "op"},
		),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "plugsession",
				Name:      "backend_lookups_total",
				Help:      "Session backend loads by result (hit or miss).",
			},
			[]string{"backend", "result"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "plugsession",
				Name:      "backend_errors_total",
				Help:      "Failed session backend operations.",
			},
			[]string{"backend", "op"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "plugsession",
				Name:      "backend_operation_duration_seconds",
				Help:      "Session backend operation latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"backend", "op"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.operations, m.lookups, m.errors, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Instrument wraps b so that its calls are recorded under name.
func (m *Metrics) Instrument(name string, b Backend) *InstrumentedBackend {
	return &InstrumentedBackend{name: name, next: b, metrics: m}
}

// InstrumentedBackend records Prometheus metrics around another Backend.
type InstrumentedBackend struct {
	name    string
	next    Backend
	metrics *Metrics
}

// Unwrap returns the decorated backend.
func (b *InstrumentedBackend) Unwrap() Backend {
	return b.next
}

func (b *InstrumentedBackend) Load(ctx context.Context, id string) ([]byte, error) {
	start := time.Now()
	data, err := b.next.Load(ctx, id)
	b.observe("load", start, err)
	if err == nil {
		result := "hit"
		if len(data) == 0 {
			result = "miss"
		}
		b.metrics.lookups.WithLabelValues(b.name, result).Inc()
	}
	return data, err
}

func (b *InstrumentedBackend) Dump(ctx context.Context, id string, data []byte) error {
	start := time.Now()
	err := b.next.Dump(ctx, id, data)
	b.observe("dump", start, err)
	return err
}

func (b *InstrumentedBackend) Clear(ctx context.Context, id string) error {
	start := time.Now()
	err := b.next.Clear(ctx, id)
	b.observe("clear", start, err)
	return err
}

func (b *InstrumentedBackend) observe(op string, start time.Time, err error) {
	b.metrics.operations.WithLabelValues(b.name, op).Inc()
	b.metrics.duration.WithLabelValues(b.name, op).Observe(time.Since(start).Seconds())
	if err != nil {
		b.metrics.errors.WithLabelValues(b.name, op).Inc()
	}
}
