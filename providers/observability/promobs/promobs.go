// Package promobs implements observability.Metrics on top of the Prometheus
// client library, so the counters and histograms recorded by providers and
// the session can be scraped from a /metrics endpoint.
package promobs

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leofalp/chatstream/providers/observability"
)

// Metrics lazily registers one CounterVec or HistogramVec per metric name.
// Label names are fixed by the attributes passed on the first observation of
// a metric; later observations with other attribute keys drop those keys.
type Metrics struct {
	mu         sync.Mutex
	registerer prometheus.Registerer
	logger     *slog.Logger
	counters   map[string]*counter
	histograms map[string]*histogram
}

// Option configures Metrics.
type Option func(*Metrics)

// WithLogger sets the logger that reports failed collector registrations.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Metrics) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New returns Metrics registering its collectors on registerer. A nil
// registerer falls back to prometheus.DefaultRegisterer.
func New(registerer prometheus.Registerer, opts ...Option) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		registerer: registerer,
		logger:     slog.Default(),
		counters:   make(map[string]*counter),
		histograms: make(map[string]*histogram),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ observability.Metrics = (*Metrics)(nil)

// SetLogger replaces the logger, for callers whose logger is built after the
// metrics it records into.
func (m *Metrics) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// Counter returns the counter for name.
func (m *Metrics) Counter(name string) observability.Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.counters[name]
	if !ok {
		existing = &counter{metrics: m, name: name}
		m.counters[name] = existing
	}
	return existing
}

// Histogram returns the histogram for name.
func (m *Metrics) Histogram(name string) observability.Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.histograms[name]
	if !ok {
		existing = &histogram{metrics: m, name: name}
		m.histograms[name] = existing
	}
	return existing
}

type counter struct {
	metrics *Metrics
	name    string
	once    sync.Once
	vec     *prometheus.CounterVec
	labels  []string
}

func (c *counter) Add(_ context.Context, value int64, attrs ...observability.Attribute) {
	c.once.Do(func() {
		c.labels = labelNames(attrs)
		c.vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: promName(c.name) + "_total",
			Help: "chatstream counter " + c.name,
		}, c.labels)
		c.vec = register(c.metrics, c.name, c.vec)
	})
	c.vec.With(labelValues(c.labels, attrs)).Add(float64(value))
}

type histogram struct {
	metrics *Metrics
	name    string
	once    sync.Once
	vec     *prometheus.HistogramVec
	labels  []string
}

func (h *histogram) Record(_ context.Context, value float64, attrs ...observability.Attribute) {
	h.once.Do(func() {
		h.labels = labelNames(attrs)
		h.vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    promName(h.name),
			Help:    "chatstream histogram " + h.name,
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
		}, h.labels)
		h.vec = register(h.metrics, h.name, h.vec)
	})
	h.vec.With(labelValues(h.labels, attrs)).Observe(value)
}

// register registers collector, reusing an identical collector that is
// already registered. Any other failure is logged and collector is returned
// unregistered: its observations are not exported.
func register[C prometheus.Collector](m *Metrics, name string, collector C) C {
	err := m.registerer.Register(collector)
	if err == nil {
		return collector
	}
	if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing
		}
	}
	m.mu.Lock()
	logger := m.logger
	m.mu.Unlock()
	logger.Warn("metric registration failed",
		slog.String("metric", name),
		slog.String("error", err.Error()),
	)
	return collector
}

// promName maps "chatstream.stream.lines_dropped" to
// "chatstream_stream_lines_dropped".
func promName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}

func labelNames(attrs []observability.Attribute) []string {
	names := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		names = append(names, promName(attr.Key))
	}
	sort.Strings(names)
	return names
}

func labelValues(names []string, attrs []observability.Attribute) prometheus.Labels {
	labels := make(prometheus.Labels, len(names))
	for _, name := range names {
		labels[name] = ""
	}
	for _, attr := range attrs {
		key := promName(attr.Key)
		if _, ok := labels[key]; ok {
			labels[key] = toString(attr.Value)
		}
	}
	return labels
}

func toString(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case interface{ String() string }:
		return typed.String()
	case bool:
		if typed {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
