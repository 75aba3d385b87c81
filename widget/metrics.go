package widget

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus counters an Instance reports
// on mount/update/unmount, grounded on
// vango/pkg/middleware/metrics.go's MetricsConfig/MetricsOption style.
type MetricsConfig struct {
	Namespace   string
	Subsystem   string
	ConstLabels prometheus.Labels
	Registry    prometheus.Registerer
}

type MetricsOption func(*MetricsConfig)

func WithMetricsNamespace(ns string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = ns }
}

func WithMetricsRegistry(r prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = r }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "kinetic",
		Subsystem: "widget",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus counters shared by every widget Instance
// that was constructed WithMetrics(m).
type Metrics struct {
	mounts   prometheus.Counter
	updates  prometheus.Counter
	unmounts prometheus.Counter
}

// NewMetrics registers and returns a Metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	c := defaultMetricsConfig()
	for _, o := range opts {
		o(&c)
	}
	factory := promauto.With(c.Registry)

	return &Metrics{
		mounts: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   c.Namespace,
			Subsystem:   c.Subsystem,
			Name:        "mounts_total",
			Help:        "Total number of widget instances mounted.",
			ConstLabels: c.ConstLabels,
		}),
		updates: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   c.Namespace,
			Subsystem:   c.Subsystem,
			Name:        "updates_total",
			Help:        "Total number of widget rebuilds after the first.",
			ConstLabels: c.ConstLabels,
		}),
		unmounts: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   c.Namespace,
			Subsystem:   c.Subsystem,
			Name:        "unmounts_total",
			Help:        "Total number of widget instances unmounted.",
			ConstLabels: c.ConstLabels,
		}),
	}
}
