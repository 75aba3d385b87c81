package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics a Scheduler reports,
// grounded on vango/pkg/middleware/metrics.go's MetricsConfig/
// MetricsOption constructor style.
type MetricsConfig struct {
	Namespace   string
	Subsystem   string
	ConstLabels prometheus.Labels
	Buckets     []float64
	Registry    prometheus.Registerer
}

// MetricsOption configures a SchedulerMetrics at construction time.
type MetricsOption func(*MetricsConfig)

func WithNamespace(ns string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = ns }
}

func WithMetricsRegistry(r prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = r }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "kinetic",
		Subsystem: "scheduler",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// SchedulerMetrics holds the Prometheus instruments a Scheduler updates
// on every flush: how many jobs ran per phase, how long a flush took,
// and how many times the effect budget tripped.
type SchedulerMetrics struct {
	jobsTotal      *prometheus.CounterVec
	flushDuration  prometheus.Histogram
	budgetExceeded prometheus.Counter
}

// NewSchedulerMetrics registers and returns a SchedulerMetrics.
func NewSchedulerMetrics(opts ...MetricsOption) *SchedulerMetrics {
	c := defaultMetricsConfig()
	for _, o := range opts {
		o(&c)
	}
	factory := promauto.With(c.Registry)

	return &SchedulerMetrics{
		jobsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   c.Namespace,
			Subsystem:   c.Subsystem,
			Name:        "jobs_total",
			Help:        "Total number of scheduler jobs run, by phase.",
			ConstLabels: c.ConstLabels,
		}, []string{"phase"}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   c.Namespace,
			Subsystem:   c.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Duration of a full FlushSync call.",
			ConstLabels: c.ConstLabels,
			Buckets:     c.Buckets,
		}),

		budgetExceeded: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   c.Namespace,
			Subsystem:   c.Subsystem,
			Name:        "budget_exceeded_total",
			Help:        "Number of times the per-flush effect budget was exceeded.",
			ConstLabels: c.ConstLabels,
		}),
	}
}

// WithMetrics attaches m to s: drainPhase records jobsTotal per phase,
// FlushSync records flushDuration, and an exceeded Budget records
// budgetExceeded.
func WithMetrics(m *SchedulerMetrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}
