package observability

import (
	"time"

	"github.com/aretw0/turtle/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "turtle"

// Metrics holds the Prometheus collectors fed by the engine.
type Metrics struct {
	Turtles       prometheus.Gauge
	Commands      *prometheus.CounterVec
	Degenerate    prometheus.Counter
	Fills         prometheus.Counter
	FillContours  prometheus.Histogram
	Batches       *prometheus.CounterVec
	Frames        prometheus.Counter
	FrameDuration prometheus.Histogram
	registerer    prometheus.Registerer
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Turtles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "turtles",
			Help:      "Number of live turtles",
		}),
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Total number of commands completed",
			},
			[]string{"command", "mode"},
		),
		Degenerate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degenerate_commands_total",
			Help:      "Commands with zero-length geometry executed as no-ops",
		}),
		Fills: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fills_total",
			Help:      "Total number of completed fill brackets",
		}),
		FillContours: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fill_contours",
			Help:      "Contours per completed fill",
			Buckets:   []float64{1, 2, 3, 5, 8, 13},
		}),
		Batches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batches_total",
				Help:      "External command batches by outcome",
			},
			[]string{"outcome"},
		),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total number of frames stepped",
		}),
		FrameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Wall time spent stepping and presenting a frame",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		registerer: reg,
	}
	collectors := []prometheus.Collector{
		m.Turtles, m.Commands, m.Degenerate, m.Fills, m.FillContours, m.Batches, m.Frames, m.FrameDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// WatchInbox exports the current inbox depth, read on every scrape.
func (m *Metrics) WatchInbox(depth func() int) error {
	return m.registerer.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inbox_depth",
			Help:      "Envelopes waiting in the command inbox",
		},
		func() float64 { return float64(depth()) },
	))
}

// Hooks returns lifecycle hooks that record metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurtleCreated: func(*domain.TurtleEvent) { m.Turtles.Inc() },
		OnTurtleRemoved: func(*domain.TurtleEvent) { m.Turtles.Dec() },
		OnCommandComplete: func(e *domain.CommandEvent) {
			mode := "animated"
			if e.Instant {
				mode = "instant"
			}
			m.Commands.WithLabelValues(e.Command, mode).Inc()
			if e.Degenerate {
				m.Degenerate.Inc()
			}
		},
		OnFillComplete: func(e *domain.FillEvent) {
			m.Fills.Inc()
			m.FillContours.Observe(float64(e.Contours))
		},
		OnBatchDrained: func(*domain.BatchEvent) { m.Batches.WithLabelValues("applied").Inc() },
		OnBatchDropped: func(*domain.BatchEvent) { m.Batches.WithLabelValues("dropped").Inc() },
	}
}

// ObserveFrame matches runner.FrameObserver.
func (m *Metrics) ObserveFrame(_ uint64, _ time.Duration, took time.Duration) {
	m.Frames.Inc()
	m.FrameDuration.Observe(took.Seconds())
}
