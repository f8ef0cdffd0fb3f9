package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shhac/roboaccordion/internal/accordion"
)

const namespace = "roboaccordion"

var _ accordion.Listener = (*Collector)(nil)

// Collector records accordion activity as Prometheus metrics. It is an
// accordion.Listener and also takes tap and rebuild notifications from the
// widget.
type Collector struct {
	registry *prometheus.Registry

	taps        *prometheus.CounterVec
	transitions *prometheus.CounterVec
	rebuilds    prometheus.Counter
	duration    prometheus.Histogram
	expanded    prometheus.Gauge
	animating   prometheus.Gauge

	mu        sync.Mutex
	startedAt time.Time
	now       func() time.Time
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		taps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "header_taps_total",
			Help:      "Header taps, by whether they started a transition.",
		}, []string{"result"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Completed transitions, by expanded segment.",
		}, []string{"expanded"}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebuilds_total",
			Help:      "Segment rebuilds.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transition_duration_seconds",
			Help:      "Wall time from transition start to commit.",
			Buckets:   []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1, 2},
		}),
		expanded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expanded_segment",
			Help:      "Index of the expanded segment, -1 for the filler.",
		}),
		animating: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transition_in_progress",
			Help:      "1 while a transition runs.",
		}),
		now: time.Now,
	}
	c.expanded.Set(accordion.Filler)
	c.registry.MustRegister(c.taps, c.transitions, c.rebuilds, c.duration, c.expanded, c.animating)
	return c
}

// Registry returns the registry the collector's metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// OnWillChange implements accordion.Listener.
func (c *Collector) OnWillChange(_, _ int) {
	c.mu.Lock()
	c.startedAt = c.now()
	c.mu.Unlock()
	c.animating.Set(1)
}

// OnChanged implements accordion.Listener.
func (c *Collector) OnChanged(expanding, _ int) {
	c.mu.Lock()
	elapsed := c.now().Sub(c.startedAt)
	c.mu.Unlock()

	c.duration.Observe(elapsed.Seconds())
	c.transitions.WithLabelValues(segmentLabel(expanding)).Inc()
	c.expanded.Set(float64(expanding))
	c.animating.Set(0)
}

// Tapped counts a header tap.
func (c *Collector) Tapped(_ int, accepted bool) {
	result := "dropped"
	if accepted {
		result = "accepted"
	}
	c.taps.WithLabelValues(result).Inc()
}

// Rebuilt counts a rebuild and records the expanded segment it settled on.
func (c *Collector) Rebuilt(expanded int) {
	c.rebuilds.Inc()
	c.expanded.Set(float64(expanded))
	c.animating.Set(0)
}

func segmentLabel(index int) string {
	if index == accordion.Filler {
		return "filler"
	}
	return strconv.Itoa(index)
}
