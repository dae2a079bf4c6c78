package quoter

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the quoter's Prometheus collectors.
type Metrics struct {
	quoteDuration *prometheus.HistogramVec
	exceeded      prometheus.Counter
	crossedTicks  prometheus.Histogram
	unpriceable   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		quoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clmm",
			Subsystem: "quoter",
			Name:      "quote_duration_seconds",
			Help:      "Time spent computing a quote.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"kind"}),
		exceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clmm",
			Subsystem: "quoter",
			Name:      "swap_exceeded_total",
			Help:      "Swap quotes that could not be honoured in a single transaction.",
		}),
		crossedTicks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clmm",
			Subsystem: "quoter",
			Name:      "swap_crossed_ticks",
			Help:      "Initialized ticks crossed per swap quote.",
			Buckets:   []float64{0, 1, 2, 4, 6, 10, 20, 40, 80},
		}),
		unpriceable: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clmm",
			Subsystem: "quoter",
			Name:      "unpriceable_total",
			Help:      "Quotes that could not be priced because the snapshot lacked a required tick.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.quoteDuration, m.exceeded, m.crossedTicks, m.unpriceable)
	return m
}
