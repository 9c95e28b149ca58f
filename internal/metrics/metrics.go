package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes counters/histograms for the booking API. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	bookingsTotal      *prometheus.CounterVec
	gateDenials        *prometheus.CounterVec
	availabilityTotal  *prometheus.CounterVec
	availabilityTiming prometheus.Histogram
	rateLimited        prometheus.Counter
	gatherer           prometheus.Gatherer
}

func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "turnos",
			Subsystem: "booking",
			Name:      "created_total",
			Help:      "Appointments created, by source and outcome",
		}, []string{"source", "outcome"}),
		gateDenials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "turnos",
			Subsystem: "plan",
			Name:      "gate_denials_total",
			Help:      "Requests rejected by the plan gate",
		}, []string{"section", "plan"}),
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "turnos",
			Subsystem: "availability",
			Name:      "requests_total",
			Help:      "Slot grid computations",
		}, []string{"kind"}),
		availabilityTiming: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "turnos",
			Subsystem: "availability",
			Name:      "duration_seconds",
			Help:      "Time spent computing slot grids",
			Buckets:   prometheus.DefBuckets,
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "turnos",
			Subsystem: "public",
			Name:      "rate_limited_total",
			Help:      "Public requests rejected by the rate limiter",
		}),
	}

	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	reg.MustRegister(
		m.bookingsTotal,
		m.gateDenials,
		m.availabilityTotal,
		m.availabilityTiming,
		m.rateLimited,
	)
	m.gatherer = reg
	return m
}

func (m *Metrics) ObserveBooking(source, outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) ObserveGateDenial(section, plan string) {
	if m == nil {
		return
	}
	m.gateDenials.WithLabelValues(section, plan).Inc()
}

func (m *Metrics) ObserveAvailability(kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(kind).Inc()
	m.availabilityTiming.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
