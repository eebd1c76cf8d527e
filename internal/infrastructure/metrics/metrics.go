package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "emotion"

// Metrics holds the service collectors
type Metrics struct {
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	Predictions       *prometheus.CounterVec
	PredictionErrors  *prometheus.CounterVec
	PredictionLatency prometheus.Histogram
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Served predictions by winning label.",
		}, []string{"label"}),
		PredictionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_errors_total",
			Help:      "Failed predictions by error kind.",
		}, []string{"kind"}),
		PredictionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "End-to-end prediction latency including translation.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.Predictions, m.PredictionErrors, m.PredictionLatency)
	}
	return m
}

// ObservePrediction records a served prediction
func (m *Metrics) ObservePrediction(label string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Predictions.WithLabelValues(label).Inc()
	m.PredictionLatency.Observe(elapsed.Seconds())
}

// ObservePredictionError records a failed prediction
func (m *Metrics) ObservePredictionError(kind string) {
	if m == nil {
		return
	}
	m.PredictionErrors.WithLabelValues(kind).Inc()
}
