package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the gateway. A nil *Metrics
// is safe to record against.
type Metrics struct {
	RequestsTotal     prometheus.Counter
	RateLimitedTotal  prometheus.Counter
	InvalidPhoneTotal prometheus.Counter
	SimulatedTotal    prometheus.Counter
	SentTotal         prometheus.Counter
	SendErrorsTotal   prometheus.Counter
	SendDurationSecs  prometheus.Histogram
	TrackedKeys       prometheus.Gauge

	registry *prometheus.Registry
}

func New() *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "otp_gateway_requests_total",
			Help: "Total number of send-otp requests received",
		}),
		RateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "otp_gateway_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		}),
		InvalidPhoneTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "otp_gateway_invalid_phone_total",
			Help: "Total number of requests rejected for a missing or invalid phone number",
		}),
		SimulatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "otp_gateway_simulated_total",
			Help: "Total number of deliveries simulated because provider credentials are absent",
		}),
		SentTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "otp_gateway_sent_total",
			Help: "Total number of messages accepted by the SMS provider",
		}),
		SendErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "otp_gateway_send_errors_total",
			Help: "Total number of provider delivery failures",
		}),
		SendDurationSecs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "otp_gateway_send_duration_seconds",
			Help:    "Duration of provider send calls in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		}),
		TrackedKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "otp_gateway_rate_limit_tracked_keys",
			Help: "Number of client addresses currently tracked by the rate limiter",
		}),
	}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		m.RequestsTotal,
		m.RateLimitedTotal,
		m.InvalidPhoneTotal,
		m.SimulatedTotal,
		m.SentTotal,
		m.SendErrorsTotal,
		m.SendDurationSecs,
		m.TrackedKeys,
	)

	return m
}

// Handler serves the exposition endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordRequest() {
	if m == nil {
		return
	}
	m.RequestsTotal.Inc()
}

func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}

func (m *Metrics) RecordInvalidPhone() {
	if m == nil {
		return
	}
	m.InvalidPhoneTotal.Inc()
}

func (m *Metrics) RecordSimulated() {
	if m == nil {
		return
	}
	m.SimulatedTotal.Inc()
}

// RecordSend observes one provider call and classifies its outcome.
func (m *Metrics) RecordSend(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.SendDurationSecs.Observe(duration.Seconds())
	if err != nil {
		m.SendErrorsTotal.Inc()
		return
	}
	m.SentTotal.Inc()
}

func (m *Metrics) SetTrackedKeys(count int) {
	if m == nil {
		return
	}
	m.TrackedKeys.Set(float64(count))
}
