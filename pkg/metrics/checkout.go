package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout attempts and gateway behavior.
type CheckoutMetrics struct {
	attempts        *prometheus.CounterVec
	gatewayDuration prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	gatewayDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_gateway_duration_seconds",
		Help:    "Duration of payment gateway session creation in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(attempts, gatewayDuration)
	return &CheckoutMetrics{
		attempts:        attempts,
		gatewayDuration: gatewayDuration,
	}
}

// IncOutcome increments the attempt counter for the given outcome label.
func (c *CheckoutMetrics) IncOutcome(outcome string) {
	if c == nil || c.attempts == nil {
		return
	}
	c.attempts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveGatewayDuration records how long the gateway call took.
func (c *CheckoutMetrics) ObserveGatewayDuration(duration time.Duration) {
	if c == nil || c.gatewayDuration == nil {
		return
	}
	c.gatewayDuration.Observe(duration.Seconds())
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
