package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "midtrans_dik"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, by route, method and status code.",
		},
		[]string{"route", "method", "code"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	GatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "Calls made to the payment gateway, by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	GatewayRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_request_duration_seconds",
			Help:      "Payment gateway call latency by operation.",
			// the gateway is usually sub-second but snap creation can take a few seconds
			Buckets: []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.8, 1.2, 2, 3, 5, 10},
		},
		[]string{"operation"},
	)

	ReconciliationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_reconciliations_total",
			Help:      "Order status reconciliations, by resulting label and outcome.",
		},
		[]string{"status", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		GatewayRequestsTotal,
		GatewayRequestDuration,
		ReconciliationsTotal,
	)
}

// ObserveGateway records one payment gateway call.
func ObserveGateway(operation, outcome string, seconds float64) {
	GatewayRequestsTotal.WithLabelValues(operation, outcome).Inc()
	GatewayRequestDuration.WithLabelValues(operation).Observe(seconds)
}

// IncReconciliation records the outcome of one status reconciliation.
func IncReconciliation(status, outcome string) {
	ReconciliationsTotal.WithLabelValues(status, outcome).Inc()
}
