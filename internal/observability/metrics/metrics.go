package metrics

import "github.com/prometheus/client_golang/prometheus"

// PaymentMetrics exposes counters/histograms for gateway operations.
type PaymentMetrics struct {
	operationsTotal  *prometheus.CounterVec
	processorLatency *prometheus.HistogramVec
	tokensTotal      *prometheus.CounterVec
}

func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	m := &PaymentMetrics{
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "braintree_gateway",
			Subsystem: "payments",
			Name:      "operations_total",
			Help:      "Total gateway operations by result",
		}, []string{"operation", "result"}),
		processorLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "braintree_gateway",
			Subsystem: "payments",
			Name:      "processor_latency_seconds",
			Help:      "Latency of round trips to the processor",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		tokensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "braintree_gateway",
			Subsystem: "payments",
			Name:      "client_tokens_total",
			Help:      "Client token requests by result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.operationsTotal, m.processorLatency, m.tokensTotal)
	return m
}

// ObserveOperation records one gateway operation and its processor latency.
func (m *PaymentMetrics) ObserveOperation(operation, result string, seconds float64) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation, result).Inc()
	m.processorLatency.WithLabelValues(operation).Observe(seconds)
}

// ObserveToken records one client-token request.
func (m *PaymentMetrics) ObserveToken(result string) {
	if m == nil {
		return
	}
	m.tokensTotal.WithLabelValues(result).Inc()
}
