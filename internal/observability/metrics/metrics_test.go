package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPaymentMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPaymentMetrics(reg)
	m.ObserveOperation("purchase", "success", 0.25)
	m.ObserveOperation("capture", "gateway_rejected", 0.1)
	m.ObserveToken("generated")
}

func TestPaymentMetricsNilSafe(t *testing.T) {
	var m *PaymentMetrics
	m.ObserveOperation("purchase", "success", 0.25)
	m.ObserveToken("disabled")
}
