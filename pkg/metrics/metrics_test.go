package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	m := NewWithRegistry("test-service", prometheus.NewRegistry())

	m.ObserveReservation("created")
	m.ObserveReservation("created")
	m.ObserveReservation("capacity_exceeded")
	m.ObserveSlotGeneration(8, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReservationsTotal.WithLabelValues("test-service", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReservationsTotal.WithLabelValues("test-service", "capacity_exceeded")))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.SlotsGeneratedTotal.WithLabelValues("test-service", "created")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SlotsGeneratedTotal.WithLabelValues("test-service", "skipped")))
}

func TestMetrics_ObserveHTTPRequest(t *testing.T) {
	m := NewWithRegistry("test-service", prometheus.NewRegistry())

	m.ObserveHTTPRequest("POST", "/api/v1/reservations", 201, 0.02)
	m.ObserveHTTPRequest("POST", "/api/v1/reservations", 409, 0.01)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("test-service", "POST", "/api/v1/reservations", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("test-service", "POST", "/api/v1/reservations", "409")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveReservation("created")
		m.ObserveSlotGeneration(1, 1)
		m.ObserveLockWait(0.1)
		m.ObserveHTTPRequest("GET", "/", 200, 0.1)
	})
	assert.Equal(t, "", m.ServiceName())
}
