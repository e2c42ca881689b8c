package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Metrics набор Prometheus метрик сервиса
// Все методы безопасны для nil-получателя (метрики выключены)
type Metrics struct {
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	ReservationsTotal   *prometheus.CounterVec
	SlotsGeneratedTotal *prometheus.CounterVec
	LockWaitDuration    *prometheus.HistogramVec
}

// New возвращает метрики, зарегистрированные в prometheus.DefaultRegisterer
// Повторные вызовы возвращают тот же экземпляр
func New(serviceName string) *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// NewWithRegistry создает и регистрирует метрики в указанном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"service", "method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path"},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Database query latency by operation.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"service", "operation"},
		),
		DBQueryErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "db_query_errors_total",
				Help: "Database query errors by operation.",
			},
			[]string{"service", "operation"},
		),
		DBConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_connections",
				Help: "Database connection pool state.",
			},
			[]string{"service", "state"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservations_total",
				Help: "Reservation operations by result.",
			},
			[]string{"service", "result"},
		),
		SlotsGeneratedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slots_generated_total",
				Help: "Slot generation outcomes (created, skipped).",
			},
			[]string{"service", "outcome"},
		),
		LockWaitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slot_lock_wait_seconds",
				Help:    "Time spent acquiring per-slot locks.",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
			},
			[]string{"service"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBConnections,
		m.ReservationsTotal,
		m.SlotsGeneratedTotal,
		m.LockWaitDuration,
	)

	return m
}

// ServiceName возвращает имя сервиса, используемое в лейблах
func (m *Metrics) ServiceName() string {
	if m == nil {
		return ""
	}
	return m.serviceName
}

// ObserveReservation учитывает результат операции с бронированием
// result: created, cancelled, capacity_exceeded, status_changed
func (m *Metrics) ObserveReservation(result string) {
	if m == nil {
		return
	}
	m.ReservationsTotal.WithLabelValues(m.serviceName, result).Inc()
}

// ObserveSlotGeneration учитывает результат пакетной генерации слотов
func (m *Metrics) ObserveSlotGeneration(created, skipped int) {
	if m == nil {
		return
	}
	m.SlotsGeneratedTotal.WithLabelValues(m.serviceName, "created").Add(float64(created))
	m.SlotsGeneratedTotal.WithLabelValues(m.serviceName, "skipped").Add(float64(skipped))
}

// ObserveLockWait учитывает время ожидания блокировки слота
func (m *Metrics) ObserveLockWait(seconds float64) {
	if m == nil {
		return
	}
	m.LockWaitDuration.WithLabelValues(m.serviceName).Observe(seconds)
}

// ObserveHTTPRequest учитывает HTTP запрос
// path - шаблон маршрута, чтобы не плодить лейблы на каждый ID
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(seconds)
}
