package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Member operation counter
	MemberOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_member_operations_total",
			Help: "Total number of member registry operations",
		},
		[]string{"operation"}, // "create", "soft_delete", "restore", "update"
	)

	// Check-in decision counter
	CheckInCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_checkins_total",
			Help: "Total number of check-in attempts by outcome",
		},
		[]string{"outcome"}, // "admitted", "member_deleted", "no_active_membership"
	)

	// Membership lifecycle counter
	MembershipTransitionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_membership_transitions_total",
			Help: "Total number of membership status transitions",
		},
		[]string{"to"}, // target status
	)

	// Payment counter
	PaymentCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_payments_total",
			Help: "Total number of payments recorded by purpose",
		},
		[]string{"purpose"},
	)

	// Tenant isolation rejections
	TenantIsolationCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gym_tenant_isolation_violations_total",
			Help: "Total number of rejected cross-tenant references",
		},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gym_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Payment amount distribution in minor currency units
	PaymentAmount = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gym_payment_amount",
			Help:    "Recorded payment amounts in minor currency units",
			Buckets: prometheus.ExponentialBuckets(10000, 5, 8),
		},
		[]string{"purpose"},
	)

	// Status sweep duration
	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gym_status_sweep_duration_seconds",
			Help:    "Duration of membership status sweeps in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Gauge metrics
var (
	// Rows transitioned by the most recent sweep
	SweepTransitioned = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gym_status_sweep_transitioned",
			Help: "Memberships transitioned by the most recent status sweep",
		},
	)
)

// InitMetrics registers all metrics with the Prometheus default registry
func InitMetrics() {
	prometheus.MustRegister(MemberOperationCounter)
	prometheus.MustRegister(CheckInCounter)
	prometheus.MustRegister(MembershipTransitionCounter)
	prometheus.MustRegister(PaymentCounter)
	prometheus.MustRegister(TenantIsolationCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(PaymentAmount)
	prometheus.MustRegister(SweepDuration)
	prometheus.MustRegister(SweepTransitioned)
}

// RecordMemberOperation increments the member operation counter
func RecordMemberOperation(operation string) {
	MemberOperationCounter.WithLabelValues(operation).Inc()
}

// RecordCheckIn increments the check-in counter for an outcome
func RecordCheckIn(outcome string) {
	CheckInCounter.WithLabelValues(outcome).Inc()
}

// RecordPayment tracks a recorded payment and its amount
func RecordPayment(purpose string, amount int64) {
	PaymentCounter.WithLabelValues(purpose).Inc()
	PaymentAmount.WithLabelValues(purpose).Observe(float64(amount))
}

// RecordSweep tracks a completed status sweep
func RecordSweep(transitioned int, elapsed time.Duration) {
	SweepDuration.Observe(elapsed.Seconds())
	SweepTransitioned.Set(float64(transitioned))
}

// MetricsMiddleware records request counts and durations per endpoint
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method
			endpoint := c.Path()

			HTTPRequestCounter.WithLabelValues(endpoint, method, status).Inc()
			RequestDuration.WithLabelValues(endpoint, method, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// GetPrometheusHandler returns an HTTP handler for exposing Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
