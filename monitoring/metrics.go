package monitoring

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	bookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Bookings created, by resulting status",
		},
		[]string{"status"},
	)

	paymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payment settlements, by purpose and outcome",
		},
		[]string{"purpose", "status"},
	)

	paymentAmountMinor = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_amount_minor_total",
			Help: "Captured payment volume in minor currency units",
		},
		[]string{"purpose"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RecordBooking(status string) {
	bookingsTotal.WithLabelValues(status).Inc()
}

func RecordPayment(purpose, status string) {
	paymentsTotal.WithLabelValues(purpose, status).Inc()
}

func RecordPaymentAmount(purpose string, amountMinor int64) {
	paymentAmountMinor.WithLabelValues(purpose).Add(float64(amountMinor))
}

// Middleware records request latency per route pattern.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
		}

		path := c.Route().Path
		httpRequestDuration.
			WithLabelValues(c.Method(), path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the Prometheus scrape endpoint through fasthttp.
func Handler() fiber.Handler {
	h := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		h(c.Context())
		return nil
	}
}
