package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 注文イベントのラベル
const (
	OrderEventCreated       = "created"
	OrderEventStatusChanged = "status_changed"
	OrderEventCancelled     = "cancelled"
)

type Metrics struct {
	registry    *prometheus.Registry
	Requests    *prometheus.CounterVec
	LatencyMS   *prometheus.HistogramVec
	OrderEvents *prometheus.CounterVec
}

// NewMetrics はプロセスごとのレジストリに登録する（テストで何度作っても衝突しない）
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shop",
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route"})
	orderEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "orders_events_total",
		Help:      "Order lifecycle events.",
	}, []string{"event"})

	reg.MustRegister(requests, latency, orderEvents)
	return &Metrics{registry: reg, Requests: requests, LatencyMS: latency, OrderEvents: orderEvents}
}

// RecordOrderEvent は usecase から呼ばれる
func (m *Metrics) RecordOrderEvent(event string) {
	if m == nil {
		return
	}
	m.OrderEvents.WithLabelValues(event).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			r := route(c)
			status := strconv.Itoa(c.Response().Status)
			m.Requests.WithLabelValues(r, c.Request().Method, status).Inc()
			m.LatencyMS.WithLabelValues(r).Observe(float64(time.Since(start).Microseconds()) / 1000)
			return nil
		}
	}
}
