package simulator

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the simulator's Prometheus collectors on a private registry.
type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	readings  prometheus.Counter
	failures  prometheus.Counter
	heartRate prometheus.Gauge
}

// NewMetrics creates and registers the simulator collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hydroguard",
			Subsystem: "simulator",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		readings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hydroguard",
			Subsystem: "simulator",
			Name:      "readings_served_total",
			Help:      "Sensor readings served.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hydroguard",
			Subsystem: "simulator",
			Name:      "injected_failures_total",
			Help:      "Requests answered with an injected 503.",
		}),
		heartRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hydroguard",
			Subsystem: "simulator",
			Name:      "heart_rate_red",
			Help:      "Last red-channel heart rate served.",
		}),
	}
	m.registry.MustRegister(m.requests, m.readings, m.failures, m.heartRate)
	return m
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware counts every request by matched route and status.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// MetricsAPI serves the registry in the Prometheus text format.
type MetricsAPI struct {
	Metrics *Metrics
}

func (a *MetricsAPI) BaseURL() string {
	return ""
}

func (a *MetricsAPI) Middlewares() []gin.HandlerFunc {
	return []gin.HandlerFunc{}
}

func (a *MetricsAPI) Register(group *gin.RouterGroup) {
	handler := promhttp.HandlerFor(a.Metrics.registry, promhttp.HandlerOpts{})
	group.GET("/metrics", gin.WrapH(handler))
}
