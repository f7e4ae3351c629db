package metrics

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
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "astroatlas",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "astroatlas",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "astroatlas",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Engine metrics
	EngineComputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "astroatlas",
		Subsystem: "engine",
		Name:      "computations_total",
		Help:      "Total chart computations by operation",
	}, []string{"operation"})

	EngineComputeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "astroatlas",
		Subsystem: "engine",
		Name:      "compute_duration_seconds",
		Help:      "Duration of chart computations",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"operation"})

	// Transit-watch metrics
	ActivationsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "astroatlas",
		Subsystem: "transit",
		Name:      "activations_published_total",
		Help:      "Total transit activation events published",
	})

	TransitScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "astroatlas",
		Subsystem: "transit",
		Name:      "scan_duration_seconds",
		Help:      "Duration of a full transit scan across watched profiles",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})

	TransitScanErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "astroatlas",
		Subsystem: "transit",
		Name:      "scan_errors_total",
		Help:      "Total transit scan failures",
	})

	// Report metrics
	BondReportsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "astroatlas",
		Subsystem: "reports",
		Name:      "issued_total",
		Help:      "Total bond reports issued",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "astroatlas",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "astroatlas",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "astroatlas",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "astroatlas",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "astroatlas",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "astroatlas",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// TimeOperation observes one engine computation under the given operation
// label and returns its result timing via a deferred call:
//
//	defer metrics.TimeOperation("synastry")()
func TimeOperation(operation string) func() {
	start := time.Now()
	EngineComputations.WithLabelValues(operation).Inc()
	return func() {
		EngineComputeDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// UpdateDBPoolMetrics updates database pool metrics from pgx pool stats.
// Reflection through a local interface keeps pgxpool out of this package.
func UpdateDBPoolMetrics(stat interface{}) {
	type poolStat interface {
		AcquiredConns() int32
		IdleConns() int32
		TotalConns() int32
	}

	if s, ok := stat.(poolStat); ok {
		DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
		DBPoolConnsIdle.Set(float64(s.IdleConns()))
		DBPoolConnsOpen.Set(float64(s.TotalConns()))
	}
}
