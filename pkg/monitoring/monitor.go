package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"method", "endpoint"},
	)

	ProgressOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_operations_total",
			Help: "Progress controller operations by outcome",
		},
		[]string{"operation", "result"},
	)

	StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Persistence store operations by backend and outcome",
		},
		[]string{"backend", "operation", "result"},
	)
)

var registerOnce sync.Once

// Init 注册指标，重复调用只注册一次
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(ProgressOperations)
		prometheus.MustRegister(StoreOperations)
	})
}

// ObserveProgress 记录一次进度操作；err 为 nil 时记为 ok
func ObserveProgress(operation string, err error) {
	ProgressOperations.WithLabelValues(operation, resultLabel(err)).Inc()
}

func ObserveStore(backend, operation, result string) {
	StoreOperations.WithLabelValues(backend, operation, result).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
