package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveProgress(t *testing.T) {
	ok := ProgressOperations.WithLabelValues("complete_lesson", "ok")
	failed := ProgressOperations.WithLabelValues("complete_lesson", "error")
	beforeOK, beforeFailed := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	ObserveProgress("complete_lesson", nil)
	ObserveProgress("complete_lesson", errors.New("boom"))
	ObserveProgress("complete_lesson", nil)

	assert.Equal(t, beforeOK+2, testutil.ToFloat64(ok))
	assert.Equal(t, beforeFailed+1, testutil.ToFloat64(failed))
}

func TestMetricsEndpoint(t *testing.T) {
	Init()
	Init()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", PrometheusHandler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	ObserveStore("memory", "get", "hit")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{endpoint="/ping",method="GET",status="200"}`)
	assert.Contains(t, w.Body.String(), `store_operations_total{backend="memory",operation="get",result="hit"}`)
}
