package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyaid-backend/internal/observability"
)

func TestMetricsRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/courses/:courseId/modules", func(c *gin.Context) { c.Status(http.StatusForbidden) })

	for _, path := range []string{"/api/courses/1/modules", "/api/courses/2/modules", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var b strings.Builder
	if err := m.WritePrometheus(&b); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	for _, want := range []string{
		`studyaid_api_requests_total{method="GET",route="/api/courses/:courseId/modules",status="403"} 2`,
		`studyaid_api_requests_total{method="GET",route="unmatched",status="404"} 1`,
		"studyaid_api_inflight_requests 0",
	} {
		if !strings.Contains(b.String(), want) {
			t.Fatalf("metrics: missing %q in\n%s", want, b.String())
		}
	}
}

func TestMetricsNilIsPassThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: want=204 got=%d", rec.Code)
	}
}
