package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/courses", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObserveCanvas("ListCourses", "200", time.Millisecond)
	m.ObserveLLMRequest("gpt-3.5-turbo", "200", time.Second, 1, 1)

	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil WriteHTTP: want=503 got=%d", rec.Code)
	}
}

func TestObserveAPICountsAndServerErrors(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("GET", "/api/courses", "200", 20*time.Millisecond)
	m.ObserveAPI("GET", "/api/courses", "200", 30*time.Millisecond)
	m.ObserveAPI("POST", "/api/generate", "500", 2*time.Second)
	m.ObserveAPI("", "", "", 0)

	if got := m.apiRequests.Value("GET", "/api/courses", "200"); got != 2 {
		t.Fatalf("requests: want=2 got=%v", got)
	}
	if got := m.apiErrors.Value(); got != 1 {
		t.Fatalf("server errors: want=1 got=%v", got)
	}
	if got := m.apiRequests.Value("UNKNOWN", "unknown", "0"); got != 1 {
		t.Fatalf("defaulted labels: want=1 got=%v", got)
	}
	if got := m.apiLatency.Count("POST", "/api/generate", "500"); got != 1 {
		t.Fatalf("latency count: want=1 got=%d", got)
	}
}

func TestInflightGauge(t *testing.T) {
	m := NewMetrics()
	m.ApiInflightInc()
	m.ApiInflightInc()
	m.ApiInflightDec()
	if got := m.apiInflight.Value(); got != 1 {
		t.Fatalf("inflight: want=1 got=%v", got)
	}
}

func TestWriteHTTPExposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("GET", "/api/courses", "200", 30*time.Millisecond)
	m.ObserveCanvas("ListCourses", "200", 80*time.Millisecond)

	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type: got=%q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"# TYPE studyaid_api_requests_total counter",
		`studyaid_api_requests_total{method="GET",route="/api/courses",status="200"} 1`,
		`studyaid_api_request_duration_seconds_bucket{method="GET",route="/api/courses",status="200",le="0.01"} 0`,
		`studyaid_api_request_duration_seconds_bucket{method="GET",route="/api/courses",status="200",le="0.05"} 1`,
		`studyaid_api_request_duration_seconds_bucket{method="GET",route="/api/courses",status="200",le="+Inf"} 1`,
		`studyaid_api_request_duration_seconds_count{method="GET",route="/api/courses",status="200"} 1`,
		"studyaid_api_inflight_requests 0",
		`studyaid_canvas_requests_total{endpoint="ListCourses",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("exposition: missing %q in\n%s", want, body)
		}
	}
}

func TestLabelValuesAreEscaped(t *testing.T) {
	c := NewCounterVec("x_total", "x", []string{"route"})
	c.Inc("a\"b\\c\nd")
	var b strings.Builder
	if err := c.WritePrometheus(&b); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	want := `x_total{route="a\"b\\c\nd"} 1`
	if !strings.Contains(b.String(), want) {
		t.Fatalf("escaping: want %q in %q", want, b.String())
	}
}

func TestCounterIgnoresNegativeAdd(t *testing.T) {
	c := NewCounterVec("y_total", "y", []string{"k"})
	c.Add(2, "a")
	c.Add(-5, "a")
	if got := c.Value("a"); got != 2 {
		t.Fatalf("counter: want=2 got=%v", got)
	}
}
