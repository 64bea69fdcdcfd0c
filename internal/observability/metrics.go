package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/studyaid-backend/internal/platform/logger"
)

// Metrics holds the proxy's request and upstream instruments. All methods are
// safe on a nil receiver, which is what callers get when metrics are disabled.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiErrors   *Counter

	canvasRequests *CounterVec
	canvasLatency  *HistogramVec

	llmRequests *CounterVec
	llmLatency  *HistogramVec
	llmTokens   *CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("studyaid_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"studyaid_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		),
		apiInflight:    NewGauge("studyaid_api_inflight_requests", "In-flight API requests."),
		apiErrors:      NewCounter("studyaid_api_requests_error_total", "API requests answered with a 5xx status."),
		canvasRequests: NewCounterVec("studyaid_canvas_requests_total", "Canvas requests by endpoint/status.", []string{"endpoint", "status"}),
		canvasLatency: NewHistogramVec(
			"studyaid_canvas_request_duration_seconds",
			"Canvas request latency in seconds by endpoint/status.",
			[]string{"endpoint", "status"},
			[]float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		),
		llmRequests: NewCounterVec("studyaid_llm_requests_total", "LLM requests by model/status.", []string{"model", "status"}),
		llmLatency: NewHistogramVec(
			"studyaid_llm_request_duration_seconds",
			"LLM request latency in seconds by model/status.",
			[]string{"model", "status"},
			[]float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		),
		llmTokens: NewCounterVec("studyaid_llm_tokens_total", "LLM tokens by model/direction.", []string{"model", "direction"}),
	}
}

// StartServer serves the exposition on addr until ctx is done. An empty addr
// or nil receiver does nothing.
func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && log != nil {
			log.Error("metrics server failed", "error", err, "addr", addr)
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []collector{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiErrors,
		m.canvasRequests, m.canvasLatency,
		m.llmRequests, m.llmLatency, m.llmTokens,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	method = orDefault(method, "UNKNOWN")
	route = orDefault(route, "unknown")
	status = orDefault(status, "0")
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
	if strings.HasPrefix(status, "5") {
		m.apiErrors.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

// ObserveCanvas records one Canvas call. status is the HTTP status, or "error"
// when no response arrived.
func (m *Metrics) ObserveCanvas(endpoint, status string, dur time.Duration) {
	if m == nil {
		return
	}
	endpoint = orDefault(endpoint, "unknown")
	status = orDefault(status, "0")
	m.canvasRequests.Inc(endpoint, status)
	m.canvasLatency.Observe(dur.Seconds(), endpoint, status)
}

func (m *Metrics) ObserveLLMRequest(model, status string, dur time.Duration, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	model = orDefault(model, "unknown")
	status = orDefault(status, "0")
	m.llmRequests.Inc(model, status)
	if dur > 0 {
		m.llmLatency.Observe(dur.Seconds(), model, status)
	}
	if inputTokens > 0 {
		m.llmTokens.Add(float64(inputTokens), model, "input")
	}
	if outputTokens > 0 {
		m.llmTokens.Add(float64(outputTokens), model, "output")
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
