package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yungbote/studyaid-backend/internal/observability"
	"github.com/yungbote/studyaid-backend/internal/platform/apierr"
	"github.com/yungbote/studyaid-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
)

func TestGenerateTextSendsSystemPromptAndModel(t *testing.T) {
	var seen map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("path: got=%s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("authorization: got=%q", got)
		}
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &seen)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-3.5-turbo",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"## Summary\n..."}}],
			"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`))
	}))
	defer srv.Close()

	c, err := NewClient(logger.Nop(), Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	got, err := c.GenerateText(context.Background(), "sys", "user prompt")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if got != "## Summary\n..." {
		t.Fatalf("content: want=%q got=%q", "## Summary\n...", got)
	}
	if seen["model"] != DefaultModel {
		t.Fatalf("model: want=%q got=%v", DefaultModel, seen["model"])
	}
	if seen["temperature"] != DefaultTemperature {
		t.Fatalf("temperature: want=%v got=%v", DefaultTemperature, seen["temperature"])
	}
	msgs, _ := seen["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages: want=2 got=%d", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "sys" {
		t.Fatalf("system message: got=%v", first)
	}
}

func TestGenerateTextDoesNotRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(logger.Nop(), Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.GenerateText(context.Background(), "sys", "u")
	if err == nil {
		t.Fatalf("expected error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("upstream calls: want=1 got=%d", n)
	}
	if apierr.StatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("status: want=500 got=%d", apierr.StatusOf(err))
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(logger.Nop(), Config{}); err == nil {
		t.Fatalf("expected missing key error")
	}
}

const completionBody = `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-3.5-turbo",
	"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"ok"}}],
	"usage":{"prompt_tokens":7,"completion_tokens":3,"total_tokens":10}}`

func TestGenerateTextSendsExplicitZeroTemperature(t *testing.T) {
	var seen map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &seen)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	zero := 0.0
	c, err := NewClient(logger.Nop(), Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", HTTPClient: srv.Client(), Temperature: &zero})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.GenerateText(context.Background(), "sys", "u"); err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if seen["temperature"] != 0.0 {
		t.Fatalf("temperature: want=0 got=%v", seen["temperature"])
	}
}

func TestGenerateTextForwardsRequestIDAndRecordsMetrics(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-Id")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	m := observability.NewMetrics()
	c, err := NewClient(logger.Nop(), Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", HTTPClient: srv.Client(), Metrics: m})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx := ctxutil.WithRequestID(context.Background(), "req-42")
	if _, err := c.GenerateText(ctx, "sys", "u"); err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if gotID != "req-42" {
		t.Fatalf("request id: want=%q got=%q", "req-42", gotID)
	}

	var b strings.Builder
	if err := m.WritePrometheus(&b); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	for _, want := range []string{
		`studyaid_llm_requests_total{model="gpt-3.5-turbo",status="200"} 1`,
		`studyaid_llm_tokens_total{model="gpt-3.5-turbo",direction="input"} 7`,
		`studyaid_llm_tokens_total{model="gpt-3.5-turbo",direction="output"} 3`,
	} {
		if !strings.Contains(b.String(), want) {
			t.Fatalf("metrics: missing %q in\n%s", want, b.String())
		}
	}
}
