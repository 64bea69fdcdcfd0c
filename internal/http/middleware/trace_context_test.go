package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyaid-backend/internal/platform/ctxutil"
)

func serveIdentity(t *testing.T, header string) (*httptest.ResponseRecorder, *ctxutil.TraceData) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIdentity())
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set("X-Request-Id", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequestIdentityKeepsCallerRequestID(t *testing.T) {
	rec, seen := serveIdentity(t, "req-1")
	if got := rec.Header().Get("X-Request-Id"); got != "req-1" {
		t.Fatalf("request id header: want=%q got=%q", "req-1", got)
	}
	if seen == nil || seen.RequestID != "req-1" || seen.TraceID == "" {
		t.Fatalf("trace data: got=%+v", seen)
	}
	if rec.Header().Get("X-Trace-Id") != seen.TraceID {
		t.Fatalf("trace id header mismatch")
	}
}

func TestRequestIdentityReplacesMalformedRequestID(t *testing.T) {
	for _, bad := range []string{"has space", strings.Repeat("a", 200), "tab\tid"} {
		rec, seen := serveIdentity(t, bad)
		got := rec.Header().Get("X-Request-Id")
		if got == "" || got == bad || seen.RequestID != got {
			t.Fatalf("request id for %q: got header=%q ctx=%q", bad, got, seen.RequestID)
		}
	}
}

func TestRequestIdentityMintsWhenAbsent(t *testing.T) {
	rec, seen := serveIdentity(t, "")
	if seen.RequestID == "" || rec.Header().Get("X-Request-Id") != seen.RequestID {
		t.Fatalf("minted id: header=%q ctx=%q", rec.Header().Get("X-Request-Id"), seen.RequestID)
	}
}
