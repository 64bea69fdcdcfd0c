package ctxutil

import (
	"context"
	"unicode"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderTraceID   = "X-Trace-Id"

	maxRequestIDLen = 128
)

type traceDataKey struct{}

// TraceData identifies one proxied request end to end: the CLI mints the
// request id, the proxy keeps it, and the upstream clients forward it.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

// WithRequestID attaches a request id, keeping any trace id already present.
func WithRequestID(ctx context.Context, id string) context.Context {
	td := &TraceData{RequestID: id}
	if prev := GetTraceData(ctx); prev != nil {
		td.TraceID = prev.TraceID
	}
	return WithTraceData(ctx, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

// RequestID returns the request id on ctx, or "".
func RequestID(ctx context.Context) string {
	if td := GetTraceData(ctx); td != nil {
		return td.RequestID
	}
	return ""
}

func TraceID(ctx context.Context) string {
	if td := GetTraceData(ctx); td != nil {
		return td.TraceID
	}
	return ""
}

// ValidRequestID accepts short printable ids without spaces. Anything else is
// replaced rather than echoed into logs and upstream headers.
func ValidRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
