package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/studyaid-backend/internal/platform/ctxutil"
)

// RequestIdentity resolves the request and trace ids for a proxied call and
// puts them on the request context, where the Canvas and OpenAI clients pick
// the request id up and forward it. A caller-supplied X-Request-Id is kept
// when well formed. The trace id prefers the active span (set by otelgin) over
// the X-Trace-Id header.
func RequestIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(ctxutil.HeaderRequestID))
		if !ctxutil.ValidRequestID(reqID) {
			reqID = uuid.NewString()
		}

		span := trace.SpanFromContext(c.Request.Context())
		traceID := ""
		if sc := span.SpanContext(); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		} else if h := strings.TrimSpace(c.GetHeader(ctxutil.HeaderTraceID)); ctxutil.ValidRequestID(h) {
			traceID = h
		} else {
			traceID = uuid.NewString()
		}
		span.SetAttributes(attribute.String("studyaid.request_id", reqID))

		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(ctxutil.HeaderTraceID, traceID)
		c.Writer.Header().Set(ctxutil.HeaderRequestID, reqID)
		c.Next()
	}
}
