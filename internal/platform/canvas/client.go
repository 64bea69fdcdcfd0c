// Package canvas is the outbound client for the Canvas LMS REST API. Every call
// is made with the caller's own token; the server never stores one.
package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/studyaid-backend/internal/domain"
	"github.com/yungbote/studyaid-backend/internal/observability"
	"github.com/yungbote/studyaid-backend/internal/platform/apierr"
	"github.com/yungbote/studyaid-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://canvas.instructure.com/api/v1"
	maxBodyBytes   = 16 << 20
)

type Client interface {
	ListCourses(ctx context.Context, token string) ([]domain.Course, error)
	ListModules(ctx context.Context, token string, courseID string) ([]domain.Module, error)
	ListModuleItems(ctx context.Context, token string, courseID string, moduleID string) ([]domain.ModuleItem, error)
	// FetchPage GETs an absolute page URL and returns the upstream JSON untouched.
	FetchPage(ctx context.Context, token string, pageURL string) (json.RawMessage, error)
	BaseURL() string
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Metrics may be nil.
	Metrics *observability.Metrics
}

type client struct {
	log     *logger.Logger
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
	metrics *observability.Metrics
}

func NewClient(log *logger.Logger, cfg Config) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewWithHTTPClient(log, cfg, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(log *logger.Logger, cfg Config, hc *http.Client) Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &client{
		log:     log.With("client", "CanvasClient"),
		baseURL: base,
		http:    hc,
		tracer:  otel.Tracer("studyaid/canvas"),
		metrics: cfg.Metrics,
	}
}

func (c *client) BaseURL() string { return c.baseURL }

func (c *client) ListCourses(ctx context.Context, token string) ([]domain.Course, error) {
	var out []domain.Course
	err := c.getJSON(ctx, "ListCourses", token, c.baseURL+"/courses?enrollment_state=active", "Failed to fetch courses", &out)
	return out, err
}

func (c *client) ListModules(ctx context.Context, token string, courseID string) ([]domain.Module, error) {
	var out []domain.Module
	u := fmt.Sprintf("%s/courses/%s/modules", c.baseURL, url.PathEscape(courseID))
	err := c.getJSON(ctx, "ListModules", token, u, "Failed to fetch modules", &out)
	return out, err
}

func (c *client) ListModuleItems(ctx context.Context, token string, courseID string, moduleID string) ([]domain.ModuleItem, error) {
	var out []domain.ModuleItem
	u := fmt.Sprintf("%s/courses/%s/modules/%s/items", c.baseURL, url.PathEscape(courseID), url.PathEscape(moduleID))
	err := c.getJSON(ctx, "ListModuleItems", token, u, "Failed to fetch module items", &out)
	return out, err
}

func (c *client) FetchPage(ctx context.Context, token string, pageURL string) (json.RawMessage, error) {
	ctx, span := c.tracer.Start(ctx, "canvas.FetchPage")
	defer span.End()

	resp, err := c.do(ctx, span, "FetchPage", token, pageURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read page body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := upstreamMessage(body)
		if msg == "" {
			msg = "Failed to fetch content: " + statusText(resp)
		}
		c.log.Warn("Canvas page fetch failed", "status", resp.StatusCode, "page_url", pageURL, "request_id", ctxutil.RequestID(ctx))
		return nil, apierr.New(resp.StatusCode, "upstream_error", errors.New(msg)).
			WithDetail("status", resp.StatusCode).
			WithDetail("url", pageURL)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("canvas page response is not valid JSON")
	}
	return json.RawMessage(body), nil
}

func (c *client) getJSON(ctx context.Context, op string, token string, u string, fallback string, out any) error {
	ctx, span := c.tracer.Start(ctx, "canvas."+op)
	defer span.End()

	resp, err := c.do(ctx, span, op, token, u)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := upstreamMessage(body)
		if msg == "" {
			msg = fallback
		}
		c.log.Warn("Canvas request failed", "op", op, "status", resp.StatusCode, "request_id", ctxutil.RequestID(ctx))
		return apierr.New(resp.StatusCode, "upstream_error", errors.New(msg))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}

// do sends one GET. The caller's request id, when present, is forwarded so a
// Canvas-side log line can be matched to the proxy request that caused it.
func (c *client) do(ctx context.Context, span trace.Span, op string, token string, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build canvas request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if rid := ctxutil.RequestID(ctx); rid != "" {
		req.Header.Set(ctxutil.HeaderRequestID, rid)
		span.SetAttributes(attribute.String("studyaid.request_id", rid))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveCanvas(op, "error", time.Since(start))
		return nil, fmt.Errorf("canvas request: %w", err)
	}
	c.metrics.ObserveCanvas(op, strconv.Itoa(resp.StatusCode), time.Since(start))
	return resp, nil
}

func upstreamMessage(body []byte) string {
	var eb domain.CanvasErrorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return eb.FirstMessage()
}

func statusText(resp *http.Response) string {
	if t := http.StatusText(resp.StatusCode); t != "" {
		return t
	}
	return resp.Status
}
