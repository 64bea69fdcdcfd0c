// Package proxyclient calls the study-aid proxy server on behalf of the CLI.
package proxyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studyaid-backend/internal/domain"
	"github.com/yungbote/studyaid-backend/internal/platform/apierr"
	"github.com/yungbote/studyaid-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
)

const maxBodyBytes = 16 << 20

type Config struct {
	ServerURL string
	// APIKey is the caller's Canvas token, sent as the apiKey query parameter.
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	log    *logger.Logger
	base   string
	apiKey string
	http   *http.Client
}

func New(log *logger.Logger, cfg Config, hc *http.Client) *Client {
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 3 * time.Minute
		}
		hc = &http.Client{Timeout: timeout}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		log:    log.With("client", "ProxyClient"),
		base:   strings.TrimRight(strings.TrimSpace(cfg.ServerURL), "/"),
		apiKey: cfg.APIKey,
		http:   hc,
	}
}

func (c *Client) ListCourses(ctx context.Context) ([]domain.Course, error) {
	var out []domain.Course
	err := c.do(ctx, http.MethodGet, c.withKey("/api/courses"), nil, &out)
	return out, err
}

func (c *Client) ListModules(ctx context.Context, courseID string) ([]domain.Module, error) {
	var out []domain.Module
	p := fmt.Sprintf("/api/courses/%s/modules", url.PathEscape(courseID))
	err := c.do(ctx, http.MethodGet, c.withKey(p), nil, &out)
	return out, err
}

func (c *Client) ListModuleItems(ctx context.Context, courseID, moduleID string) ([]domain.ModuleItem, error) {
	var out []domain.ModuleItem
	p := fmt.Sprintf("/api/courses/%s/modules/%s/items", url.PathEscape(courseID), url.PathEscape(moduleID))
	err := c.do(ctx, http.MethodGet, c.withKey(p), nil, &out)
	return out, err
}

// FetchPage fetches one Canvas page through the proxy's content endpoint.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (domain.Page, error) {
	var out domain.Page
	err := c.do(ctx, http.MethodPost, c.withKey("/api/content"), map[string]string{"pageUrl": pageURL}, &out)
	return out, err
}

// Generate asks the proxy for a study aid. It satisfies contentstore.Generator.
func (c *Client) Generate(ctx context.Context, moduleID string, t domain.ContentType, source string) (string, error) {
	var out struct {
		Content string `json:"content"`
	}
	body := map[string]string{"moduleId": moduleID, "type": t.String(), "content": source}
	if err := c.do(ctx, http.MethodPost, "/api/generate", body, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

func (c *Client) withKey(path string) string {
	if c.apiKey == "" {
		return path
	}
	return path + "?apiKey=" + url.QueryEscape(c.apiKey)
}

type errorEnvelope struct {
	Error struct {
		Message string         `json:"message"`
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := ctxutil.RequestID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set(ctxutil.HeaderRequestID, reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, strings.SplitN(path, "?", 2)[0], err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env errorEnvelope
		msg := ""
		if json.Unmarshal(raw, &env) == nil {
			msg = env.Error.Message
		}
		if msg == "" {
			msg = strings.TrimSpace(resp.Status)
		}
		c.log.Debug("Proxy request failed", "path", strings.SplitN(path, "?", 2)[0], "status", resp.StatusCode, "request_id", reqID)
		ae := apierr.New(resp.StatusCode, env.Error.Code, errors.New(msg))
		for k, v := range env.Error.Details {
			ae.WithDetail(k, v)
		}
		return ae
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
