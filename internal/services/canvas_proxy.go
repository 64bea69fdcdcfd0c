package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/yungbote/studyaid-backend/internal/domain"
	"github.com/yungbote/studyaid-backend/internal/platform/apierr"
	"github.com/yungbote/studyaid-backend/internal/platform/canvas"
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
)

// CanvasProxyService forwards catalog and page requests to Canvas using the
// token supplied on each call.
type CanvasProxyService interface {
	ListCourses(ctx context.Context, apiKey string) ([]domain.Course, error)
	ListModules(ctx context.Context, apiKey, courseID string) ([]domain.Module, error)
	ListModuleItems(ctx context.Context, apiKey, courseID, moduleID string) ([]domain.ModuleItem, error)
	FetchContent(ctx context.Context, apiKey, pageURL string) (json.RawMessage, error)
}

type canvasProxyService struct {
	log    *logger.Logger
	canvas canvas.Client
}

func NewCanvasProxyService(baseLog *logger.Logger, c canvas.Client) CanvasProxyService {
	return &canvasProxyService{
		log:    baseLog.With("service", "CanvasProxyService"),
		canvas: c,
	}
}

func (s *canvasProxyService) ListCourses(ctx context.Context, apiKey string) ([]domain.Course, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "missing_api_key", "API key is required")
	}
	courses, err := s.canvas.ListCourses(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	return courses, nil
}

func (s *canvasProxyService) ListModules(ctx context.Context, apiKey, courseID string) ([]domain.Module, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "missing_api_key", "API key is required")
	}
	modules, err := s.canvas.ListModules(ctx, apiKey, courseID)
	if err != nil {
		return nil, err
	}
	if modules == nil {
		modules = []domain.Module{}
	}
	return modules, nil
}

func (s *canvasProxyService) ListModuleItems(ctx context.Context, apiKey, courseID, moduleID string) ([]domain.ModuleItem, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "missing_api_key", "API key is required")
	}
	items, err := s.canvas.ListModuleItems(ctx, apiKey, courseID, moduleID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.ModuleItem{}
	}
	return items, nil
}

// FetchContent reports a missing token as a 500, matching the status clients
// of this endpoint already handle.
func (s *canvasProxyService) FetchContent(ctx context.Context, apiKey, pageURL string) (json.RawMessage, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apierr.Newf(http.StatusInternalServerError, "missing_api_key", "Canvas API token is not configured")
	}
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "missing_page_url", "Page URL is required")
	}
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "invalid_page_url", "Page URL must be an absolute http(s) URL")
	}
	raw, err := s.canvas.FetchPage(ctx, apiKey, pageURL)
	if err != nil {
		logUpstreamFailure(s.log, "Page fetch failed", err, "page_url", pageURL)
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	return raw, nil
}

// logUpstreamFailure logs rejections Canvas or OpenAI attribute to the caller at
// warn and everything else at error.
func logUpstreamFailure(log *logger.Logger, msg string, err error, keysAndValues ...interface{}) {
	kv := append(keysAndValues, "status", apierr.StatusOf(err), "error", err)
	if apierr.IsClientError(err) {
		log.Warn(msg, kv...)
		return
	}
	log.Error(msg, kv...)
}
