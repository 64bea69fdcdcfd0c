package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/yungbote/studyaid-backend/internal/domain"
	"github.com/yungbote/studyaid-backend/internal/platform/apierr"
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
	"github.com/yungbote/studyaid-backend/internal/platform/openai"
)

type GenerateRequest struct {
	ModuleID string `json:"moduleId"`
	Type     string `json:"type"`
	Content  string `json:"content"`
}

type GenerationService interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

type generationService struct {
	log *logger.Logger
	ai  openai.Client
}

// NewGenerationService accepts a nil client; Generate then fails with a 500
// instead of the server refusing to start.
func NewGenerationService(baseLog *logger.Logger, ai openai.Client) GenerationService {
	return &generationService{
		log: baseLog.With("service", "GenerationService"),
		ai:  ai,
	}
}

func (s *generationService) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if strings.TrimSpace(req.ModuleID) == "" || strings.TrimSpace(req.Type) == "" || strings.TrimSpace(req.Content) == "" {
		return "", apierr.Newf(http.StatusBadRequest, "missing_fields",
			"Missing required fields: moduleId, type, content")
	}
	t, err := domain.ParseContentType(req.Type)
	if err != nil {
		return "", apierr.Newf(http.StatusBadRequest, "invalid_content_type",
			"Invalid type. Must be one of: summary, flashcards, quiz")
	}
	if s.ai == nil {
		return "", apierr.Newf(http.StatusInternalServerError, "internal_error",
			"OPENAI_API_KEY is not configured")
	}
	prompt, err := BuildPrompt(t, req.Content)
	if err != nil {
		return "", apierr.New(http.StatusBadRequest, "invalid_content_type", err)
	}

	s.log.Info("Generating study aid", "module_id", req.ModuleID, "type", t.String(), "content_chars", len(req.Content))
	out, err := s.ai.GenerateText(ctx, SystemPrompt, prompt)
	if err != nil {
		logUpstreamFailure(s.log, "Error generating content", err, "module_id", req.ModuleID, "type", t.String())
		return "", err
	}
	return out, nil
}
