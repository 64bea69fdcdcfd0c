package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/yungbote/studyaid-backend/internal/platform/apierr"
	"github.com/yungbote/studyaid-backend/internal/platform/canvas"
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
)

const (
	secretSet    = "Set (hidden)"
	secretNotSet = "Not set"
)

type DebugConfig struct {
	CanvasBaseURL  string
	CanvasAPIToken string
	OpenAIAPIKey   string
	Environment    string
}

type DebugReport struct {
	Config      DebugConfigReport `json:"config"`
	Tests       DebugTests        `json:"tests"`
	Environment string            `json:"environment"`
}

type DebugConfigReport struct {
	CanvasAPIURL   string `json:"canvasApiUrl"`
	CanvasAPIToken string `json:"canvasApiToken"`
	OpenAIAPIKey   string `json:"openaiApiKey"`
}

type DebugTests struct {
	CanvasAPITest string `json:"canvasApiTest"`
}

// DebugService reports configuration presence and probes Canvas with the
// server-held token when one is configured.
type DebugService interface {
	Report(ctx context.Context) DebugReport
}

type debugService struct {
	log    *logger.Logger
	cfg    DebugConfig
	canvas canvas.Client
}

func NewDebugService(baseLog *logger.Logger, cfg DebugConfig, c canvas.Client) DebugService {
	return &debugService{
		log:    baseLog.With("service", "DebugService"),
		cfg:    cfg,
		canvas: c,
	}
}

func (s *debugService) Report(ctx context.Context) DebugReport {
	rep := DebugReport{
		Config: DebugConfigReport{
			CanvasAPIURL:   s.canvas.BaseURL(),
			CanvasAPIToken: presence(s.cfg.CanvasAPIToken),
			OpenAIAPIKey:   presence(s.cfg.OpenAIAPIKey),
		},
		Tests:       DebugTests{CanvasAPITest: "Not tested"},
		Environment: s.cfg.Environment,
	}
	token := strings.TrimSpace(s.cfg.CanvasAPIToken)
	if token == "" {
		return rep
	}
	_, err := s.canvas.ListCourses(ctx, token)
	switch ae, ok := apierr.As(err); {
	case err == nil:
		rep.Tests.CanvasAPITest = "Success"
	case ok:
		rep.Tests.CanvasAPITest = fmt.Sprintf("Failed: %d %s", ae.Status, http.StatusText(ae.Status))
	default:
		rep.Tests.CanvasAPITest = "Error: " + err.Error()
	}
	s.log.Info("Canvas connectivity probe", "result", rep.Tests.CanvasAPITest)
	return rep
}

func presence(v string) string {
	if strings.TrimSpace(v) == "" {
		return secretNotSet
	}
	return secretSet
}
