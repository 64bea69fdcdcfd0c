package app

import (
	"github.com/yungbote/studyaid-backend/internal/observability"
	"github.com/yungbote/studyaid-backend/internal/platform/canvas"
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
	"github.com/yungbote/studyaid-backend/internal/platform/openai"
)

type Clients struct {
	Canvas canvas.Client
	// OpenAI is nil when no API key is configured.
	OpenAI openai.Client
}

func wireClients(log *logger.Logger, cfg Config, metrics *observability.Metrics) Clients {
	log.Info("Wiring clients...")

	canvasCfg := cfg.Canvas
	canvasCfg.Metrics = metrics
	out := Clients{Canvas: canvas.NewClient(log, canvasCfg)}

	aiCfg := cfg.OpenAI
	aiCfg.Metrics = metrics
	ai, err := openai.NewClient(log, aiCfg)
	if err != nil {
		log.Warn("OpenAI client disabled", "error", err)
		return out
	}
	out.OpenAI = ai
	return out
}
