package app

import (
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
	"github.com/yungbote/studyaid-backend/internal/services"
)

type Services struct {
	CanvasProxy services.CanvasProxyService
	Generation  services.GenerationService
	Debug       services.DebugService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients) Services {
	log.Info("Wiring services...")
	return Services{
		CanvasProxy: services.NewCanvasProxyService(log, clients.Canvas),
		Generation:  services.NewGenerationService(log, clients.OpenAI),
		Debug: services.NewDebugService(log, services.DebugConfig{
			CanvasBaseURL:  clients.Canvas.BaseURL(),
			CanvasAPIToken: cfg.CanvasAPIToken,
			OpenAIAPIKey:   cfg.OpenAI.APIKey,
			Environment:    cfg.Environment,
		}, clients.Canvas),
	}
}
