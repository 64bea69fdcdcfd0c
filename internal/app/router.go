package app

import (
	httpserver "github.com/yungbote/studyaid-backend/internal/http"
	"github.com/yungbote/studyaid-backend/internal/observability"
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *httpserver.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpserver.NewServer(httpserver.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORSOrigins,
		Metrics:         metrics,
		CourseHandler:   handlers.Course,
		ContentHandler:  handlers.Content,
		GenerateHandler: handlers.Generate,
		DebugHandler:    handlers.Debug,
		HealthHandler:   handlers.Health,
	})
}
