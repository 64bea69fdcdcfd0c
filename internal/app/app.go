package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	httpserver "github.com/yungbote/studyaid-backend/internal/http"
	"github.com/yungbote/studyaid-backend/internal/observability"
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Router   *gin.Engine
	Cfg      Config
	Clients  Clients
	Services Services
	// Metrics is nil when METRICS_ENABLED is off.
	Metrics *observability.Metrics

	server       *httpserver.Server
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)
	return NewWithConfig(ctx, log, cfg)
}

// NewWithConfig wires the app from an already loaded config.
func NewWithConfig(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	shutdown := observability.InitOTel(ctx, log, cfg.Otel)

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	clientset := wireClients(log, cfg, metrics)
	serviceset := wireServices(log, cfg, clientset)
	handlerset := wireHandlers(serviceset)
	server := wireServer(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		Router:       server.Engine,
		Cfg:          cfg,
		Clients:      clientset,
		Services:     serviceset,
		Metrics:      metrics,
		server:       server,
		otelShutdown: shutdown,
	}, nil
}

// Run serves until ctx is cancelled. An empty addr uses the configured port.
func (a *App) Run(ctx context.Context, addr string) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	if addr == "" {
		addr = a.Cfg.Addr()
	}
	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		a.Log.Info("Metrics listening", "addr", a.Cfg.MetricsAddr)
	}
	a.Log.Info("Server listening", "addr", addr)
	return a.server.Run(ctx, addr)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		a.otelShutdown = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
