package app

import (
	"strings"
	"time"

	"github.com/yungbote/studyaid-backend/internal/http/middleware"
	"github.com/yungbote/studyaid-backend/internal/observability"
	"github.com/yungbote/studyaid-backend/internal/platform/canvas"
	"github.com/yungbote/studyaid-backend/internal/platform/envutil"
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
	"github.com/yungbote/studyaid-backend/internal/platform/openai"
)

const serviceName = "studyaid-backend"

type Config struct {
	Port        string
	Environment string

	Canvas         canvas.Config
	CanvasAPIToken string

	OpenAI openai.Config

	CORSOrigins []string
	Otel        observability.OtelConfig

	MetricsEnabled bool
	// MetricsAddr is the listen address of the exposition server; empty disables it.
	MetricsAddr string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		Environment: envutil.String("APP_ENV", "development"),
		Canvas: canvas.Config{
			BaseURL: envutil.String("CANVAS_API_URL", canvas.DefaultBaseURL),
			Timeout: envutil.Seconds("CANVAS_TIMEOUT_SECONDS", 30*time.Second),
		},
		CanvasAPIToken: envutil.String("CANVAS_API_TOKEN", ""),
		OpenAI: openai.Config{
			APIKey:      envutil.String("OPENAI_API_KEY", ""),
			BaseURL:     envutil.String("OPENAI_BASE_URL", ""),
			Model:       envutil.String("OPENAI_MODEL", openai.DefaultModel),
			Temperature: envutil.OptionalFloat("OPENAI_TEMPERATURE"),
			Timeout:     envutil.Seconds("OPENAI_TIMEOUT_SECONDS", 120*time.Second),
		},
		CORSOrigins:    splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),
		MetricsEnabled: envutil.Bool("METRICS_ENABLED", false),
		MetricsAddr:    envutil.String("METRICS_ADDR", ":9090"),
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = middleware.DefaultAllowedOrigins
	}
	cfg.Otel = observability.OtelConfig{
		Enabled:     envutil.Bool("OTEL_ENABLED", false),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", serviceName),
		Environment: cfg.Environment,
		Version:     envutil.String("APP_VERSION", "dev"),
		Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", true),
		Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
		SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1),
	}

	if log != nil {
		if cfg.OpenAI.APIKey == "" {
			log.Warn("OPENAI_API_KEY not set; /api/generate will fail")
		}
		log.Info("Config loaded",
			"port", cfg.Port,
			"env", cfg.Environment,
			"canvas_api_url", cfg.Canvas.BaseURL,
			"openai_model", cfg.OpenAI.Model,
			"otel_enabled", cfg.Otel.Enabled,
			"metrics_enabled", cfg.MetricsEnabled,
		)
	}
	return cfg
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	p := strings.TrimSpace(c.Port)
	if p == "" {
		p = "8080"
	}
	if strings.Contains(p, ":") {
		return p
	}
	return ":" + p
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
