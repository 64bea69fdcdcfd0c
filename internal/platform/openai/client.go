package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/studyaid-backend/internal/observability"
	"github.com/yungbote/studyaid-backend/internal/platform/apierr"
	"github.com/yungbote/studyaid-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
)

const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.7
)

// Client is the text generation client used by the generate endpoint.
type Client interface {
	// GenerateText runs one chat completion and returns the first choice's text,
	// or "" when the model returned no choices.
	GenerateText(ctx context.Context, system string, user string) (string, error)
	Model() string
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	// Temperature nil means DefaultTemperature; an explicit 0 is sent as 0.
	Temperature *float64
	Timeout     time.Duration
	// Metrics may be nil.
	Metrics *observability.Metrics
	// HTTPClient overrides the transport; tests point it at an httptest server.
	HTTPClient *http.Client
}

type client struct {
	log         *logger.Logger
	sdk         sdk.Client
	model       string
	temperature float64
	tracer      trace.Tracer
	metrics     *observability.Metrics
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	temp := DefaultTemperature
	if cfg.Temperature != nil {
		temp = *cfg.Temperature
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(base, "/")+"/"))
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	opts = append(opts, option.WithHTTPClient(hc))

	return &client{
		log:         log.With("service", "OpenAIClient"),
		sdk:         sdk.NewClient(opts...),
		model:       model,
		temperature: temp,
		tracer:      otel.Tracer("studyaid/openai"),
		metrics:     cfg.Metrics,
	}, nil
}

func (c *client) Model() string { return c.model }

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "openai.GenerateText")
	defer span.End()
	span.SetAttributes(attribute.String("openai.model", c.model))

	var reqOpts []option.RequestOption
	rid := ctxutil.RequestID(ctx)
	if rid != "" {
		reqOpts = append(reqOpts, option.WithHeader(ctxutil.HeaderRequestID, rid))
		span.SetAttributes(attribute.String("studyaid.request_id", rid))
	}

	start := time.Now()
	resp, err := c.sdk.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.SystemMessage(system),
			sdk.UserMessage(user),
		},
		Model:       c.model,
		Temperature: sdk.Float(c.temperature),
	}, reqOpts...)
	if err != nil {
		c.metrics.ObserveLLMRequest(c.model, errorStatus(err), time.Since(start), 0, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Error("OpenAI chat completion failed", "model", c.model, "request_id", rid, "error", err)
		return "", translateError(err)
	}
	c.metrics.ObserveLLMRequest(c.model, "200", time.Since(start),
		int(resp.Usage.PromptTokens), int(resp.Usage.CompletionTokens))
	c.log.Debug("OpenAI chat completion done",
		"model", c.model,
		"request_id", rid,
		"duration_ms", time.Since(start).Milliseconds(),
		"total_tokens", resp.Usage.TotalTokens,
	)
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// errorStatus is the upstream HTTP status, or "error" for transport failures.
func errorStatus(err error) string {
	var oe *sdk.Error
	if errors.As(err, &oe) {
		return strconv.Itoa(oe.StatusCode)
	}
	return "error"
}

// translateError keeps the provider's message but always surfaces as a 500;
// the generate endpoint does not pass OpenAI statuses through.
func translateError(err error) error {
	var oe *sdk.Error
	if errors.As(err, &oe) {
		msg := strings.TrimSpace(oe.Message)
		if msg == "" {
			msg = fmt.Sprintf("openai request failed with status %d", oe.StatusCode)
		}
		return apierr.New(http.StatusInternalServerError, "upstream_error", errors.New(msg)).
			WithDetail("upstream_status", oe.StatusCode)
	}
	return apierr.New(http.StatusInternalServerError, "upstream_error", err)
}
