package enhancer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vzahanych/climate-outlook/internal/climate"
	"github.com/vzahanych/climate-outlook/internal/config"
	"github.com/vzahanych/climate-outlook/internal/metrics"
	"github.com/vzahanych/climate-outlook/pkg/telemetry"
)

// OpenAIEnhancer relays summaries to any OpenAI-compatible chat completions
// endpoint. Gemini is reached through its OpenAI compatibility layer.
type OpenAIEnhancer struct {
	client  openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewOpenAIEnhancer(cfg config.EnhancementConfig, logger *zap.Logger, tele *telemetry.Telemetry) (*OpenAIEnhancer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("enhancement api key not configured")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIEnhancer{
		client:  openai.NewClient(opts...),
		model:   cfg.Model,
		timeout: time.Duration(cfg.Timeout) * time.Second,
		logger:  logger,
		tele:    tele,
	}, nil
}

func (e *OpenAIEnhancer) Enhance(ctx context.Context, summary *climate.SeasonalSummary, activity, description string) (*EnhancedReport, error) {
	tracer := e.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "enhancer.Enhance")
	defer span.End()

	span.SetAttributes(
		attribute.String("model", e.model),
		attribute.String("activity", activity),
		attribute.Int("years_analyzed", summary.YearsAnalyzed),
	)

	report, err := e.enhance(ctx, summary, activity, description)
	if err != nil {
		metrics.EnhancementsTotal.WithLabelValues("failed").Inc()
		span.SetAttributes(
			attribute.Bool("success", false),
			attribute.String("error", err.Error()),
		)
		e.logger.Warn("Enhancement failed", zap.String("model", e.model), zap.Error(err))
		return nil, err
	}

	metrics.EnhancementsTotal.WithLabelValues("ok").Inc()
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("suitability_score", report.SuitabilityScore),
	)
	return report, nil
}

func (e *OpenAIEnhancer) enhance(ctx context.Context, summary *climate.SeasonalSummary, activity, description string) (*EnhancedReport, error) {
	prompt, err := BuildPrompt(Request{
		UserActivity:     activity,
		UserActivityDesc: description,
		AnalysisResult:   summary,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnhancement, err)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "weather_analysis_result",
					Description: openai.String("Activity suitability report derived from historical weather"),
					Schema:      ReportSchema,
					Strict:      openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s", ErrEnhancement, time.Since(start).Round(time.Millisecond))
		}
		return nil, fmt.Errorf("%w: %v", ErrEnhancement, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ErrEnhancement)
	}

	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return nil, fmt.Errorf("%w: model refused: %s", ErrEnhancement, msg.Refusal)
	}

	e.logger.Debug("Enhancement reply received",
		zap.String("model", e.model),
		zap.Duration("latency", time.Since(start)),
		zap.Int64("total_tokens", resp.Usage.TotalTokens))

	return ParseReport(msg.Content, summary)
}
