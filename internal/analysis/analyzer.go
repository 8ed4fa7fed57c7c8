package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vzahanych/climate-outlook/internal/climate"
	"github.com/vzahanych/climate-outlook/internal/config"
	"github.com/vzahanych/climate-outlook/internal/enhancer"
	"github.com/vzahanych/climate-outlook/internal/metrics"
	"github.com/vzahanych/climate-outlook/internal/service"
	"github.com/vzahanych/climate-outlook/pkg/logger"
	"github.com/vzahanych/climate-outlook/pkg/telemetry"
)

// Analyzer runs fetch -> normalize -> summarize for one request at a time.
// It holds no per-request state and is safe for concurrent use.
type Analyzer struct {
	provider     service.HistoryProvider
	enhancer     enhancer.Enhancer
	settings     climate.Settings
	missingValue float64
	logger       *zap.Logger
	tele         *telemetry.Telemetry
}

// Request is one analysis as submitted by a client.
type Request struct {
	Latitude         float64
	Longitude        float64
	TargetDate       string
	UserActivity     string
	UserActivityDesc string
}

// Result carries the summary and, when enhancement succeeded, the report.
// EnhancementError explains why Report is nil.
type Result struct {
	Summary          *climate.SeasonalSummary
	Report           *enhancer.EnhancedReport
	EnhancementError string
}

func NewAnalyzer(provider service.HistoryProvider, settings climate.Settings, missingValue float64, logger *zap.Logger, tele *telemetry.Telemetry) *Analyzer {
	return &Analyzer{
		provider:     provider,
		settings:     settings,
		missingValue: missingValue,
		logger:       logger,
		tele:         tele,
	}
}

// NewAnalyzerFromConfig wires the NASA POWER provider and, if enabled, the
// OpenAI-compatible enhancer.
func NewAnalyzerFromConfig(cfg *config.Config, logger *zap.Logger, tele *telemetry.Telemetry) (*Analyzer, error) {
	provider := service.NewNASAPowerServiceWithConfig(cfg.Provider, logger, tele)
	a := NewAnalyzer(provider, cfg.Analysis.Settings(), cfg.Provider.MissingValue, logger, tele)

	if cfg.Enhancement.Enabled {
		enh, err := enhancer.NewOpenAIEnhancer(cfg.Enhancement, logger, tele)
		if err != nil {
			return nil, fmt.Errorf("create enhancer: %w", err)
		}
		a.SetEnhancer(enh)
		logger.Info("Enhancement enabled", zap.String("model", cfg.Enhancement.Model))
	}

	logger.Info("Registered history provider", zap.String("provider", provider.Name()))
	return a, nil
}

// SetEnhancer sets the enhancer used by Report. A nil enhancer disables
// enhancement.
func (a *Analyzer) SetEnhancer(e enhancer.Enhancer) {
	a.enhancer = e
}

// Analyze returns the seasonal summary for the window around targetDate.
// The first error is returned as is; it matches one of the climate.Err*
// sentinels.
func (a *Analyzer) Analyze(ctx context.Context, lat, lon float64, targetDate string) (*climate.SeasonalSummary, error) {
	tracer := a.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "analysis.Analyze")
	defer span.End()

	reqLogger := logger.ForContext(ctx, a.logger)

	span.SetAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
		attribute.String("target_date", targetDate),
		attribute.Int("window_half_days", a.settings.WindowHalfDays),
	)

	summary, err := a.analyze(ctx, reqLogger, lat, lon, targetDate)
	if err != nil {
		outcome := Outcome(err)
		metrics.AnalysesTotal.WithLabelValues(outcome).Inc()
		span.SetAttributes(attribute.Bool("success", false))
		a.tele.RecordError(ctx, err, map[string]interface{}{"outcome": outcome})

		reqLogger.Warn("Analysis failed",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.String("target_date", targetDate),
			zap.String("outcome", outcome),
			zap.Error(err))
		return nil, err
	}

	metrics.AnalysesTotal.WithLabelValues("ok").Inc()
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("years_analyzed", summary.YearsAnalyzed),
	)

	reqLogger.Info("Analysis completed",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.String("target_date", targetDate),
		zap.Int("years_analyzed", summary.YearsAnalyzed),
		zap.String("window_start", summary.Window.StartDate),
		zap.String("window_end", summary.Window.EndDate))

	return summary, nil
}

func (a *Analyzer) analyze(ctx context.Context, reqLogger *zap.Logger, lat, lon float64, targetDate string) (*climate.SeasonalSummary, error) {
	target, err := climate.ParseTargetDate(targetDate)
	if err != nil {
		return nil, err
	}

	payload, err := a.provider.FetchHistory(ctx, lat, lon)
	if err != nil {
		if !errors.Is(err, climate.ErrDataUnavailable) {
			err = fmt.Errorf("%w: %w", climate.ErrDataUnavailable, err)
		}
		return nil, err
	}

	rows, err := climate.ReadPowerCSV(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	records, err := climate.Normalize(rows, a.missingValue)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s returned no daily rows", climate.ErrDataUnavailable, a.provider.Name())
	}

	metrics.RecordsParsed.Observe(float64(len(records)))
	reqLogger.Debug("Historical records normalized",
		zap.String("provider", a.provider.Name()),
		zap.Int("records", len(records)))

	_, span := a.tele.GetTracer().Start(ctx, "climate.Summarize")
	defer span.End()
	span.SetAttributes(attribute.Int("records", len(records)))

	return climate.Summarize(records, target, a.settings)
}

// Report runs Analyze and then the enhancer. Enhancement problems never fail
// the request: the summary is returned with EnhancementError set.
func (a *Analyzer) Report(ctx context.Context, req Request) (*Result, error) {
	summary, err := a.Analyze(ctx, req.Latitude, req.Longitude, req.TargetDate)
	if err != nil {
		return nil, err
	}

	result := &Result{Summary: summary}

	if a.enhancer == nil {
		metrics.EnhancementsTotal.WithLabelValues("disabled").Inc()
		result.EnhancementError = "LLM enhancement is not configured"
		return result, nil
	}

	report, err := a.enhancer.Enhance(ctx, summary, req.UserActivity, req.UserActivityDesc)
	if err != nil {
		logger.ForContext(ctx, a.logger).Warn("Falling back to raw analysis", zap.Error(err))
		result.EnhancementError = fmt.Sprintf("LLM enhancement failed: %v", err)
		return result, nil
	}

	result.Report = report
	return result, nil
}

// Outcome classifies an analysis error for metrics and responses.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, climate.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, climate.ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, climate.ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, climate.ErrEmptyWindow):
		return "empty_window"
	default:
		return "error"
	}
}
