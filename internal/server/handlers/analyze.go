package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vzahanych/climate-outlook/internal/analysis"
	"github.com/vzahanych/climate-outlook/internal/climate"
	"github.com/vzahanych/climate-outlook/internal/server/utils"
)

// Reporter produces an analysis result for one request.
type Reporter interface {
	Report(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

type AnalyzeHandler struct {
	reporter Reporter
	logger   *zap.Logger
}

func NewAnalyzeHandler(reporter Reporter, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		reporter: reporter,
		logger:   logger,
	}
}

func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	requestID := utils.GetRequestIDFromGinContext(c)

	reqLogger := h.logger.With(zap.String("request_id", requestID))

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reqLogger.Warn("Invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, failure("Invalid request body", "INVALID_REQUEST"))
		return
	}

	if verrs := utils.ValidateStruct(req); len(verrs) > 0 {
		reqLogger.Warn("Request validation failed", zap.Any("errors", verrs))
		resp := failure("Invalid request parameters", "INVALID_PARAMS")
		for _, v := range verrs {
			if v.Tag == "calendar_date" {
				resp = failure(invalidDateMessage, "INVALID_DATE")
			}
		}
		resp.Details = verrs
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	utils.GetSpanFromGinContext(c).SetAttributes(
		attribute.String("user_activity", req.UserActivity),
	)

	reqLogger.Info("Processing analysis request",
		zap.Float64("lat", *req.Latitude),
		zap.Float64("lon", *req.Longitude),
		zap.String("target_date", req.TargetDate),
		zap.String("user_activity", req.UserActivity))

	result, err := h.reporter.Report(ctx, analysis.Request{
		Latitude:         *req.Latitude,
		Longitude:        *req.Longitude,
		TargetDate:       req.TargetDate,
		UserActivity:     req.UserActivity,
		UserActivityDesc: req.UserActivityDesc,
	})
	if err != nil {
		status, resp := errorResponse(err)
		if status >= http.StatusInternalServerError {
			reqLogger.Error("Analysis request failed", zap.Error(err))
		}
		c.JSON(status, resp)
		return
	}

	if result.Report == nil {
		c.JSON(http.StatusOK, APIResponse{
			Success: true,
			Data: FallbackData{
				RawAnalysis:      result.Summary,
				EnhancementError: result.EnhancementError,
				UserActivity:     req.UserActivity,
				UserActivityDesc: req.UserActivityDesc,
			},
		})
		return
	}

	reqLogger.Info("Analysis request completed",
		zap.Int("suitability_score", result.Report.SuitabilityScore),
		zap.String("confidence_rating", result.Report.ConfidenceRating))

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    result.Report,
	})
}

const invalidDateMessage = "Invalid date format. Use YYYY-MM-DD format."

// errorResponse maps analysis errors onto the HTTP status and envelope.
// Upstream and data problems are reported in-band with status 200.
func errorResponse(err error) (int, APIResponse) {
	switch {
	case errors.Is(err, climate.ErrInvalidDate):
		return http.StatusBadRequest, failure(invalidDateMessage, "INVALID_DATE")
	case errors.Is(err, climate.ErrDataUnavailable):
		return http.StatusOK, failure(err.Error(), "DATA_UNAVAILABLE")
	case errors.Is(err, climate.ErrMalformedInput):
		return http.StatusOK, failure(err.Error(), "MALFORMED_DATA")
	case errors.Is(err, climate.ErrEmptyWindow):
		return http.StatusOK, failure(err.Error(), "EMPTY_WINDOW")
	default:
		return http.StatusInternalServerError, failure("Internal server error", "INTERNAL_ERROR")
	}
}
