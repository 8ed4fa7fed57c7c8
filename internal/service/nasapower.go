package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vzahanych/climate-outlook/internal/climate"
	"github.com/vzahanych/climate-outlook/internal/config"
	"github.com/vzahanych/climate-outlook/internal/metrics"
	"github.com/vzahanych/climate-outlook/pkg/telemetry"
)

const (
	NASAPowerName  = "nasa-power"
	maxPayloadSize = 64 << 20
)

var (
	errClientStatus    = errors.New("request rejected by provider")
	errServerStatus    = errors.New("provider server error")
	ErrTimeout         = errors.New("provider request timed out")
	ErrCircuitOpen     = errors.New("provider circuit breaker open")
	ErrPayloadTooLarge = errors.New("provider payload too large")
)

// NASAPowerService fetches daily point data from the NASA POWER API. Each
// call is a single request bounded by the configured timeout; repeated
// failures open a circuit breaker so later requests fail fast.
type NASAPowerService struct {
	cfg        config.ProviderConfig
	client     *http.Client
	timeout    time.Duration
	maxPayload int64
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
	tele       *telemetry.Telemetry
}

func NewNASAPowerServiceWithConfig(cfg config.ProviderConfig, logger *zap.Logger, tele *telemetry.Telemetry) *NASAPowerService {
	failures := cfg.Breaker.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        NASAPowerName,
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    time.Duration(cfg.Breaker.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Breaker.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errClientStatus)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &NASAPowerService{
		cfg:        cfg,
		client:     &http.Client{},
		timeout:    time.Duration(cfg.Timeout) * time.Second,
		maxPayload: maxPayloadSize,
		breaker:    breaker,
		logger:     logger,
		tele:       tele,
	}
}

func (s *NASAPowerService) Name() string {
	return NASAPowerName
}

// FetchHistory returns the raw CSV payload. All failures wrap
// climate.ErrDataUnavailable.
func (s *NASAPowerService) FetchHistory(ctx context.Context, lat, lon float64) ([]byte, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "nasapower.FetchHistory")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
		attribute.String("service", NASAPowerName),
	)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.fetch(ctx, lat, lon)
	})
	metrics.ProviderLatency.WithLabelValues(NASAPowerName).Observe(time.Since(start).Seconds())

	if err != nil {
		status := "error"
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			status = "circuit_open"
			err = fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		case errors.Is(err, context.DeadlineExceeded):
			status = "timeout"
			err = fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		metrics.ProviderCallsTotal.WithLabelValues(NASAPowerName, status).Inc()

		span.SetAttributes(
			attribute.Bool("success", false),
			attribute.String("error", err.Error()),
		)
		s.logger.Warn("Historical data fetch failed",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.String("status", status),
			zap.Error(err))

		return nil, fmt.Errorf("%w: %w", climate.ErrDataUnavailable, err)
	}

	body := result.([]byte)
	metrics.ProviderCallsTotal.WithLabelValues(NASAPowerName, "ok").Inc()
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("payload_bytes", len(body)),
	)

	s.logger.Debug("Historical data fetched",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.Int("payload_bytes", len(body)),
		zap.Duration("latency", time.Since(start)))

	return body, nil
}

func (s *NASAPowerService) fetch(ctx context.Context, lat, lon float64) ([]byte, error) {
	u, err := url.Parse(s.cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("parameters", s.cfg.Parameters)
	q.Set("community", s.cfg.Community)
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("start", s.cfg.Start)
	q.Set("end", s.cfg.End)
	q.Set("format", s.cfg.Format)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", errServerStatus, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", errClientStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxPayload+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > s.maxPayload {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrPayloadTooLarge, s.maxPayload)
	}
	return body, nil
}
