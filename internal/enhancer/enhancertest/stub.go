// Package enhancertest provides deterministic Enhancer implementations.
package enhancertest

import (
	"context"
	"sync"

	"github.com/vzahanych/climate-outlook/internal/climate"
	"github.com/vzahanych/climate-outlook/internal/enhancer"
)

// Stub returns a fixed score and lists, or Err when set. Calls are recorded.
type Stub struct {
	Score           int
	Recommendations []string
	RiskFactors     []string
	Err             error

	mu    sync.Mutex
	calls []Call
}

type Call struct {
	Summary     *climate.SeasonalSummary
	Activity    string
	Description string
}

func (s *Stub) Enhance(ctx context.Context, summary *climate.SeasonalSummary, activity, description string) (*enhancer.EnhancedReport, error) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Summary: summary, Activity: activity, Description: description})
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	return &enhancer.EnhancedReport{
		SuitabilityScore:  s.Score,
		ConfidenceRating:  enhancer.ConfidenceRating(summary.YearsAnalyzed),
		WeatherConditions: enhancer.ConditionsFromSummary(summary),
		Recommendations:   s.Recommendations,
		RiskFactors:       s.RiskFactors,
	}, nil
}

func (s *Stub) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}
