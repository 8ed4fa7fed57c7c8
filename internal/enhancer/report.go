package enhancer

import (
	"context"
	"errors"

	"github.com/vzahanych/climate-outlook/internal/climate"
)

// ErrEnhancement covers every relay failure: transport, timeout, refusal or
// an unparsable reply.
var ErrEnhancement = errors.New("enhancement failed")

const (
	HighConfidence   = "High Confidence"
	MediumConfidence = "Medium Confidence"
	LowConfidence    = "Low Confidence"
)

// ConfidenceRating derives the rating from the number of years analyzed.
func ConfidenceRating(yearsAnalyzed int) string {
	switch {
	case yearsAnalyzed >= 30:
		return HighConfidence
	case yearsAnalyzed >= 15:
		return MediumConfidence
	default:
		return LowConfidence
	}
}

// Enhancer turns a seasonal summary into an activity suitability report.
type Enhancer interface {
	Enhance(ctx context.Context, summary *climate.SeasonalSummary, activity, description string) (*EnhancedReport, error)
}

type EnhancedReport struct {
	SuitabilityScore  int               `json:"suitability_score" jsonschema:"minimum=1,maximum=100"`
	ConfidenceRating  string            `json:"confidence_rating" jsonschema:"enum=High Confidence,enum=Medium Confidence,enum=Low Confidence"`
	WeatherConditions WeatherConditions `json:"weather_conditions"`
	Recommendations   []string          `json:"recommendations"`
	RiskFactors       []string          `json:"risk_factors"`
}

type WeatherConditions struct {
	Temperature   TemperatureConditions   `json:"temperature"`
	Precipitation PrecipitationConditions `json:"precipitation"`
	Wind          WindConditions          `json:"wind"`
	Humidity      HumidityConditions      `json:"humidity"`
}

type TemperatureConditions struct {
	Average *float64 `json:"average"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
}

type PrecipitationConditions struct {
	Average           float64  `json:"average"`
	Max               *float64 `json:"max"`
	ProbabilityOfRain float64  `json:"probability_of_rain"`
}

type WindConditions struct {
	AverageSpeed *float64 `json:"average_speed"`
	MaxSpeed     *float64 `json:"max_speed"`
}

type HumidityConditions struct {
	Average *float64 `json:"average"`
}

// ConditionsFromSummary maps summary statistics onto the report's weather
// block. Average precipitation is not computed and is always 0.
func ConditionsFromSummary(s *climate.SeasonalSummary) WeatherConditions {
	return WeatherConditions{
		Temperature: TemperatureConditions{
			Average: s.Temperature.AverageC,
			Min:     s.Temperature.RangeMinC,
			Max:     s.Temperature.RangeMaxC,
		},
		Precipitation: PrecipitationConditions{
			Average:           0,
			Max:               s.Precipitation.MaxDailyMM,
			ProbabilityOfRain: s.Precipitation.RainChancePercent,
		},
		Wind: WindConditions{
			AverageSpeed: s.Wind.AverageKMH,
			MaxSpeed:     s.Wind.MaxKMH,
		},
		Humidity: HumidityConditions{
			Average: s.Humidity.AveragePercent,
		},
	}
}
