package enhancer

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vzahanych/climate-outlook/internal/climate"
)

// Request is the JSON document embedded in the prompt.
type Request struct {
	UserActivity     string                   `json:"user_activity"`
	UserActivityDesc string                   `json:"user_activity_desc"`
	AnalysisResult   *climate.SeasonalSummary `json:"analysis_result"`
}

const analysisPlaceholder = "{analysis_data}"

const promptTemplate = `You interpret historical weather statistics for a planned activity and answer with one JSON object.

INPUT
A JSON document with the fields user_activity, user_activity_desc and analysis_result. analysis_result holds
statistics for a calendar window aggregated over many past years:
- total_years_analyzed: number of distinct years that contributed data
- analysis_window.start_date / end_date: window boundaries such as "Sep 23"
- temperature.average_c, range_min_c, range_max_c: mean daily mean, minimum and maximum temperature in Celsius
- precipitation.rain_chance_percent: share of days with measurable rain; max_daily_mm: wettest single day
- wind.average_kmh, max_kmh: mean wind speed and strongest daily gust in km/h
- humidity.average_percent: mean relative humidity
Any statistic may be null when no observations were available.

OUTPUT
Return exactly this shape and nothing else:
{
  "suitability_score": integer 1-100,
  "confidence_rating": "High Confidence" | "Medium Confidence" | "Low Confidence",
  "weather_conditions": {
    "temperature": {"average": number, "min": number, "max": number},
    "precipitation": {"average": 0, "max": number, "probability_of_rain": number},
    "wind": {"average_speed": number, "max_speed": number},
    "humidity": {"average": number}
  },
  "recommendations": [string],
  "risk_factors": [string]
}

RULES
- suitability_score: judge the statistics against user_activity and user_activity_desc. A wedding outdoors is
  stricter than a short hike; a picnic wants mild temperatures, light wind and little rain; a ski trip needs cold.
- confidence_rating: "High Confidence" when total_years_analyzed >= 30, "Medium Confidence" when it is 15 to 29,
  otherwise "Low Confidence".
- weather_conditions: copy the values from analysis_result; temperature.average <- average_c, min <- range_min_c,
  max <- range_max_c, precipitation.max <- max_daily_mm, probability_of_rain <- rain_chance_percent,
  precipitation.average is always 0, wind.average_speed <- average_kmh, max_speed <- max_kmh,
  humidity.average <- average_percent.
- recommendations: 2 to 4 short, practical suggestions drawn from the most favorable conditions.
- risk_factors: 1 to 3 short warnings drawn from the least favorable or most variable conditions.
- Respond with the raw JSON object only. No markdown fences, no commentary.

INPUT DOCUMENT
{analysis_data}`

// BuildPrompt embeds req as indented JSON into the instruction template.
func BuildPrompt(req Request) (string, error) {
	if req.AnalysisResult == nil {
		return "", fmt.Errorf("analysis result is required")
	}

	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode analysis: %w", err)
	}

	return strings.Replace(promptTemplate, analysisPlaceholder, string(data), 1), nil
}
