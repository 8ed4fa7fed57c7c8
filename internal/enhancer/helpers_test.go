package enhancer

import "github.com/vzahanych/climate-outlook/internal/climate"

func ptr(v float64) *float64 { return &v }

func testSummary(years int) *climate.SeasonalSummary {
	return &climate.SeasonalSummary{
		YearsAnalyzed: years,
		Window:        climate.WindowLabels{StartDate: "Sep 23", EndDate: "Oct 23"},
		Temperature: climate.TemperatureStats{
			AverageC:  ptr(22.5),
			RangeMinC: ptr(18.0),
			RangeMaxC: ptr(28.0),
		},
		Precipitation: climate.PrecipitationStats{
			RainChancePercent: 25,
			MaxDailyMM:        ptr(15.7),
		},
		Wind:     climate.WindStats{AverageKMH: ptr(12.4), MaxKMH: ptr(28.6)},
		Humidity: climate.HumidityStats{AveragePercent: ptr(68)},
	}
}

const validReply = `{
  "suitability_score": 87,
  "confidence_rating": "Low Confidence",
  "weather_conditions": {
    "temperature": {"average": 1, "min": 1, "max": 1},
    "precipitation": {"average": 0, "max": 1, "probability_of_rain": 1},
    "wind": {"average_speed": 1, "max_speed": 1},
    "humidity": {"average": 1}
  },
  "recommendations": ["Comfortable temperatures throughout the day."],
  "risk_factors": ["Occasional showers."]
}`
