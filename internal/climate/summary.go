package climate

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	DefaultRainThresholdMM = 0.2
	DefaultWindSpeedFactor = 3.6 // m/s -> km/h
	DefaultDecimalPlaces   = 2
)

// Settings controls window selection and aggregation.
type Settings struct {
	WindowHalfDays  int
	RainThresholdMM float64
	WindSpeedFactor float64
	DecimalPlaces   int
}

func DefaultSettings() Settings {
	return Settings{
		WindowHalfDays:  DefaultWindowHalfDays,
		RainThresholdMM: DefaultRainThresholdMM,
		WindSpeedFactor: DefaultWindSpeedFactor,
		DecimalPlaces:   DefaultDecimalPlaces,
	}
}

// SeasonalSummary is the aggregate of all historical days that fall in one
// analysis window. Pointer fields are nil when no day in the window carried
// a valid reading for them.
type SeasonalSummary struct {
	YearsAnalyzed int                `json:"total_years_analyzed"`
	Window        WindowLabels       `json:"analysis_window"`
	Temperature   TemperatureStats   `json:"temperature"`
	Precipitation PrecipitationStats `json:"precipitation"`
	Wind          WindStats          `json:"wind"`
	Humidity      HumidityStats      `json:"humidity"`
}

type WindowLabels struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type TemperatureStats struct {
	AverageC  *float64 `json:"average_c"`
	RangeMinC *float64 `json:"range_min_c"`
	RangeMaxC *float64 `json:"range_max_c"`
}

type PrecipitationStats struct {
	RainChancePercent float64  `json:"rain_chance_percent"`
	MaxDailyMM        *float64 `json:"max_daily_mm"`
}

type WindStats struct {
	AverageKMH *float64 `json:"average_kmh"`
	MaxKMH     *float64 `json:"max_kmh"`
}

type HumidityStats struct {
	AveragePercent *float64 `json:"average_percent"`
}

type accumulator struct {
	sum float64
	max float64
	n   int
}

func (a *accumulator) add(r Reading, factor float64) {
	if !r.Valid {
		return
	}
	v := r.Value * factor
	if a.n == 0 || v > a.max {
		a.max = v
	}
	a.sum += v
	a.n++
}

func (a accumulator) mean(places int) *float64 {
	if a.n == 0 {
		return nil
	}
	v := Round(a.sum/float64(a.n), places)
	return &v
}

func (a accumulator) maximum(places int) *float64 {
	if a.n == 0 {
		return nil
	}
	v := Round(a.max, places)
	return &v
}

// Summarize selects every record whose day-of-year lies in the window around
// target and reduces the selection to a SeasonalSummary. The result depends
// only on its arguments.
func Summarize(records []DailyRecord, target time.Time, s Settings) (*SeasonalSummary, error) {
	window, err := NewWindow(target, s.WindowHalfDays)
	if err != nil {
		return nil, err
	}

	var (
		tempMean, tempMin, tempMax accumulator
		precip, humidity           accumulator
		windMean, windMax          accumulator
		rainDays, selected         int
		years                      = make(map[int]struct{})
	)

	for _, r := range records {
		if !window.Includes(r.Date) {
			continue
		}
		selected++
		years[r.Date.Year()] = struct{}{}

		tempMean.add(r.TempMean, 1)
		tempMin.add(r.TempMin, 1)
		tempMax.add(r.TempMax, 1)
		humidity.add(r.Humidity, 1)
		windMean.add(r.WindMean, s.WindSpeedFactor)
		windMax.add(r.WindMax, s.WindSpeedFactor)

		precip.add(r.Precipitation, 1)
		if r.Precipitation.Valid && r.Precipitation.Value > s.RainThresholdMM {
			rainDays++
		}
	}

	if selected == 0 {
		return nil, fmt.Errorf("%w: %s to %s around %s",
			ErrEmptyWindow, window.StartLabel(), window.EndLabel(), target.Format(DateLayout))
	}

	var rainChance float64
	if precip.n > 0 {
		rainChance = 100 * float64(rainDays) / float64(precip.n)
	}

	p := s.DecimalPlaces
	return &SeasonalSummary{
		YearsAnalyzed: len(years),
		Window: WindowLabels{
			StartDate: window.StartLabel(),
			EndDate:   window.EndLabel(),
		},
		Temperature: TemperatureStats{
			AverageC:  tempMean.mean(p),
			RangeMinC: tempMin.mean(p),
			RangeMaxC: tempMax.mean(p),
		},
		Precipitation: PrecipitationStats{
			RainChancePercent: Round(rainChance, p),
			MaxDailyMM:        precip.maximum(p),
		},
		Wind: WindStats{
			AverageKMH: windMean.mean(p),
			MaxKMH:     windMax.maximum(p),
		},
		Humidity: HumidityStats{
			AveragePercent: humidity.mean(p),
		},
	}, nil
}

// Round rounds v to places decimals using the exact binary value of v, with
// exact ties going to the even digit. 22.455 is stored as 22.45499... and
// rounds to 22.45.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}
