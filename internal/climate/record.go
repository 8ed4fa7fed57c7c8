package climate

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format accepted from clients.
const DateLayout = "2006-01-02"

// Reading is a single observed value that may be absent.
type Reading struct {
	Value float64
	Valid bool
}

func Present(v float64) Reading {
	return Reading{Value: v, Valid: true}
}

// Absent is the zero Reading.
var Absent = Reading{}

// DailyRecord is one calendar day of observations at a fixed location.
// Wind speeds are in m/s; conversion happens during summarization.
type DailyRecord struct {
	Date          time.Time
	TempMean      Reading
	TempMax       Reading
	TempMin       Reading
	Precipitation Reading
	Humidity      Reading
	WindMean      Reading
	WindMax       Reading
}

// ParseTargetDate parses a YYYY-MM-DD date.
func ParseTargetDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q must use YYYY-MM-DD format", ErrInvalidDate, s)
	}
	return t, nil
}
