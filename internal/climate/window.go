package climate

import (
	"fmt"
	"time"
)

// ReferenceYearDays is the length of the reference year used for every
// day-of-year computation, leap or not.
const ReferenceYearDays = 365

// DefaultWindowHalfDays gives the 31-day window.
const DefaultWindowHalfDays = 15

// daysBefore[m] is the number of days preceding month m in a non-leap year.
var daysBefore = [13]int{0, 0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// referenceYear is any non-leap year; only its month/day layout matters.
const referenceYear = 2001

// DayOfYear returns the 1-based position of month/day in a 365-day
// reference year. Feb 29 has no slot of its own and shares day 60 with Mar 1.
func DayOfYear(month time.Month, day int) int {
	return daysBefore[month] + day
}

// DateDayOfYear is DayOfYear for the month and day of t.
func DateDayOfYear(t time.Time) int {
	return DayOfYear(t.Month(), t.Day())
}

func wrapDayOfYear(doy int) int {
	return ((doy-1)%ReferenceYearDays+ReferenceYearDays)%ReferenceYearDays + 1
}

// ValidateHalfWidth reports whether a window of 2*half+1 days fits in the
// reference year.
func ValidateHalfWidth(half int) error {
	if half < 0 {
		return fmt.Errorf("%w: half-width %d is negative", ErrInvalidWindow, half)
	}
	if 2*half+1 > ReferenceYearDays {
		return fmt.Errorf("%w: half-width %d spans more than %d days", ErrInvalidWindow, half, ReferenceYearDays)
	}
	return nil
}

// AnalysisWindow is a fixed-width slice of the calendar year centered on a
// month/day. The year of Center never affects selection.
type AnalysisWindow struct {
	Center    time.Time
	HalfWidth int
	StartDOY  int
	EndDOY    int
}

func NewWindow(center time.Time, half int) (AnalysisWindow, error) {
	if err := ValidateHalfWidth(half); err != nil {
		return AnalysisWindow{}, err
	}

	c := DateDayOfYear(center)
	return AnalysisWindow{
		Center:    center,
		HalfWidth: half,
		StartDOY:  wrapDayOfYear(c - half),
		EndDOY:    wrapDayOfYear(c + half),
	}, nil
}

// Wraps reports whether the window crosses Dec 31.
func (w AnalysisWindow) Wraps() bool {
	return w.StartDOY > w.EndDOY
}

func (w AnalysisWindow) Contains(doy int) bool {
	if w.Wraps() {
		return doy >= w.StartDOY || doy <= w.EndDOY
	}
	return doy >= w.StartDOY && doy <= w.EndDOY
}

// Includes reports whether the record date falls in the window in any year.
func (w AnalysisWindow) Includes(t time.Time) bool {
	return w.Contains(DateDayOfYear(t))
}

// Days is the number of day-of-year slots the window covers.
func (w AnalysisWindow) Days() int {
	if w.Wraps() {
		return ReferenceYearDays - w.StartDOY + 1 + w.EndDOY
	}
	return w.EndDOY - w.StartDOY + 1
}

func (w AnalysisWindow) StartLabel() string {
	return dayLabel(w.StartDOY)
}

func (w AnalysisWindow) EndLabel() string {
	return dayLabel(w.EndDOY)
}

func dayLabel(doy int) string {
	return time.Date(referenceYear, time.January, doy, 0, 0, 0, 0, time.UTC).Format("Jan 02")
}
