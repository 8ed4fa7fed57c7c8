package climate

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// NASA POWER daily point column names.
const (
	ColYear          = "YEAR"
	ColMonth         = "MO"
	ColDay           = "DY"
	ColTempMean      = "T2M"
	ColTempMax       = "T2M_MAX"
	ColTempMin       = "T2M_MIN"
	ColPrecipitation = "PRECTOTCORR"
	ColHumidity      = "RH2M"
	ColWindMean      = "WS10M"
	ColWindMax       = "WS10M_MAX"
)

// HeaderPrefix marks the first line of tabular data after the metadata preamble.
const HeaderPrefix = ColYear + "," + ColMonth + "," + ColDay

// DefaultMissingValue is the provider's sentinel for a missing observation.
const DefaultMissingValue = -999

// RequiredColumns lists every column the normalizer maps.
var RequiredColumns = []string{
	ColYear, ColMonth, ColDay,
	ColTempMean, ColTempMax, ColTempMin,
	ColPrecipitation, ColHumidity,
	ColWindMean, ColWindMax,
}

// RawRow is a provider row keyed by provider column name.
type RawRow map[string]float64

// ReadPowerCSV skips the metadata preamble of a NASA POWER CSV payload and
// parses the table that follows the header row. The header must carry every
// required column and each cell must be a finite number.
func ReadPowerCSV(r io.Reader) ([]RawRow, error) {
	br := bufio.NewReader(r)

	var header []string
	for {
		line, err := br.ReadString('\n')
		if strings.HasPrefix(strings.TrimSpace(line), HeaderPrefix) {
			header = strings.Split(strings.TrimSpace(line), ",")
			break
		}
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: header row %q not found", ErrMalformedInput, HeaderPrefix)
		}
		if err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
	}

	present := make(map[string]struct{}, len(header))
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
		present[header[i]] = struct{}{}
	}
	for _, col := range RequiredColumns {
		if _, ok := present[col]; !ok {
			return nil, fmt.Errorf("%w: header lacks column %s", ErrMalformedInput, col)
		}
	}

	cr := csv.NewReader(br)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = len(header)

	var rows []RawRow
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}

		row := make(RawRow, len(header))
		for i, name := range header {
			v, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: column %s: %v", ErrMalformedInput, name, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: column %s: non-finite value %q", ErrMalformedInput, name, fields[i])
			}
			row[name] = v
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Normalize maps provider rows onto DailyRecord values. Cells equal to
// missing become absent readings.
func Normalize(rows []RawRow, missing float64) ([]DailyRecord, error) {
	records := make([]DailyRecord, 0, len(rows))
	seen := make(map[time.Time]struct{}, len(rows))

	for i, row := range rows {
		for _, col := range RequiredColumns {
			if _, ok := row[col]; !ok {
				return nil, fmt.Errorf("%w: row %d lacks column %s", ErrMalformedInput, i, col)
			}
		}

		date, err := rowDate(row)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedInput, i, err)
		}
		if _, dup := seen[date]; dup {
			return nil, fmt.Errorf("%w: duplicate date %s", ErrMalformedInput, date.Format(DateLayout))
		}
		seen[date] = struct{}{}

		reading := func(col string) Reading {
			v := row[col]
			if v == missing {
				return Absent
			}
			return Present(v)
		}

		records = append(records, DailyRecord{
			Date:          date,
			TempMean:      reading(ColTempMean),
			TempMax:       reading(ColTempMax),
			TempMin:       reading(ColTempMin),
			Precipitation: reading(ColPrecipitation),
			Humidity:      reading(ColHumidity),
			WindMean:      reading(ColWindMean),
			WindMax:       reading(ColWindMax),
		})
	}

	return records, nil
}

func rowDate(row RawRow) (time.Time, error) {
	year, month, day := int(row[ColYear]), int(row[ColMonth]), int(row[ColDay])
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return time.Time{}, fmt.Errorf("invalid calendar date %04d-%02d-%02d", year, month, day)
	}
	return date, nil
}
