package climate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `-BEGIN HEADER-
NASA/POWER Source Native Resolution Daily Data
Dates (month/day/year): 01/01/1984 through 12/31/2024 in LST
Location: latitude  40.7128   longitude -74.006
Value for missing model data cannot be computed or out of model availability range: -999
Parameter(s):
T2M             MERRA-2 Temperature at 2 Meters (C)
PRECTOTCORR     MERRA-2 Precipitation Corrected (mm/day)
-END HEADER-
YEAR,MO,DY,T2M,T2M_MAX,T2M_MIN,PRECTOTCORR,RH2M,WS10M,WS10M_MAX
1984,1,1,1.5,4.2,-1.1,0.0,80.1,3.2,6.1
1984,1,2,-999,3.9,-2.0,1.25,-999,2.8,5.5
`

func TestReadPowerCSV(t *testing.T) {
	rows, err := ReadPowerCSV(strings.NewReader(samplePayload))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1984.0, rows[0][ColYear])
	assert.Equal(t, 4.2, rows[0][ColTempMax])
	assert.Equal(t, -999.0, rows[1][ColTempMean])
}

func TestReadPowerCSV_NoPreamble(t *testing.T) {
	payload := "YEAR,MO,DY,T2M,T2M_MAX,T2M_MIN,PRECTOTCORR,RH2M,WS10M,WS10M_MAX\r\n2000,2,29,1,2,0,0,50,1,2\r\n"

	rows, err := ReadPowerCSV(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 29.0, rows[0][ColDay])
}

func TestReadPowerCSV_MissingHeader(t *testing.T) {
	_, err := ReadPowerCSV(strings.NewReader("-BEGIN HEADER-\nsomething went wrong\n"))
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = ReadPowerCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMalformedInput)
}

const fullHeader = "YEAR,MO,DY,T2M,T2M_MAX,T2M_MIN,PRECTOTCORR,RH2M,WS10M,WS10M_MAX\n"

func TestReadPowerCSV_BadCell(t *testing.T) {
	payload := fullHeader + "1984,1,1,warm,4.2,-1.1,0.0,80.1,3.2,6.1\n"

	_, err := ReadPowerCSV(strings.NewReader(payload))
	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.ErrorContains(t, err, "T2M")
}

func TestReadPowerCSV_NonFiniteCell(t *testing.T) {
	for _, cell := range []string{"NaN", "Inf", "-Inf", "+inf"} {
		t.Run(cell, func(t *testing.T) {
			payload := fullHeader + "1984,1,1," + cell + ",4.2,-1.1,0.0,80.1,3.2,6.1\n"

			rows, err := ReadPowerCSV(strings.NewReader(payload))
			assert.Nil(t, rows)
			assert.ErrorIs(t, err, ErrMalformedInput)
			assert.ErrorContains(t, err, "non-finite")
		})
	}
}

func TestReadPowerCSV_RaggedRow(t *testing.T) {
	payload := fullHeader + "1984,1,1,1.5\n"

	_, err := ReadPowerCSV(strings.NewReader(payload))
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestReadPowerCSV_HeaderMissingColumn(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		missing string
	}{
		{"header only", "YEAR,MO,DY,T2M\n", "T2M_MAX"},
		{"with rows", "-BEGIN HEADER-\n-END HEADER-\nYEAR,MO,DY,T2M,T2M_MAX,T2M_MIN,PRECTOTCORR,RH2M,WS10M\n1984,1,1,1,2,0,0,50,1\n", "WS10M_MAX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ReadPowerCSV(strings.NewReader(tt.payload))
			assert.Nil(t, rows)
			assert.ErrorIs(t, err, ErrMalformedInput)
			assert.ErrorContains(t, err, "lacks column "+tt.missing)
		})
	}
}

func TestReadPowerCSV_HeaderOnly(t *testing.T) {
	rows, err := ReadPowerCSV(strings.NewReader(fullHeader))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestNormalize(t *testing.T) {
	rows, err := ReadPowerCSV(strings.NewReader(samplePayload))
	require.NoError(t, err)

	records, err := Normalize(rows, DefaultMissingValue)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, time.Date(1984, time.January, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, Present(1.5), first.TempMean)
	assert.Equal(t, Present(4.2), first.TempMax)
	assert.Equal(t, Present(-1.1), first.TempMin)
	assert.Equal(t, Present(0.0), first.Precipitation)
	assert.Equal(t, Present(80.1), first.Humidity)
	assert.Equal(t, Present(3.2), first.WindMean)
	assert.Equal(t, Present(6.1), first.WindMax)

	second := records[1]
	assert.Equal(t, time.Date(1984, time.January, 2, 0, 0, 0, 0, time.UTC), second.Date)
	assert.False(t, second.TempMean.Valid)
	assert.False(t, second.Humidity.Valid)
	assert.Equal(t, Present(1.25), second.Precipitation)
}

func TestNormalize_MissingColumn(t *testing.T) {
	row := fullRow(1984, 1, 1)
	delete(row, ColWindMax)

	_, err := Normalize([]RawRow{row}, DefaultMissingValue)
	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.ErrorContains(t, err, ColWindMax)
}

func TestNormalize_InvalidDate(t *testing.T) {
	row := fullRow(2001, 2, 30)

	_, err := Normalize([]RawRow{row}, DefaultMissingValue)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestNormalize_DuplicateDate(t *testing.T) {
	_, err := Normalize([]RawRow{fullRow(2001, 3, 1), fullRow(2001, 3, 1)}, DefaultMissingValue)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestNormalize_Empty(t *testing.T) {
	records, err := Normalize(nil, DefaultMissingValue)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func fullRow(year, month, day int) RawRow {
	row := RawRow{}
	for _, col := range RequiredColumns {
		row[col] = 1
	}
	row[ColYear] = float64(year)
	row[ColMonth] = float64(month)
	row[ColDay] = float64(day)
	return row
}

func TestParseTargetDate(t *testing.T) {
	d, err := ParseTargetDate("2025-10-08")
	require.NoError(t, err)
	assert.Equal(t, time.October, d.Month())
	assert.Equal(t, 8, d.Day())

	for _, bad := range []string{"", "2025/10/08", "08-10-2025", "2025-02-30", "tomorrow"} {
		_, err := ParseTargetDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}
