package gdd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestDailyUnits(t *testing.T) {
	tests := []struct {
		name     string
		tmax     float64
		tmin     float64
		base     float64
		cutoff   float64
		expected float64
	}{
		{"warm day, tmin raised to base", 72, 48, 50, 86, 11.0},
		{"both clamps applied", 100, 30, 50, 86, 18.0},
		{"cold day contributes zero", 45, 35, 50, 86, 0.0},
		{"tmax capped not discarded", 95, 60, 50, 86, 23.0},
		{"tmin below base raised", 70, 40, 50, 86, 10.0},
		{"exactly at base", 50, 50, 50, 86, 0.0},
		{"negative temperatures", -10, -20, 50, 86, 0.0},
		{"custom thresholds", 70, 50, 40, 80, 20.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DailyUnits(tt.tmax, tt.tmin, tt.base, tt.cutoff)
			assert.InDelta(t, tt.expected, result, 1e-9)
			assert.GreaterOrEqual(t, result, 0.0)
		})
	}
}

func TestAccumulate(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		result := Accumulate(nil, DefaultBaseTemp, DefaultUpperCutoff)
		assert.Empty(t, result)
	})

	t.Run("single day accumulated equals units", func(t *testing.T) {
		readings := []DailyReading{{Date: day(2026, time.January, 15), TMax: 70, TMin: 40}}
		result := Accumulate(readings, DefaultBaseTemp, DefaultUpperCutoff)

		require.Len(t, result, 1)
		assert.Equal(t, result[0].Units, result[0].Accumulated)
		assert.InDelta(t, 10.0, result[0].Units, 1e-9)
	})

	t.Run("running sum invariant", func(t *testing.T) {
		readings := []DailyReading{
			{Date: day(2026, time.June, 1), TMax: 80, TMin: 55},
			{Date: day(2026, time.June, 2), TMax: 45, TMin: 35}, // cold day
			{Date: day(2026, time.June, 3), TMax: 95, TMin: 60}, // capped day
			{Date: day(2026, time.June, 4), TMax: 72, TMin: 48},
		}
		result := Accumulate(readings, DefaultBaseTemp, DefaultUpperCutoff)
		require.Len(t, result, 4)

		sum := 0.0
		for i, r := range result {
			sum += r.Units
			assert.InDelta(t, sum, r.Accumulated, 1e-9, "index %d", i)
			if i > 0 {
				assert.GreaterOrEqual(t, r.Accumulated, result[i-1].Accumulated)
			}
		}

		// The cold day is kept with zero units, not dropped.
		assert.Equal(t, 0.0, result[1].Units)
		assert.Equal(t, result[0].Accumulated, result[1].Accumulated)

		// The hot day is capped: (86+60)/2 - 50 = 23.
		assert.InDelta(t, 23.0, result[2].Units, 1e-9)
	})

	t.Run("input temperatures carried through", func(t *testing.T) {
		readings := []DailyReading{{Date: day(2026, time.May, 10), TMax: 77.3, TMin: 51.2}}
		result := Accumulate(readings, DefaultBaseTemp, DefaultUpperCutoff)

		require.Len(t, result, 1)
		assert.Equal(t, 77.3, result[0].TMax)
		assert.Equal(t, 51.2, result[0].TMin)
		assert.Equal(t, day(2026, time.May, 10), result[0].Date)
	})
}

func TestYearCurve(t *testing.T) {
	curve := BuildYearCurve(2026, []DailyReading{
		{Date: day(2026, time.January, 1), TMax: 60, TMin: 50}, // 5 units
		{Date: day(2026, time.January, 2), TMax: 70, TMin: 50}, // 10 units
		{Date: day(2026, time.January, 3), TMax: 80, TMin: 60}, // 20 units
	}, DefaultBaseTemp, DefaultUpperCutoff)

	t.Run("total is last accumulated", func(t *testing.T) {
		assert.InDelta(t, 35.0, curve.Total(), 1e-9)
	})

	t.Run("empty curve total", func(t *testing.T) {
		assert.Equal(t, 0.0, YearCurve{Year: 2026}.Total())
	})

	t.Run("lookup by day of year", func(t *testing.T) {
		assert.InDelta(t, 5.0, curve.AccumulatedThroughDay(1), 1e-9)
		assert.InDelta(t, 15.0, curve.AccumulatedThroughDay(2), 1e-9)
		assert.InDelta(t, 35.0, curve.AccumulatedThroughDay(3), 1e-9)
	})

	t.Run("missing day of year returns zero", func(t *testing.T) {
		assert.Equal(t, 0.0, curve.AccumulatedThroughDay(200))
	})
}
