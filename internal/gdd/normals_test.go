package gdd

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// curveWithDays builds a curve whose record for each listed day-of-year has
// the given accumulated value. Dates land in the given (non-leap-safe for
// tests) year.
func curveWithDays(year int, accumulatedByDay map[int]float64) YearCurve {
	curve := YearCurve{Year: year}
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for doy, acc := range accumulatedByDay {
		curve.Daily = append(curve.Daily, DailyGDD{
			Date:        jan1.AddDate(0, 0, doy-1),
			Accumulated: acc,
		})
	}
	return curve
}

func TestNormals_SingleCurve(t *testing.T) {
	curve := curveWithDays(2025, map[int]float64{100: 250.0, 101: 262.5, 102: 280.0})

	stats := Normals([]YearCurve{curve})
	require.Len(t, stats, 3)

	for _, s := range stats {
		assert.Equal(t, 0.0, s.StdDev, "doy %d", s.Day)
	}
	assert.Equal(t, 100, stats[0].Day)
	assert.InDelta(t, 250.0, stats[0].MeanAccumulated, 1e-9)
}

func TestNormals_MultiYear(t *testing.T) {
	a := curveWithDays(2024, map[int]float64{150: 500.0})
	b := curveWithDays(2025, map[int]float64{150: 600.0})

	stats := Normals([]YearCurve{a, b})
	require.Len(t, stats, 1)

	assert.Equal(t, 150, stats[0].Day)
	assert.InDelta(t, 550.0, stats[0].MeanAccumulated, 1e-9)
	// Sample stddev of {500, 600}.
	assert.InDelta(t, math.Sqrt(5000.0), stats[0].StdDev, 1e-9)
}

func TestNormals_PartialYears(t *testing.T) {
	full := curveWithDays(2024, map[int]float64{10: 5.0, 11: 8.0})
	partial := curveWithDays(2025, map[int]float64{10: 7.0}) // year to date, stops early

	stats := Normals([]YearCurve{full, partial})
	require.Len(t, stats, 2)

	assert.Equal(t, 10, stats[0].Day)
	assert.InDelta(t, 6.0, stats[0].MeanAccumulated, 1e-9)
	assert.Greater(t, stats[0].StdDev, 0.0)

	// Day 11 exists in one curve only: still present, stddev 0.
	assert.Equal(t, 11, stats[1].Day)
	assert.InDelta(t, 8.0, stats[1].MeanAccumulated, 1e-9)
	assert.Equal(t, 0.0, stats[1].StdDev)
}

func TestNormals_SortedOutput(t *testing.T) {
	curve := curveWithDays(2025, map[int]float64{200: 900.0, 50: 30.0, 120: 400.0})

	stats := Normals([]YearCurve{curve})
	require.Len(t, stats, 3)
	assert.Equal(t, []int{50, 120, 200}, []int{stats[0].Day, stats[1].Day, stats[2].Day})
}

func TestNormals_Empty(t *testing.T) {
	assert.Empty(t, Normals(nil))
	assert.Empty(t, Normals([]YearCurve{{Year: 2025}}))
}
