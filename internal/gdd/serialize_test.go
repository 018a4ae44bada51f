package gdd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurveDocRoundTrip(t *testing.T) {
	curve := BuildYearCurve(2025, []DailyReading{
		{Date: day(2025, time.June, 1), TMax: 81.37, TMin: 55.21},
		{Date: day(2025, time.June, 2), TMax: 72.04, TMin: 49.9},
	}, DefaultBaseTemp, DefaultUpperCutoff)

	decoded, err := DecodeCurve(EncodeCurve(curve))
	require.NoError(t, err)

	require.Len(t, decoded.Daily, 2)
	assert.Equal(t, curve.Year, decoded.Year)
	for i := range curve.Daily {
		assert.True(t, curve.Daily[i].Date.Equal(decoded.Daily[i].Date))
		assert.Equal(t, curve.Daily[i].TMax, decoded.Daily[i].TMax)
		assert.Equal(t, curve.Daily[i].Units, decoded.Daily[i].Units)
		assert.Equal(t, curve.Daily[i].Accumulated, decoded.Daily[i].Accumulated)
	}
}

func TestDecodeCurve_BadDate(t *testing.T) {
	_, err := DecodeCurve(CurveDoc{Year: 2025, Daily: []CurveDay{{Date: "June 1st"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2025")
}

func TestSummarizeYear(t *testing.T) {
	curve := YearCurve{Year: 2025, Daily: []DailyGDD{
		{Date: day(2025, time.June, 1), TMax: 81.37, TMin: 55.26, Units: 18.315, Accumulated: 18.315},
		{Date: day(2025, time.June, 2), TMax: 72.04, TMin: 49.9, Units: 11.02, Accumulated: 29.335},
	}}

	summary := SummarizeYear(curve)

	assert.Equal(t, 2025, summary.Year)
	assert.Equal(t, 29.3, summary.TotalGDD)
	require.Len(t, summary.Daily, 2)
	assert.Equal(t, "2025-06-01", summary.Daily[0].Date)
	assert.Equal(t, 81.4, summary.Daily[0].TMax)
	assert.Equal(t, 55.3, summary.Daily[0].TMin)
	assert.Equal(t, 18.3, summary.Daily[0].Units)
	assert.Equal(t, 29.3, summary.Daily[1].Accumulated)
}

func TestSummarizeNormals(t *testing.T) {
	doc := SummarizeNormals([]DayOfYearStat{
		{Day: 100, MeanAccumulated: 250.04, StdDev: 31.26},
	}, "1996-2025")

	assert.Equal(t, "1996-2025", doc.YearRange)
	require.Len(t, doc.ByDay, 1)
	assert.Equal(t, 100, doc.ByDay[0].Day)
	assert.Equal(t, 250.0, doc.ByDay[0].MeanAccumulated)
	assert.Equal(t, 31.3, doc.ByDay[0].StdDev)
}

func TestProfileTable(t *testing.T) {
	profiles := map[string]SpeciesProfile{
		"Papilio rutulus": {
			ScientificName: "Papilio rutulus", CommonName: "Western Tiger Swallowtail",
			ObservationCount: 12, Min: 501.4, P10: 530.6, Median: 702.5, P90: 1100.2, Max: 1340.9,
		},
		"Pieris rapae": {
			ScientificName: "Pieris rapae", CommonName: "Cabbage White",
			ObservationCount: 40, Min: 120.1, P10: 150.0, Median: 400.4, P90: 1500.8, Max: 2100.0,
		},
	}

	table := ProfileTable(profiles)
	require.Len(t, table, 2)

	// Sorted by median ascending.
	assert.Equal(t, "Pieris rapae", table[0].ScientificName)
	assert.Equal(t, "Papilio rutulus", table[1].ScientificName)

	// Rounded to whole GDD.
	assert.Equal(t, 400.0, table[0].GDDMedian)
	assert.Equal(t, 703.0, table[1].GDDMedian)
	assert.Equal(t, 501.0, table[1].GDDMin)
	assert.Equal(t, 531.0, table[1].GDDP10)
	assert.Equal(t, 1501.0, table[0].GDDP90)
}
