package gdd

import (
	"math"
	"sort"
)

// Normals computes the mean and sample standard deviation of accumulated GDD
// at each day-of-year across the given curves. Partial years are valid input;
// a day-of-year covered by a single curve yields a stat with StdDev 0. Output
// is sorted ascending by day-of-year.
func Normals(curves []YearCurve) []DayOfYearStat {
	byDay := make(map[int][]float64)
	for _, curve := range curves {
		for _, d := range curve.Daily {
			doy := d.Date.YearDay()
			byDay[doy] = append(byDay[doy], d.Accumulated)
		}
	}

	days := make([]int, 0, len(byDay))
	for doy := range byDay {
		days = append(days, doy)
	}
	sort.Ints(days)

	stats := make([]DayOfYearStat, 0, len(days))
	for _, doy := range days {
		values := byDay[doy]
		stats = append(stats, DayOfYearStat{
			Day:             doy,
			MeanAccumulated: mean(values),
			StdDev:          sampleStdDev(values),
		})
	}
	return stats
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev returns the sample (n-1) standard deviation, or 0 when fewer
// than two samples exist.
func sampleStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0.0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}
