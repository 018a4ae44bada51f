package gdd

// DailyUnits computes one day's growing degree days using the modified
// average method: tmax is capped at upperCutoff, tmin is raised to baseTemp,
// and the adjusted mean above base is the day's contribution. Never negative.
func DailyUnits(tmax, tmin, baseTemp, upperCutoff float64) float64 {
	if tmax > upperCutoff {
		tmax = upperCutoff
	}
	if tmin < baseTemp {
		tmin = baseTemp
	}
	units := (tmax+tmin)/2 - baseTemp
	if units < 0 {
		return 0.0
	}
	return units
}

// Accumulate converts a date-ordered sequence of daily temperature readings
// into daily GDD records with a running total. The caller supplies
// chronological input; out-of-order data produces a meaningless accumulation.
// Empty input yields an empty (non-nil-safe to range) result.
func Accumulate(readings []DailyReading, baseTemp, upperCutoff float64) []DailyGDD {
	daily := make([]DailyGDD, 0, len(readings))
	accumulated := 0.0
	for _, r := range readings {
		units := DailyUnits(r.TMax, r.TMin, baseTemp, upperCutoff)
		accumulated += units
		daily = append(daily, DailyGDD{
			Date:        r.Date,
			TMax:        r.TMax,
			TMin:        r.TMin,
			Units:       units,
			Accumulated: accumulated,
		})
	}
	return daily
}

// BuildYearCurve accumulates readings into a curve tagged with its calendar
// year.
func BuildYearCurve(year int, readings []DailyReading, baseTemp, upperCutoff float64) YearCurve {
	return YearCurve{Year: year, Daily: Accumulate(readings, baseTemp, upperCutoff)}
}
