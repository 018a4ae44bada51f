package gdd

import "time"

// Default computation parameters for butterflies / general insects, in
// Fahrenheit. Callers supplying Celsius inputs must supply matching thresholds.
const (
	DefaultBaseTemp    = 50.0
	DefaultUpperCutoff = 86.0
)

// DailyReading is one day's observed temperature extremes, the boundary type
// produced by weather providers.
type DailyReading struct {
	Date time.Time
	TMax float64
	TMin float64
}

// DailyGDD is the computation result for a single day. Units is never
// negative; Accumulated is the running total through this date inclusive.
type DailyGDD struct {
	Date        time.Time
	TMax        float64
	TMin        float64
	Units       float64
	Accumulated float64
}

// YearCurve is a full or partial year of accumulated GDD. It exclusively owns
// its Daily records, which are date-ordered within the year.
type YearCurve struct {
	Year  int
	Daily []DailyGDD
}

// Total returns the accumulated GDD through the last recorded day.
func (c YearCurve) Total() float64 {
	if len(c.Daily) == 0 {
		return 0.0
	}
	return c.Daily[len(c.Daily)-1].Accumulated
}

// AccumulatedThroughDay returns the accumulated GDD through a day-of-year
// (1 = Jan 1), or 0.0 when the curve has no record for that day.
func (c YearCurve) AccumulatedThroughDay(dayOfYear int) float64 {
	for _, d := range c.Daily {
		if d.Date.YearDay() == dayOfYear {
			return d.Accumulated
		}
	}
	return 0.0
}

// DayOfYearStat is the multi-year mean and spread of accumulated GDD at one
// day-of-year. Derived, recomputed each run, never mutated in place.
type DayOfYearStat struct {
	Day             int
	MeanAccumulated float64
	StdDev          float64
}

// Observation is a dated butterfly sighting as delivered by the observation
// provider. ObservedOn is the raw timestamp string; parsing happens during
// correlation so a single bad record never aborts a whole pass.
type Observation struct {
	Species    string `json:"species"`
	CommonName string `json:"common_name,omitempty"`
	ObservedOn string `json:"observed_on"`
}

// SpeciesProfile summarizes the accumulated-GDD values at which one species
// was sighted. Only built once a species has at least three qualifying
// observations.
type SpeciesProfile struct {
	ScientificName   string
	CommonName       string
	ObservationCount int
	Min              float64
	P10              float64
	Median           float64
	P90              float64
	Max              float64
}
