package gdd

import (
	"sort"
	"time"
)

// minProfileObservations is the smallest sample that yields meaningful range
// statistics; species below it are omitted from the result entirely.
const minProfileObservations = 3

// Correlate maps each observation to the accumulated GDD on its date and
// builds per-species range profiles.
//
// Observations are skipped, never fatal, when the date is missing or
// unparseable, no curve exists for the year, or the accumulated value is not
// positive (no heat signal yet that year). The first non-empty common name
// seen for a species becomes its display name.
func Correlate(observations []Observation, curvesByYear map[int]YearCurve) map[string]SpeciesProfile {
	valuesBySpecies := make(map[string][]float64)
	commonNames := make(map[string]string)

	for _, obs := range observations {
		if obs.Species == "" {
			continue
		}
		day, ok := parseObservedOn(obs.ObservedOn)
		if !ok {
			continue
		}
		curve, ok := curvesByYear[day.Year()]
		if !ok {
			continue
		}
		accumulated := curve.AccumulatedThroughDay(day.YearDay())
		if accumulated <= 0 {
			continue
		}

		valuesBySpecies[obs.Species] = append(valuesBySpecies[obs.Species], accumulated)
		if commonNames[obs.Species] == "" && obs.CommonName != "" {
			commonNames[obs.Species] = obs.CommonName
		}
	}

	profiles := make(map[string]SpeciesProfile)
	for species, values := range valuesBySpecies {
		if len(values) < minProfileObservations {
			continue
		}
		sort.Float64s(values)

		common := commonNames[species]
		if common == "" {
			common = species
		}
		profiles[species] = SpeciesProfile{
			ScientificName:   species,
			CommonName:       common,
			ObservationCount: len(values),
			Min:              values[0],
			P10:              Quantile(values, 0.10),
			Median:           Quantile(values, 0.50),
			P90:              Quantile(values, 0.90),
			Max:              values[len(values)-1],
		}
	}
	return profiles
}

// Quantile returns the q-th quantile of an ascending-sorted slice using
// linear interpolation between closest ranks (the inclusive method: the
// target rank is h = (n-1)·q and the result interpolates between the values
// at floor(h) and floor(h)+1). q=0.5 matches the standard median, including
// the average-of-middle-two rule for even n. Panics on an empty slice.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * q
	lo := int(h)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// parseObservedOn extracts the calendar date from a raw timestamp string.
// Only the leading YYYY-MM-DD portion matters; time-of-day suffixes are
// ignored.
func parseObservedOn(raw string) (time.Time, bool) {
	if len(raw) < 10 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", raw[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
