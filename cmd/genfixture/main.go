// Command genfixture seeds a store with synthetic seasons and sightings. It
// runs the actual computation and persistence packages, so the fixtures it
// writes match what a real fetch-and-build cycle produces.
//
// Usage:
//
//	go run ./cmd/genfixture -data-dir data/fixture -years 3
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/acrenwood/flightwatch/internal/gdd"
	"github.com/acrenwood/flightwatch/internal/store"
)

// fixedNow keeps fetched_at timestamps reproducible across runs.
var fixedNow = time.Date(2026, time.July, 15, 6, 0, 0, 0, time.UTC)

var species = []struct {
	name   string
	common string
	// peakDay is the day-of-year the species is most often seen around.
	peakDay int
	spread  int
}{
	{"Pieris rapae", "Cabbage White", 140, 40},
	{"Papilio rutulus", "Western Tiger Swallowtail", 180, 25},
	{"Vanessa annabella", "West Coast Lady", 160, 35},
	{"Limenitis lorquini", "Lorquin's Admiral", 190, 20},
	{"Cercyonis pegala", "Common Wood-Nymph", 210, 15},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dataDir := flag.String("data-dir", "", "store directory to seed")
	years := flag.Int("years", 3, "number of completed years to generate")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if *dataDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -data-dir")
	}

	clock := clockwork.NewFakeClockAt(fixedNow)
	st, err := store.New(*dataDir, store.WithClock(clock))
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))
	currentYear := fixedNow.Year()

	for year := currentYear - *years; year <= currentYear; year++ {
		curve := syntheticCurve(year, currentYear, rng)
		rel := fmt.Sprintf("historical/gdd/%d.json", year)
		if _, err := st.Write(rel, gdd.EncodeCurve(curve), "genfixture", nil, map[string]any{
			"year": year,
		}); err != nil {
			return fmt.Errorf("writing %s: %w", rel, err)
		}
		log.Printf("%d: %d days, %.0f total GDD", year, len(curve.Daily), curve.Total())
	}

	observations := syntheticObservations(currentYear-*years, currentYear, rng)
	if _, err := st.Write("live/observations.json", observations, "genfixture", nil, map[string]any{
		"count": len(observations),
	}); err != nil {
		return fmt.Errorf("writing observations: %w", err)
	}
	log.Printf("observations: %d", len(observations))

	log.Printf("seeded store at %s; run `flightwatch build` against it", st.Base())
	return nil
}

// syntheticCurve builds a plausible Pacific Northwest year: a sinusoidal
// seasonal cycle with day-to-day noise, truncated to mid-July for the
// current year.
func syntheticCurve(year, currentYear int, rng *rand.Rand) gdd.YearCurve {
	days := 365
	if year == currentYear {
		days = fixedNow.YearDay() - 1
	}

	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	readings := make([]gdd.DailyReading, 0, days)
	for d := 0; d < days; d++ {
		// Coldest around mid-January, warmest around mid-July.
		phase := 2 * math.Pi * float64(d-15) / 365.0
		mean := 52.0 - 18.0*math.Cos(phase)
		noise := rng.NormFloat64() * 4
		readings = append(readings, gdd.DailyReading{
			Date: jan1.AddDate(0, 0, d),
			TMax: mean + 10 + noise,
			TMin: mean - 10 + noise,
		})
	}
	return gdd.BuildYearCurve(year, readings, gdd.DefaultBaseTemp, gdd.DefaultUpperCutoff)
}

// syntheticObservations scatters sightings for each species around its peak
// day across all generated years.
func syntheticObservations(firstYear, currentYear int, rng *rand.Rand) []gdd.Observation {
	var observations []gdd.Observation
	for year := firstYear; year <= currentYear; year++ {
		jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		for _, sp := range species {
			count := 4 + rng.Intn(6)
			for i := 0; i < count; i++ {
				day := sp.peakDay + int(rng.NormFloat64()*float64(sp.spread))
				if day < 1 || day > 365 {
					continue
				}
				date := jan1.AddDate(0, 0, day-1)
				if date.After(fixedNow) {
					continue
				}
				observations = append(observations, gdd.Observation{
					Species:    sp.name,
					CommonName: sp.common,
					ObservedOn: date.Format("2006-01-02"),
				})
			}
		}
	}
	return observations
}
