package gdd

import (
	"fmt"
	"math"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// CurveDoc is the persisted interchange form of a YearCurve. Values are kept
// exact so cached curves can be decoded and recomputed against without
// rounding drift; rounding is reserved for the display documents below.
type CurveDoc struct {
	Year  int        `json:"year"`
	Daily []CurveDay `json:"daily"`
}

// CurveDay mirrors DailyGDD with an ISO date string.
type CurveDay struct {
	Date        string  `json:"date"`
	TMax        float64 `json:"tmax"`
	TMin        float64 `json:"tmin"`
	Units       float64 `json:"gdd"`
	Accumulated float64 `json:"accumulated"`
}

// EncodeCurve converts a curve to its interchange form.
func EncodeCurve(c YearCurve) CurveDoc {
	daily := make([]CurveDay, 0, len(c.Daily))
	for _, d := range c.Daily {
		daily = append(daily, CurveDay{
			Date:        d.Date.Format(dateLayout),
			TMax:        d.TMax,
			TMin:        d.TMin,
			Units:       d.Units,
			Accumulated: d.Accumulated,
		})
	}
	return CurveDoc{Year: c.Year, Daily: daily}
}

// DecodeCurve restores a YearCurve from its interchange form.
func DecodeCurve(doc CurveDoc) (YearCurve, error) {
	daily := make([]DailyGDD, 0, len(doc.Daily))
	for _, d := range doc.Daily {
		date, err := time.Parse(dateLayout, d.Date)
		if err != nil {
			return YearCurve{}, fmt.Errorf("decode curve for %d: %w", doc.Year, err)
		}
		daily = append(daily, DailyGDD{
			Date:        date,
			TMax:        d.TMax,
			TMin:        d.TMin,
			Units:       d.Units,
			Accumulated: d.Accumulated,
		})
	}
	return YearCurve{Year: doc.Year, Daily: daily}, nil
}

// YearSummary is the display-ready form of a curve: one decimal place, with
// the season total precomputed for the rendering layer.
type YearSummary struct {
	Year     int        `json:"year"`
	TotalGDD float64    `json:"total_gdd"`
	Daily    []CurveDay `json:"daily"`
}

// SummarizeYear rounds a curve for display.
func SummarizeYear(c YearCurve) YearSummary {
	daily := make([]CurveDay, 0, len(c.Daily))
	for _, d := range c.Daily {
		daily = append(daily, CurveDay{
			Date:        d.Date.Format(dateLayout),
			TMax:        round1(d.TMax),
			TMin:        round1(d.TMin),
			Units:       round1(d.Units),
			Accumulated: round1(d.Accumulated),
		})
	}
	return YearSummary{Year: c.Year, TotalGDD: round1(c.Total()), Daily: daily}
}

// NormalsDoc is the display form of the multi-year baseline band.
type NormalsDoc struct {
	YearRange string         `json:"year_range"`
	ByDay     []DayStatPoint `json:"by_doy"`
}

// DayStatPoint is one day-of-year entry of the normals band.
type DayStatPoint struct {
	Day             int     `json:"doy"`
	MeanAccumulated float64 `json:"mean_accumulated"`
	StdDev          float64 `json:"stddev"`
}

// SummarizeNormals rounds normals for display. yearRange is the
// human-readable span the stats cover, e.g. "1996-2025".
func SummarizeNormals(stats []DayOfYearStat, yearRange string) NormalsDoc {
	byDay := make([]DayStatPoint, 0, len(stats))
	for _, s := range stats {
		byDay = append(byDay, DayStatPoint{
			Day:             s.Day,
			MeanAccumulated: round1(s.MeanAccumulated),
			StdDev:          round1(s.StdDev),
		})
	}
	return NormalsDoc{YearRange: yearRange, ByDay: byDay}
}

// ProfileEntry is the display form of one species' GDD range. Whole-number
// GDD is plenty of precision for a chart axis.
type ProfileEntry struct {
	ScientificName   string  `json:"scientific_name"`
	CommonName       string  `json:"common_name"`
	ObservationCount int     `json:"observation_count"`
	GDDMin           float64 `json:"gdd_min"`
	GDDP10           float64 `json:"gdd_p10"`
	GDDMedian        float64 `json:"gdd_median"`
	GDDP90           float64 `json:"gdd_p90"`
	GDDMax           float64 `json:"gdd_max"`
}

// ProfileTable flattens profiles into a list sorted by median GDD, the order
// the sightings chart draws them in.
func ProfileTable(profiles map[string]SpeciesProfile) []ProfileEntry {
	entries := make([]ProfileEntry, 0, len(profiles))
	for _, p := range profiles {
		entries = append(entries, ProfileEntry{
			ScientificName:   p.ScientificName,
			CommonName:       p.CommonName,
			ObservationCount: p.ObservationCount,
			GDDMin:           math.Round(p.Min),
			GDDP10:           math.Round(p.P10),
			GDDMedian:        math.Round(p.Median),
			GDDP90:           math.Round(p.P90),
			GDDMax:           math.Round(p.Max),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].GDDMedian != entries[j].GDDMedian {
			return entries[i].GDDMedian < entries[j].GDDMedian
		}
		return entries[i].ScientificName < entries[j].ScientificName
	})
	return entries
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
