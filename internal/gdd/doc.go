// Package gdd computes growing degree days (GDD) and correlates butterfly
// sightings against the accumulated heat curve.
//
// # Heat units
//
// GDD measures accumulated warmth, a standard predictor of insect development
// timing. The daily value uses the modified average method with an upper
// cutoff:
//
//	tmax_adj = min(tmax, upper_cutoff)
//	tmin_adj = max(tmin, base_temp)
//	units    = max(0, (tmax_adj + tmin_adj)/2 - base_temp)
//
// Defaults of base 50°F and cutoff 86°F suit butterflies and general insects.
// Days above the cutoff are capped, not discarded; days at or below the base
// contribute zero. The running total across a year is the accumulated curve,
// indexed by day-of-year (1 = Jan 1).
//
// # Normals
//
// Averaging several years of accumulated curves at each day-of-year gives the
// historical baseline band (mean ± stddev) drawn behind the current season.
//
// # Species profiles
//
// Each sighting is mapped to the accumulated GDD on its date, and per-species
// summary statistics over those values describe the heat range in which the
// species tends to fly. Quantiles use linear interpolation between closest
// ranks (the inclusive method, rank h = (n-1)·q); see Correlate.
//
// All functions here are pure: no I/O, no clocks, no hidden state. Inputs must
// be date-ordered where noted; the package does not sort.
package gdd
