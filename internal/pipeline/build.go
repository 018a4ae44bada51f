package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/acrenwood/flightwatch/internal/config"
	"github.com/acrenwood/flightwatch/internal/gdd"
	"github.com/acrenwood/flightwatch/internal/observability"
	"github.com/acrenwood/flightwatch/internal/store"
)

// derivedSource marks documents computed locally rather than fetched.
const derivedSource = "derived"

// Builder recomputes the derived artifacts from cached inputs. It never
// touches the network, so it works offline against stale data.
type Builder struct {
	store   *store.Store
	cfg     *config.Config
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewBuilder creates a Builder over the given store.
func NewBuilder(
	st *store.Store,
	cfg *config.Config,
	clock clockwork.Clock,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Builder {
	return &Builder{
		store:   st,
		cfg:     cfg,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// Build loads every cached year curve and rewrites the normals band, the
// current-year timeline, and the species profiles. Derived documents carry
// no expiry; they are only ever replaced by the next build.
func (b *Builder) Build(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	buildStart := b.clock.Now()
	defer func() {
		b.metrics.BuildDuration.Observe(b.clock.Since(buildStart).Seconds())
	}()

	err := b.build()
	if err != nil {
		b.metrics.BuildErrors.Inc()
	}
	return err
}

func (b *Builder) build() error {
	currentYear := b.clock.Now().UTC().Year()

	curvesByYear, err := b.loadCurves(currentYear)
	if err != nil {
		return err
	}
	if len(curvesByYear) == 0 {
		return errors.New("no cached year curves; fetch must run first")
	}

	if err := b.buildNormals(curvesByYear, currentYear); err != nil {
		return err
	}
	if err := b.buildTimeline(curvesByYear, currentYear); err != nil {
		return err
	}
	return b.buildProfiles(curvesByYear)
}

func (b *Builder) loadCurves(currentYear int) (map[int]gdd.YearCurve, error) {
	curves := make(map[int]gdd.YearCurve)
	for year := currentYear - b.cfg.LookbackYears; year <= currentYear; year++ {
		var doc gdd.CurveDoc
		found, err := b.store.ReadInto(curvePath(year), &doc)
		if err != nil {
			return nil, fmt.Errorf("load curve %d: %w", year, err)
		}
		if !found {
			continue
		}
		curve, err := gdd.DecodeCurve(doc)
		if err != nil {
			return nil, err
		}
		curves[year] = curve
	}
	return curves, nil
}

// buildNormals writes the multi-year baseline band. Completed years form the
// baseline; the in-progress year would drag every mean down, so it only
// participates when nothing else is available.
func (b *Builder) buildNormals(curvesByYear map[int]gdd.YearCurve, currentYear int) error {
	minYear, maxYear := 0, 0
	closed := make([]gdd.YearCurve, 0, len(curvesByYear))
	for year, curve := range curvesByYear {
		if year == currentYear {
			continue
		}
		closed = append(closed, curve)
		if minYear == 0 || year < minYear {
			minYear = year
		}
		if year > maxYear {
			maxYear = year
		}
	}
	if len(closed) == 0 {
		closed = append(closed, curvesByYear[currentYear])
		minYear, maxYear = currentYear, currentYear
	}

	doc := gdd.SummarizeNormals(gdd.Normals(closed), fmt.Sprintf("%d-%d", minYear, maxYear))

	if _, err := b.store.Write(normalsPath, doc, derivedSource, nil, map[string]any{
		"years": len(closed),
	}); err != nil {
		return fmt.Errorf("write normals: %w", err)
	}
	b.metrics.StoreWrites.WithLabelValues(store.TierDerived).Inc()

	b.logger.Info("built normals band", "years", len(closed), "days", len(doc.ByDay))
	return nil
}

// buildTimeline writes the current-year summary when its curve is cached.
func (b *Builder) buildTimeline(curvesByYear map[int]gdd.YearCurve, currentYear int) error {
	curve, ok := curvesByYear[currentYear]
	if !ok {
		b.logger.Warn("current-year curve not cached, skipping timeline", "year", currentYear)
		return nil
	}

	summary := gdd.SummarizeYear(curve)
	if _, err := b.store.Write(timelinePath, summary, derivedSource, nil, map[string]any{
		"year": currentYear,
	}); err != nil {
		return fmt.Errorf("write timeline: %w", err)
	}
	b.metrics.StoreWrites.WithLabelValues(store.TierDerived).Inc()

	b.logger.Info("built timeline", "year", currentYear, "total_gdd", summary.TotalGDD)
	return nil
}

// buildProfiles correlates cached sightings against the curves. Missing
// observations are not an error; the profiles document is simply skipped.
func (b *Builder) buildProfiles(curvesByYear map[int]gdd.YearCurve) error {
	var observations []gdd.Observation
	found, err := b.store.ReadInto(observationsPath, &observations)
	if err != nil {
		return fmt.Errorf("load observations: %w", err)
	}
	if !found {
		b.logger.Warn("no cached observations, skipping species profiles")
		return nil
	}

	table := gdd.ProfileTable(gdd.Correlate(observations, curvesByYear))

	if _, err := b.store.Write(profilesPath, table, derivedSource, nil, map[string]any{
		"species":      len(table),
		"observations": len(observations),
	}); err != nil {
		return fmt.Errorf("write species profiles: %w", err)
	}
	b.metrics.StoreWrites.WithLabelValues(store.TierDerived).Inc()
	b.metrics.SpeciesCount.Set(float64(len(table)))

	b.logger.Info("built species profiles", "species", len(table), "observations", len(observations))
	return nil
}
