package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/acrenwood/flightwatch/internal/config"
	"github.com/acrenwood/flightwatch/internal/gdd"
	"github.com/acrenwood/flightwatch/internal/observability"
	"github.com/acrenwood/flightwatch/internal/provider"
	"github.com/acrenwood/flightwatch/internal/store"
)

// TemperatureSource fetches a daily temperature series for a location.
type TemperatureSource interface {
	Name() string
	FetchDailyTemps(ctx context.Context, lat, lon float64, start, end time.Time) ([]gdd.DailyReading, error)
}

// ObservationSource fetches dated sightings matching a query.
type ObservationSource interface {
	Name() string
	FetchObservations(ctx context.Context, q provider.ObservationQuery) ([]gdd.Observation, error)
}

// Fetcher pulls upstream data into the store, skipping any document whose
// cached copy is still fresh.
type Fetcher struct {
	store   *store.Store
	temps   TemperatureSource
	sights  ObservationSource
	cfg     *config.Config
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewFetcher creates a Fetcher over the given sources and store.
func NewFetcher(
	st *store.Store,
	temps TemperatureSource,
	sights ObservationSource,
	cfg *config.Config,
	clock clockwork.Clock,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Fetcher {
	return &Fetcher{
		store:   st,
		temps:   temps,
		sights:  sights,
		cfg:     cfg,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch refreshes every stale or missing document. One failed document does
// not stop the others; all failures come back joined.
func (f *Fetcher) Fetch(ctx context.Context) error {
	return errors.Join(
		f.FetchCurves(ctx),
		f.FetchObservations(ctx),
	)
}

// FetchCurves fetches temperature series and caches one accumulated-GDD
// curve per year of the lookback window, plus the current year to date.
func (f *Fetcher) FetchCurves(ctx context.Context) error {
	now := f.clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	currentYear := now.Year()

	var errs []error
	for year := currentYear - f.cfg.LookbackYears; year <= currentYear; year++ {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if err := f.fetchYearCurve(ctx, year, currentYear, today); err != nil {
			f.logger.Error("year curve fetch failed", "year", year, "error", err)
			errs = append(errs, fmt.Errorf("year %d: %w", year, err))
		}
	}
	return errors.Join(errs...)
}

func (f *Fetcher) fetchYearCurve(ctx context.Context, year, currentYear int, today time.Time) error {
	rel := curvePath(year)

	fresh, err := f.checkFreshness(rel, store.TierHistorical)
	if err != nil {
		return err
	}
	if fresh {
		f.logger.Debug("curve cache fresh, skipping fetch", "year", year)
		return nil
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	if year == currentYear {
		// The archive lags real time; yesterday is the newest complete day.
		end = today.AddDate(0, 0, -1)
	}
	if end.Before(start) {
		f.logger.Debug("no complete days in year yet, skipping", "year", year)
		return nil
	}

	fetchStart := f.clock.Now()
	readings, err := f.temps.FetchDailyTemps(ctx, f.cfg.Latitude, f.cfg.Longitude, start, end)
	f.metrics.FetchAPIDuration.WithLabelValues(f.temps.Name()).Observe(f.clock.Since(fetchStart).Seconds())
	if err != nil {
		f.metrics.FetchRequests.WithLabelValues(f.temps.Name(), "error").Inc()
		return err
	}
	f.metrics.FetchRequests.WithLabelValues(f.temps.Name(), "success").Inc()

	curve := gdd.BuildYearCurve(year, readings, f.cfg.BaseTemp, f.cfg.UpperCutoff)

	ttl := f.cfg.ClosedYearTTL
	if year == currentYear {
		ttl = f.cfg.CurrentYearTTL
	}
	validUntil := f.clock.Now().UTC().Add(ttl)

	_, err = f.store.Write(rel, gdd.EncodeCurve(curve), f.temps.Name(), &validUntil, map[string]any{
		"year":      year,
		"latitude":  f.cfg.Latitude,
		"longitude": f.cfg.Longitude,
	})
	if err != nil {
		return err
	}
	f.metrics.StoreWrites.WithLabelValues(store.TierHistorical).Inc()

	f.logger.Info("cached year curve",
		"year", year, "days", len(curve.Daily), "total_gdd", curve.Total())
	return nil
}

// FetchObservations refreshes the cached sightings document.
func (f *Fetcher) FetchObservations(ctx context.Context) error {
	fresh, err := f.checkFreshness(observationsPath, store.TierLive)
	if err != nil {
		return err
	}
	if fresh {
		f.logger.Debug("observations cache fresh, skipping fetch")
		return nil
	}

	query := provider.ObservationQuery{
		TaxonID:  f.cfg.TaxonID,
		BBox:     f.cfg.BBox,
		Months:   f.cfg.ObservationMonths,
		MaxPages: f.cfg.MaxPages,
	}

	fetchStart := f.clock.Now()
	observations, err := f.sights.FetchObservations(ctx, query)
	f.metrics.FetchAPIDuration.WithLabelValues(f.sights.Name()).Observe(f.clock.Since(fetchStart).Seconds())
	if err != nil {
		f.metrics.FetchRequests.WithLabelValues(f.sights.Name(), "error").Inc()
		return fmt.Errorf("fetch observations: %w", err)
	}
	f.metrics.FetchRequests.WithLabelValues(f.sights.Name(), "success").Inc()

	validUntil := f.clock.Now().UTC().Add(f.cfg.LiveTTL)
	_, err = f.store.Write(observationsPath, observations, f.sights.Name(), &validUntil, map[string]any{
		"taxon_id": f.cfg.TaxonID,
		"count":    len(observations),
	})
	if err != nil {
		return err
	}
	f.metrics.StoreWrites.WithLabelValues(store.TierLive).Inc()

	f.logger.Info("cached observations", "count", len(observations))
	return nil
}

// checkFreshness reports whether the cached document is still valid and
// records the lookup result (fresh, stale, or miss) for the tier.
func (f *Fetcher) checkFreshness(rel, tier string) (bool, error) {
	fresh, err := f.store.IsFresh(rel)
	if err != nil {
		return false, err
	}

	result := "fresh"
	if !fresh {
		_, found, err := f.store.FilePath(rel)
		if err != nil {
			return false, err
		}
		if found {
			result = "stale"
		} else {
			result = "miss"
		}
	}
	f.metrics.CacheLookups.WithLabelValues(tier, result).Inc()
	return fresh, nil
}
