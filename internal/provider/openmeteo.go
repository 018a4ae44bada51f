package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/acrenwood/flightwatch/internal/gdd"
)

// OpenMeteoClient fetches daily temperature series from the Open-Meteo
// historical archive API. No API key is required.
type OpenMeteoClient struct {
	baseURL  string
	timezone string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
	logger   *slog.Logger
}

// NewOpenMeteoClient creates an archive API client. timezone is the IANA
// zone the daily aggregates are bucketed in.
func NewOpenMeteoClient(timeout time.Duration, timezone string, logger *slog.Logger) *OpenMeteoClient {
	return &OpenMeteoClient{
		baseURL:  "https://archive-api.open-meteo.com/v1/archive",
		timezone: timezone,
		httpCfg: HTTPClientConfig{
			Client:  &http.Client{Timeout: timeout},
			Backoff: defaultBackoff(),
		},
		circuit: newBreaker("openmeteo"),
		logger:  logger,
	}
}

// Name identifies the upstream for provenance metadata and metrics labels.
func (c *OpenMeteoClient) Name() string {
	return "open-meteo.com"
}

// FetchDailyTemps returns one reading per day in [start, end], both
// inclusive, in Fahrenheit. Days the archive has no value for come back
// as 0.0 rather than being dropped, keeping the series dense.
func (c *OpenMeteoClient) FetchDailyTemps(ctx context.Context, lat, lon float64, start, end time.Time) ([]gdd.DailyReading, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
		values.Set("start_date", start.Format("2006-01-02"))
		values.Set("end_date", end.Format("2006-01-02"))
		values.Set("daily", "temperature_2m_max,temperature_2m_min")
		values.Set("temperature_unit", "fahrenheit")
		values.Set("timezone", c.timezone)

		return http.NewRequest(http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	}

	resp, err := doResilient(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("openmeteo archive request: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Daily struct {
			Time []string   `json:"time"`
			TMax []*float64 `json:"temperature_2m_max"`
			TMin []*float64 `json:"temperature_2m_min"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode openmeteo response: %w", err)
	}

	readings := make([]gdd.DailyReading, 0, len(payload.Daily.Time))
	for i, dateStr := range payload.Daily.Time {
		day, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("openmeteo returned bad date %q: %w", dateStr, err)
		}
		r := gdd.DailyReading{Date: day}
		if i < len(payload.Daily.TMax) && payload.Daily.TMax[i] != nil {
			r.TMax = *payload.Daily.TMax[i]
		}
		if i < len(payload.Daily.TMin) && payload.Daily.TMin[i] != nil {
			r.TMin = *payload.Daily.TMin[i]
		}
		readings = append(readings, r)
	}

	c.logger.Debug("fetched temperature series",
		"days", len(readings),
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"))

	return readings, nil
}
