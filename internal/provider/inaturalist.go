package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/acrenwood/flightwatch/internal/config"
	"github.com/acrenwood/flightwatch/internal/gdd"
)

// perPage is the documented maximum for the /observations endpoint.
const perPage = 200

// ObservationQuery selects which sightings to fetch.
type ObservationQuery struct {
	TaxonID int
	BBox    config.BBox
	Months  []int
	// MaxPages bounds pagination; zero means a single page.
	MaxPages int
}

// INaturalistClient fetches research-grade sightings from the iNaturalist
// public API.
type INaturalistClient struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewINaturalistClient creates an observations API client.
func NewINaturalistClient(timeout time.Duration, logger *slog.Logger) *INaturalistClient {
	return &INaturalistClient{
		baseURL: "https://api.inaturalist.org/v1",
		httpCfg: HTTPClientConfig{
			Client:  &http.Client{Timeout: timeout},
			Backoff: defaultBackoff(),
		},
		circuit: newBreaker("inaturalist"),
		logger:  logger,
	}
}

// Name identifies the upstream for provenance metadata and metrics labels.
func (c *INaturalistClient) Name() string {
	return "inaturalist.org"
}

type observationPage struct {
	TotalResults int `json:"total_results"`
	Results      []struct {
		ID         int    `json:"id"`
		ObservedOn string `json:"observed_on"`
		Taxon      struct {
			Name                string `json:"name"`
			PreferredCommonName string `json:"preferred_common_name"`
		} `json:"taxon"`
	} `json:"results"`
}

// FetchObservations pages through research-grade sightings matching the
// query. Pagination uses id_above with ascending id order, the strategy the
// API recommends to avoid its deep-offset ceiling. Records without an
// observation date or a taxon name are dropped here so downstream stages
// only ever see usable sightings.
func (c *INaturalistClient) FetchObservations(ctx context.Context, q ObservationQuery) ([]gdd.Observation, error) {
	maxPages := q.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}

	months := make([]string, 0, len(q.Months))
	for _, m := range q.Months {
		months = append(months, strconv.Itoa(m))
	}

	var observations []gdd.Observation
	idAbove := 0

	for page := 0; page < maxPages; page++ {
		buildRequest := func() (*http.Request, error) {
			values := url.Values{}
			values.Set("taxon_id", strconv.Itoa(q.TaxonID))
			values.Set("quality_grade", "research")
			values.Set("swlat", strconv.FormatFloat(q.BBox.SWLat, 'f', -1, 64))
			values.Set("swlng", strconv.FormatFloat(q.BBox.SWLng, 'f', -1, 64))
			values.Set("nelat", strconv.FormatFloat(q.BBox.NELat, 'f', -1, 64))
			values.Set("nelng", strconv.FormatFloat(q.BBox.NELng, 'f', -1, 64))
			if len(months) > 0 {
				values.Set("month", strings.Join(months, ","))
			}
			values.Set("order_by", "id")
			values.Set("order", "asc")
			values.Set("per_page", strconv.Itoa(perPage))
			if idAbove > 0 {
				values.Set("id_above", strconv.Itoa(idAbove))
			}

			return http.NewRequest(http.MethodGet, c.baseURL+"/observations?"+values.Encode(), nil)
		}

		resp, err := doResilient(ctx, c.httpCfg, c.circuit, buildRequest)
		if err != nil {
			return nil, fmt.Errorf("inaturalist request: %w", err)
		}

		var payload observationPage
		err = json.NewDecoder(resp.Body).Decode(&payload)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode inaturalist response: %w", err)
		}

		if len(payload.Results) == 0 {
			break
		}

		for _, r := range payload.Results {
			if r.ObservedOn == "" || r.Taxon.Name == "" {
				continue
			}
			observations = append(observations, gdd.Observation{
				Species:    r.Taxon.Name,
				CommonName: r.Taxon.PreferredCommonName,
				ObservedOn: r.ObservedOn,
			})
		}

		idAbove = payload.Results[len(payload.Results)-1].ID
		if len(payload.Results) < perPage {
			break
		}
	}

	c.logger.Debug("fetched sightings", "count", len(observations))

	return observations, nil
}
