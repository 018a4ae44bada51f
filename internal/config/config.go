package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all pipeline settings, populated from environment variables.
type Config struct {
	DataDir         string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Target location for the daily temperature series.
	Latitude  float64
	Longitude float64
	Timezone  string

	// Heat-unit computation thresholds, Fahrenheit.
	BaseTemp    float64
	UpperCutoff float64

	// LookbackYears is how many completed years feed the baseline band.
	LookbackYears int

	// Sighting query settings.
	TaxonID           int
	ObservationMonths []int
	MaxPages          int
	BBox              BBox

	// Cache lifetimes per tier.
	ClosedYearTTL  time.Duration // completed seasons, effectively static
	CurrentYearTTL time.Duration // in-progress season, grows daily
	LiveTTL        time.Duration // sightings and other fast-moving data

	RefreshInterval time.Duration
	HTTPTimeout     time.Duration
}

// BBox is a geographic bounding box in the southwest/northeast corner
// convention used by the iNaturalist API.
type BBox struct {
	SWLat float64
	SWLng float64
	NELat float64
	NELng float64
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:   envOrDefault("DATA_DIR", "data"),
		HTTPAddr:  envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),
		Timezone:  envOrDefault("TIMEZONE", "America/Los_Angeles"),
	}

	var err error
	if cfg.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Latitude, err = envFloat("LATITUDE", 45.5); err != nil {
		return nil, err
	}
	if cfg.Longitude, err = envFloat("LONGITUDE", -122.6); err != nil {
		return nil, err
	}
	if cfg.BaseTemp, err = envFloat("GDD_BASE_TEMP", 50.0); err != nil {
		return nil, err
	}
	if cfg.UpperCutoff, err = envFloat("GDD_UPPER_CUTOFF", 86.0); err != nil {
		return nil, err
	}
	if cfg.LookbackYears, err = envInt("LOOKBACK_YEARS", 10); err != nil {
		return nil, err
	}
	// Default taxon is the butterflies superfamily on iNaturalist.
	if cfg.TaxonID, err = envInt("OBSERVATION_TAXON_ID", 47224); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = envInt("OBSERVATION_MAX_PAGES", 3); err != nil {
		return nil, err
	}
	if cfg.ObservationMonths, err = envMonths("OBSERVATION_MONTHS", []int{4, 5, 6, 7, 8, 9}); err != nil {
		return nil, err
	}
	if cfg.ClosedYearTTL, err = envDuration("CLOSED_YEAR_TTL", 90*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CurrentYearTTL, err = envDuration("CURRENT_YEAR_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.LiveTTL, err = envDuration("LIVE_TTL", 6*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = envDuration("REFRESH_INTERVAL", 6*time.Hour); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = envDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	// Default area: northwest Oregon and southwest Washington.
	if cfg.BBox.SWLat, err = envFloat("BBOX_SWLAT", 44.5); err != nil {
		return nil, err
	}
	if cfg.BBox.SWLng, err = envFloat("BBOX_SWLNG", -124.2); err != nil {
		return nil, err
	}
	if cfg.BBox.NELat, err = envFloat("BBOX_NELAT", 46.5); err != nil {
		return nil, err
	}
	if cfg.BBox.NELng, err = envFloat("BBOX_NELNG", -121.5); err != nil {
		return nil, err
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if cfg.LookbackYears < 1 {
		return nil, errors.New("LOOKBACK_YEARS must be at least 1")
	}
	if cfg.UpperCutoff <= cfg.BaseTemp {
		return nil, errors.New("GDD_UPPER_CUTOFF must exceed GDD_BASE_TEMP")
	}
	if cfg.Latitude < -90 || cfg.Latitude > 90 {
		return nil, errors.New("LATITUDE out of range")
	}
	if cfg.Longitude < -180 || cfg.Longitude > 180 {
		return nil, errors.New("LONGITUDE out of range")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

// envMonths parses a comma-separated month list, e.g. "4,5,6".
func envMonths(key string, def []int) ([]int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parts := strings.Split(v, ",")
	months := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 || n > 12 {
			return nil, fmt.Errorf("invalid %s: %q", key, v)
		}
		months = append(months, n)
	}
	return months, nil
}
