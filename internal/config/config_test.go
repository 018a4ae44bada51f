package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 45.5, cfg.Latitude)
	assert.Equal(t, -122.6, cfg.Longitude)
	assert.Equal(t, "America/Los_Angeles", cfg.Timezone)
	assert.Equal(t, 50.0, cfg.BaseTemp)
	assert.Equal(t, 86.0, cfg.UpperCutoff)
	assert.Equal(t, 10, cfg.LookbackYears)
	assert.Equal(t, 47224, cfg.TaxonID)
	assert.Equal(t, 3, cfg.MaxPages)
	assert.Equal(t, []int{4, 5, 6, 7, 8, 9}, cfg.ObservationMonths)
	assert.Equal(t, 90*24*time.Hour, cfg.ClosedYearTTL)
	assert.Equal(t, 24*time.Hour, cfg.CurrentYearTTL)
	assert.Equal(t, 6*time.Hour, cfg.LiveTTL)
	assert.Equal(t, 6*time.Hour, cfg.RefreshInterval)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, BBox{SWLat: 44.5, SWLng: -124.2, NELat: 46.5, NELng: -121.5}, cfg.BBox)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/flightwatch")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("LATITUDE", "47.6")
	t.Setenv("LONGITUDE", "-122.3")
	t.Setenv("GDD_BASE_TEMP", "40")
	t.Setenv("GDD_UPPER_CUTOFF", "80")
	t.Setenv("LOOKBACK_YEARS", "5")
	t.Setenv("OBSERVATION_TAXON_ID", "47157")
	t.Setenv("OBSERVATION_MAX_PAGES", "10")
	t.Setenv("OBSERVATION_MONTHS", "3, 4,5")
	t.Setenv("CLOSED_YEAR_TTL", "720h")
	t.Setenv("CURRENT_YEAR_TTL", "12h")
	t.Setenv("LIVE_TTL", "2h")
	t.Setenv("REFRESH_INTERVAL", "1h")
	t.Setenv("HTTP_TIMEOUT", "10s")
	t.Setenv("BBOX_SWLAT", "47.0")
	t.Setenv("BBOX_SWLNG", "-123.0")
	t.Setenv("BBOX_NELAT", "48.0")
	t.Setenv("BBOX_NELNG", "-121.0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/flightwatch", cfg.DataDir)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 47.6, cfg.Latitude)
	assert.Equal(t, -122.3, cfg.Longitude)
	assert.Equal(t, 40.0, cfg.BaseTemp)
	assert.Equal(t, 80.0, cfg.UpperCutoff)
	assert.Equal(t, 5, cfg.LookbackYears)
	assert.Equal(t, 47157, cfg.TaxonID)
	assert.Equal(t, 10, cfg.MaxPages)
	assert.Equal(t, []int{3, 4, 5}, cfg.ObservationMonths)
	assert.Equal(t, 720*time.Hour, cfg.ClosedYearTTL)
	assert.Equal(t, 12*time.Hour, cfg.CurrentYearTTL)
	assert.Equal(t, 2*time.Hour, cfg.LiveTTL)
	assert.Equal(t, 1*time.Hour, cfg.RefreshInterval)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, BBox{SWLat: 47.0, SWLng: -123.0, NELat: 48.0, NELng: -121.0}, cfg.BBox)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeRefreshInterval(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "-1h")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_INTERVAL")
}

func TestLoad_InvalidLatitude(t *testing.T) {
	t.Setenv("LATITUDE", "north-a-bit")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LATITUDE")
}

func TestLoad_LatitudeOutOfRange(t *testing.T) {
	t.Setenv("LATITUDE", "95")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LATITUDE")
}

func TestLoad_CutoffMustExceedBase(t *testing.T) {
	t.Setenv("GDD_BASE_TEMP", "86")
	t.Setenv("GDD_UPPER_CUTOFF", "50")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GDD_UPPER_CUTOFF")
}

func TestLoad_InvalidLookbackYears(t *testing.T) {
	t.Setenv("LOOKBACK_YEARS", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOOKBACK_YEARS")
}

func TestLoad_InvalidMonths(t *testing.T) {
	t.Setenv("OBSERVATION_MONTHS", "4,13")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OBSERVATION_MONTHS")
}
