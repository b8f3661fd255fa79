package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/weather/providers"
)

var envKeys = []string{
	"OPENWEATHER_API_KEY", "OPENWEATHER_BASE_URL", "REFRESH_INTERVAL", "HTTP_TIMEOUT",
	"FETCH_TIMEOUT", "HTTP_MAX_RETRIES", "LOCATION_SOURCE", "IP_LOCATOR_URL", "GEOCODER_API_KEY",
	"WIDGET_LOCATION_CITY", "WIDGET_LOCATION_COUNTRY", "STATIC_LAT", "STATIC_LON",
	"DEFAULT_LAT", "DEFAULT_LON", "WIDGET_TIMEZONE", "NOTICE_MAX_HISTORY", "NOTICE_MAX_AGE",
	"LOG_LEVEL", "APP_ENV", "PORT",
}

// clearEnv blanks every key Load reads; empty values fall back to defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", "secret")
	t.Setenv("WIDGET_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.OpenWeatherAPIKey)
	assert.Equal(t, providers.DefaultOpenWeatherBaseURL, cfg.OpenWeatherBaseURL)
	assert.Equal(t, 10*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 0, cfg.HTTPMaxRetries)
	assert.Equal(t, SourceIP, cfg.LocationSource)
	assert.Equal(t, providers.DefaultIPLocatorURL, cfg.IPLocatorURL)
	assert.Equal(t, weather.Coordinates{Latitude: 28.67, Longitude: 77.22}, cfg.DefaultCoordinates)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.Equal(t, 20, cfg.NoticeMaxHistory)
	assert.Equal(t, 24*time.Hour, cfg.NoticeMaxAge)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("REFRESH_INTERVAL", "5m")
	t.Setenv("LOCATION_SOURCE", SourceStatic)
	t.Setenv("STATIC_LAT", "43.46")
	t.Setenv("STATIC_LON", "-80.52")
	t.Setenv("WIDGET_TIMEZONE", "America/Toronto")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, SourceStatic, cfg.LocationSource)
	assert.Equal(t, weather.Coordinates{Latitude: 43.46, Longitude: -80.52}, cfg.StaticCoordinates)
	assert.Equal(t, "America/Toronto", cfg.Timezone.String())
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"duration":     {"REFRESH_INTERVAL", "often"},
		"zero refresh": {"REFRESH_INTERVAL", "0s"},
		"source":       {"LOCATION_SOURCE", "gps"},
		"latitude":     {"DEFAULT_LAT", "123"},
		"not a float":  {"STATIC_LON", "east"},
		"base url":     {"OPENWEATHER_BASE_URL", "not a url"},
		"timezone":     {"WIDGET_TIMEZONE", "Mars/Olympus"},
		"log level":    {"LOG_LEVEL", "chatty"},
		"port":         {"PORT", "http"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("WIDGET_TIMEZONE", "UTC")
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
