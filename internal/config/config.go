package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/weather/providers"
)

// Location sources.
const (
	SourceIP      = "ip"
	SourceGeocode = "geocode"
	SourceStatic  = "static"
	SourceNone    = "none"
)

type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string `validate:"required,url"`

	// RefreshInterval controls how often the weather is re-fetched.
	RefreshInterval time.Duration `validate:"gt=0"`
	HTTPTimeout     time.Duration `validate:"gt=0"`
	FetchTimeout    time.Duration `validate:"gt=0"`
	HTTPMaxRetries  int           `validate:"min=0,max=10"`

	// Position acquisition.
	LocationSource     string `validate:"oneof=ip geocode static none"`
	IPLocatorURL       string `validate:"omitempty,url"`
	GeocoderAPIKey     string
	LocationCity       string
	LocationCountry    string
	StaticCoordinates  weather.Coordinates
	DefaultCoordinates weather.Coordinates

	// Timezone sunrise/sunset are rendered in.
	Timezone *time.Location `validate:"required"`

	// Notice log retention.
	NoticeMaxHistory int           // max number of notices kept (0 = unlimited)
	NoticeMaxAge     time.Duration // max age of notices (0 = unlimited)

	LogLevel string `validate:"oneof=debug info warn error"`
	Env      string
	Port     string `validate:"required,numeric"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
// The caller is expected to have loaded any .env file beforehand.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", providers.DefaultOpenWeatherBaseURL)

	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "10m"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getenvDuration("FETCH_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	cfg.HTTPMaxRetries = getenvInt("HTTP_MAX_RETRIES", 0)

	cfg.LocationSource = getenvDefault("LOCATION_SOURCE", SourceIP)
	cfg.IPLocatorURL = getenvDefault("IP_LOCATOR_URL", providers.DefaultIPLocatorURL)
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.LocationCity = os.Getenv("WIDGET_LOCATION_CITY")
	cfg.LocationCountry = os.Getenv("WIDGET_LOCATION_COUNTRY")

	if cfg.StaticCoordinates, err = getenvCoordinates("STATIC_LAT", "STATIC_LON", weather.DefaultCoordinates); err != nil {
		return nil, err
	}
	if cfg.DefaultCoordinates, err = getenvCoordinates("DEFAULT_LAT", "DEFAULT_LON", weather.DefaultCoordinates); err != nil {
		return nil, err
	}

	tz := getenvDefault("WIDGET_TIMEZONE", "Local")
	cfg.Timezone, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid WIDGET_TIMEZONE: %w", err)
	}

	cfg.NoticeMaxHistory = getenvInt("NOTICE_MAX_HISTORY", 20)
	if cfg.NoticeMaxAge, err = getenvDuration("NOTICE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.Env = getenvDefault("APP_ENV", "production")
	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvCoordinates(latKey, lonKey string, def weather.Coordinates) (weather.Coordinates, error) {
	lat, err := getenvFloat(latKey, def.Latitude)
	if err != nil {
		return weather.Coordinates{}, err
	}
	lon, err := getenvFloat(lonKey, def.Longitude)
	if err != nil {
		return weather.Coordinates{}, err
	}
	return weather.Coordinates{Latitude: lat, Longitude: lon}, nil
}
