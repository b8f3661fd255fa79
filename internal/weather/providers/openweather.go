package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/weather-widget/internal/weather"
)

const (
	DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5/"

	openWeatherSuccessCode = "200"
	missingKeyMessage      = "Invalid API key. Please see https://openweathermap.org/faq#error401 for more info."
)

// OpenWeatherConfig configures an OpenWeatherFetcher.
type OpenWeatherConfig struct {
	BaseURL string
	APIKey  string

	// Location is the zone sunrise/sunset are rendered in. Nil means UTC.
	Location *time.Location

	MaxRetries int
}

// OpenWeatherFetcher implements weather.Fetcher against the OpenWeatherMap current weather API.
type OpenWeatherFetcher struct {
	logger  *zap.Logger
	apiKey  string
	baseURL string
	loc     *time.Location
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	now     func() time.Time
}

// NewOpenWeatherFetcher returns a fetcher for cfg. An empty BaseURL means
// DefaultOpenWeatherBaseURL; a missing trailing slash is added.
func NewOpenWeatherFetcher(logger *zap.Logger, client *http.Client, cfg OpenWeatherConfig) *OpenWeatherFetcher {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultOpenWeatherBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	return &OpenWeatherFetcher{
		logger:  logger.Named("openweather"),
		apiKey:  cfg.APIKey,
		baseURL: base,
		loc:     cfg.Location,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      cfg.MaxRetries,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newCircuitBreaker("openweather"),
		now:     time.Now,
	}
}

// statusCode accepts both the numeric (200) and string ("404") forms of "cod".
type statusCode string

func (c *statusCode) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*c = ""
		return nil
	}
	*c = statusCode(strings.Trim(s, `"`))
	return nil
}

type currentWeatherPayload struct {
	Cod     statusCode      `json:"cod"`
	Message json.RawMessage `json:"message"`
	Name    string          `json:"name"`
	Main    *struct {
		Temp     *float64 `json:"temp"`
		Humidity int      `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Sys *struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}

// validate reports the first display field a success payload is missing.
func (p currentWeatherPayload) validate() error {
	switch {
	case p.Main == nil || p.Main.Temp == nil:
		return errors.New("missing main.temp")
	case len(p.Weather) == 0:
		return errors.New("missing weather[0]")
	case p.Sys == nil:
		return errors.New("missing sys")
	}
	return nil
}

// FetchWeather requests current conditions for coords and maps them into the display model.
func (p *OpenWeatherFetcher) FetchWeather(ctx context.Context, coords weather.Coordinates) (weather.WeatherSnapshot, error) {
	if p.apiKey == "" {
		return weather.WeatherSnapshot{}, &weather.APIError{Code: "401", Message: missingKeyMessage}
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
		values.Set("units", "metric")
		values.Set("APPID", p.apiKey)

		u := fmt.Sprintf("%sweather?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		p.logger.Warn("weather request failed",
			zap.Float64("lat", coords.Latitude),
			zap.Float64("lon", coords.Longitude),
			zap.Error(err),
		)
		return weather.WeatherSnapshot{}, &weather.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	var payload currentWeatherPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		p.logger.Warn("undecodable weather response",
			zap.Int("status_code", resp.StatusCode),
			zap.Error(err),
		)
		return weather.WeatherSnapshot{}, &weather.APIError{
			Code: strconv.Itoa(resp.StatusCode),
			Err:  fmt.Errorf("decode weather response: %w", err),
		}
	}

	if payload.Cod != openWeatherSuccessCode {
		apiErr := &weather.APIError{Code: string(payload.Cod), Message: messageText(payload.Message)}
		p.logger.Info("weather api reported failure",
			zap.String("cod", apiErr.Code),
			zap.String("message", apiErr.Message),
		)
		return weather.WeatherSnapshot{}, apiErr
	}

	if err := payload.validate(); err != nil {
		p.logger.Warn("incomplete weather response", zap.Error(err))
		return weather.WeatherSnapshot{}, &weather.APIError{
			Code: string(payload.Cod),
			Err:  fmt.Errorf("decode weather response: %w", err),
		}
	}

	return p.toSnapshot(coords, payload), nil
}

func (p *OpenWeatherFetcher) toSnapshot(coords weather.Coordinates, payload currentWeatherPayload) weather.WeatherSnapshot {
	condition := payload.Weather[0].Main
	celsius := roundHalfUp(*payload.Main.Temp)

	return weather.WeatherSnapshot{
		City:                  payload.Name,
		Country:               payload.Sys.Country,
		TemperatureCelsius:    celsius,
		TemperatureFahrenheit: celsiusToFahrenheit(celsius),
		HumidityPercent:       payload.Main.Humidity,
		Description:           payload.Weather[0].Description,
		Icon:                  weather.MapConditionToIcon(condition),
		Sunrise:               weather.FormatTimeOfDay(payload.Sys.Sunrise, p.loc),
		Sunset:                weather.FormatTimeOfDay(payload.Sys.Sunset, p.loc),
		Condition:             condition,
		Coordinates:           coords,
		FetchedAt:             p.now().UTC(),
	}
}

// celsiusToFahrenheit converts the already rounded Celsius value so both displays agree.
func celsiusToFahrenheit(celsius int) int {
	return roundHalfUp(float64(celsius)*1.8 + 32)
}

// roundHalfUp rounds to the nearest integer with halves going towards +Inf.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// messageText returns the API message when it is a JSON string.
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
