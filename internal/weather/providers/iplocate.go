package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/weather-widget/internal/weather"
)

const DefaultIPLocatorURL = "http://ip-api.com/json/"

// IPLocator implements weather.Locator using an ip-api.com compatible endpoint.
type IPLocator struct {
	logger  *zap.Logger
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewIPLocator returns a locator that queries url, or DefaultIPLocatorURL when empty.
func NewIPLocator(logger *zap.Logger, client *http.Client, url string) *IPLocator {
	if url == "" {
		url = DefaultIPLocatorURL
	}

	return &IPLocator{
		logger: logger.Named("iplocate"),
		url:    url,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newCircuitBreaker("iplocate"),
	}
}

// Locate resolves the position of the host's public IP. Every failure is reported
// as weather.ErrLocationDenied wrapping the cause.
func (l *IPLocator) Locate(ctx context.Context) (weather.Coordinates, error) {
	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, l.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, l.httpCfg, l.circuit, buildRequest)
	if err != nil {
		l.logger.Warn("ip lookup failed", zap.Error(err))
		return weather.Coordinates{}, fmt.Errorf("%w: %v", weather.ErrLocationDenied, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return weather.Coordinates{}, fmt.Errorf("%w: unexpected status %d", weather.ErrLocationDenied, resp.StatusCode)
	}

	var payload struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: decode ip lookup: %v", weather.ErrLocationDenied, err)
	}

	if payload.Status != "success" {
		l.logger.Info("ip lookup declined", zap.String("message", payload.Message))
		return weather.Coordinates{}, fmt.Errorf("%w: %s", weather.ErrLocationDenied, payload.Message)
	}

	return weather.Coordinates{Latitude: payload.Lat, Longitude: payload.Lon}, nil
}
