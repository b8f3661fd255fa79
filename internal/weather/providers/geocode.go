package providers

import (
	"context"
	"fmt"

	"github.com/kelvins/geocoder"
	"go.uber.org/zap"

	"github.com/i474232898/weather-widget/internal/common"
	"github.com/i474232898/weather-widget/internal/weather"
)

// deniedMarkers are fragments of the geocoder's error text that mean the API refused the
// request (bad key, unauthorized project or exhausted quota) rather than failed to resolve it.
var deniedMarkers = []string{"api key", "denied", "not authorized", "quota"}

// GeocodeLocator implements weather.Locator by geocoding a configured city/country with
// the Google Geocoding API.
type GeocodeLocator struct {
	logger  *zap.Logger
	apiKey  string
	address geocoder.Address
	geocode func(geocoder.Address) (geocoder.Location, error)
}

// NewGeocodeLocator returns a locator for city/country. The geocoder package reads its key
// from a package variable, so it is set here once rather than per lookup.
func NewGeocodeLocator(logger *zap.Logger, apiKey, city, country string) *GeocodeLocator {
	if apiKey != "" {
		geocoder.ApiKey = apiKey
	}
	return &GeocodeLocator{
		logger:  logger.Named("geocode"),
		apiKey:  apiKey,
		address: geocoder.Address{City: city, Country: country},
		geocode: geocoder.Geocoding,
	}
}

// Locate geocodes the configured address. The geocoder call itself is not cancellable;
// ctx only bounds how long the caller waits for it.
//
// A refused request maps to weather.ErrLocationDenied. An address that cannot be resolved
// maps to weather.ErrLocationUnavailable.
func (l *GeocodeLocator) Locate(ctx context.Context) (weather.Coordinates, error) {
	if l.apiKey == "" || l.address.City == "" {
		return weather.Coordinates{}, weather.ErrLocationUnavailable
	}

	type result struct {
		loc geocoder.Location
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			// The geocoder indexes into an empty result set for some statuses.
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("geocoder panic: %v", r)}
			}
		}()
		loc, err := l.geocode(l.address)
		done <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return weather.Coordinates{}, fmt.Errorf("%w: %v", weather.ErrLocationDenied, ctx.Err())
	case r := <-done:
		if r.err != nil {
			kind := weather.ErrLocationUnavailable
			if common.HasAny(r.err.Error(), deniedMarkers...) {
				kind = weather.ErrLocationDenied
			}
			l.logger.Warn("geocoding failed",
				zap.String("city", l.address.City),
				zap.String("country", l.address.Country),
				zap.Bool("denied", kind == weather.ErrLocationDenied),
				zap.Error(r.err),
			)
			return weather.Coordinates{}, fmt.Errorf("%w: %v", kind, r.err)
		}
		if r.loc.Latitude == 0 && r.loc.Longitude == 0 {
			return weather.Coordinates{}, fmt.Errorf("%w: no geocoding results for %s", weather.ErrLocationUnavailable, l.address.City)
		}
		return weather.Coordinates{Latitude: r.loc.Latitude, Longitude: r.loc.Longitude}, nil
	}
}
