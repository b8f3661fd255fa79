package weather

import (
	"context"
)

// Fetcher abstracts the remote weather API.
type Fetcher interface {
	FetchWeather(ctx context.Context, coords Coordinates) (WeatherSnapshot, error)
}

// Locator abstracts a one-shot position source. Locate blocks until the source answers
// or ctx is done.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}
