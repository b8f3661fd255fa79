package weather

import "context"

// UnavailableLocator is used when no position source is configured.
type UnavailableLocator struct{}

func (UnavailableLocator) Locate(context.Context) (Coordinates, error) {
	return Coordinates{}, ErrLocationUnavailable
}

// StaticLocator always answers with the same coordinates.
type StaticLocator struct {
	Coords Coordinates
}

func (l StaticLocator) Locate(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	return l.Coords, nil
}
