package weather

import (
	"time"
)

// IconID identifies one of the animated weather icons the widget can display.
type IconID string

const (
	IconClearDay IconID = "CLEAR_DAY"
	IconCloudy   IconID = "CLOUDY"
	IconRain     IconID = "RAIN"
	IconSnow     IconID = "SNOW"
	IconWind     IconID = "WIND"
	IconSleet    IconID = "SLEET"
	IconFog      IconID = "FOG"
)

// Valid reports whether the icon is a member of the closed icon set.
func (i IconID) Valid() bool {
	switch i {
	case IconClearDay, IconCloudy, IconRain, IconSnow, IconWind, IconSleet, IconFog:
		return true
	default:
		return false
	}
}

// Coordinates is a geographic position. It is never mutated once obtained.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// DefaultCoordinates is used whenever the position cannot be acquired (New Delhi).
var DefaultCoordinates = Coordinates{Latitude: 28.67, Longitude: 77.22}

// WeatherSnapshot is the display model produced by a single successful fetch.
// It always replaces the previous snapshot as a whole.
type WeatherSnapshot struct {
	City                  string `json:"city"`
	Country               string `json:"country"`
	TemperatureCelsius    int    `json:"temperatureC"`
	TemperatureFahrenheit int    `json:"temperatureF"`
	HumidityPercent       int    `json:"humidityPercent"`
	Description           string `json:"description"`
	Icon                  IconID `json:"icon"`
	Sunrise               string `json:"sunrise"`
	Sunset                string `json:"sunset"`

	// Condition is the raw primary condition label the icon was derived from.
	Condition   string      `json:"condition"`
	Coordinates Coordinates `json:"coordinates"`
	FetchedAt   time.Time   `json:"fetchedAt"` // always UTC
}
