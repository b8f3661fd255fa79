package widget

import (
	"github.com/i474232898/weather-widget/internal/weather"
)

// Phase is the controller's lifecycle phase.
type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhaseLoading      Phase = "loading"
	PhaseReady        Phase = "ready"
	PhaseFailed       Phase = "failed"
)

// Active names which view the rendering layer should show.
type Active string

const (
	ActiveLoading Active = "loading"
	ActiveError   Active = "error"
	ActiveWeather Active = "ready"
)

// State is an immutable copy of the controller state handed to renderers and subscribers.
type State struct {
	Phase        Phase                    `json:"phase"`
	Coordinates  *weather.Coordinates     `json:"coordinates,omitempty"`
	Snapshot     *weather.WeatherSnapshot `json:"snapshot,omitempty"`
	ErrorMessage string                   `json:"errorMessage,omitempty"`

	// Loading is true only until the first fetch has resolved.
	Loading bool `json:"loading"`
}

// Active reports the view to render. Loading wins over an error, and an error wins
// over stale weather.
func (s State) Active() Active {
	switch {
	case s.Loading:
		return ActiveLoading
	case s.ErrorMessage != "":
		return ActiveError
	case s.Snapshot != nil:
		return ActiveWeather
	default:
		return ActiveLoading
	}
}

// ForecastPair is what the secondary forecast panel displays.
type ForecastPair struct {
	Icon    weather.IconID `json:"icon"`
	Weather string         `json:"weather"`
}

// Forecast returns the icon/description pair for the forecast panel when weather is active.
func (s State) Forecast() (ForecastPair, bool) {
	if s.Active() != ActiveWeather {
		return ForecastPair{}, false
	}
	return ForecastPair{Icon: s.Snapshot.Icon, Weather: s.Snapshot.Description}, true
}

func (s State) clone() State {
	out := s
	if s.Coordinates != nil {
		c := *s.Coordinates
		out.Coordinates = &c
	}
	if s.Snapshot != nil {
		snap := *s.Snapshot
		out.Snapshot = &snap
	}
	return out
}
