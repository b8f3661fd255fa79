package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-widget/internal/store"
	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/widget"
)

var validate = validator.New()

const (
	loadingTitle  = "Detecting your location..."
	loadingDetail = "Your current location will be used to calculate real-time weather."
)

// Controller is the part of widget.Controller the HTTP layer needs.
type Controller interface {
	State() widget.State
	Refresh(ctx context.Context) error
}

// NoticeReader is the part of store.NoticeStore the HTTP layer needs.
type NoticeReader interface {
	Since(from time.Time) ([]widget.Notice, error)
}

// Deps bundles the collaborators of the HTTP handlers.
type Deps struct {
	Controller Controller
	Notices    NoticeReader

	// Location is the zone the date and clock are rendered in. Nil means UTC.
	Location *time.Location
	Now      func() time.Time
}

// view is the rendering payload for the widget.
type view struct {
	Status  widget.Active `json:"status"`
	Phase   widget.Phase  `json:"phase"`
	Title   string        `json:"title,omitempty"`
	Detail  string        `json:"detail,omitempty"`
	Message string        `json:"message,omitempty"`

	Weather     *weather.WeatherSnapshot `json:"weather,omitempty"`
	Forecast    *widget.ForecastPair     `json:"forecast,omitempty"`
	CurrentDate string                   `json:"currentDate,omitempty"`
	Clock       string                   `json:"clock,omitempty"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}

	v1 := app.Group("/api/v1")

	v1.Get("/widget", func(c *fiber.Ctx) error {
		return c.JSON(deps.render(deps.Controller.State()))
	})

	v1.Get("/widget/forecast", func(c *fiber.Ctx) error {
		pair, ok := deps.Controller.State().Forecast()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no weather data available")
		}
		return c.JSON(pair)
	})

	v1.Post("/widget/refresh", func(c *fiber.Ctx) error {
		err := deps.Controller.Refresh(c.UserContext())
		switch {
		case errors.Is(err, widget.ErrNoCoordinates):
			return fiber.NewError(fiber.StatusConflict, "location not determined yet")
		case errors.Is(err, widget.ErrClosed):
			return fiber.NewError(fiber.StatusServiceUnavailable, "widget is shutting down")
		}
		// Fetch failures are part of the rendered state.
		return c.JSON(deps.render(deps.Controller.State()))
	})

	v1.Get("/widget/notices", func(c *fiber.Ctx) error {
		var req noticesQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		notices, err := deps.Notices.Since(req.Since)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(fiber.Map{"notices": []widget.Notice{}})
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read notices")
		}

		return c.JSON(fiber.Map{"notices": notices})
	})
}

func (d Deps) render(s widget.State) view {
	v := view{Status: s.Active(), Phase: s.Phase}

	switch v.Status {
	case widget.ActiveLoading:
		v.Title = loadingTitle
		v.Detail = loadingDetail
	case widget.ActiveError:
		v.Message = s.ErrorMessage
	case widget.ActiveWeather:
		now := d.Now().In(d.Location)
		v.Weather = s.Snapshot
		if pair, ok := s.Forecast(); ok {
			v.Forecast = &pair
		}
		v.CurrentDate = weather.FormatDate(now)
		v.Clock = now.Format(weather.TimeOfDayLayout)
	}
	return v
}

// noticesQuery holds query parameters for the notices endpoint.
type noticesQuery struct {
	Since time.Time `validate:"required"`
}

func (q *noticesQuery) bind(c *fiber.Ctx) error {
	sinceStr := c.Query("since")
	if sinceStr == "" {
		// Unix epoch rather than the zero time so "required" still holds.
		q.Since = time.Unix(0, 0).UTC()
		return nil
	}

	since, err := parseTime(sinceStr)
	if err != nil {
		return err
	}
	q.Since = since
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
