package httpapi

import (
	"bytes"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/i474232898/weather-dashboard/internal/display"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/prefs"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

var validate = validator.New()

const (
	msgMissingQuery       = "Missing required parameter: q (query)"
	msgMissingCoordinates = "Missing required parameters: lat, lon"
	msgInvalidCoordinates = "Invalid parameters: lat, lon"
	msgLocationFailed     = "Failed to fetch location data"
	msgWeatherFailed      = "Failed to fetch weather data"
	msgNotConfigured      = "API key not configured"
	msgInternal           = "Internal server error"
)

// Dependencies are the services the routes are built on. Preferences may be
// nil, in which case the preferences routes are not registered.
type Dependencies struct {
	Geo         *geo.Service
	Weather     *weather.Service
	Preferences *prefs.Service
	Logger      *zap.SugaredLogger

	// Now and Location drive the server-rendered view. They default to
	// time.Now and time.Local.
	Now      func() time.Time
	Location *time.Location
}

type handlers struct {
	Dependencies
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	h := &handlers{deps}

	api := app.Group("/api")
	api.Get("/locations", h.locations)
	api.Get("/reverse-geocode", h.reverseGeocode)
	api.Get("/weather", h.weather)
	api.Get("/weather/view", h.weatherView)

	if deps.Preferences != nil {
		api.Post("/preferences", h.createPreferences)
		api.Get("/preferences/:id", h.getPreferences)
		api.Put("/preferences/:id", h.updatePreferences)
	}
}

// ErrorHandler renders every error as {"error": message}. Errors that are not
// *fiber.Error are reported as a generic 500.
func ErrorHandler(logger *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := msgInternal

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else if logger != nil {
			logger.Errorw("unhandled error", "path", c.Path(), "error", err)
		}

		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
}

// locationsQuery holds query parameters for the location search endpoint.
type locationsQuery struct {
	Q string `validate:"required"`
}

func (h *handlers) locations(c *fiber.Ctx) error {
	q := locationsQuery{Q: c.Query("q")}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgMissingQuery)
	}

	raw, err := h.Geo.Search(c.UserContext(), q.Q)
	if err != nil {
		h.Logger.Errorw("location search failed", "query", q.Q, "error", err)
		return upstreamError(err, msgLocationFailed)
	}
	return sendJSON(c, raw)
}

func (h *handlers) reverseGeocode(c *fiber.Ctx) error {
	at, err := parseCoordinate(c)
	if err != nil {
		return err
	}

	raw, err := h.Geo.Reverse(c.UserContext(), at)
	if err != nil {
		h.Logger.Errorw("reverse geocoding failed", "coordinate", at.String(), "error", err)
		return upstreamError(err, msgLocationFailed)
	}
	return sendJSON(c, raw)
}

func (h *handlers) weather(c *fiber.Ctx) error {
	at, units, err := parseWeatherQuery(c)
	if err != nil {
		return err
	}

	raw, err := h.fetchBundle(c, at, units)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	body.WriteString(`{"current":`)
	body.Write(raw.Current)
	body.WriteString(`,"forecast":`)
	body.Write(raw.Forecast)
	body.WriteString(`}`)
	return sendJSON(c, body.Bytes())
}

type viewQuery struct {
	TZ string `validate:"omitempty,timezone"`
}

func (h *handlers) weatherView(c *fiber.Ctx) error {
	at, units, err := parseWeatherQuery(c)
	if err != nil {
		return err
	}

	loc := h.Location
	vq := viewQuery{TZ: c.Query("tz")}
	if err := validate.Struct(vq); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid parameter: tz")
	}
	if vq.TZ != "" {
		if loc, err = time.LoadLocation(vq.TZ); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid parameter: tz")
		}
	}

	raw, err := h.fetchBundle(c, at, units)
	if err != nil {
		return err
	}
	bundle, err := raw.Decode()
	if err != nil {
		h.Logger.Errorw("weather payload could not be decoded", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, msgInternal)
	}

	return c.JSON(display.BuildView(bundle, units, h.Now(), loc))
}

func (h *handlers) fetchBundle(c *fiber.Ctx, at geo.Coordinate, units weather.Units) (weather.RawBundle, error) {
	raw, err := h.Weather.Bundle(c.UserContext(), at, units)
	if err == nil {
		return raw, nil
	}
	if errors.Is(err, weather.ErrNotConfigured) {
		return weather.RawBundle{}, fiber.NewError(fiber.StatusInternalServerError, msgNotConfigured)
	}
	return weather.RawBundle{}, upstreamError(err, msgWeatherFailed)
}

// coordinateQuery holds the raw lat/lon query parameters.
type coordinateQuery struct {
	Lat string `validate:"required,latitude"`
	Lon string `validate:"required,longitude"`
}

func parseCoordinate(c *fiber.Ctx) (geo.Coordinate, error) {
	q := coordinateQuery{Lat: c.Query("lat"), Lon: c.Query("lon")}
	if q.Lat == "" || q.Lon == "" {
		return geo.Coordinate{}, fiber.NewError(fiber.StatusBadRequest, msgMissingCoordinates)
	}
	if err := validate.Struct(q); err != nil {
		return geo.Coordinate{}, fiber.NewError(fiber.StatusBadRequest, msgInvalidCoordinates)
	}

	lat, err := strconv.ParseFloat(q.Lat, 64)
	if err != nil {
		return geo.Coordinate{}, fiber.NewError(fiber.StatusBadRequest, msgInvalidCoordinates)
	}
	lon, err := strconv.ParseFloat(q.Lon, 64)
	if err != nil {
		return geo.Coordinate{}, fiber.NewError(fiber.StatusBadRequest, msgInvalidCoordinates)
	}
	return geo.Coordinate{Latitude: lat, Longitude: lon}, nil
}

type unitsQuery struct {
	Units string `validate:"omitempty,oneof=metric imperial standard"`
}

func parseWeatherQuery(c *fiber.Ctx) (geo.Coordinate, weather.Units, error) {
	at, err := parseCoordinate(c)
	if err != nil {
		return geo.Coordinate{}, "", err
	}

	uq := unitsQuery{Units: c.Query("units")}
	if err := validate.Struct(uq); err != nil {
		return geo.Coordinate{}, "", fiber.NewError(fiber.StatusBadRequest, "Invalid parameter: units")
	}
	units, err := weather.ParseUnits(uq.Units)
	if err != nil {
		return geo.Coordinate{}, "", fiber.NewError(fiber.StatusBadRequest, "Invalid parameter: units")
	}
	return at, units, nil
}

// upstreamError maps an upstream failure to a 500. Non-2xx answers and an
// open breaker use the route's own message; anything else is reported as an
// internal error. Upstream bodies are never forwarded.
func upstreamError(err error, failed string) error {
	var se *providers.StatusError
	if errors.As(err, &se) || errors.Is(err, providers.ErrCircuitOpen) {
		return fiber.NewError(fiber.StatusInternalServerError, failed)
	}
	return fiber.NewError(fiber.StatusInternalServerError, msgInternal)
}

func sendJSON(c *fiber.Ctx, raw []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}
