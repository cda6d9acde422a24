package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/prefs"
)

func (h *handlers) createPreferences(c *fiber.Ctx) error {
	var u prefs.Update
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&u); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}

	p, err := h.Preferences.Create(c.UserContext(), u)
	if err != nil {
		return h.preferencesError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *handlers) getPreferences(c *fiber.Ctx) error {
	p, err := h.Preferences.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.preferencesError(err)
	}
	return c.JSON(p)
}

func (h *handlers) updatePreferences(c *fiber.Ctx) error {
	var u prefs.Update
	if err := c.BodyParser(&u); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	p, err := h.Preferences.Update(c.UserContext(), c.Params("id"), u)
	if err != nil {
		return h.preferencesError(err)
	}
	return c.JSON(p)
}

func (h *handlers) preferencesError(err error) error {
	switch {
	case errors.Is(err, prefs.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Preferences not found")
	case errors.Is(err, prefs.ErrInvalid):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		h.Logger.Errorw("preferences request failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, msgInternal)
	}
}
