package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclemate/internal/models"
	"github.com/terraincognita07/cyclemate/internal/services"
)

var errInvalidInput = errors.New("invalid input")

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// bindInput decodes the JSON body into input and validates its tags. An
// empty body is treated as an empty object.
func (handler *Handler) bindInput(c *fiber.Ctx, input any) error {
	if len(strings.TrimSpace(string(c.Body()))) > 0 {
		if err := c.BodyParser(input); err != nil {
			return errInvalidInput
		}
	}
	if err := handler.validate.Struct(input); err != nil {
		return errInvalidInput
	}
	return nil
}

// bindDate binds a {"date": "YYYY-MM-DD"} body and parses the date.
func (handler *Handler) bindDate(c *fiber.Ctx) (time.Time, error) {
	input := dateInput{}
	if err := handler.bindInput(c, &input); err != nil {
		return time.Time{}, err
	}
	day, ok := services.ParseDate(input.Date)
	if !ok {
		return time.Time{}, errInvalidInput
	}
	return day, nil
}

func parsePathDate(c *fiber.Ctx, name string) (time.Time, bool) {
	return services.ParseDate(c.Params(name))
}

func parseReminderParam(c *fiber.Ctx) (models.ReminderType, bool) {
	return models.ParseReminderType(strings.TrimSpace(c.Params("type")))
}

func reminderErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrUnknownReminderType):
		return fiber.StatusNotFound, "unknown reminder type"
	case errors.Is(err, services.ErrPlansNotSupported):
		return fiber.StatusBadRequest, "reminder does not support planned dates"
	case errors.Is(err, services.ErrReminderNoteInvalid):
		return fiber.StatusBadRequest, "invalid note"
	case errors.Is(err, services.ErrReminderNoteNotFound):
		return fiber.StatusNotFound, "note not found"
	case errors.Is(err, services.ErrReminderFrequencyTooLow):
		return fiber.StatusBadRequest, "invalid frequency"
	default:
		return fiber.StatusInternalServerError, "internal error"
	}
}
