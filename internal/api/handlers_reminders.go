package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclemate/internal/models"
	"github.com/terraincognita07/cyclemate/internal/services"
)

func (handler *Handler) ListReminders(c *fiber.Ctx) error {
	snapshot := handler.state.Snapshot()
	return c.JSON(fiber.Map{
		"reminders": handler.localizedStatuses(c, snapshot.Reminders, handler.now()),
	})
}

func (handler *Handler) ToggleReminder(c *fiber.Ctx) error {
	return handler.mutateReminder(c, func(kind models.ReminderType) (models.ReminderRecord, error) {
		return handler.state.ToggleReminder(kind)
	})
}

func (handler *Handler) SetReminderFrequency(c *fiber.Ctx) error {
	input := frequencyInput{}
	if err := handler.bindInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	return handler.mutateReminder(c, func(kind models.ReminderType) (models.ReminderRecord, error) {
		return handler.state.SetReminderFrequency(kind, input.Frequency)
	})
}

// MarkReminderDone records a completion for the given date, or today when the
// body omits it.
func (handler *Handler) MarkReminderDone(c *fiber.Ctx) error {
	input := optionalDateInput{}
	if err := handler.bindInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	now := handler.now()
	day := services.DateOnly(now)
	if input.Date != "" {
		parsed, ok := services.ParseDate(input.Date)
		if !ok {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}
		day = parsed
	}
	return handler.mutateReminder(c, func(kind models.ReminderType) (models.ReminderRecord, error) {
		return handler.state.MarkReminderDone(kind, day, now)
	})
}

func (handler *Handler) ClearReminderDone(c *fiber.Ctx) error {
	day, ok := parsePathDate(c, "date")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}
	now := handler.now()
	return handler.mutateReminder(c, func(kind models.ReminderType) (models.ReminderRecord, error) {
		return handler.state.ClearReminderDone(kind, day, now)
	})
}

func (handler *Handler) AddReminderNote(c *fiber.Ctx) error {
	kind, ok := parseReminderParam(c)
	if !ok {
		return apiError(c, fiber.StatusNotFound, "unknown reminder type")
	}
	input := noteInput{}
	if err := handler.bindInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	note, err := handler.state.AddReminderNote(kind, input.Type, input.Text)
	if err != nil {
		status, message := reminderErrorStatus(err)
		return apiError(c, status, message)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

func (handler *Handler) DeleteReminderNote(c *fiber.Ctx) error {
	noteID := strings.TrimSpace(c.Params("id"))
	return handler.mutateReminder(c, func(kind models.ReminderType) (models.ReminderRecord, error) {
		return handler.state.RemoveReminderNote(kind, noteID)
	})
}

func (handler *Handler) AddPlannedDate(c *fiber.Ctx) error {
	day, err := handler.bindDate(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	return handler.mutateReminder(c, func(kind models.ReminderType) (models.ReminderRecord, error) {
		return handler.state.AddPlannedDate(kind, day)
	})
}

func (handler *Handler) DeletePlannedDate(c *fiber.Ctx) error {
	day, ok := parsePathDate(c, "date")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}
	return handler.mutateReminder(c, func(kind models.ReminderType) (models.ReminderRecord, error) {
		return handler.state.RemovePlannedDate(kind, day)
	})
}

// PrunePlannedDates drops every planned date after the cutoff.
func (handler *Handler) PrunePlannedDates(c *fiber.Ctx) error {
	cutoff, err := handler.bindDate(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	return handler.mutateReminder(c, func(kind models.ReminderType) (models.ReminderRecord, error) {
		return handler.state.PrunePlannedDatesAfter(kind, cutoff)
	})
}

func (handler *Handler) mutateReminder(c *fiber.Ctx, mutate func(models.ReminderType) (models.ReminderRecord, error)) error {
	kind, ok := parseReminderParam(c)
	if !ok {
		return apiError(c, fiber.StatusNotFound, "unknown reminder type")
	}

	record, err := mutate(kind)
	if err != nil {
		status, message := reminderErrorStatus(err)
		return apiError(c, status, message)
	}

	status := services.BuildReminderStatus(kind, record, handler.now()).
		Localize(handler.i18n, handler.currentLanguage(c))
	return c.JSON(fiber.Map{"reminder": record, "status": status})
}

func (handler *Handler) localizedStatuses(c *fiber.Ctx, reminders map[models.ReminderType]models.ReminderRecord, now time.Time) []services.ReminderStatus {
	language := handler.currentLanguage(c)
	statuses := services.BuildReminderStatuses(reminders, now)
	for index := range statuses {
		statuses[index] = statuses[index].Localize(handler.i18n, language)
	}
	return statuses
}
