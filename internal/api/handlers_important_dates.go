package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclemate/internal/models"
	"github.com/terraincognita07/cyclemate/internal/services"
)

type importantDateView struct {
	models.ImportantDate
	NextOccurrence string `json:"next_occurrence,omitempty"`
	DaysUntil      *int   `json:"days_until,omitempty"`
}

func (handler *Handler) ListImportantDates(c *fiber.Ctx) error {
	today := services.DateOnly(handler.now())
	snapshot := handler.state.Snapshot()

	views := make([]importantDateView, 0, len(snapshot.ImportantDates))
	for _, entry := range snapshot.ImportantDates {
		view := importantDateView{ImportantDate: entry}
		if next, ok := services.NextImportantDateOccurrence(entry, today); ok {
			days := services.DaysBetween(today, next)
			view.NextOccurrence = services.FormatDate(next)
			view.DaysUntil = &days
		}
		views = append(views, view)
	}
	return c.JSON(fiber.Map{"important_dates": views})
}

func (handler *Handler) AddImportantDate(c *fiber.Ctx) error {
	input := importantDateInput{}
	if err := handler.bindInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	entry, err := handler.state.AddImportantDate(input.Name, time.Month(input.Month), input.Day)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid important date")
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) DeleteImportantDate(c *fiber.Ctx) error {
	err := handler.state.RemoveImportantDate(strings.TrimSpace(c.Params("id")))
	if errors.Is(err, services.ErrImportantDateNotFound) {
		return apiError(c, fiber.StatusNotFound, "important date not found")
	}
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
