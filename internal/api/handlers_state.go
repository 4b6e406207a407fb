package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclemate/internal/services"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

// GetState returns the stored document together with today's derived view.
func (handler *Handler) GetState(c *fiber.Ctx) error {
	now := handler.now()
	snapshot := handler.state.Snapshot()
	return c.JSON(fiber.Map{
		"state":     snapshot,
		"today":     services.DescribeDay(services.DateOnly(now), snapshot.Cycle),
		"reminders": handler.localizedStatuses(c, snapshot.Reminders, now),
	})
}

func (handler *Handler) GetDay(c *fiber.Ctx) error {
	day, ok := parsePathDate(c, "date")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}
	snapshot := handler.state.Snapshot()
	return c.JSON(services.DescribeDay(day, snapshot.Cycle))
}

// GetCalendar renders the month grid for ?month=YYYY-MM, defaulting to the
// current month.
func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	now := handler.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid month")
		}
		monthStart = parsed
	}

	snapshot := handler.state.Snapshot()
	return c.JSON(fiber.Map{
		"month": monthStart.Format("2006-01"),
		"days":  services.BuildCalendarDayStates(monthStart, snapshot.Cycle, now),
	})
}

func (handler *Handler) GetStats(c *fiber.Ctx) error {
	snapshot := handler.state.Snapshot()
	return c.JSON(services.BuildCycleStats(snapshot.Cycle, handler.now()))
}
