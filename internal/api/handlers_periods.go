package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) MarkPeriodStart(c *fiber.Ctx) error {
	day, err := handler.bindDate(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	cycle, changed := handler.state.MarkPeriodStart(day)
	return c.JSON(fiber.Map{"cycle": cycle, "changed": changed})
}

func (handler *Handler) MarkPeriodEnd(c *fiber.Ctx) error {
	day, err := handler.bindDate(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	cycle, changed := handler.state.MarkPeriodEnd(day)
	return c.JSON(fiber.Map{"cycle": cycle, "changed": changed})
}

func (handler *Handler) DeletePeriod(c *fiber.Ctx) error {
	day, ok := parsePathDate(c, "date")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	cycle, changed := handler.state.RemovePeriod(day)
	if !changed {
		return apiError(c, fiber.StatusNotFound, "period not found")
	}
	return c.JSON(fiber.Map{"cycle": cycle, "changed": changed})
}
