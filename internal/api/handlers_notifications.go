package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclemate/internal/services"
)

// TodayNotifications previews the daily digest the scheduler would send.
func (handler *Handler) TodayNotifications(c *fiber.Ctx) error {
	digest := services.BuildDailyDigest(handler.state.Snapshot(), handler.now(), handler.digest)
	message := ""
	if digest.Due {
		message = digest.Message(handler.i18n, handler.currentLanguage(c))
	}
	return c.JSON(fiber.Map{"digest": digest, "message": message})
}
