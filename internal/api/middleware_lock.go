package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclemate/internal/logger"
)

// LockRequired rejects requests without a valid unlock cookie once a passcode
// has been configured.
func (handler *Handler) LockRequired(c *fiber.Ctx) error {
	if isLockRoute(c.Path()) {
		return c.Next()
	}

	configured, err := handler.lock.IsConfigured()
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err}).Error("failed to read lock state")
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	if !configured {
		return c.Next()
	}

	if err := handler.parseUnlockToken(c.Cookies(lockCookieName)); err != nil {
		handler.clearUnlockCookie(c)
		return apiError(c, fiber.StatusUnauthorized, "locked")
	}
	return c.Next()
}

func (handler *Handler) isUnlocked(c *fiber.Ctx) bool {
	return handler.parseUnlockToken(c.Cookies(lockCookieName)) == nil
}

func isLockRoute(path string) bool {
	return strings.HasPrefix(path, "/api/lock/")
}
