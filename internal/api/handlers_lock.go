package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclemate/internal/logger"
	"github.com/terraincognita07/cyclemate/internal/services"
)

func (handler *Handler) LockStatus(c *fiber.Ctx) error {
	configured, err := handler.lock.IsConfigured()
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err}).Error("failed to read lock state")
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	return c.JSON(fiber.Map{
		"configured": configured,
		"unlocked":   !configured || handler.isUnlocked(c),
	})
}

// SetupLock stores the first passcode and unlocks the current client.
func (handler *Handler) SetupLock(c *fiber.Ctx) error {
	input := passcodeInput{}
	if err := handler.bindInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	err := handler.lock.Setup(input.Passcode)
	switch {
	case errors.Is(err, services.ErrPasscodeAlreadySet):
		return apiError(c, fiber.StatusConflict, "passcode already configured")
	case errors.Is(err, services.ErrPasscodeInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid passcode")
	case err != nil:
		logger.Log.WithFields(logrus.Fields{"error": err}).Error("failed to store passcode")
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}

	if err := handler.setUnlockCookie(c); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"configured": true, "unlocked": true})
}

func (handler *Handler) Unlock(c *fiber.Ctx) error {
	limiterKey := requestLimiterKey(c)
	now := handler.clock()
	if handler.unlockLimiter.tooManyRecent(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many attempts, try again later")
	}

	input := passcodeInput{}
	if err := handler.bindInput(c, &input); err != nil {
		handler.unlockLimiter.addFailure(limiterKey, now)
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	err := handler.lock.Verify(input.Passcode)
	switch {
	case errors.Is(err, services.ErrPasscodeNotSet):
		return apiError(c, fiber.StatusConflict, "passcode not configured")
	case errors.Is(err, services.ErrPasscodeMismatch):
		handler.unlockLimiter.addFailure(limiterKey, now)
		logger.Log.WithFields(logrus.Fields{"client": limiterKey}).Warn("unlock attempt rejected")
		return apiError(c, fiber.StatusUnauthorized, "invalid passcode")
	case err != nil:
		logger.Log.WithFields(logrus.Fields{"error": err}).Error("failed to verify passcode")
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}

	handler.unlockLimiter.reset(limiterKey)
	if err := handler.setUnlockCookie(c); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	return c.JSON(fiber.Map{"unlocked": true})
}

func (handler *Handler) Relock(c *fiber.Ctx) error {
	handler.clearUnlockCookie(c)
	return c.JSON(fiber.Map{"unlocked": false})
}
