package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const unlockTokenSubject = "cyclemate-unlock"

var errUnlockTokenInvalid = errors.New("invalid unlock token")

type unlockClaims struct {
	jwt.RegisteredClaims
}

func (handler *Handler) buildUnlockToken(now time.Time) (string, error) {
	claims := unlockClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   unlockTokenSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(unlockTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(handler.secretKey)
}

func (handler *Handler) parseUnlockToken(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errUnlockTokenInvalid
	}

	claims := &unlockClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return handler.secretKey, nil
	}, jwt.WithTimeFunc(handler.clock))
	if err != nil || !token.Valid {
		return errUnlockTokenInvalid
	}
	if claims.Subject != unlockTokenSubject {
		return errUnlockTokenInvalid
	}
	return nil
}

func (handler *Handler) setUnlockCookie(c *fiber.Ctx) error {
	now := handler.clock()
	token, err := handler.buildUnlockToken(now)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     lockCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  now.Add(unlockTokenTTL),
	})
	return nil
}

func (handler *Handler) clearUnlockCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     lockCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Unix(0, 0),
	})
}
