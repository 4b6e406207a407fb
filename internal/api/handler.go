package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/terraincognita07/cyclemate/internal/i18n"
	"github.com/terraincognita07/cyclemate/internal/services"
)

const (
	lockCookieName     = "cyclemate_unlock"
	languageCookieName = "cyclemate_lang"
	contextLanguageKey = "current_language"

	unlockTokenTTL      = 12 * time.Hour
	unlockAttemptLimit  = 5
	unlockAttemptWindow = 15 * time.Minute
)

type Dependencies struct {
	State        *services.StateService
	Lock         *services.LockService
	I18n         *i18n.Manager
	Location     *time.Location
	SecretKey    string
	CookieSecure bool
	Digest       services.DigestOptions
	// Clock defaults to time.Now.
	Clock func() time.Time
}

type Handler struct {
	state         *services.StateService
	lock          *services.LockService
	i18n          *i18n.Manager
	location      *time.Location
	secretKey     []byte
	cookieSecure  bool
	digest        services.DigestOptions
	clock         func() time.Time
	validate      *validator.Validate
	unlockLimiter *attemptLimiter
}

func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.State == nil || deps.Lock == nil {
		return nil, errors.New("state and lock services are required")
	}
	if len(deps.SecretKey) < 32 {
		return nil, errors.New("secret key must be at least 32 characters")
	}

	handler := &Handler{
		state:         deps.State,
		lock:          deps.Lock,
		i18n:          deps.I18n,
		location:      deps.Location,
		secretKey:     []byte(deps.SecretKey),
		cookieSecure:  deps.CookieSecure,
		digest:        deps.Digest,
		clock:         deps.Clock,
		validate:      validator.New(),
		unlockLimiter: newAttemptLimiter(unlockAttemptLimit, unlockAttemptWindow),
	}
	if handler.i18n == nil {
		handler.i18n = i18n.Default()
	}
	if handler.location == nil {
		handler.location = time.UTC
	}
	if handler.clock == nil {
		handler.clock = time.Now
	}
	return handler, nil
}

// now is the current instant in the configured timezone.
func (handler *Handler) now() time.Time {
	return handler.clock().In(handler.location)
}
