package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/terraincognita07/cyclemate/internal/security"
)

var ErrInvalidTimezone = errors.New("invalid timezone")

// Config holds all application configuration, read from the environment and
// an optional .env file.
type Config struct {
	Port                  string        `mapstructure:"PORT" validate:"required,numeric"`
	DBPath                string        `mapstructure:"DB_PATH" validate:"required"`
	Timezone              string        `mapstructure:"TZ" validate:"required"`
	DefaultLanguage       string        `mapstructure:"DEFAULT_LANGUAGE" validate:"oneof=en ru"`
	SecretKey             string        `mapstructure:"SECRET_KEY"`
	CookieSecure          bool          `mapstructure:"COOKIE_SECURE"`
	LogLevel              string        `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn warning error fatal panic"`
	Environment           string        `mapstructure:"ENVIRONMENT" validate:"required"`
	RedisURL              string        `mapstructure:"REDIS_URL" validate:"omitempty,url"`
	TelegramBotToken      string        `mapstructure:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID        string        `mapstructure:"TELEGRAM_CHAT_ID" validate:"required_with=TelegramBotToken"`
	NotifyHour            int           `mapstructure:"NOTIFY_HOUR" validate:"gte=0,lte=23"`
	PrePeriodAlertDays    int           `mapstructure:"PRE_PERIOD_ALERT_DAYS" validate:"gte=0,lte=14"`
	ImportantDateLeadDays int           `mapstructure:"IMPORTANT_DATE_LEAD_DAYS" validate:"gte=0,lte=30"`
	SaveDebounce          time.Duration `mapstructure:"SAVE_DEBOUNCE" validate:"gte=0"`

	Location           *time.Location `mapstructure:"-"`
	SecretKeyGenerated bool           `mapstructure:"-"`
}

var defaults = map[string]any{
	"PORT":                     "8080",
	"DB_PATH":                  "data/cyclemate.db",
	"TZ":                       "UTC",
	"DEFAULT_LANGUAGE":         "en",
	"SECRET_KEY":               "",
	"COOKIE_SECURE":            false,
	"LOG_LEVEL":                "info",
	"ENVIRONMENT":              "development",
	"REDIS_URL":                "",
	"TELEGRAM_BOT_TOKEN":       "",
	"TELEGRAM_CHAT_ID":         "",
	"NOTIFY_HOUR":              9,
	"PRE_PERIOD_ALERT_DAYS":    2,
	"IMPORTANT_DATE_LEAD_DAYS": 3,
	"SAVE_DEBOUNCE":            "2s",
}

// Load reads configuration from environment variables and a .env file (if
// present). Existing environment variables win over the .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromViper(viper.New())
}

func FromViper(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.DefaultLanguage = strings.ToLower(strings.TrimSpace(cfg.DefaultLanguage))

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTimezone, cfg.Timezone, err)
	}
	cfg.Location = location

	if strings.TrimSpace(cfg.SecretKey) == "" {
		generated, err := security.NewSecretKey()
		if err != nil {
			return nil, fmt.Errorf("generate secret key: %w", err)
		}
		cfg.SecretKey = generated
		cfg.SecretKeyGenerated = true
	}

	return cfg, nil
}

func (cfg *Config) NotificationsEnabled() bool {
	return cfg.TelegramBotToken != "" && cfg.TelegramChatID != ""
}
