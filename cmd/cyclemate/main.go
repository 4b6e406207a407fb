package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclemate/internal/api"
	"github.com/terraincognita07/cyclemate/internal/cli"
	"github.com/terraincognita07/cyclemate/internal/config"
	"github.com/terraincognita07/cyclemate/internal/db"
	"github.com/terraincognita07/cyclemate/internal/i18n"
	"github.com/terraincognita07/cyclemate/internal/logger"
	"github.com/terraincognita07/cyclemate/internal/notify"
	"github.com/terraincognita07/cyclemate/internal/persist"
	"github.com/terraincognita07/cyclemate/internal/scheduler"
	"github.com/terraincognita07/cyclemate/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg)

	if len(os.Args) > 1 && os.Args[1] == "reset-passcode" {
		if err := runResetPasscode(cfg, os.Args[2:]); err != nil {
			logger.Log.WithError(err).Fatal("reset passcode failed")
		}
		return
	}

	if err := run(cfg); err != nil {
		logger.Log.WithError(err).Fatal("cyclemate exited")
	}
}

func runResetPasscode(cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("reset-passcode", flag.ContinueOnError)
	prompt := flags.Bool("prompt", false, "read the new passcode from the terminal")
	if err := flags.Parse(args); err != nil {
		return err
	}
	return cli.RunResetPasscodeCommand(cfg.DBPath, *prompt)
}

func run(cfg *config.Config) error {
	if cfg.SecretKeyGenerated {
		logger.Log.Warn("SECRET_KEY not set, unlock sessions will not survive a restart")
	}

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	repositories := db.NewRepositories(database)

	remote, closeRemote, err := openRemote(cfg)
	if err != nil {
		return err
	}
	defer closeRemote()

	syncer := persist.NewSyncer(repositories.State, remote, cfg.SaveDebounce)
	initial, err := syncer.Load(context.Background())
	if err != nil {
		return err
	}
	state := services.NewStateService(initial, syncer)

	i18nManager, err := i18n.NewManager(cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	digestOptions := services.DigestOptions{
		PrePeriodAlertDays:    cfg.PrePeriodAlertDays,
		ImportantDateLeadDays: cfg.ImportantDateLeadDays,
	}
	handler, err := api.NewHandler(api.Dependencies{
		State:        state,
		Lock:         services.NewLockService(repositories.Lock),
		I18n:         i18nManager,
		Location:     cfg.Location,
		SecretKey:    cfg.SecretKey,
		CookieSecure: cfg.CookieSecure,
		Digest:       digestOptions,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := newApp(handler)

	notifier, err := buildNotifier(cfg)
	if err != nil {
		return err
	}
	notifications := services.NewNotificationService(state, notifier, digestOptions, cfg.Location, i18nManager, cfg.DefaultLanguage)

	daily := scheduler.NewDailyScheduler(cfg.Location)
	if err := daily.Schedule(cfg.NotifyHour, func(ctx context.Context) {
		if _, err := notifications.RunDailyCheck(ctx, time.Now()); err != nil {
			logger.Log.WithError(err).Warn("daily notification failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule notifications: %w", err)
	}
	daily.Start()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Log.WithError(err).Warn("server shutdown failed")
		}
	}()

	fields := logrus.Fields{"port": cfg.Port, "db": cfg.DBPath, "tz": cfg.Location.String()}
	if next, ok := daily.Next(); ok {
		fields["next_notification"] = next.Format(time.RFC3339)
	}
	logger.Log.WithFields(fields).Info("cyclemate listening")

	listenErr := app.Listen(":" + cfg.Port)

	daily.Stop()
	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := syncer.Flush(flushCtx); err != nil {
		logger.Log.WithError(err).Error("final state flush failed")
	}

	if listenErr != nil {
		return fmt.Errorf("server exited: %w", listenErr)
	}
	return nil
}

func newApp(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Cyclemate",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{Output: logger.Log.Writer()}))
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)
	return app
}

// openRemote dials the optional Redis mirror. The returned close func is never nil.
func openRemote(cfg *config.Config) (persist.RemoteStore, func(), error) {
	if cfg.RedisURL == "" {
		return nil, func() {}, nil
	}

	client, err := persist.DialRedis(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis init failed: %w", err)
	}
	mirror := persist.NewRedisMirror(client, persist.DefaultRedisKey)

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := mirror.Ping(pingCtx); err != nil {
		logger.Log.WithError(err).Warn("redis mirror unreachable, continuing with local state")
	}

	return mirror, func() { _ = mirror.Close() }, nil
}

func buildNotifier(cfg *config.Config) (services.Notifier, error) {
	if !cfg.NotificationsEnabled() {
		logger.Log.Info("telegram not configured, notifications go to the log")
		return notify.LogNotifier{}, nil
	}

	chatID, err := strconv.ParseInt(strings.TrimSpace(cfg.TelegramChatID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
	}
	notifier, err := notify.NewTelegramNotifier(notify.TelegramSettings{
		Token:  cfg.TelegramBotToken,
		ChatID: chatID,
	})
	if err != nil {
		return nil, fmt.Errorf("telegram init failed: %w", err)
	}
	return notifier, nil
}
