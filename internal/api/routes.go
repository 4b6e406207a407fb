package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Use("/api", handler.LanguageMiddleware)
	registerLockRoutes(app, handler)
	registerAPIRoutes(app, handler)
}

func registerLockRoutes(app *fiber.App, handler *Handler) {
	lock := app.Group("/api/lock")
	lock.Get("/status", handler.LockStatus)
	lock.Post("/setup", handler.SetupLock)
	lock.Post("/unlock", handler.Unlock)
	lock.Post("/lock", handler.Relock)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api", handler.LockRequired)

	api.Get("/state", handler.GetState)
	api.Get("/days/:date", handler.GetDay)
	api.Get("/calendar", handler.GetCalendar)
	api.Get("/stats", handler.GetStats)

	periods := api.Group("/periods")
	periods.Post("/start", handler.MarkPeriodStart)
	periods.Post("/end", handler.MarkPeriodEnd)
	periods.Delete("/:date", handler.DeletePeriod)

	reminders := api.Group("/reminders")
	reminders.Get("", handler.ListReminders)
	reminders.Post("/:type/toggle", handler.ToggleReminder)
	reminders.Post("/:type/frequency", handler.SetReminderFrequency)
	reminders.Post("/:type/done", handler.MarkReminderDone)
	reminders.Delete("/:type/done/:date", handler.ClearReminderDone)
	reminders.Post("/:type/notes", handler.AddReminderNote)
	reminders.Delete("/:type/notes/:id", handler.DeleteReminderNote)
	reminders.Post("/:type/plans/prune", handler.PrunePlannedDates)
	reminders.Post("/:type/plans", handler.AddPlannedDate)
	reminders.Delete("/:type/plans/:date", handler.DeletePlannedDate)

	api.Get("/notifications/today", handler.TodayNotifications)

	api.Get("/export/periods", handler.ExportPeriods)
	api.Get("/export/state", handler.ExportState)

	importantDates := api.Group("/important-dates")
	importantDates.Get("", handler.ListImportantDates)
	importantDates.Post("", handler.AddImportantDate)
	importantDates.Delete("/:id", handler.DeleteImportantDate)
}
