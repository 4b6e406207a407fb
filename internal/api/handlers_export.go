package api

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclemate/internal/services"
)

// ExportPeriods returns recorded periods as CSV, or JSON with ?format=json.
func (handler *Handler) ExportPeriods(c *fiber.Ctx) error {
	from, to, err := services.ParseExportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid range")
	}

	rows := services.BuildPeriodExportRows(handler.state.Snapshot().Cycle.Periods, from, to)
	if c.Query("format") == "json" {
		return c.JSON(fiber.Map{
			"summary": services.BuildExportSummary(rows),
			"periods": rows,
		})
	}

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	if err := writer.Write(services.PeriodExportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	for _, row := range rows {
		if err := writer.Write(services.PeriodExportCSVRecord(row)); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "internal error")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}

	filename := fmt.Sprintf("cyclemate-periods-%s.csv", services.FormatDate(handler.now()))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buffer.Bytes())
}

// ExportState downloads the whole state document as a backup.
func (handler *Handler) ExportState(c *fiber.Ctx) error {
	filename := fmt.Sprintf("cyclemate-state-%s.json", services.FormatDate(handler.now()))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.JSON(handler.state.Snapshot())
}
