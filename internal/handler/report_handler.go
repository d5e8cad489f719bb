package handler

import (
	"bytes"
	"time"

	"go-pos-core/internal/export"
	"go-pos-core/internal/service"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	service service.ReportService
	loc     *time.Location
}

func NewReportHandler(s service.ReportService, loc *time.Location) *ReportHandler {
	return &ReportHandler{service: s, loc: loc}
}

// GetSummary returns sale count, revenue and inventory stats
// GET /api/v1/reports/summary?start=&end=
func (h *ReportHandler) GetSummary(c *fiber.Ctx) error {
	rng, err := dateRange(c, h.loc)
	if err != nil {
		return respondError(c, err)
	}
	summary, err := h.service.Summary(rng)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GET /api/v1/reports/sales?start=&end=
func (h *ReportHandler) GetSalesReport(c *fiber.Ctx) error {
	rng, err := dateRange(c, h.loc)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.service.Snapshot(rng)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GET /api/v1/reports/sales.xlsx?start=&end=
func (h *ReportHandler) DownloadSalesReport(c *fiber.Ctx) error {
	rng, err := dateRange(c, h.loc)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.service.Snapshot(rng)
	if err != nil {
		return respondError(c, err)
	}

	var buf bytes.Buffer
	if err := export.WriteSalesReport(&buf, report); err != nil {
		return respondError(c, err)
	}
	c.Attachment(export.Filename(report))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(buf.Bytes())
}
