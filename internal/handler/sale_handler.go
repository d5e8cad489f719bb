package handler

import (
	"time"

	"go-pos-core/internal/middleware"
	"go-pos-core/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	service service.SaleService
	loc     *time.Location
}

func NewSaleHandler(s service.SaleService, loc *time.Location) *SaleHandler {
	return &SaleHandler{service: s, loc: loc}
}

// CommitSale records a sale for the authenticated account.
// POST /api/v1/sales (optional Idempotency-Key header)
func (h *SaleHandler) CommitSale(c *fiber.Ctx) error {
	var req service.SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.AccountID = middleware.AccountID(c)
	req.IdempotencyKey = c.Get("Idempotency-Key")

	sale, err := h.service.CommitSale(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Sale committed", "data": sale})
}

// GET /api/v1/sales?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	rng, err := dateRange(c, h.loc)
	if err != nil {
		return respondError(c, err)
	}
	sales, err := h.service.ListSales(rng)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sales)
}

func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}
	sale, err := h.service.GetSale(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

// POST /api/v1/sales/:id/reverse
func (h *SaleHandler) ReverseSale(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}
	if err := h.service.ReverseSale(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sale reversed"})
}
