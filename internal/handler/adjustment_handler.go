package handler

import (
	"go-pos-core/internal/middleware"
	"go-pos-core/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AdjustmentHandler struct {
	service service.AdjustmentService
}

func NewAdjustmentHandler(s service.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{service: s}
}

// POST /api/v1/stock-adjustments
func (h *AdjustmentHandler) CreateAdjustment(c *fiber.Ctx) error {
	var req service.AdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.CreatedBy = middleware.AccountID(c)

	adj, err := h.service.ApplyAdjustment(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock adjusted", "data": adj})
}

// GET /api/v1/products/:id/adjustments?limit=
func (h *AdjustmentHandler) GetAdjustments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	adjustments, err := h.service.ListAdjustments(id, c.QueryInt("limit", 100))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(adjustments)
}
