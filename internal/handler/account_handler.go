package handler

import (
	"go-pos-core/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AccountHandler struct {
	service service.AccountService
}

func NewAccountHandler(s service.AccountService) *AccountHandler {
	return &AccountHandler{service: s}
}

type ChangePasswordRequest struct {
	Password string `json:"password"`
}

func (h *AccountHandler) GetAccounts(c *fiber.Ctx) error {
	accounts, err := h.service.ListAccounts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(accounts)
}

func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid account ID"})
	}
	account, err := h.service.GetAccount(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(account)
}

func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	var req service.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	account, err := h.service.CreateAccount(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Account created", "data": account})
}

func (h *AccountHandler) UpdateAccount(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid account ID"})
	}
	var req service.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	account, err := h.service.UpdateAccount(id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Account updated", "data": account})
}

// PUT /api/v1/accounts/:id/password
func (h *AccountHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid account ID"})
	}
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.ChangePassword(id, req.Password); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

func (h *AccountHandler) DeleteAccount(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid account ID"})
	}
	if err := h.service.DeleteAccount(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Account deleted"})
}
