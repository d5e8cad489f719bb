package handler

import (
	"go-pos-core/internal/model"
	"go-pos-core/internal/repository"
	"go-pos-core/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.CatalogService
}

func NewProductHandler(s service.CatalogService) *ProductHandler {
	return &ProductHandler{service: s}
}

func visibility(c *fiber.Ctx) model.Visibility {
	if c.QueryBool("include_inactive") {
		return model.IncludeInactive
	}
	return model.ActiveOnly
}

// GetProducts lists the catalog
// GET /api/v1/products?category=&low_stock=&include_inactive=
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(repository.ProductFilter{
		Visibility: visibility(c),
		Category:   c.Query("category"),
		LowStock:   c.QueryBool("low_stock"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/low-stock
func (h *ProductHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.service.ListLowStock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GetProduct looks up by numeric id, or by SKU with ?by=sku
// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	var (
		product *model.Product
		err     error
	)
	if c.Query("by") == "sku" {
		product, err = h.service.GetProductBySKU(c.Params("id"), visibility(c))
	} else {
		id, perr := parseID(c, "id")
		if perr != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
		}
		product, err = h.service.GetProduct(id, visibility(c))
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.CreateProduct(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateProduct(id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

// POST /api/v1/products/:id/deactivate
func (h *ProductHandler) DeactivateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	if err := h.service.DeactivateProduct(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deactivated"})
}
