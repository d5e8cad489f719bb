package handler

import (
	"go-pos-core/internal/middleware"
	"go-pos-core/internal/model"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth        *AuthHandler
	Products    *ProductHandler
	Sales       *SaleHandler
	Adjustments *AdjustmentHandler
	Reports     *ReportHandler
	Accounts    *AccountHandler
}

// Register mounts the /api/v1 routes. requireAuth guards everything except login.
func Register(app *fiber.App, h Handlers, requireAuth fiber.Handler) {
	api := app.Group("/api/v1")
	priv := middleware.RequirePrivilege

	// ============ PUBLIC ROUTES ============
	api.Post("/auth/login", h.Auth.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)
	protected.Get("/auth/me", h.Auth.Me)
	protected.Post("/auth/logout", h.Auth.Logout)

	// Catalog
	protected.Get("/products", priv(model.PrivProductView), h.Products.GetProducts)
	protected.Get("/products/low-stock", priv(model.PrivProductView), h.Products.GetLowStock)
	protected.Get("/products/:id", priv(model.PrivProductView), h.Products.GetProduct)
	protected.Post("/products", priv(model.PrivProductCreate), h.Products.CreateProduct)
	protected.Put("/products/:id", priv(model.PrivProductUpdate), h.Products.UpdateProduct)
	protected.Post("/products/:id/deactivate", priv(model.PrivProductDeactivate), h.Products.DeactivateProduct)

	// Stock adjustments
	protected.Post("/stock-adjustments", priv(model.PrivStockAdjust), h.Adjustments.CreateAdjustment)
	protected.Get("/products/:id/adjustments", middleware.RequireAnyPrivilege(model.PrivStockAdjust, model.PrivReportView), h.Adjustments.GetAdjustments)

	// Sales
	protected.Post("/sales", priv(model.PrivSaleCreate), h.Sales.CommitSale)
	protected.Get("/sales", priv(model.PrivSaleView), h.Sales.GetSales)
	protected.Get("/sales/:id", priv(model.PrivSaleView), h.Sales.GetSale)
	protected.Post("/sales/:id/reverse", priv(model.PrivSaleReverse), h.Sales.ReverseSale)

	// Reports
	protected.Get("/reports/summary", priv(model.PrivReportView), h.Reports.GetSummary)
	protected.Get("/reports/sales", priv(model.PrivReportView), h.Reports.GetSalesReport)
	protected.Get("/reports/sales.xlsx", priv(model.PrivReportView), h.Reports.DownloadSalesReport)

	// Account management
	accounts := protected.Group("/accounts", priv(model.PrivAccountManage))
	accounts.Get("/", h.Accounts.GetAccounts)
	accounts.Get("/:id", h.Accounts.GetAccount)
	accounts.Post("/", h.Accounts.CreateAccount)
	accounts.Put("/:id", h.Accounts.UpdateAccount)
	accounts.Put("/:id/password", h.Accounts.ChangePassword)
	accounts.Delete("/:id", h.Accounts.DeleteAccount)
}
