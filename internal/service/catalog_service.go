package service

import (
	"strconv"
	"strings"
	"time"

	"go-pos-core/internal/event"
	"go-pos-core/internal/model"
	"go-pos-core/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CatalogService interface {
	CreateProduct(req CreateProductRequest) (*model.Product, error)
	UpdateProduct(id uint, req UpdateProductRequest) (*model.Product, error)
	DeactivateProduct(id uint) error
	GetProduct(id uint, vis model.Visibility) (*model.Product, error)
	GetProductBySKU(sku string, vis model.Visibility) (*model.Product, error)
	ListProducts(filter repository.ProductFilter) ([]model.Product, error)
	ListLowStock() ([]model.Product, error)
	Stats() (*repository.DashboardStats, error)
}

type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required,notblank,max=50"`
	Name         string          `json:"name" validate:"required,notblank,max=255"`
	Category     string          `json:"category" validate:"max=100"`
	Price        decimal.Decimal `json:"price" validate:"gte=0"`
	Cost         decimal.Decimal `json:"cost" validate:"gte=0"`
	StockQty     int             `json:"stock_qty" validate:"gte=0"`
	ReorderLevel int             `json:"reorder_level" validate:"gte=0"`
}

// UpdateProductRequest overwrites every editable field. SKU may be echoed back but not changed.
type UpdateProductRequest struct {
	SKU          string          `json:"sku,omitempty"`
	Name         string          `json:"name" validate:"required,notblank,max=255"`
	Category     string          `json:"category" validate:"max=100"`
	Price        decimal.Decimal `json:"price" validate:"gte=0"`
	Cost         decimal.Decimal `json:"cost" validate:"gte=0"`
	ReorderLevel int             `json:"reorder_level" validate:"gte=0"`
}

type catalogService struct {
	products repository.ProductRepository
	pub      event.Publisher
	log      *zap.Logger
	now      func() time.Time
}

func NewCatalogService(products repository.ProductRepository, pub event.Publisher, log *zap.Logger) CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &catalogService{products: products, pub: pub, log: log, now: time.Now}
}

func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// validMoney accepts non-negative amounts with at most two decimal places.
func validMoney(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Round(2))
}

func (s *catalogService) CreateProduct(req CreateProductRequest) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if !validMoney(req.Price) || !validMoney(req.Cost) {
		return nil, ErrInvalidPrice
	}

	p := &model.Product{
		SKU:          normalizeSKU(req.SKU),
		Name:         strings.TrimSpace(req.Name),
		Category:     strings.TrimSpace(req.Category),
		Price:        req.Price,
		Cost:         req.Cost,
		StockQty:     req.StockQty,
		ReorderLevel: req.ReorderLevel,
		Status:       model.ProductActive,
	}
	if err := s.products.Create(p); err != nil {
		return nil, err
	}

	s.log.Info("product created", zap.Uint("product_id", p.ID), zap.String("sku", p.SKU))
	s.changed(p, "created")
	return p, nil
}

func (s *catalogService) UpdateProduct(id uint, req UpdateProductRequest) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if !validMoney(req.Price) || !validMoney(req.Cost) {
		return nil, ErrInvalidPrice
	}

	existing, err := s.products.FindByID(id, model.IncludeInactive)
	if err != nil {
		return nil, err
	}
	if req.SKU != "" && normalizeSKU(req.SKU) != existing.SKU {
		return nil, ErrSKUImmutable
	}

	existing.Name = strings.TrimSpace(req.Name)
	existing.Category = strings.TrimSpace(req.Category)
	existing.Price = req.Price
	existing.Cost = req.Cost
	existing.ReorderLevel = req.ReorderLevel
	if err := s.products.Update(existing); err != nil {
		return nil, err
	}

	updated, err := s.products.FindByID(id, model.IncludeInactive)
	if err != nil {
		return nil, err
	}
	s.changed(updated, "updated")
	return updated, nil
}

// DeactivateProduct is idempotent; sale lines keep resolving the product.
func (s *catalogService) DeactivateProduct(id uint) error {
	if err := s.products.Deactivate(id); err != nil {
		return err
	}
	s.log.Info("product deactivated", zap.Uint("product_id", id))
	publish(s.log, s.pub, event.ProductChanged, strconv.FormatUint(uint64(id), 10),
		map[string]interface{}{"product_id": id, "action": "deactivated"}, s.now())
	return nil
}

func (s *catalogService) GetProduct(id uint, vis model.Visibility) (*model.Product, error) {
	return s.products.FindByID(id, vis)
}

func (s *catalogService) GetProductBySKU(sku string, vis model.Visibility) (*model.Product, error) {
	return s.products.FindBySKU(sku, vis)
}

func (s *catalogService) ListProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.products.List(filter)
}

func (s *catalogService) ListLowStock() ([]model.Product, error) {
	return s.products.List(repository.ProductFilter{Visibility: model.ActiveOnly, LowStock: true})
}

func (s *catalogService) Stats() (*repository.DashboardStats, error) {
	return s.products.GetDashboardStats()
}

func (s *catalogService) changed(p *model.Product, action string) {
	publish(s.log, s.pub, event.ProductChanged, strconv.FormatUint(uint64(p.ID), 10), map[string]interface{}{
		"product_id": p.ID,
		"sku":        p.SKU,
		"name":       p.Name,
		"price":      p.Price,
		"stock_qty":  p.StockQty,
		"action":     action,
	}, s.now())
}
