package repository

import (
	"errors"
	"strings"

	"go-pos-core/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uint, vis model.Visibility) (*model.Product, error)
	FindBySKU(sku string, vis model.Visibility) (*model.Product, error)
	FindByIDs(tx *gorm.DB, ids []uint) ([]model.Product, error)
	List(filter ProductFilter) ([]model.Product, error)
	Update(product *model.Product) error
	Deactivate(id uint) error
	AdjustStock(tx *gorm.DB, id uint, delta int, opts AdjustOptions) (int, error)
	GetDashboardStats() (*DashboardStats, error)
}

// ProductFilter narrows List. Zero value lists every active product.
type ProductFilter struct {
	Visibility model.Visibility
	Category   string
	LowStock   bool
}

// AdjustOptions guards the atomic stock update.
type AdjustOptions struct {
	// ActiveOnly makes inactive products behave as missing.
	ActiveOnly bool
	// RejectNegative refuses deltas that would take stock below zero.
	RejectNegative bool
}

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalProducts  int64           `json:"total_products"`
	LowStockCount  int64           `json:"low_stock_count"`
	StockValuation decimal.Decimal `json:"stock_valuation"`
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func scoped(db *gorm.DB, vis model.Visibility) *gorm.DB {
	if vis == model.ActiveOnly {
		return db.Where("status = ?", model.ProductActive)
	}
	return db
}

func (r *productRepo) Create(product *model.Product) error {
	var count int64
	if err := r.db.Model(&model.Product{}).Where("sku = ?", product.SKU).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateSKU
	}
	if product.Status == "" {
		product.Status = model.ProductActive
	}
	if err := r.db.Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSKU
		}
		return err
	}
	return nil
}

func (r *productRepo) FindByID(id uint, vis model.Visibility) (*model.Product, error) {
	var product model.Product
	if err := scoped(r.db, vis).First(&product, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string, vis model.Visibility) (*model.Product, error) {
	var product model.Product
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if err := scoped(r.db, vis).First(&product, "sku = ?", sku).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// FindByIDs loads products regardless of status, for resolving lines inside a transaction.
func (r *productRepo) FindByIDs(tx *gorm.DB, ids []uint) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := tx.Where("id IN ?", ids).Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) List(filter ProductFilter) ([]model.Product, error) {
	var products []model.Product
	q := scoped(r.db.Model(&model.Product{}), filter.Visibility)
	if c := strings.TrimSpace(filter.Category); c != "" {
		q = q.Where("category = ?", c)
	}
	if filter.LowStock {
		q = q.Where("stock_qty <= reorder_level")
	}
	err := q.Order("name ASC").Order("id ASC").Find(&products).Error
	return products, err
}

// Update overwrites the editable fields. SKU, stock and status are never written here.
func (r *productRepo) Update(product *model.Product) error {
	res := r.db.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Select("name", "category", "price", "cost", "reorder_level", "updated_at").
		Updates(product)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) Deactivate(id uint) error {
	res := r.db.Model(&model.Product{}).Where("id = ?", id).Update("status", model.ProductInactive)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustStock applies delta as a single UPDATE so concurrent callers never lose an
// increment, then reads back the quantity the statement produced. It must run on tx.
func (r *productRepo) AdjustStock(tx *gorm.DB, id uint, delta int, opts AdjustOptions) (int, error) {
	q := tx.Model(&model.Product{}).Where("id = ?", id)
	if opts.ActiveOnly {
		q = q.Where("status = ?", model.ProductActive)
	}
	if opts.RejectNegative && delta < 0 {
		q = q.Where("stock_qty + ? >= 0", delta)
	}

	res := q.Update("stock_qty", gorm.Expr("stock_qty + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, r.explainMiss(tx, id, opts)
	}

	var after struct{ StockQty int }
	if err := tx.Model(&model.Product{}).Select("stock_qty").Where("id = ?", id).Scan(&after).Error; err != nil {
		return 0, err
	}
	return after.StockQty, nil
}

// explainMiss tells a missing row apart from a guard that refused the update.
func (r *productRepo) explainMiss(tx *gorm.DB, id uint, opts AdjustOptions) error {
	var p model.Product
	if err := tx.Select("id", "status").First(&p, "id = ?", id).Error; err != nil {
		return notFound(err)
	}
	if opts.ActiveOnly && !p.IsActive() {
		return ErrNotFound
	}
	return ErrInsufficientStock
}

func (r *productRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats
	active := func() *gorm.DB {
		return r.db.Model(&model.Product{}).Where("status = ?", model.ProductActive)
	}

	if err := active().Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := active().Where("stock_qty <= reorder_level").Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	// Valuation at cost; negative stock contributes nothing.
	var valuation struct{ Total decimal.Decimal }
	err := active().
		Select("COALESCE(SUM(CASE WHEN stock_qty > 0 THEN stock_qty * cost ELSE 0 END), 0) AS total").
		Scan(&valuation).Error
	if err != nil {
		return nil, err
	}
	stats.StockValuation = valuation.Total.Round(2)

	return &stats, nil
}
