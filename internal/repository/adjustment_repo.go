package repository

import (
	"go-pos-core/internal/model"

	"gorm.io/gorm"
)

// AdjustmentRepository is append-only: there is no update or delete.
type AdjustmentRepository interface {
	Create(tx *gorm.DB, adj *model.StockAdjustment) error
	FindByProduct(productID uint, limit int) ([]model.StockAdjustment, error)
}

type adjustmentRepo struct {
	db *gorm.DB
}

func NewAdjustmentRepo(db *gorm.DB) AdjustmentRepository {
	return &adjustmentRepo{db}
}

func (r *adjustmentRepo) Create(tx *gorm.DB, adj *model.StockAdjustment) error {
	return tx.Omit("Product", "Creator").Create(adj).Error
}

func (r *adjustmentRepo) FindByProduct(productID uint, limit int) ([]model.StockAdjustment, error) {
	var adjustments []model.StockAdjustment
	q := r.db.Preload("Creator").
		Where("product_id = ?", productID).
		Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&adjustments).Error
	return adjustments, err
}
