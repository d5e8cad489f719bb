package repository

import (
	"errors"

	"go-pos-core/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindByID(id uint) (*model.Sale, error)
	FindByIdempotencyKey(tx *gorm.DB, key string) (*model.Sale, error)
	FindForReversal(tx *gorm.DB, id uint) (*model.Sale, error)
	Delete(tx *gorm.DB, id uint) error
	List(rng model.DateRange) ([]model.Sale, error)
	TotalAmount(rng model.DateRange) (decimal.Decimal, error)
	Count(rng model.DateRange) (int64, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// applyRange turns the day range into parameterized [from, until) predicates on sold_at.
func applyRange(db *gorm.DB, rng model.DateRange) *gorm.DB {
	from, until := rng.Bounds()
	if from != nil {
		db = db.Where("sold_at >= ?", *from)
	}
	if until != nil {
		db = db.Where("sold_at < ?", *until)
	}
	return db
}

func withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Account").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Lines.Product")
}

// Create inserts the header, then the lines in their given order. A header whose
// idempotency key is already stored fails with ErrDuplicateSaleKey.
func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	if err := tx.Omit(clause.Associations).Create(sale).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSaleKey
		}
		return err
	}
	for i := range sale.Lines {
		sale.Lines[i].SaleID = sale.ID
	}
	return tx.Omit(clause.Associations).Create(&sale.Lines).Error
}

func (r *saleRepo) FindByID(id uint) (*model.Sale, error) {
	var sale model.Sale
	if err := withLines(r.db).First(&sale, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sale, nil
}

// FindByIdempotencyKey runs on tx so a commit can check the key inside its own transaction.
func (r *saleRepo) FindByIdempotencyKey(tx *gorm.DB, key string) (*model.Sale, error) {
	var sale model.Sale
	if err := tx.First(&sale, "idempotency_key = ?", key).Error; err != nil {
		return nil, notFound(err)
	}
	return &sale, nil
}

// FindForReversal locks the header row so two reversals of one sale serialize.
func (r *saleRepo) FindForReversal(tx *gorm.DB, id uint) (*model.Sale, error) {
	var sale model.Sale
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	if err := tx.Where("sale_id = ?", id).Order("id ASC").Find(&sale.Lines).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// Delete removes lines before the header. A header already gone is ErrNotFound.
func (r *saleRepo) Delete(tx *gorm.DB, id uint) error {
	if err := tx.Where("sale_id = ?", id).Delete(&model.SaleLine{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&model.Sale{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *saleRepo) List(rng model.DateRange) ([]model.Sale, error) {
	var sales []model.Sale
	err := withLines(applyRange(r.db, rng)).
		Order("sold_at DESC").Order("id DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) TotalAmount(rng model.DateRange) (decimal.Decimal, error) {
	var out struct{ Total decimal.Decimal }
	err := applyRange(r.db.Model(&model.Sale{}), rng).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Scan(&out).Error
	if err != nil {
		return decimal.Zero, err
	}
	return out.Total.Round(2), nil
}

func (r *saleRepo) Count(rng model.DateRange) (int64, error) {
	var n int64
	err := applyRange(r.db.Model(&model.Sale{}), rng).Count(&n).Error
	return n, err
}
