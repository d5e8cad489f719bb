package model

import "github.com/shopspring/decimal"

// ProductStatus replaces a raw soft-delete flag. Inactive products stay referenceable
// by historical sale lines but are hidden from catalog listings and lookups.
type ProductStatus string

const (
	ProductActive   ProductStatus = "ACTIVE"
	ProductInactive ProductStatus = "INACTIVE"
)

// Visibility is passed explicitly to every catalog query.
type Visibility int

const (
	ActiveOnly Visibility = iota
	IncludeInactive
)

type Product struct {
	BaseModel
	SKU          string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required,max=50"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Category     string          `gorm:"type:varchar(100);index" json:"category" validate:"max=100"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price" validate:"gte=0"`
	Cost         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost" validate:"gte=0"`
	StockQty     int             `gorm:"not null;default:0" json:"stock_qty"`
	ReorderLevel int             `gorm:"not null;default:0" json:"reorder_level" validate:"gte=0"`
	Status       ProductStatus   `gorm:"type:varchar(10);not null;default:ACTIVE;index" json:"status"`
}

func (p *Product) IsActive() bool {
	return p.Status == ProductActive
}

// IsLowStock reports stock at or below the reorder level.
func (p *Product) IsLowStock() bool {
	return p.StockQty <= p.ReorderLevel
}
