package model

import "time"

// StockAdjustment is an append-only record of a non-sale stock change.
// Positive deltas are receiving, negative deltas are shrinkage or corrections.
type StockAdjustment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	QtyDelta   int       `gorm:"not null" json:"qty_delta"`
	StockAfter int       `gorm:"not null" json:"stock_after"`
	Reason     string    `gorm:"type:varchar(255)" json:"reason"`
	CreatedBy  uint      `gorm:"not null;index" json:"created_by"`
	Creator    *Account  `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}
