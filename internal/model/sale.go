package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Common payment method tags. Other non-empty tags are accepted as-is.
const (
	PaymentCash     = "CASH"
	PaymentCard     = "CARD"
	PaymentTransfer = "TRANSFER"
)

// Sale is immutable once committed; the only later change is a full reversal,
// which removes the header and its lines.
type Sale struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	AccountID     uint            `gorm:"not null;index" json:"account_id"`
	Account       *Account        `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	SoldAt        time.Time       `gorm:"not null;index" json:"sold_at"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaymentMethod string          `gorm:"type:varchar(20);not null" json:"payment_method"`
	Remarks       string          `gorm:"type:text" json:"remarks"`
	Lines         []SaleLine      `gorm:"foreignKey:SaleID" json:"lines"`

	// IdempotencyKey is the client retry key, NULL when none was sent.
	IdempotencyKey *string `gorm:"type:varchar(128);uniqueIndex" json:"-"`
}

// SaleLine keeps the unit price captured at commit time, independent of later
// price edits on the product.
type SaleLine struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	SaleID    uint            `gorm:"not null;index" json:"sale_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
}

func (l SaleLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SumLines is the only way a sale total is computed.
func SumLines(lines []SaleLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
