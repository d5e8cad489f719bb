package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReport is the read-only snapshot handed to document generators.
type SalesReport struct {
	Range       string          `json:"range"`
	GeneratedAt time.Time       `json:"generated_at"`
	Rows        []SalesRow      `json:"rows"`
	Total       decimal.Decimal `json:"total"`
}

type SalesRow struct {
	SaleID        uint            `json:"sale_id"`
	SoldAt        time.Time       `json:"sold_at"`
	Cashier       string          `json:"cashier"`
	PaymentMethod string          `json:"payment_method"`
	Remarks       string          `json:"remarks,omitempty"`
	Lines         []SalesRowLine  `json:"lines"`
	Total         decimal.Decimal `json:"total"`
}

type SalesRowLine struct {
	ProductID uint            `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// NewSalesRow resolves line subtotals from captured unit prices.
func NewSalesRow(s Sale) SalesRow {
	row := SalesRow{
		SaleID:        s.ID,
		SoldAt:        s.SoldAt,
		PaymentMethod: s.PaymentMethod,
		Remarks:       s.Remarks,
		Total:         s.TotalAmount,
		Lines:         make([]SalesRowLine, 0, len(s.Lines)),
	}
	if s.Account != nil {
		row.Cashier = s.Account.Username
	}
	for _, l := range s.Lines {
		line := SalesRowLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal(),
		}
		if l.Product != nil {
			line.SKU = l.Product.SKU
			line.Name = l.Product.Name
		}
		row.Lines = append(row.Lines, line)
	}
	return row
}
