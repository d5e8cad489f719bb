package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSumLines(t *testing.T) {
	lines := []SaleLine{
		{Quantity: 20, UnitPrice: decimal.RequireFromString("45.00")},
		{Quantity: 3, UnitPrice: decimal.RequireFromString("0.10")},
	}
	assert.Equal(t, "900.30", SumLines(lines).StringFixed(2))
	assert.True(t, SumLines(nil).IsZero())
}

func TestNewSalesRowResolvesSubtotals(t *testing.T) {
	s := Sale{
		ID:            3,
		Account:       &Account{Username: "cashier"},
		PaymentMethod: PaymentCard,
		TotalAmount:   decimal.RequireFromString("91.00"),
		Lines: []SaleLine{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("45.50"), Product: &Product{SKU: "P1", Name: "Widget"}},
		},
	}

	row := NewSalesRow(s)
	assert.Equal(t, "cashier", row.Cashier)
	assert.Equal(t, "Widget", row.Lines[0].Name)
	assert.Equal(t, "91.00", row.Lines[0].Subtotal.StringFixed(2))
}

func TestProductLowStock(t *testing.T) {
	p := Product{StockQty: 10, ReorderLevel: 10}
	assert.True(t, p.IsLowStock())
	p.StockQty = 11
	assert.False(t, p.IsLowStock())
}
