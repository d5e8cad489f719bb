package event

import "github.com/shopspring/decimal"

type LinePayload struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type SalePayload struct {
	SaleID        uint            `json:"sale_id"`
	AccountID     uint            `json:"account_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Lines         []LinePayload   `json:"lines"`
}

type StockPayload struct {
	ProductID  uint   `json:"product_id"`
	Delta      int    `json:"delta"`
	StockAfter int    `json:"stock_after"`
	Reason     string `json:"reason,omitempty"`
}
