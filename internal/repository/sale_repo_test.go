package repository

import (
	"testing"
	"time"

	"go-pos-core/internal/model"
	"go-pos-core/internal/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type saleFixture struct {
	db      *gorm.DB
	sales   SaleRepository
	account *model.Account
	product *model.Product
}

func newSaleFixture(t *testing.T) *saleFixture {
	db := testdb.Open(t)
	f := &saleFixture{db: db, sales: NewSaleRepo(db), account: newAccount("cashier"), product: newProduct("P0", 50, 10)}
	require.NoError(t, NewAccountRepo(db).Create(f.account))
	require.NoError(t, NewProductRepo(db).Create(f.product))
	return f
}

func (f *saleFixture) commit(t *testing.T, at time.Time, qty int, price string) *model.Sale {
	t.Helper()
	lines := []model.SaleLine{{ProductID: f.product.ID, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}}
	s := &model.Sale{
		AccountID:     f.account.ID,
		SoldAt:        at.UTC(),
		TotalAmount:   model.SumLines(lines),
		PaymentMethod: model.PaymentCash,
		Lines:         lines,
	}
	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error { return f.sales.Create(tx, s) }))
	return s
}

func day(d, h int) time.Time {
	return time.Date(2024, 1, d, h, 0, 0, 0, time.UTC)
}

func TestSaleCreateAndFind(t *testing.T) {
	f := newSaleFixture(t)
	s := f.commit(t, day(1, 9), 20, "45.00")
	require.NotZero(t, s.ID)

	got, err := f.sales.FindByID(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "900.00", got.TotalAmount.StringFixed(2))
	require.Len(t, got.Lines, 1)
	assert.Equal(t, s.ID, got.Lines[0].SaleID)
	require.NotNil(t, got.Lines[0].Product)
	assert.Equal(t, "P0", got.Lines[0].Product.SKU)
	require.NotNil(t, got.Account)
	assert.Equal(t, "cashier", got.Account.Username)

	_, err = f.sales.FindByID(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaleListRangeAndOrder(t *testing.T) {
	f := newSaleFixture(t)
	first := f.commit(t, day(1, 0), 1, "10.00")
	last := f.commit(t, time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC), 1, "20.00")
	f.commit(t, day(2, 0), 1, "40.00")

	rng, err := model.ParseDateRange("2024-01-01", "2024-01-01", time.UTC)
	require.NoError(t, err)

	sales, err := f.sales.List(rng)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, last.ID, sales[0].ID, "newest first")
	assert.Equal(t, first.ID, sales[1].ID)

	total, err := f.sales.TotalAmount(rng)
	require.NoError(t, err)
	assert.Equal(t, "30.00", total.StringFixed(2))

	all, err := f.sales.TotalAmount(model.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, "70.00", all.StringFixed(2))

	n, err := f.sales.Count(model.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	empty, err := model.ParseDateRange("2025-01-01", "", time.UTC)
	require.NoError(t, err)
	none, err := f.sales.TotalAmount(empty)
	require.NoError(t, err)
	assert.True(t, none.IsZero())
}

func TestSaleDelete(t *testing.T) {
	f := newSaleFixture(t)
	s := f.commit(t, day(1, 9), 2, "5.00")

	err := f.db.Transaction(func(tx *gorm.DB) error {
		locked, err := f.sales.FindForReversal(tx, s.ID)
		require.NoError(t, err)
		assert.Len(t, locked.Lines, 1)
		return f.sales.Delete(tx, s.ID)
	})
	require.NoError(t, err)

	var lines int64
	require.NoError(t, f.db.Model(&model.SaleLine{}).Where("sale_id = ?", s.ID).Count(&lines).Error)
	assert.Zero(t, lines)

	err = f.db.Transaction(func(tx *gorm.DB) error {
		_, err := f.sales.FindForReversal(tx, s.ID)
		return err
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaleIdempotencyKeyIsUnique(t *testing.T) {
	f := newSaleFixture(t)
	key := "term-1-0001"
	newSale := func() *model.Sale {
		lines := []model.SaleLine{{ProductID: f.product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("1.00")}}
		return &model.Sale{
			AccountID:      f.account.ID,
			SoldAt:         day(1, 9),
			TotalAmount:    model.SumLines(lines),
			PaymentMethod:  model.PaymentCash,
			Lines:          lines,
			IdempotencyKey: &key,
		}
	}

	first := newSale()
	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error { return f.sales.Create(tx, first) }))

	err := f.db.Transaction(func(tx *gorm.DB) error { return f.sales.Create(tx, newSale()) })
	assert.ErrorIs(t, err, ErrDuplicateSaleKey)

	got, err := f.sales.FindByIdempotencyKey(f.db, key)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = f.sales.FindByIdempotencyKey(f.db, "other")
	assert.ErrorIs(t, err, ErrNotFound)

	// Sales without a key all store NULL.
	f.commit(t, day(1, 10), 1, "1.00")
	f.commit(t, day(1, 11), 1, "1.00")
}
