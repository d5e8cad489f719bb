package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-pos-core/internal/event"
	"go-pos-core/internal/model"
	"go-pos-core/internal/repository"
	"go-pos-core/internal/testdb"
	"go-pos-core/pkg/credential"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type memIdempotency struct {
	mu   sync.Mutex
	keys map[string]uint
}

func (m *memIdempotency) Lookup(_ context.Context, key string) (uint, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.keys[key]
	return id, ok, nil
}

func (m *memIdempotency) Remember(_ context.Context, key string, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys == nil {
		m.keys = map[string]uint{}
	}
	if _, ok := m.keys[key]; !ok {
		m.keys[key] = id
	}
	return nil
}

type fixture struct {
	db          *gorm.DB
	products    repository.ProductRepository
	accounts    repository.AccountRepository
	saleRepo    repository.SaleRepository
	adjRepo     repository.AdjustmentRepository
	events      *recorder
	hasher      credential.Hasher
	clock       time.Time
	catalog     CatalogService
	sales       SaleService
	adjustments AdjustmentService
	reports     ReportService
	cashier     *model.Account
}

func newFixture(t *testing.T, opts ...SaleOption) *fixture {
	t.Helper()
	db := testdb.Open(t)
	f := &fixture{
		db:       db,
		products: repository.NewProductRepo(db),
		accounts: repository.NewAccountRepo(db),
		saleRepo: repository.NewSaleRepo(db),
		adjRepo:  repository.NewAdjustmentRepo(db),
		events:   &recorder{},
		hasher:   credential.NewBcrypt(bcrypt.MinCost),
		clock:    time.Date(2024, 6, 1, 10, 30, 15, 500, time.UTC),
	}
	now := func() time.Time { return f.clock }

	f.catalog = NewCatalogService(f.products, f.events, nil)
	f.sales = NewSaleService(db, f.products, f.saleRepo, f.accounts, f.events, nil, append([]SaleOption{WithClock(now)}, opts...)...)
	f.adjustments = NewAdjustmentService(db, f.products, f.adjRepo, f.accounts, f.events, nil)
	f.adjustments.(*adjustmentService).now = now
	f.reports = NewReportService(f.saleRepo, f.products)
	f.reports.(*reportService).now = now

	f.cashier = &model.Account{Username: "cashier", PasswordHash: "x", Role: model.RoleStaff}
	require.NoError(t, f.accounts.Create(f.cashier))
	return f
}

func (f *fixture) product(t *testing.T, sku string, stock, reorder int, price string) *model.Product {
	t.Helper()
	p, err := f.catalog.CreateProduct(CreateProductRequest{
		SKU:          sku,
		Name:         "Product " + sku,
		Price:        decimal.RequireFromString(price),
		Cost:         decimal.RequireFromString("1.00"),
		StockQty:     stock,
		ReorderLevel: reorder,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) stock(t *testing.T, id uint) int {
	t.Helper()
	p, err := f.products.FindByID(id, model.IncludeInactive)
	require.NoError(t, err)
	return p.StockQty
}

func (f *fixture) sell(t *testing.T, lines ...LineRequest) *model.Sale {
	t.Helper()
	s, err := f.sales.CommitSale(context.Background(), SaleRequest{AccountID: f.cashier.ID, Lines: lines})
	require.NoError(t, err)
	return s
}

func line(p *model.Product, qty int, price string) LineRequest {
	return LineRequest{ProductID: p.ID, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

func (f *fixture) countSales(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.Sale{}).Count(&n).Error)
	return n
}

func (f *fixture) countLines(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.SaleLine{}).Count(&n).Error)
	return n
}
