package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go-pos-core/internal/event"
	"go-pos-core/internal/model"
	"go-pos-core/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SaleService interface {
	CommitSale(ctx context.Context, req SaleRequest) (*model.Sale, error)
	ReverseSale(ctx context.Context, id uint) error
	GetSale(id uint) (*model.Sale, error)
	ListSales(rng model.DateRange) ([]model.Sale, error)
}

type LineRequest struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type SaleRequest struct {
	AccountID      uint          `json:"-" validate:"required"`
	Lines          []LineRequest `json:"lines"`
	PaymentMethod  string        `json:"payment_method" validate:"max=20"`
	Remarks        string        `json:"remarks" validate:"max=1000"`
	IdempotencyKey string        `json:"-" validate:"max=128"`
}

// IdempotencyStore maps a client key to the sale it produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (uint, bool, error)
	Remember(ctx context.Context, key string, saleID uint) error
}

type SaleOption func(*saleService)

func WithClock(now func() time.Time) SaleOption {
	return func(s *saleService) { s.now = now }
}

func WithIdempotency(store IdempotencyStore) SaleOption {
	return func(s *saleService) { s.idem = store }
}

// WithOversellGuard makes commits fail with ErrInsufficientStock instead of driving stock negative.
func WithOversellGuard(on bool) SaleOption {
	return func(s *saleService) { s.rejectOversell = on }
}

type saleService struct {
	db       *gorm.DB
	products repository.ProductRepository
	sales    repository.SaleRepository
	accounts repository.AccountRepository
	pub      event.Publisher
	log      *zap.Logger

	now            func() time.Time
	idem           IdempotencyStore
	rejectOversell bool
}

func NewSaleService(
	db *gorm.DB,
	products repository.ProductRepository,
	sales repository.SaleRepository,
	accounts repository.AccountRepository,
	pub event.Publisher,
	log *zap.Logger,
	opts ...SaleOption,
) SaleService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &saleService{
		db:       db,
		products: products,
		sales:    sales,
		accounts: accounts,
		pub:      pub,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizePayment(m string) string {
	m = strings.ToUpper(strings.TrimSpace(m))
	if m == "" {
		return model.PaymentCash
	}
	return m
}

func checkLines(lines []LineRequest) error {
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if !validMoney(l.UnitPrice) {
			return ErrInvalidPrice
		}
		if l.ProductID == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// stockDeltas sums quantity per product and returns the ids in ascending order,
// the order in which product rows are locked. A per-product sum that would not
// fit in an int is ErrInvalidQuantity.
func stockDeltas(lines []model.SaleLine) ([]uint, map[uint]int, error) {
	qty := make(map[uint]int, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 || qty[l.ProductID] > math.MaxInt-l.Quantity {
			return nil, nil, ErrInvalidQuantity
		}
		qty[l.ProductID] += l.Quantity
	}
	ids := make([]uint, 0, len(qty))
	for id := range qty {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, qty, nil
}

func (s *saleService) CommitSale(ctx context.Context, req SaleRequest) (*model.Sale, error) {
	if err := checkLines(req.Lines); err != nil {
		return nil, err
	}
	req.PaymentMethod = normalizePayment(req.PaymentMethod)
	req.Remarks = strings.TrimSpace(req.Remarks)
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	if err := validate(req); err != nil {
		return nil, err
	}

	if sale, ok := s.replay(ctx, req.IdempotencyKey); ok {
		return sale, nil
	}

	account, err := s.accounts.FindByID(req.AccountID)
	if err != nil {
		return nil, err
	}

	lines := make([]model.SaleLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = model.SaleLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	sale := &model.Sale{
		AccountID:     account.ID,
		SoldAt:        s.now().UTC().Truncate(time.Second),
		TotalAmount:   model.SumLines(lines),
		PaymentMethod: req.PaymentMethod,
		Remarks:       req.Remarks,
		Lines:         lines,
	}
	if req.IdempotencyKey != "" {
		sale.IdempotencyKey = &req.IdempotencyKey
	}

	ids, qty, err := stockDeltas(lines)
	if err != nil {
		return nil, err
	}

	var replayID uint
	err = s.db.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		if sale.IdempotencyKey != nil {
			prior, err := s.sales.FindByIdempotencyKey(tx, *sale.IdempotencyKey)
			if err == nil {
				replayID = prior.ID
				return nil
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}

		guard := repository.AdjustOptions{ActiveOnly: true, RejectNegative: s.rejectOversell}
		for _, id := range ids {
			if _, err := s.products.AdjustStock(tx, id, -qty[id], guard); err != nil {
				return err
			}
		}

		if err := s.sales.Create(tx, sale); err != nil {
			return err
		}

		products, err := s.products.FindByIDs(tx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uint]*model.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}
		for i := range sale.Lines {
			sale.Lines[i].Product = byID[sale.Lines[i].ProductID]
		}
		return nil
	})
	if errors.Is(err, repository.ErrDuplicateSaleKey) {
		// A concurrent retry with the same key committed first.
		prior, ferr := s.sales.FindByIdempotencyKey(s.db, req.IdempotencyKey)
		if ferr != nil {
			return nil, wrapTx("commit sale", ferr)
		}
		replayID, err = prior.ID, nil
	}
	if err != nil {
		s.log.Warn("sale commit rolled back", zap.Uint("account_id", req.AccountID), zap.Int("lines", len(lines)), zap.Error(err))
		return nil, wrapTx("commit sale", err)
	}
	if replayID != 0 {
		s.log.Info("sale replayed", zap.Uint("sale_id", replayID), zap.String("idempotency_key", req.IdempotencyKey))
		s.remember(ctx, req.IdempotencyKey, replayID)
		return s.sales.FindByID(replayID)
	}
	sale.Account = account

	s.log.Info("sale committed",
		zap.Uint("sale_id", sale.ID),
		zap.Uint("account_id", sale.AccountID),
		zap.String("total", sale.TotalAmount.StringFixed(2)),
		zap.Int("lines", len(sale.Lines)),
	)
	s.remember(ctx, req.IdempotencyKey, sale.ID)
	publish(s.log, s.pub, event.SaleCommitted, saleKey(sale.ID), salePayload(sale), sale.SoldAt)
	return sale, nil
}

// replay is the cache path for a retried key; the sale's own unique key column is
// the authority. A reversed sale is not replayed.
func (s *saleService) replay(ctx context.Context, key string) (*model.Sale, bool) {
	if key == "" || s.idem == nil {
		return nil, false
	}
	id, ok, err := s.idem.Lookup(ctx, key)
	if err != nil {
		s.log.Warn("idempotency lookup failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	sale, err := s.sales.FindByID(id)
	if err != nil {
		s.log.Info("idempotency key points at missing sale", zap.Uint("sale_id", id), zap.Error(err))
		return nil, false
	}
	return sale, true
}

func (s *saleService) remember(ctx context.Context, key string, id uint) {
	if key == "" || s.idem == nil {
		return
	}
	if err := s.idem.Remember(ctx, key, id); err != nil {
		s.log.Warn("idempotency store failed", zap.Uint("sale_id", id), zap.Error(err))
	}
}

// ReverseSale restores stock for every line and removes the sale in one transaction.
// The sale is gone afterwards, so a second call fails with ErrNotFound.
func (s *saleService) ReverseSale(ctx context.Context, id uint) error {
	var reversed *model.Sale
	err := s.db.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		sale, err := s.sales.FindForReversal(tx, id)
		if err != nil {
			return err
		}

		ids, qty, err := stockDeltas(sale.Lines)
		if err != nil {
			return err
		}
		for _, pid := range ids {
			if _, err := s.products.AdjustStock(tx, pid, qty[pid], repository.AdjustOptions{}); err != nil {
				return err
			}
		}

		if err := s.sales.Delete(tx, id); err != nil {
			return err
		}
		reversed = sale
		return nil
	})
	if err != nil {
		s.log.Warn("sale reversal rolled back", zap.Uint("sale_id", id), zap.Error(err))
		return wrapTx("reverse sale", err)
	}

	s.log.Info("sale reversed", zap.Uint("sale_id", id), zap.String("total", reversed.TotalAmount.StringFixed(2)))
	publish(s.log, s.pub, event.SaleReversed, saleKey(id), salePayload(reversed), s.now())
	return nil
}

func (s *saleService) GetSale(id uint) (*model.Sale, error) {
	return s.sales.FindByID(id)
}

func (s *saleService) ListSales(rng model.DateRange) ([]model.Sale, error) {
	return s.sales.List(rng)
}

func saleKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func salePayload(sale *model.Sale) event.SalePayload {
	p := event.SalePayload{
		SaleID:        sale.ID,
		AccountID:     sale.AccountID,
		TotalAmount:   sale.TotalAmount,
		PaymentMethod: sale.PaymentMethod,
		Lines:         make([]event.LinePayload, len(sale.Lines)),
	}
	for i, l := range sale.Lines {
		p.Lines[i] = event.LinePayload{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	return p
}
