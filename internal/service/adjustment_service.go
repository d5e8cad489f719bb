package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go-pos-core/internal/event"
	"go-pos-core/internal/model"
	"go-pos-core/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AdjustmentService interface {
	ApplyAdjustment(ctx context.Context, req AdjustmentRequest) (*model.StockAdjustment, error)
	ListAdjustments(productID uint, limit int) ([]model.StockAdjustment, error)
}

// AdjustmentRequest is a signed stock change: positive for receiving, negative for shrinkage.
type AdjustmentRequest struct {
	ProductID uint   `json:"product_id" validate:"required"`
	QtyDelta  int    `json:"qty_delta"`
	Reason    string `json:"reason" validate:"max=255"`
	CreatedBy uint   `json:"-" validate:"required"`
}

type adjustmentService struct {
	db          *gorm.DB
	products    repository.ProductRepository
	adjustments repository.AdjustmentRepository
	accounts    repository.AccountRepository
	pub         event.Publisher
	log         *zap.Logger
	now         func() time.Time
}

func NewAdjustmentService(
	db *gorm.DB,
	products repository.ProductRepository,
	adjustments repository.AdjustmentRepository,
	accounts repository.AccountRepository,
	pub event.Publisher,
	log *zap.Logger,
) AdjustmentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &adjustmentService{
		db:          db,
		products:    products,
		adjustments: adjustments,
		accounts:    accounts,
		pub:         pub,
		log:         log,
		now:         time.Now,
	}
}

func (s *adjustmentService) ApplyAdjustment(ctx context.Context, req AdjustmentRequest) (*model.StockAdjustment, error) {
	if req.QtyDelta == 0 {
		return nil, ErrInvalidQuantity
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.accounts.FindByID(req.CreatedBy); err != nil {
		return nil, err
	}

	adj := &model.StockAdjustment{
		ProductID: req.ProductID,
		QtyDelta:  req.QtyDelta,
		Reason:    req.Reason,
		CreatedBy: req.CreatedBy,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	err := s.db.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		after, err := s.products.AdjustStock(tx, req.ProductID, req.QtyDelta, repository.AdjustOptions{})
		if err != nil {
			return err
		}
		adj.StockAfter = after
		return s.adjustments.Create(tx, adj)
	})
	if err != nil {
		return nil, wrapTx("apply adjustment", err)
	}

	s.log.Info("stock adjusted",
		zap.Uint("product_id", adj.ProductID),
		zap.Int("delta", adj.QtyDelta),
		zap.Int("stock_after", adj.StockAfter),
	)
	publish(s.log, s.pub, event.StockAdjusted, strconv.FormatUint(uint64(adj.ProductID), 10), event.StockPayload{
		ProductID:  adj.ProductID,
		Delta:      adj.QtyDelta,
		StockAfter: adj.StockAfter,
		Reason:     adj.Reason,
	}, adj.CreatedAt)
	return adj, nil
}

// ListAdjustments returns the product's history newest first, including inactive products.
func (s *adjustmentService) ListAdjustments(productID uint, limit int) ([]model.StockAdjustment, error) {
	if _, err := s.products.FindByID(productID, model.IncludeInactive); err != nil {
		return nil, err
	}
	return s.adjustments.FindByProduct(productID, limit)
}
