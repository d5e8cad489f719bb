package service

import (
	"time"

	"go-pos-core/internal/model"
	"go-pos-core/internal/repository"

	"github.com/shopspring/decimal"
)

// ReportService is read-only; results reflect whatever was committed at query time.
type ReportService interface {
	TotalSalesAmount(rng model.DateRange) (decimal.Decimal, error)
	SalesInRange(rng model.DateRange) ([]model.Sale, error)
	Snapshot(rng model.DateRange) (*model.SalesReport, error)
	Summary(rng model.DateRange) (*Summary, error)
}

type Summary struct {
	Range       string                     `json:"range"`
	SaleCount   int64                      `json:"sale_count"`
	TotalAmount decimal.Decimal            `json:"total_amount"`
	Inventory   *repository.DashboardStats `json:"inventory"`
}

type reportService struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	now      func() time.Time
}

func NewReportService(sales repository.SaleRepository, products repository.ProductRepository) ReportService {
	return &reportService{sales: sales, products: products, now: time.Now}
}

func (s *reportService) TotalSalesAmount(rng model.DateRange) (decimal.Decimal, error) {
	return s.sales.TotalAmount(rng)
}

func (s *reportService) SalesInRange(rng model.DateRange) ([]model.Sale, error) {
	return s.sales.List(rng)
}

func (s *reportService) Snapshot(rng model.DateRange) (*model.SalesReport, error) {
	sales, err := s.sales.List(rng)
	if err != nil {
		return nil, err
	}

	report := &model.SalesReport{
		Range:       rng.Describe(),
		GeneratedAt: s.now().UTC().Truncate(time.Second),
		Rows:        make([]model.SalesRow, 0, len(sales)),
		Total:       decimal.Zero,
	}
	for _, sale := range sales {
		row := model.NewSalesRow(sale)
		report.Total = report.Total.Add(row.Total)
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

func (s *reportService) Summary(rng model.DateRange) (*Summary, error) {
	count, err := s.sales.Count(rng)
	if err != nil {
		return nil, err
	}
	total, err := s.sales.TotalAmount(rng)
	if err != nil {
		return nil, err
	}
	stats, err := s.products.GetDashboardStats()
	if err != nil {
		return nil, err
	}
	return &Summary{
		Range:       rng.Describe(),
		SaleCount:   count,
		TotalAmount: total,
		Inventory:   stats,
	}, nil
}
