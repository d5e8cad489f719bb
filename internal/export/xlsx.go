// Package export renders sales report snapshots as spreadsheet documents.
package export

import (
	"io"
	"strconv"

	"go-pos-core/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	SalesSheet = "Sales"
	LinesSheet = "Lines"

	timestampLayout = "2006-01-02 15:04:05"
	headerRow       = 5
)

var (
	salesHeader = []string{"Sale ID", "Sold At (UTC)", "Cashier", "Payment", "Items", "Total", "Remarks"}
	linesHeader = []string{"Sale ID", "SKU", "Product", "Quantity", "Unit Price", "Subtotal"}
)

// WriteSalesReport writes report as an XLSX workbook with a sales sheet and a line sheet.
func WriteSalesReport(w io.Writer, report *model.SalesReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SalesSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(LinesSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}

	sw := sheetWriter{f: f, sheet: SalesSheet}
	sw.set(1, 1, "Sales Report")
	sw.set(1, 2, "Range: "+report.Range)
	sw.set(1, 3, "Generated: "+report.GeneratedAt.UTC().Format(timestampLayout))
	sw.header(headerRow, salesHeader)

	lw := sheetWriter{f: f, sheet: LinesSheet}
	lw.header(1, linesHeader)

	row, lineRow := headerRow+1, 2
	for _, r := range report.Rows {
		items := 0
		for _, l := range r.Lines {
			items += l.Quantity
			lw.set(1, lineRow, r.SaleID)
			lw.set(2, lineRow, l.SKU)
			lw.set(3, lineRow, l.Name)
			lw.set(4, lineRow, l.Quantity)
			lw.set(5, lineRow, l.UnitPrice.InexactFloat64())
			lw.set(6, lineRow, l.Subtotal.InexactFloat64())
			lineRow++
		}
		sw.set(1, row, r.SaleID)
		sw.set(2, row, r.SoldAt.UTC().Format(timestampLayout))
		sw.set(3, row, r.Cashier)
		sw.set(4, row, r.PaymentMethod)
		sw.set(5, row, items)
		sw.set(6, row, r.Total.InexactFloat64())
		sw.set(7, row, r.Remarks)
		row++
	}
	sw.set(5, row, "TOTAL")
	sw.set(6, row, report.Total.InexactFloat64())

	sw.style(1, 1, 1, 1, title)
	sw.style(1, headerRow, len(salesHeader), headerRow, bold)
	sw.style(5, row, 6, row, bold)
	sw.style(6, headerRow+1, 6, row, money)
	lw.style(1, 1, len(linesHeader), 1, bold)
	if lineRow > 2 {
		lw.style(5, 2, 6, lineRow-1, money)
	}

	if err := f.SetColWidth(SalesSheet, "B", "C", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(LinesSheet, "C", "C", 30); err != nil {
		return err
	}
	if sw.err != nil {
		return sw.err
	}
	if lw.err != nil {
		return lw.err
	}

	_, err = f.WriteTo(w)
	return err
}

// Filename names a report download by its generation time.
func Filename(report *model.SalesReport) string {
	return "sales-report-" + strconv.FormatInt(report.GeneratedAt.Unix(), 10) + ".xlsx"
}

// sheetWriter keeps the first error so cell writes read as a flat sequence.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (s *sheetWriter) set(col, row int, v interface{}) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetCellValue(s.sheet, cell, v)
}

func (s *sheetWriter) header(row int, names []string) {
	for i, n := range names {
		s.set(i+1, row, n)
	}
}

func (s *sheetWriter) style(c1, r1, c2, r2, styleID int) {
	if s.err != nil {
		return
	}
	from, err := excelize.CoordinatesToCellName(c1, r1)
	if err != nil {
		s.err = err
		return
	}
	to, err := excelize.CoordinatesToCellName(c2, r2)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetCellStyle(s.sheet, from, to, styleID)
}
