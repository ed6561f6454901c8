package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	apperrors "olistcli/internal/errors"
	"olistcli/internal/validation"
	"olistcli/pkg/contracts/domain"
)

// Sheet names of the report workbook, in order.
const (
	SheetKPIs         = "KPIs"
	SheetMonthly      = "Monthly"
	SheetRevenue      = "Revenue"
	SheetCategories   = "Categories"
	SheetSatisfaction = "Satisfaction"
)

// WorkbookWriter exports a report as an XLSX workbook
type WorkbookWriter struct {
	logger    *slog.Logger
	validator *validation.FileValidator
}

// NewWorkbookWriter creates a new workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "xlsx_exporter"))
	return &WorkbookWriter{
		logger:    logger,
		validator: validation.NewFileValidator(logger),
	}
}

type sheet struct {
	name string
	rows [][]interface{}
}

// WriteReport writes one sheet per report view to filePath
func (w *WorkbookWriter) WriteReport(filePath string, report *domain.Report) error {
	if report == nil {
		return apperrors.NewAppValidationError("no report to export")
	}
	if err := w.validator.ValidateExportPath(filePath, ".xlsx"); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheets := reportSheets(report)
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return apperrors.NewStorageError("failed to name sheet", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to create sheet %s", s.name), err)
		}
		for r, values := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			row := values
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return apperrors.NewStorageError(fmt.Sprintf("failed to write sheet %s row %d", s.name, r+1), err)
			}
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save %s", filePath), err)
	}

	w.logger.Info("Exported report workbook",
		slog.String("file_path", filePath),
		slog.Int("sheets", len(sheets)))
	return nil
}

func reportSheets(r *domain.Report) []sheet {
	kpis := sheet{name: SheetKPIs, rows: [][]interface{}{
		{"metric", "value"},
		{"total_sales", r.KPIs.TotalSales.InexactFloat64()},
		{"orders", r.KPIs.OrderCount},
		{"items", r.KPIs.ItemCount},
		{"average_basket", r.KPIs.AverageBasket.Round(2).InexactFloat64()},
		{"avg_delivery_days", r.KPIs.AvgDeliveryDays},
	}}

	monthly := sheet{name: SheetMonthly, rows: [][]interface{}{{"month", "sales", "items"}}}
	for _, m := range r.Monthly {
		monthly.rows = append(monthly.rows, []interface{}{m.Month.Format("2006-01"), m.Sales.InexactFloat64(), m.Items})
	}

	revenue := sheet{name: SheetRevenue, rows: [][]interface{}{
		{"component", "amount"},
		{"product_sales", r.Revenue.ProductSales.InexactFloat64()},
		{"freight", r.Revenue.Freight.InexactFloat64()},
		{"total", r.Revenue.Total.InexactFloat64()},
		{"freight_share_pct", r.Revenue.FreightShare},
	}}

	categories := sheet{name: SheetCategories, rows: [][]interface{}{{"rank", "category", "sales", "share_pct", "dominant"}}}
	for _, c := range r.Categories {
		categories.rows = append(categories.rows, []interface{}{c.Rank, c.Category, c.Sales.InexactFloat64(), c.Share, formatBool(c.Dominant)})
	}

	satisfaction := sheet{name: SheetSatisfaction, rows: [][]interface{}{{"score", "count", "min", "q1", "median", "q3", "max"}}}
	for _, s := range r.Satisfaction {
		satisfaction.rows = append(satisfaction.rows, []interface{}{s.Score, s.Count, s.Min, s.Q1, s.Median, s.Q3, s.Max})
	}

	return []sheet{kpis, monthly, revenue, categories, satisfaction}
}
