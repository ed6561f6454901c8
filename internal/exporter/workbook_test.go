package exporter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "olistcli/internal/errors"
	"olistcli/pkg/contracts/domain"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		GeneratedAt: time.Date(2018, 10, 1, 0, 0, 0, 0, time.UTC),
		Rows:        3,
		KPIs: domain.KPIs{
			TotalSales:    decimal.RequireFromString("261.37"),
			OrderCount:    2,
			ItemCount:     3,
			AverageBasket: decimal.RequireFromString("130.685"),
		},
		Monthly: []domain.MonthlySales{
			{Month: time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), Sales: decimal.RequireFromString("174.12"), Items: 2},
			{Month: time.Date(2017, 2, 1, 0, 0, 0, 0, time.UTC), Sales: decimal.Zero},
			{Month: time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC), Sales: decimal.RequireFromString("87.25"), Items: 1},
		},
		Revenue: domain.RevenueBreakdown{
			ProductSales: decimal.RequireFromString("224.90"),
			Freight:      decimal.RequireFromString("36.47"),
			Total:        decimal.RequireFromString("261.37"),
			FreightShare: 13.95,
		},
		Categories: []domain.CategorySales{
			{Rank: 1, Category: "Others", Sales: decimal.RequireFromString("174.12"), Share: 66.6, Dominant: true},
			{Rank: 2, Category: "Health Beauty", Sales: decimal.RequireFromString("87.25"), Share: 33.4},
		},
		Satisfaction: []domain.DeliveryStats{
			{Score: 1, Count: 1, Min: 13, Q1: 13, Median: 13, Q3: 13, Max: 13},
			{Score: 4, Count: 2, Min: 5, Q1: 5, Median: 5, Q3: 5, Max: 5},
		},
	}
}

func TestWorkbookWriter_WriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.xlsx")

	require.NoError(t, NewWorkbookWriter(nil).WriteReport(path, sampleReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetKPIs, SheetMonthly, SheetRevenue, SheetCategories, SheetSatisfaction}, f.GetSheetList())

	kpis, err := f.GetRows(SheetKPIs)
	require.NoError(t, err)
	assert.Equal(t, []string{"metric", "value"}, kpis[0])
	assert.Equal(t, []string{"orders", "2"}, kpis[2])
	assert.Equal(t, "130.69", kpis[4][1])

	monthly, err := f.GetRows(SheetMonthly)
	require.NoError(t, err)
	require.Len(t, monthly, 4)
	assert.Equal(t, []string{"2017-02", "0", "0"}, monthly[2])

	categories, err := f.GetRows(SheetCategories)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Others", categories[1][1])
	assert.Equal(t, "true", categories[1][4])
	assert.Equal(t, "false", categories[2][4])

	satisfaction, err := f.GetRows(SheetSatisfaction)
	require.NoError(t, err)
	require.Len(t, satisfaction, 3)
	assert.Equal(t, "4", satisfaction[2][0])
	assert.Equal(t, "2", satisfaction[2][1])
}

func TestWorkbookWriter_Errors(t *testing.T) {
	dir := t.TempDir()
	w := NewWorkbookWriter(nil)

	err := w.WriteReport(filepath.Join(dir, "report.xlsx"), nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	err = w.WriteReport(filepath.Join(dir, "report.csv"), sampleReport())
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	_, statErr := os.Stat(filepath.Join(dir, "report.csv"))
	assert.True(t, os.IsNotExist(statErr))
}
