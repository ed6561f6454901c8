package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "olistcli/internal/errors"
	"olistcli/internal/shared/testutil"
	"olistcli/pkg/contracts/domain"
)

func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewCSVWriter(logger), t.TempDir()
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(content, utf8BOM), "missing BOM")
	records, err := csv.NewReader(bytes.NewReader(content[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name     string
		fileName string
		options  WriteOptions
		validate func(t *testing.T, filePath string)
	}{
		{
			name:     "basic write with headers",
			fileName: "basic.csv",
			options: WriteOptions{
				Headers: []string{"category", "sales"},
				Records: [][]string{
					{"Health Beauty", "112.25"},
					{"Toys", "12.00"},
				},
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Equal(t, []string{"category,sales", "Health Beauty,112.25", "Toys,12.00"}, lines)
			},
		},
		{
			name:     "write with BOM prefix",
			fileName: "bom.csv",
			options: WriteOptions{
				Headers:   []string{"city"},
				Records:   [][]string{{"são paulo"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, filePath string) {
				assert.Equal(t, [][]string{{"city"}, {"são paulo"}}, readCSV(t, filePath))
			},
		},
		{
			name:     "empty records",
			fileName: "nested/dir/empty.csv",
			options: WriteOptions{
				Headers: []string{"Col1", "Col2"},
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)
				assert.Equal(t, "Col1,Col2\n", string(content))
			},
		},
		{
			name:     "special characters are quoted",
			fileName: "special.csv",
			options: WriteOptions{
				Headers: []string{"name", "note"},
				Records: [][]string{{"cama, mesa e banho", `say "hi"`}},
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)
				assert.Contains(t, string(content), `"cama, mesa e banho","say ""hi"""`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tempDir, tt.fileName)
			require.NoError(t, writer.WriteCSV(path, tt.options))
			tt.validate(t, path)
		})
	}
}

func TestCSVWriter_ErrorScenarios(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	err := writer.WriteCSV(filepath.Join(tempDir, "report.txt"), WriteOptions{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	blocker := filepath.Join(tempDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	err = writer.WriteCSV(filepath.Join(blocker, "out.csv"), WriteOptions{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypePermission))
}

func TestStreamWriter(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	path := filepath.Join(tempDir, "stream.csv")

	stream, err := writer.CreateStreamWriter(path, []string{"n"})
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		require.NoError(t, stream.WriteRecord([]string{formatInt(i)}))
	}
	assert.Equal(t, 1000, stream.Rows())
	require.NoError(t, stream.Close())

	records := readCSV(t, path)
	require.Len(t, records, 1001)
	assert.Equal(t, []string{"999"}, records[1000])
}

func TestCSVWriter_WriteAnalyticalTable(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	path := filepath.Join(tempDir, "analytical.csv")

	purchased := time.Date(2017, 1, 10, 10, 0, 0, 0, time.UTC)
	rows := []domain.AnalyticalRow{
		{
			OrderID:             "o1",
			OrderItemID:         "1",
			ProductID:           "p1",
			CustomerID:          "c1",
			PurchasedAt:         purchased,
			DeliveredAt:         purchased.Add(122 * time.Hour),
			DeliveryDays:        5,
			Price:               decimal.RequireFromString("100.00"),
			FreightValue:        decimal.RequireFromString("15.5"),
			TotalSales:          decimal.RequireFromString("115.5"),
			ProductCategory:     "moveis_decoracao",
			CategoryDisplayName: "Others",
			ZipCodePrefix:       "01310",
			Latitude:            floatPtr(-23.562),
			Longitude:           floatPtr(-46.656),
			ReviewScore:         floatPtr(4.5),
		},
		{
			OrderID:             "o4",
			OrderItemID:         "1",
			DeliveryDays:        13,
			Price:               decimal.RequireFromString("75"),
			FreightValue:        decimal.RequireFromString("12.25"),
			TotalSales:          decimal.RequireFromString("87.25"),
			CategoryDisplayName: "Health Beauty",
		},
	}

	require.NoError(t, writer.WriteAnalyticalTable(path, rows))

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, AnalyticalHeaders(), records[0])

	header := make(map[string]int)
	for i, h := range records[0] {
		header[h] = i
	}
	first := records[1]
	assert.Equal(t, "2017-01-10 10:00:00", first[header["order_purchase_timestamp"]])
	assert.Equal(t, "2017-01-15 12:00:00", first[header["order_delivered_customer_date"]])
	assert.Equal(t, "5", first[header["delivery_days"]])
	assert.Equal(t, "15.50", first[header["freight_value"]])
	assert.Equal(t, "115.50", first[header["total_sales"]])
	assert.Equal(t, "01310", first[header["customer_zip_code_prefix"]])
	assert.Equal(t, "-23.562", first[header["geolocation_lat"]])
	assert.Equal(t, "4.5", first[header["review_score"]])

	second := records[2]
	assert.Equal(t, "", second[header["geolocation_lat"]])
	assert.Equal(t, "", second[header["review_score"]])
	assert.Equal(t, "Health Beauty", second[header["category_display_name"]])
}
