package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"olistcli/internal/config"
	apperrors "olistcli/internal/errors"
	"olistcli/internal/shared/testutil"
)

func TestLoad_StandardDataset(t *testing.T) {
	dir := testutil.WriteStandardDataset(t)
	logger, handler := testutil.NewTestLogger(t)

	tables, err := Load(context.Background(), dir, WithLogger(logger))
	require.NoError(t, err)
	require.NotNil(t, tables)

	counts := tables.RowCounts()
	assert.Equal(t, map[string]int{
		TableOrders:       5,
		TableOrderItems:   7,
		TableProducts:     3,
		TableCustomers:    4,
		TableGeolocation:  4,
		TableTranslations: 1,
		TableReviews:      4,
	}, counts)

	// Columns and order come straight from the file.
	assert.Equal(t, []string{"order_id", "order_item_id", "product_id", "seller_id", "shipping_limit_date", "price", "freight_value"},
		tables.OrderItems.Names())
	assert.Equal(t, []string{"o1", "o1", "o2", "o3", "o4", "o5", "o9"}, tables.OrderItems.Col("order_id").Records())

	// No type detection: zip prefixes keep their leading zero.
	assert.Equal(t, "01310", tables.Geolocation.Col("geolocation_zip_code_prefix").Records()[0])
	assert.Equal(t, "01310", tables.Customers.Col("customer_zip_code_prefix").Records()[0])

	assert.Len(t, handler.FindByMessage("Loaded table"), 7)
	testutil.AssertLogAttr(t, handler, "component", "loader")
	testutil.AssertNoErrors(t, handler)
}

func TestLoad_MissingFile(t *testing.T) {
	dir := testutil.WriteStandardDataset(t)
	require.NoError(t, os.Remove(filepath.Join(dir, config.ReviewsFile)))

	tables, err := Load(context.Background(), dir)

	require.Error(t, err)
	assert.Nil(t, tables)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.Contains(t, err.Error(), config.ReviewsFile)
}

func TestLoad_MissingDirectory(t *testing.T) {
	tables, err := Load(context.Background(), filepath.Join(t.TempDir(), "raw"))

	require.Error(t, err)
	assert.Nil(t, tables)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestLoad_DirectoryInsteadOfFile(t *testing.T) {
	dir := testutil.WriteStandardDataset(t)
	path := filepath.Join(dir, config.ProductsFile)
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0755))

	_, err := Load(context.Background(), dir)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestLoad_MalformedFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "ragged row", content: "order_id,customer_id\no1,c1\no2\n"},
		{name: "empty file", content: ""},
		{name: "blank line only", content: "\n"},
		{name: "unterminated quote", content: "order_id,customer_id\n\"o1,c1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.WriteStandardDataset(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, config.OrdersFile), []byte(tt.content), 0644))

			tables, err := Load(context.Background(), dir)

			require.Error(t, err)
			assert.Nil(t, tables)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing), "got %v", err)
			assert.Contains(t, err.Error(), TableOrders)
		})
	}
}

func TestLoad_HeaderOnlyFile(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		table string
	}{
		{name: "reviews", file: config.ReviewsFile, table: TableReviews},
		{name: "translations", file: config.TranslationsFile, table: TableTranslations},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := testutil.StandardFixture()
			header := fixture[tt.file][0]
			fixture[tt.file] = fixture[tt.file][:1]
			dir := t.TempDir()
			testutil.WriteFixture(t, dir, fixture)

			tables, err := Load(context.Background(), dir)
			require.NoError(t, err)

			df, ok := tables.Get(tt.table)
			require.True(t, ok)
			assert.Equal(t, 0, df.Nrow())
			assert.Equal(t, header, df.Names())
			assert.Equal(t, 0, tables.RowCounts()[tt.table])
		})
	}
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	df, err := ReadCSV(TableReviews, strings.NewReader("\xEF\xBB\xBFreview_id,order_id,review_score\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"review_id", "order_id", "review_score"}, df.Names())
	assert.Equal(t, 0, df.Nrow())
	assert.Empty(t, df.Col("review_score").Records())
}

func TestLoad_SpansPerFile(t *testing.T) {
	dir := testutil.WriteStandardDataset(t)
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, err := Load(context.Background(), dir, WithTracer(provider.Tracer("test")))
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 7)
	for _, span := range spans {
		assert.Equal(t, "loader.read", span.Name())
	}
}

func TestReadCSV_StripsBOM(t *testing.T) {
	df, err := ReadCSV(TableTranslations, strings.NewReader("\xEF\xBB\xBFproduct_category_name,product_category_name_english\nbeleza_saude,health_beauty\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"product_category_name", "product_category_name_english"}, df.Names())
	assert.Equal(t, []string{"health_beauty"}, df.Col("product_category_name_english").Records())
}

func TestTables_Get(t *testing.T) {
	dir := testutil.WriteStandardDataset(t)
	tables, err := Load(context.Background(), dir)
	require.NoError(t, err)

	df, ok := tables.Get(TableCustomers)
	require.True(t, ok)
	assert.Equal(t, 4, df.Nrow())

	_, ok = tables.Get("sellers")
	assert.False(t, ok)
}
