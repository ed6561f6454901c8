package loader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"olistcli/internal/config"
	apperrors "olistcli/internal/errors"
	"olistcli/internal/validation"
)

// Table names used in logs, metrics and schema errors.
const (
	TableOrders       = "orders"
	TableOrderItems   = "order_items"
	TableProducts     = "products"
	TableCustomers    = "customers"
	TableGeolocation  = "geolocation"
	TableTranslations = "translations"
	TableReviews      = "reviews"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Dataset pairs a logical table name with its file name.
type Dataset struct {
	Name string
	File string
}

// Datasets returns the seven input tables in load order.
func Datasets() []Dataset {
	return []Dataset{
		{Name: TableOrders, File: config.OrdersFile},
		{Name: TableOrderItems, File: config.OrderItemsFile},
		{Name: TableProducts, File: config.ProductsFile},
		{Name: TableCustomers, File: config.CustomersFile},
		{Name: TableGeolocation, File: config.GeolocationFile},
		{Name: TableTranslations, File: config.TranslationsFile},
		{Name: TableReviews, File: config.ReviewsFile},
	}
}

// Tables holds one DataFrame per input file.
type Tables struct {
	Orders       dataframe.DataFrame
	OrderItems   dataframe.DataFrame
	Products     dataframe.DataFrame
	Customers    dataframe.DataFrame
	Geolocation  dataframe.DataFrame
	Translations dataframe.DataFrame
	Reviews      dataframe.DataFrame
}

// slot returns the field that holds the named table.
func (t *Tables) slot(name string) *dataframe.DataFrame {
	switch name {
	case TableOrders:
		return &t.Orders
	case TableOrderItems:
		return &t.OrderItems
	case TableProducts:
		return &t.Products
	case TableCustomers:
		return &t.Customers
	case TableGeolocation:
		return &t.Geolocation
	case TableTranslations:
		return &t.Translations
	case TableReviews:
		return &t.Reviews
	}
	return nil
}

// Get returns the named table.
func (t *Tables) Get(name string) (dataframe.DataFrame, bool) {
	df := t.slot(name)
	if df == nil {
		return dataframe.DataFrame{}, false
	}
	return *df, true
}

// RowCounts returns the number of data rows per table.
func (t *Tables) RowCounts() map[string]int {
	counts := make(map[string]int, 7)
	for _, ds := range Datasets() {
		counts[ds.Name] = t.slot(ds.Name).Nrow()
	}
	return counts
}

// Option configures Load.
type Option func(*options)

type options struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// WithLogger sets the logger used for per-table log lines.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer sets the tracer used for per-file spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// Load reads all seven dataset files from baseDir. Files are read one at a
// time in Datasets order and each is closed before the next is opened. The
// first failure aborts the load and is returned as an *errors.AppError naming
// the file.
func Load(ctx context.Context, baseDir string, opts ...Option) (*Tables, error) {
	o := options{
		logger: slog.Default(),
		tracer: otel.Tracer("olistcli/loader"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger.With(slog.String("component", "loader"))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputDirectory(baseDir, config.DatasetFiles()); err != nil {
		return nil, err
	}

	tables := &Tables{}
	for _, ds := range Datasets() {
		path := filepath.Join(baseDir, ds.File)

		df, err := readTable(ctx, o.tracer, validator, ds, path)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to load table",
				slog.String("table", ds.Name),
				slog.String("file", path),
				slog.String("error", err.Error()))
			return nil, err
		}

		*tables.slot(ds.Name) = df
		logger.InfoContext(ctx, "Loaded table",
			slog.String("table", ds.Name),
			slog.String("file", ds.File),
			slog.Int("rows", df.Nrow()),
			slog.Int("columns", df.Ncol()))
	}

	return tables, nil
}

func readTable(ctx context.Context, tracer trace.Tracer, v *validation.FileValidator, ds Dataset, path string) (df dataframe.DataFrame, err error) {
	_, span := tracer.Start(ctx, "loader.read",
		trace.WithAttributes(
			attribute.String("table", ds.Name),
			attribute.String("file", ds.File),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("rows", df.Nrow()))
		}
		span.End()
	}()

	if err := v.ValidateCSVFile(path); err != nil {
		return dataframe.DataFrame{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", ds.File), err).
			WithContext("file", path)
	}
	defer f.Close()

	return ReadCSV(ds.Name, f)
}

// ReadCSV parses r into a DataFrame with every column typed as string.
// A leading UTF-8 BOM is skipped. A header without data rows yields an empty
// table with those columns; ragged rows and an input without a header are
// parsing errors.
func ReadCSV(table string, r io.Reader) (dataframe.DataFrame, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	records, err := csv.NewReader(br).ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, malformed(table, err)
	}
	if len(records) == 0 {
		return dataframe.DataFrame{}, malformed(table, errors.New("no header row"))
	}
	if len(records) == 1 {
		return emptyFrame(table, records[0])
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, malformed(table, df.Err)
	}
	return df, nil
}

// emptyFrame builds a zero-row string table with the given header.
func emptyFrame(table string, header []string) (dataframe.DataFrame, error) {
	columns := make([]series.Series, len(header))
	for i, name := range header {
		columns[i] = series.New([]string{}, series.String, name)
	}
	df := dataframe.New(columns...)
	if df.Err != nil {
		return dataframe.DataFrame{}, malformed(table, df.Err)
	}
	return df, nil
}

func malformed(table string, cause error) error {
	return apperrors.NewParsingError(fmt.Sprintf("malformed %s table", table), cause).
		WithContext("table", table)
}
