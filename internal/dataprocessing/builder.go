package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "olistcli/internal/errors"
	"olistcli/internal/loader"
	"olistcli/pkg/contracts/domain"
)

// ErrNoData is wrapped by every Build failure. The table is either complete
// or absent; a failed build never returns rows.
var ErrNoData = errors.New("no data available")

// Drop reasons reported in Stats.Dropped.
const (
	DropUndelivered   = "undelivered"
	DropNonPositive   = "non_positive_delivery"
	DropMissingAmount = "missing_amount"
)

// Table is the analytical table: one row per delivered order item.
type Table struct {
	Rows  []domain.AnalyticalRow
	Stats Stats
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Stats describes what happened to the order items during a build.
type Stats struct {
	ItemsIn             int
	RowsOut             int
	Dropped             map[string]int
	Unmatched           map[string]int
	Duplicates          map[string]int
	GeolocationPrefixes int
	ReviewedOrders      int
}

func newStats() Stats {
	return Stats{
		Dropped:    map[string]int{DropUndelivered: 0, DropNonPositive: 0, DropMissingAmount: 0},
		Unmatched:  make(map[string]int),
		Duplicates: make(map[string]int),
	}
}

// DroppedTotal returns the number of items removed by the filter.
func (s Stats) DroppedTotal() int {
	total := 0
	for _, n := range s.Dropped {
		total += n
	}
	return total
}

// BuildOption configures Build.
type BuildOption func(*builder)

// WithLogger sets the builder logger.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(b *builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTracer sets the tracer for the build span.
func WithTracer(tracer trace.Tracer) BuildOption {
	return func(b *builder) {
		if tracer != nil {
			b.tracer = tracer
		}
	}
}

type builder struct {
	logger *slog.Logger
	tracer trace.Tracer
	stats  Stats
}

type orderRecord struct {
	customerID   string
	status       string
	purchasedAt  *time.Time
	deliveredAt  *time.Time
	deliveryDays *int
}

// workingRow carries an order item through the joins.
type workingRow struct {
	row          domain.AnalyticalRow
	order        *orderRecord
	deliveryDays *int
	price        string
	freight      string
}

// Build turns the loaded tables into the analytical table. The steps run in a
// fixed order: parse order timestamps and derive delivery days, reduce
// geolocation, left-join items to orders, products, customers, geolocation and
// category translations, reduce and join reviews, derive display names and
// total sales, then drop rows without a positive delivery time.
//
// A missing column or an unparseable value aborts the build; the returned
// error wraps ErrNoData and the underlying *errors.AppError.
func Build(ctx context.Context, tables *loader.Tables, opts ...BuildOption) (*Table, error) {
	b := &builder{
		logger: slog.Default(),
		tracer: otel.Tracer("olistcli/dataprocessing"),
		stats:  newStats(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With(slog.String("component", "builder"))

	ctx, span := b.tracer.Start(ctx, "dataprocessing.build")
	defer span.End()

	table, err := b.build(ctx, span, tables)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.logger.ErrorContext(ctx, "Build failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrNoData, err)
	}

	span.SetAttributes(
		attribute.Int("items_in", table.Stats.ItemsIn),
		attribute.Int("rows_out", table.Stats.RowsOut),
	)
	b.logger.InfoContext(ctx, "Built analytical table",
		slog.Int("items_in", table.Stats.ItemsIn),
		slog.Int("rows_out", table.Stats.RowsOut),
		slog.Int("dropped", table.Stats.DroppedTotal()),
		slog.Any("dropped_by_reason", table.Stats.Dropped),
		slog.Any("unmatched", table.Stats.Unmatched))
	return table, nil
}

func (b *builder) build(ctx context.Context, span trace.Span, tables *loader.Tables) (*Table, error) {
	if tables == nil {
		return nil, apperrors.NewNotFoundError("input tables")
	}
	if err := CheckSchema(tables); err != nil {
		return nil, err
	}

	span.AddEvent("parse_orders")
	orders, orderIdx, err := b.parseOrders(tables)
	if err != nil {
		return nil, err
	}

	span.AddEvent("reduce_geolocation")
	geo, err := ReduceGeolocation(tables.Geolocation)
	if err != nil {
		return nil, err
	}
	b.stats.GeolocationPrefixes = len(geo)

	rows := b.orderItems(tables)
	b.stats.ItemsIn = len(rows)

	span.AddEvent("join")
	b.joinOrders(rows, orders, orderIdx)
	b.joinProducts(rows, tables)
	b.joinCustomers(rows, tables)
	b.joinGeolocation(rows, geo)
	b.joinTranslations(rows, tables)

	span.AddEvent("reduce_reviews")
	reviews, err := ReduceReviews(tables.Reviews)
	if err != nil {
		return nil, err
	}
	b.stats.ReviewedOrders = len(reviews)
	b.joinReviews(rows, reviews)

	span.AddEvent("derive")
	for i := range rows {
		rows[i].row.CategoryDisplayName = DisplayCategoryName(rows[i].row.ProductCategory, rows[i].row.CategoryEnglish)
	}

	span.AddEvent("filter")
	out, err := b.deriveAndFilter(rows)
	if err != nil {
		return nil, err
	}
	b.stats.RowsOut = len(out)

	b.logDuplicates(ctx)
	return &Table{Rows: out, Stats: b.stats}, nil
}

// parseOrders parses both timestamps of every order and derives delivery days.
func (b *builder) parseOrders(tables *loader.Tables) ([]orderRecord, keyIndex, error) {
	df := tables.Orders
	ids := column(df, ColOrderID)
	customers := column(df, ColCustomerID)
	statuses := column(df, ColOrderStatus)
	purchased := column(df, ColPurchaseTimestamp)
	delivered := column(df, ColDeliveredTimestamp)

	orders := make([]orderRecord, len(ids))
	for i, id := range ids {
		p, err := ParseTimestamp(purchased[i])
		if err != nil {
			return nil, keyIndex{}, timestampError(id, ColPurchaseTimestamp, err)
		}
		d, err := ParseTimestamp(delivered[i])
		if err != nil {
			return nil, keyIndex{}, timestampError(id, ColDeliveredTimestamp, err)
		}
		orders[i] = orderRecord{
			customerID:   cell(customers, i),
			status:       cell(statuses, i),
			purchasedAt:  p,
			deliveredAt:  d,
			deliveryDays: DeliveryDays(p, d),
		}
	}

	idx := newKeyIndex(ids, nil)
	b.stats.Duplicates[loader.TableOrders] = idx.duplicates
	return orders, idx, nil
}

func timestampError(orderID, col string, err error) error {
	return apperrors.NewParsingError(fmt.Sprintf("cannot parse %s of order %s", col, orderID), err).
		WithContext("order_id", orderID).
		WithContext("column", col)
}

func (b *builder) orderItems(tables *loader.Tables) []workingRow {
	df := tables.OrderItems
	orderIDs := column(df, ColOrderID)
	itemIDs := column(df, ColOrderItemID)
	productIDs := column(df, ColProductID)
	sellerIDs := column(df, ColSellerID)
	prices := column(df, ColPrice)
	freights := column(df, ColFreightValue)

	rows := make([]workingRow, len(orderIDs))
	for i := range orderIDs {
		rows[i] = workingRow{
			row: domain.AnalyticalRow{
				OrderID:     cell(orderIDs, i),
				OrderItemID: cell(itemIDs, i),
				ProductID:   cell(productIDs, i),
				SellerID:    cell(sellerIDs, i),
			},
			price:   prices[i],
			freight: freights[i],
		}
	}
	return rows
}

func (b *builder) joinOrders(rows []workingRow, orders []orderRecord, idx keyIndex) {
	unmatched := 0
	for i := range rows {
		j := idx.lookup(rows[i].row.OrderID)
		if j < 0 {
			unmatched++
			continue
		}
		o := &orders[j]
		rows[i].order = o
		rows[i].deliveryDays = o.deliveryDays
		rows[i].row.CustomerID = o.customerID
		rows[i].row.OrderStatus = o.status
	}
	b.stats.Unmatched[JoinOrders] = unmatched
}

func (b *builder) joinProducts(rows []workingRow, tables *loader.Tables) {
	df := tables.Products
	ids := column(df, ColProductID)
	categories := column(df, ColCategory)
	idx := newKeyIndex(ids, nil)
	b.stats.Duplicates[loader.TableProducts] = idx.duplicates

	unmatched := 0
	for i := range rows {
		j := idx.lookup(rows[i].row.ProductID)
		if j < 0 {
			unmatched++
			continue
		}
		rows[i].row.ProductCategory = cell(categories, j)
	}
	b.stats.Unmatched[JoinProducts] = unmatched
}

func (b *builder) joinCustomers(rows []workingRow, tables *loader.Tables) {
	df := tables.Customers
	ids := column(df, ColCustomerID)
	uniqueIDs := column(df, ColCustomerUniqueID)
	zips := column(df, ColCustomerZipPrefix)
	cities := column(df, ColCustomerCity)
	states := column(df, ColCustomerState)
	idx := newKeyIndex(ids, nil)
	b.stats.Duplicates[loader.TableCustomers] = idx.duplicates

	unmatched := 0
	for i := range rows {
		j := idx.lookup(rows[i].row.CustomerID)
		if j < 0 {
			unmatched++
			continue
		}
		rows[i].row.CustomerUniqueID = cell(uniqueIDs, j)
		rows[i].row.ZipCodePrefix = NormalizeZipPrefix(zips[j])
		rows[i].row.CustomerCity = cell(cities, j)
		rows[i].row.CustomerState = cell(states, j)
	}
	b.stats.Unmatched[JoinCustomers] = unmatched
}

func (b *builder) joinGeolocation(rows []workingRow, points []GeoPoint) {
	byPrefix := make(map[string]GeoPoint, len(points))
	for _, p := range points {
		byPrefix[p.ZipPrefix] = p
	}

	unmatched := 0
	for i := range rows {
		p, ok := byPrefix[rows[i].row.ZipCodePrefix]
		if !ok || rows[i].row.ZipCodePrefix == "" {
			unmatched++
			continue
		}
		rows[i].row.Latitude = p.Latitude
		rows[i].row.Longitude = p.Longitude
	}
	b.stats.Unmatched[JoinGeolocation] = unmatched
}

func (b *builder) joinTranslations(rows []workingRow, tables *loader.Tables) {
	df := tables.Translations
	names := column(df, ColCategory)
	english := column(df, ColCategoryEnglish)
	idx := newKeyIndex(names, nil)
	b.stats.Duplicates[loader.TableTranslations] = idx.duplicates

	unmatched := 0
	for i := range rows {
		j := idx.lookup(rows[i].row.ProductCategory)
		if j < 0 {
			unmatched++
			continue
		}
		rows[i].row.CategoryEnglish = cell(english, j)
	}
	b.stats.Unmatched[JoinTranslations] = unmatched
}

func (b *builder) joinReviews(rows []workingRow, reviews []ReviewScore) {
	byOrder := make(map[string]float64, len(reviews))
	for _, r := range reviews {
		byOrder[r.OrderID] = r.Score
	}

	unmatched := 0
	for i := range rows {
		score, ok := byOrder[rows[i].row.OrderID]
		if !ok {
			unmatched++
			continue
		}
		rows[i].row.ReviewScore = &score
	}
	b.stats.Unmatched[JoinReviews] = unmatched
}

// deriveAndFilter computes total sales and keeps rows with a positive
// delivery time and both amounts present. Amounts are parsed for every row so
// a malformed value fails the build even on a row that would be dropped.
func (b *builder) deriveAndFilter(rows []workingRow) ([]domain.AnalyticalRow, error) {
	out := make([]domain.AnalyticalRow, 0, len(rows))
	for i := range rows {
		w := &rows[i]

		price, hasPrice, err := parseAmount(w.price)
		if err != nil {
			return nil, amountError(w.row, ColPrice, w.price, err)
		}
		freight, hasFreight, err := parseAmount(w.freight)
		if err != nil {
			return nil, amountError(w.row, ColFreightValue, w.freight, err)
		}

		switch {
		case w.deliveryDays == nil:
			b.stats.Dropped[DropUndelivered]++
			continue
		case *w.deliveryDays <= 0:
			b.stats.Dropped[DropNonPositive]++
			continue
		case !hasPrice || !hasFreight:
			b.stats.Dropped[DropMissingAmount]++
			continue
		}

		row := w.row
		row.PurchasedAt = *w.order.purchasedAt
		row.DeliveredAt = *w.order.deliveredAt
		row.DeliveryDays = *w.deliveryDays
		row.Price = price
		row.FreightValue = freight
		row.TotalSales = price.Add(freight)
		out = append(out, row)
	}
	return out, nil
}

func amountError(row domain.AnalyticalRow, col, value string, err error) error {
	return apperrors.NewParsingError(
		fmt.Sprintf("cannot parse %s %q of order %s item %s", col, value, row.OrderID, row.OrderItemID), err).
		WithContext("order_id", row.OrderID).
		WithContext("column", col)
}

func (b *builder) logDuplicates(ctx context.Context) {
	for table, n := range b.stats.Duplicates {
		if n > 0 {
			b.logger.WarnContext(ctx, "Duplicate lookup keys ignored",
				slog.String("table", table),
				slog.Int("duplicates", n))
		}
	}
}

