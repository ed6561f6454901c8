package dataprocessing

import (
	"github.com/go-gota/gota/dataframe"

	apperrors "olistcli/internal/errors"
	"olistcli/internal/loader"
)

// Column names referenced by the builder.
const (
	ColOrderID            = "order_id"
	ColOrderItemID        = "order_item_id"
	ColProductID          = "product_id"
	ColSellerID           = "seller_id"
	ColCustomerID         = "customer_id"
	ColCustomerUniqueID   = "customer_unique_id"
	ColCustomerCity       = "customer_city"
	ColCustomerState      = "customer_state"
	ColOrderStatus        = "order_status"
	ColPurchaseTimestamp  = "order_purchase_timestamp"
	ColDeliveredTimestamp = "order_delivered_customer_date"
	ColPrice              = "price"
	ColFreightValue       = "freight_value"
	ColCategory           = "product_category_name"
	ColCategoryEnglish    = "product_category_name_english"
	ColCustomerZipPrefix  = "customer_zip_code_prefix"
	ColGeoZipPrefix       = "geolocation_zip_code_prefix"
	ColGeoLat             = "geolocation_lat"
	ColGeoLng             = "geolocation_lng"
	ColReviewScore        = "review_score"
)

// JoinKey names the column on each side of a left join.
type JoinKey struct {
	Left  string
	Right string
}

// JoinStep is one left join of the build, from a column of LeftTable to a
// column of RightTable.
type JoinStep struct {
	Name       string
	LeftTable  string
	RightTable string
	Key        JoinKey
}

// Join step names, also used as metric and log labels.
const (
	JoinOrders       = "orders"
	JoinProducts     = "products"
	JoinCustomers    = "customers"
	JoinGeolocation  = "geolocation"
	JoinTranslations = "translations"
	JoinReviews      = "reviews"
)

// JoinSteps returns the joins of the build in execution order.
func JoinSteps() []JoinStep {
	return []JoinStep{
		{Name: JoinOrders, LeftTable: loader.TableOrderItems, RightTable: loader.TableOrders,
			Key: JoinKey{Left: ColOrderID, Right: ColOrderID}},
		{Name: JoinProducts, LeftTable: loader.TableOrderItems, RightTable: loader.TableProducts,
			Key: JoinKey{Left: ColProductID, Right: ColProductID}},
		{Name: JoinCustomers, LeftTable: loader.TableOrders, RightTable: loader.TableCustomers,
			Key: JoinKey{Left: ColCustomerID, Right: ColCustomerID}},
		{Name: JoinGeolocation, LeftTable: loader.TableCustomers, RightTable: loader.TableGeolocation,
			Key: JoinKey{Left: ColCustomerZipPrefix, Right: ColGeoZipPrefix}},
		{Name: JoinTranslations, LeftTable: loader.TableProducts, RightTable: loader.TableTranslations,
			Key: JoinKey{Left: ColCategory, Right: ColCategory}},
		{Name: JoinReviews, LeftTable: loader.TableOrderItems, RightTable: loader.TableReviews,
			Key: JoinKey{Left: ColOrderID, Right: ColOrderID}},
	}
}

// valueColumns lists the non-key columns each table must provide.
var valueColumns = map[string][]string{
	loader.TableOrders:       {ColPurchaseTimestamp, ColDeliveredTimestamp},
	loader.TableOrderItems:   {ColPrice, ColFreightValue},
	loader.TableGeolocation:  {ColGeoLat, ColGeoLng},
	loader.TableTranslations: {ColCategoryEnglish},
	loader.TableReviews:      {ColReviewScore},
}

// RequiredColumns returns every column the build reads, per table.
func RequiredColumns() map[string][]string {
	required := make(map[string][]string)
	add := func(table, column string) {
		for _, c := range required[table] {
			if c == column {
				return
			}
		}
		required[table] = append(required[table], column)
	}
	for _, step := range JoinSteps() {
		add(step.LeftTable, step.Key.Left)
		add(step.RightTable, step.Key.Right)
	}
	for _, ds := range loader.Datasets() {
		for _, column := range valueColumns[ds.Name] {
			add(ds.Name, column)
		}
	}
	return required
}

// CheckSchema fails with a schema error naming the first table and column
// the build needs but the input lacks. Tables are checked in load order.
func CheckSchema(tables *loader.Tables) error {
	required := RequiredColumns()
	for _, ds := range loader.Datasets() {
		df, _ := tables.Get(ds.Name)
		present := make(map[string]bool, df.Ncol())
		for _, name := range df.Names() {
			present[name] = true
		}
		for _, column := range required[ds.Name] {
			if !present[column] {
				return apperrors.NewSchemaError(ds.Name, column)
			}
		}
	}
	return nil
}

// column returns the raw values of name, or nil when the optional column is absent.
func column(df dataframe.DataFrame, name string) []string {
	for _, n := range df.Names() {
		if n == name {
			return df.Col(name).Records()
		}
	}
	return nil
}

// cell reads row i of a column that may be absent.
func cell(values []string, i int) string {
	if i < 0 || i >= len(values) {
		return ""
	}
	if IsMissing(values[i]) {
		return ""
	}
	return values[i]
}

// keyIndex maps join keys to the first row holding them.
type keyIndex struct {
	rows       map[string]int
	duplicates int
}

func newKeyIndex(keys []string, normalize func(string) string) keyIndex {
	idx := keyIndex{rows: make(map[string]int, len(keys))}
	for i, key := range keys {
		if normalize != nil {
			key = normalize(key)
		} else if IsMissing(key) {
			key = ""
		}
		if key == "" {
			continue
		}
		if _, seen := idx.rows[key]; seen {
			idx.duplicates++
			continue
		}
		idx.rows[key] = i
	}
	return idx
}

// lookup returns the indexed row for key, or -1.
func (idx keyIndex) lookup(key string) int {
	if key == "" {
		return -1
	}
	if i, ok := idx.rows[key]; ok {
		return i
	}
	return -1
}
