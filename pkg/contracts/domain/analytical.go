package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OthersCategory is the display name for items whose category is absent or untranslated.
const OthersCategory = "Others"

// AnalyticalRow is one order item joined with its order, product, customer,
// geolocation, category translation and review data.
//
// Rows only exist for delivered orders with a positive delivery time, so
// DeliveredAt and DeliveryDays are always set. Fields sourced from a left join
// that found no partner are empty strings or nil pointers.
type AnalyticalRow struct {
	OrderID     string `json:"order_id" validate:"required"`
	OrderItemID string `json:"order_item_id"`
	ProductID   string `json:"product_id"`
	SellerID    string `json:"seller_id,omitempty"`
	OrderStatus string `json:"order_status,omitempty"`

	PurchasedAt  time.Time `json:"order_purchase_timestamp"`
	DeliveredAt  time.Time `json:"order_delivered_customer_date"`
	DeliveryDays int       `json:"delivery_days" validate:"gt=0"`

	Price        decimal.Decimal `json:"price"`
	FreightValue decimal.Decimal `json:"freight_value"`
	TotalSales   decimal.Decimal `json:"total_sales"`

	ProductCategory     string `json:"product_category_name,omitempty"`
	CategoryEnglish     string `json:"product_category_name_english,omitempty"`
	CategoryDisplayName string `json:"category_display_name" validate:"required"`

	CustomerID       string   `json:"customer_id,omitempty"`
	CustomerUniqueID string   `json:"customer_unique_id,omitempty"`
	CustomerCity     string   `json:"customer_city,omitempty"`
	CustomerState    string   `json:"customer_state,omitempty"`
	ZipCodePrefix    string   `json:"customer_zip_code_prefix,omitempty"`
	Latitude         *float64 `json:"geolocation_lat,omitempty"`
	Longitude        *float64 `json:"geolocation_lng,omitempty"`

	// ReviewScore is the mean of the order's review scores, nil without reviews.
	ReviewScore *float64 `json:"review_score,omitempty"`
}

// HasCoordinates reports whether the row carries both latitude and longitude.
func (r AnalyticalRow) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// HasReview reports whether the order has a review score.
func (r AnalyticalRow) HasReview() bool {
	return r.ReviewScore != nil
}
