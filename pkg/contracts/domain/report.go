package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// KPIs holds the headline figures of the report
type KPIs struct {
	TotalSales      decimal.Decimal `json:"total_sales"`
	OrderCount      int             `json:"order_count"`
	ItemCount       int             `json:"item_count"`
	AverageBasket   decimal.Decimal `json:"average_basket"`
	AvgDeliveryDays float64         `json:"avg_delivery_days"`
}

// MonthlySales is the sales total of one calendar month
type MonthlySales struct {
	Month time.Time       `json:"month"`
	Sales decimal.Decimal `json:"sales"`
	Items int             `json:"items"`
}

// RevenueBreakdown splits total sales into product revenue and freight
type RevenueBreakdown struct {
	ProductSales decimal.Decimal `json:"product_sales"`
	Freight      decimal.Decimal `json:"freight"`
	Total        decimal.Decimal `json:"total"`
	FreightShare float64         `json:"freight_share_pct"`
}

// CategorySales is one entry of the category ranking
type CategorySales struct {
	Rank     int             `json:"rank"`
	Category string          `json:"category"`
	Sales    decimal.Decimal `json:"sales"`
	Share    float64         `json:"share_pct"`
	Dominant bool            `json:"dominant"`
}

// DeliveryStats summarizes delivery days for one review score bucket
type DeliveryStats struct {
	Score  int     `json:"score" validate:"min=1,max=5"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// MapPoint is a geolocated, sales-weighted analytical row
type MapPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Weight    float64 `json:"weight"`
}

// Report bundles every view computed from the analytical table
type Report struct {
	GeneratedAt  time.Time        `json:"generated_at"`
	RunID        string           `json:"run_id,omitempty"`
	Rows         int              `json:"rows"`
	KPIs         KPIs             `json:"kpis"`
	Monthly      []MonthlySales   `json:"monthly"`
	Revenue      RevenueBreakdown `json:"revenue"`
	Categories   []CategorySales  `json:"categories"`
	Satisfaction []DeliveryStats  `json:"satisfaction"`
	MapPoints    []MapPoint       `json:"map_points,omitempty"`
}

// SatisfactionFor returns the delivery statistics of a score bucket
func (r *Report) SatisfactionFor(score int) (DeliveryStats, bool) {
	for _, s := range r.Satisfaction {
		if s.Score == score {
			return s, true
		}
	}
	return DeliveryStats{}, false
}
