package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"olistcli/pkg/contracts/domain"
)

// TotalSales returns the exact sum of total sales
func TotalSales(rows []domain.AnalyticalRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.TotalSales)
	}
	return total
}

// DistinctOrders counts distinct order ids
func DistinctOrders(rows []domain.AnalyticalRow) int {
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		seen[r.OrderID] = struct{}{}
	}
	return len(seen)
}

// ComputeKPIs returns total sales, order and item counts, the average basket
// (sales per distinct order) and the mean delivery time.
func ComputeKPIs(rows []domain.AnalyticalRow) domain.KPIs {
	kpis := domain.KPIs{
		TotalSales:    TotalSales(rows),
		OrderCount:    DistinctOrders(rows),
		ItemCount:     len(rows),
		AverageBasket: decimal.Zero,
	}
	if kpis.OrderCount > 0 {
		kpis.AverageBasket = kpis.TotalSales.Div(decimal.NewFromInt(int64(kpis.OrderCount)))
	}
	if len(rows) > 0 {
		days := 0
		for _, r := range rows {
			days += r.DeliveryDays
		}
		kpis.AvgDeliveryDays = float64(days) / float64(len(rows))
	}
	return kpis
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthlyTrend sums total sales per calendar month of purchase. Months are
// ascending and every month between the first and the last is present, with
// zero sales when nothing was bought.
func MonthlyTrend(rows []domain.AnalyticalRow) []domain.MonthlySales {
	if len(rows) == 0 {
		return nil
	}
	type bucket struct {
		sales decimal.Decimal
		items int
	}
	buckets := make(map[time.Time]*bucket)
	first, last := monthOf(rows[0].PurchasedAt), monthOf(rows[0].PurchasedAt)
	for _, r := range rows {
		m := monthOf(r.PurchasedAt)
		b, ok := buckets[m]
		if !ok {
			b = &bucket{sales: decimal.Zero}
			buckets[m] = b
		}
		b.sales = b.sales.Add(r.TotalSales)
		b.items++
		if m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
	}

	var trend []domain.MonthlySales
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		entry := domain.MonthlySales{Month: m, Sales: decimal.Zero}
		if b, ok := buckets[m]; ok {
			entry.Sales = b.sales
			entry.Items = b.items
		}
		trend = append(trend, entry)
	}
	return trend
}

// Revenue splits total sales into product sales and freight
func Revenue(rows []domain.AnalyticalRow) domain.RevenueBreakdown {
	products, freight := decimal.Zero, decimal.Zero
	for _, r := range rows {
		products = products.Add(r.Price)
		freight = freight.Add(r.FreightValue)
	}
	total := products.Add(freight)
	breakdown := domain.RevenueBreakdown{
		ProductSales: products,
		Freight:      freight,
		Total:        total,
	}
	if !total.IsZero() {
		breakdown.FreightShare = freight.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return breakdown
}

// TopCategories ranks display categories by total sales, highest first with
// ties broken by name, and returns the first n. The first highlight entries
// are flagged dominant. Share is relative to the sales of all rows.
func TopCategories(rows []domain.AnalyticalRow, n, highlight int) []domain.CategorySales {
	sales := make(map[string]decimal.Decimal)
	for _, r := range rows {
		sales[r.CategoryDisplayName] = sales[r.CategoryDisplayName].Add(r.TotalSales)
	}

	ranking := make([]domain.CategorySales, 0, len(sales))
	for name, total := range sales {
		ranking = append(ranking, domain.CategorySales{Category: name, Sales: total})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if c := ranking[i].Sales.Cmp(ranking[j].Sales); c != 0 {
			return c > 0
		}
		return ranking[i].Category < ranking[j].Category
	})
	if n >= 0 && n < len(ranking) {
		ranking = ranking[:n]
	}

	grand := TotalSales(rows)
	for i := range ranking {
		ranking[i].Rank = i + 1
		ranking[i].Dominant = i < highlight
		if !grand.IsZero() {
			ranking[i].Share = ranking[i].Sales.Div(grand).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
	}
	return ranking
}

// StarBucket maps a review score to a 1..5 star bucket, rounding half to even
// (a 4.5 average lands in 4, a 3.5 average in 4).
func StarBucket(score float64) int {
	star := int(math.RoundToEven(score))
	if star < 1 {
		return 1
	}
	if star > 5 {
		return 5
	}
	return star
}

// SatisfactionByScore describes delivery days per star bucket for reviewed
// rows delivered in fewer than maxDays days. Buckets without rows are
// omitted; the result is ordered by score.
func SatisfactionByScore(rows []domain.AnalyticalRow, maxDays int) []domain.DeliveryStats {
	byScore := make(map[int][]float64)
	for _, r := range Filter(rows, HasReview(), DeliveryDaysBelow(maxDays)) {
		star := StarBucket(*r.ReviewScore)
		byScore[star] = append(byScore[star], float64(r.DeliveryDays))
	}

	var stats []domain.DeliveryStats
	for score := 1; score <= 5; score++ {
		days, ok := byScore[score]
		if !ok {
			continue
		}
		sort.Float64s(days)
		stats = append(stats, domain.DeliveryStats{
			Score:  score,
			Count:  len(days),
			Min:    days[0],
			Q1:     Quantile(days, 0.25),
			Median: Quantile(days, 0.5),
			Q3:     Quantile(days, 0.75),
			Max:    days[len(days)-1],
		})
	}
	return stats
}

// Quantile returns the q-th quantile of sorted values using linear
// interpolation between closest ranks. It returns NaN for no values.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// MapPoints returns one point per geolocated row weighted by its total sales
func MapPoints(rows []domain.AnalyticalRow) []domain.MapPoint {
	located := Filter(rows, HasCoordinates())
	points := make([]domain.MapPoint, 0, len(located))
	for _, r := range located {
		points = append(points, domain.MapPoint{
			Latitude:  *r.Latitude,
			Longitude: *r.Longitude,
			Weight:    r.TotalSales.InexactFloat64(),
		})
	}
	return points
}
