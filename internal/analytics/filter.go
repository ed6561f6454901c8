package analytics

import (
	"olistcli/pkg/contracts/domain"
)

// RowFilter selects analytical rows
type RowFilter func(domain.AnalyticalRow) bool

// Filter returns the rows accepted by every filter, in input order
func Filter(rows []domain.AnalyticalRow, filters ...RowFilter) []domain.AnalyticalRow {
	out := make([]domain.AnalyticalRow, 0, len(rows))
next:
	for _, row := range rows {
		for _, keep := range filters {
			if !keep(row) {
				continue next
			}
		}
		out = append(out, row)
	}
	return out
}

// DeliveryDaysBelow keeps rows delivered in fewer than limit days
func DeliveryDaysBelow(limit int) RowFilter {
	return func(r domain.AnalyticalRow) bool {
		return r.DeliveryDays < limit
	}
}

// DeliveryDaysBetween keeps rows with min <= delivery days <= max
func DeliveryDaysBetween(min, max int) RowFilter {
	return func(r domain.AnalyticalRow) bool {
		return r.DeliveryDays >= min && r.DeliveryDays <= max
	}
}

// HasCoordinates keeps rows with both latitude and longitude
func HasCoordinates() RowFilter {
	return domain.AnalyticalRow.HasCoordinates
}

// HasReview keeps rows with a review score
func HasReview() RowFilter {
	return domain.AnalyticalRow.HasReview
}

// InCategory keeps rows whose display name equals category
func InCategory(category string) RowFilter {
	return func(r domain.AnalyticalRow) bool {
		return r.CategoryDisplayName == category
	}
}
