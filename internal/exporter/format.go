package exporter

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const timestampLayout = "2006-01-02 15:04:05"

// formatMoney formats an amount with exactly 2 decimal places
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatCoordinate keeps full precision; nil becomes an empty cell
func formatCoordinate(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// formatScore formats an optional review score; nil becomes an empty cell
func formatScore(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// formatInt formats an int for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatTime formats a timestamp in the dataset's own layout
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timestampLayout)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
