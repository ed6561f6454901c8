package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"olistcli/pkg/contracts/domain"
)

// Accepted timestamp layouts, tried in order.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

const zipPrefixWidth = 5

// IsMissing reports whether a raw cell holds no value.
func IsMissing(value string) bool {
	switch strings.TrimSpace(value) {
	case "", "NaN", "NA", "<nil>":
		return true
	}
	return false
}

// ParseTimestamp parses a raw timestamp cell. A missing cell yields nil and no
// error; any other value that matches no accepted layout is an error.
func ParseTimestamp(value string) (*time.Time, error) {
	if IsMissing(value) {
		return nil, nil
	}
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return &ts, nil
		}
	}
	return nil, fmt.Errorf("unrecognized timestamp %q", value)
}

// DeliveryDays returns the whole days between purchase and delivery, rounded
// toward negative infinity. It is nil when either timestamp is missing.
func DeliveryDays(purchase, delivered *time.Time) *int {
	if purchase == nil || delivered == nil {
		return nil
	}
	elapsed := delivered.Sub(*purchase)
	days := int(elapsed / (24 * time.Hour))
	if elapsed%(24*time.Hour) < 0 {
		days--
	}
	return &days
}

// DisplayCategoryName turns a translated category into a display label:
// underscores become spaces and every word is capitalized. An absent category
// or translation yields domain.OthersCategory.
func DisplayCategoryName(category, translation string) string {
	if IsMissing(category) || IsMissing(translation) {
		return domain.OthersCategory
	}
	label := strings.ReplaceAll(strings.TrimSpace(translation), "_", " ")
	return cases.Title(language.Und).String(label)
}

// NormalizeZipPrefix makes customer and geolocation prefixes comparable.
// Values read as floats ("1310.0") lose the fraction and all-digit values
// shorter than five characters are left-padded with zeros.
func NormalizeZipPrefix(value string) string {
	if IsMissing(value) {
		return ""
	}
	value = strings.TrimSpace(value)
	if whole, frac, ok := strings.Cut(value, "."); ok && isDigits(whole) && strings.Trim(frac, "0") == "" {
		value = whole
	}
	if isDigits(value) && len(value) < zipPrefixWidth {
		value = strings.Repeat("0", zipPrefixWidth-len(value)) + value
	}
	return value
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseAmount parses a money cell. ok is false for a missing cell.
func parseAmount(value string) (amount decimal.Decimal, ok bool, err error) {
	if IsMissing(value) {
		return decimal.Zero, false, nil
	}
	amount, err = decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, false, err
	}
	return amount, true, nil
}

// parseFloat parses a numeric cell. ok is false for a missing cell.
func parseFloat(value string) (f float64, ok bool, err error) {
	if IsMissing(value) {
		return 0, false, nil
	}
	f, err = strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false, err
	}
	return f, true, nil
}
