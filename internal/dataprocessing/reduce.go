package dataprocessing

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	apperrors "olistcli/internal/errors"
	"olistcli/internal/loader"
)

// GeoPoint is the representative location of one zip code prefix.
type GeoPoint struct {
	ZipPrefix string
	Latitude  *float64
	Longitude *float64
	Samples   int
}

// ReviewScore is the aggregated review score of one order.
type ReviewScore struct {
	OrderID string
	Score   float64
	Reviews int
}

type meanAccumulator struct {
	sum   float64
	count int
}

func (m *meanAccumulator) add(v float64) {
	m.sum += v
	m.count++
}

func (m meanAccumulator) mean() *float64 {
	if m.count == 0 {
		return nil
	}
	v := m.sum / float64(m.count)
	return &v
}

func requireColumns(df dataframe.DataFrame, table string, names ...string) error {
	for _, name := range names {
		if column(df, name) == nil {
			return apperrors.NewSchemaError(table, name)
		}
	}
	return nil
}

// ReduceGeolocation collapses geolocation samples to one point per zip
// prefix: the arithmetic mean of the latitudes and of the longitudes that have
// a value. Prefixes are returned in order of first appearance. Samples with a
// missing prefix are ignored; an unparseable coordinate is an error.
func ReduceGeolocation(df dataframe.DataFrame) ([]GeoPoint, error) {
	if err := requireColumns(df, loader.TableGeolocation, ColGeoZipPrefix, ColGeoLat, ColGeoLng); err != nil {
		return nil, err
	}
	prefixes := column(df, ColGeoZipPrefix)
	lats := column(df, ColGeoLat)
	lngs := column(df, ColGeoLng)

	type group struct {
		lat, lng meanAccumulator
		samples  int
	}
	groups := make(map[string]*group)
	var order []string

	for i, raw := range prefixes {
		prefix := NormalizeZipPrefix(raw)
		if prefix == "" {
			continue
		}
		g, ok := groups[prefix]
		if !ok {
			g = &group{}
			groups[prefix] = g
			order = append(order, prefix)
		}
		g.samples++

		lat, hasLat, err := parseFloat(lats[i])
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("invalid latitude for zip prefix %s", prefix), err).
				WithContext("row", i)
		}
		if hasLat {
			g.lat.add(lat)
		}
		lng, hasLng, err := parseFloat(lngs[i])
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("invalid longitude for zip prefix %s", prefix), err).
				WithContext("row", i)
		}
		if hasLng {
			g.lng.add(lng)
		}
	}

	points := make([]GeoPoint, 0, len(order))
	for _, prefix := range order {
		g := groups[prefix]
		points = append(points, GeoPoint{
			ZipPrefix: prefix,
			Latitude:  g.lat.mean(),
			Longitude: g.lng.mean(),
			Samples:   g.samples,
		})
	}
	return points, nil
}

// ReduceReviews collapses reviews to one score per order: the arithmetic mean
// of the order's scores. Multi-review orders can therefore carry a fractional
// score such as 4.5; consumers that need star buckets round it themselves.
// Reviews without a score are skipped and orders left with no scored review
// are omitted. An unparseable score is an error.
func ReduceReviews(df dataframe.DataFrame) ([]ReviewScore, error) {
	if err := requireColumns(df, loader.TableReviews, ColOrderID, ColReviewScore); err != nil {
		return nil, err
	}
	orderIDs := column(df, ColOrderID)
	scores := column(df, ColReviewScore)

	groups := make(map[string]*meanAccumulator)
	var order []string

	for i, orderID := range orderIDs {
		if IsMissing(orderID) {
			continue
		}
		score, ok, err := parseFloat(scores[i])
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("invalid review score for order %s", orderID), err).
				WithContext("row", i)
		}
		if !ok {
			continue
		}
		acc, seen := groups[orderID]
		if !seen {
			acc = &meanAccumulator{}
			groups[orderID] = acc
			order = append(order, orderID)
		}
		acc.add(score)
	}

	reviews := make([]ReviewScore, 0, len(order))
	for _, orderID := range order {
		acc := groups[orderID]
		reviews = append(reviews, ReviewScore{
			OrderID: orderID,
			Score:   *acc.mean(),
			Reviews: acc.count,
		})
	}
	return reviews, nil
}
