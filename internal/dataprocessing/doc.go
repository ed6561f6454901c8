// Package dataprocessing builds the analytical table from the loaded Olist tables.
//
// # Pipeline
//
// Build runs a fixed sequence of steps over the order items:
//
//	orders (timestamps, delivery days)
//	geolocation samples → one mean point per zip prefix
//	items ⟕ orders ⟕ products ⟕ customers ⟕ geolocation ⟕ translations
//	reviews → one mean score per order ⟕ items
//	category display name, total sales
//	filter: delivery days defined and > 0
//
// Every join is a left join on an explicit JoinKey. The right-hand side is
// indexed by key keeping the first occurrence, so a join never adds rows;
// duplicate right-hand keys are counted in Stats and logged.
//
// # Usage
//
//	tables, err := loader.Load(ctx, "data/raw")
//	if err != nil {
//	    return err
//	}
//	table, err := dataprocessing.Build(ctx, tables, dataprocessing.WithLogger(logger))
//	if errors.Is(err, dataprocessing.ErrNoData) {
//	    // show the "no data" state
//	}
//
// # Error Handling
//
// Missing columns fail with a SCHEMA AppError naming the table and column
// before any row is processed. Unparseable timestamps, amounts, coordinates
// and review scores fail with a PARSING AppError. Unmatched keys and
// non-positive delivery times are not errors: they yield empty fields and
// dropped rows respectively, both reported in Stats.
package dataprocessing
