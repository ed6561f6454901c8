// Package analytics answers the report queries over the analytical table:
// headline KPIs, the monthly sales trend, the product/freight revenue split,
// the category ranking, delivery time per review score and map points.
//
// All functions are stateless and leave their input untouched. Money is
// summed with shopspring/decimal; shares and delivery statistics are floats.
package analytics
