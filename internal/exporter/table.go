package exporter

import (
	"fmt"
	"log/slog"

	apperrors "olistcli/internal/errors"
	"olistcli/pkg/contracts/domain"
)

// AnalyticalHeaders returns the column names of an exported analytical table
func AnalyticalHeaders() []string {
	return []string{
		"order_id",
		"order_item_id",
		"product_id",
		"seller_id",
		"customer_id",
		"order_status",
		"order_purchase_timestamp",
		"order_delivered_customer_date",
		"delivery_days",
		"price",
		"freight_value",
		"total_sales",
		"product_category_name",
		"product_category_name_english",
		"category_display_name",
		"customer_zip_code_prefix",
		"customer_city",
		"customer_state",
		"geolocation_lat",
		"geolocation_lng",
		"review_score",
	}
}

// analyticalRecord converts a row to its CSV record
func analyticalRecord(r domain.AnalyticalRow) []string {
	return []string{
		r.OrderID,
		r.OrderItemID,
		r.ProductID,
		r.SellerID,
		r.CustomerID,
		r.OrderStatus,
		formatTime(r.PurchasedAt),
		formatTime(r.DeliveredAt),
		formatInt(r.DeliveryDays),
		formatMoney(r.Price),
		formatMoney(r.FreightValue),
		formatMoney(r.TotalSales),
		r.ProductCategory,
		r.CategoryEnglish,
		r.CategoryDisplayName,
		r.ZipCodePrefix,
		r.CustomerCity,
		r.CustomerState,
		formatCoordinate(r.Latitude),
		formatCoordinate(r.Longitude),
		formatScore(r.ReviewScore),
	}
}

// WriteAnalyticalTable streams rows to filePath as a BOM-prefixed CSV
func (w *CSVWriter) WriteAnalyticalTable(filePath string, rows []domain.AnalyticalRow) error {
	stream, err := w.CreateStreamWriter(filePath, AnalyticalHeaders())
	if err != nil {
		return err
	}

	for _, row := range rows {
		if err := stream.WriteRecord(analyticalRecord(row)); err != nil {
			stream.Close()
			return apperrors.NewStorageError(
				fmt.Sprintf("failed to write order %s item %s", row.OrderID, row.OrderItemID), err)
		}
	}
	if err := stream.Close(); err != nil {
		return err
	}

	w.logger.Info("Exported analytical table",
		slog.String("file_path", filePath),
		slog.Int("rows", stream.Rows()))
	return nil
}
