package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"olistcli/internal/config"
)

// Fixture maps a dataset file name to its CSV records, header first.
type Fixture map[string][][]string

// StandardFixture returns a small dataset covering the common build cases:
//
//   - o1 (2 items) delivered after 5 days, two reviews (5 and 4), customer in
//     zip prefix 01310 with two geolocation samples
//   - o2 never delivered
//   - o3 delivered before purchase
//   - o4 delivered after 13 days to a prefix without geolocation samples
//   - o5 delivered the same day
//   - an item whose order o9 does not exist
//
// Category moveis_decoracao has no translation; beleza_saude does; p2 has no
// category. Three analytical rows survive: both o1 items and the o4 item.
func StandardFixture() Fixture {
	return Fixture{
		config.OrdersFile: {
			{"order_id", "customer_id", "order_status", "order_purchase_timestamp", "order_approved_at", "order_delivered_carrier_date", "order_delivered_customer_date", "order_estimated_delivery_date"},
			{"o1", "c1", "delivered", "2017-01-10 10:00:00", "2017-01-10 10:15:00", "2017-01-11 09:00:00", "2017-01-15 12:00:00", "2017-01-25 00:00:00"},
			{"o2", "c2", "shipped", "2017-02-01 08:00:00", "2017-02-01 08:30:00", "2017-02-02 10:00:00", "", "2017-02-20 00:00:00"},
			{"o3", "c3", "delivered", "2017-03-10 10:00:00", "2017-03-10 11:00:00", "2017-03-06 10:00:00", "2017-03-05 10:00:00", "2017-03-30 00:00:00"},
			{"o4", "c4", "delivered", "2017-03-20 09:30:00", "2017-03-20 10:00:00", "2017-03-22 14:00:00", "2017-04-02 18:00:00", "2017-04-10 00:00:00"},
			{"o5", "c1", "delivered", "2017-05-01 10:00:00", "2017-05-01 10:05:00", "2017-05-01 12:00:00", "2017-05-01 20:00:00", "2017-05-10 00:00:00"},
		},
		config.OrderItemsFile: {
			{"order_id", "order_item_id", "product_id", "seller_id", "shipping_limit_date", "price", "freight_value"},
			{"o1", "1", "p1", "s1", "2017-01-12 10:00:00", "100.00", "15.50"},
			{"o1", "2", "p2", "s1", "2017-01-12 10:00:00", "49.90", "8.72"},
			{"o2", "1", "p1", "s2", "2017-02-03 08:00:00", "30.00", "5.00"},
			{"o3", "1", "p3", "s2", "2017-03-12 10:00:00", "20.00", "3.00"},
			{"o4", "1", "p3", "s3", "2017-03-22 09:30:00", "75.00", "12.25"},
			{"o5", "1", "p2", "s3", "2017-05-03 10:00:00", "10.00", "2.00"},
			{"o9", "1", "p1", "s1", "2017-06-01 10:00:00", "10.00", "1.00"},
		},
		config.ProductsFile: {
			{"product_id", "product_category_name", "product_weight_g"},
			{"p1", "moveis_decoracao", "1200"},
			{"p2", "", "300"},
			{"p3", "beleza_saude", "150"},
		},
		config.CustomersFile: {
			{"customer_id", "customer_unique_id", "customer_zip_code_prefix", "customer_city", "customer_state"},
			{"c1", "u1", "01310", "sao paulo", "SP"},
			{"c2", "u2", "22041", "rio de janeiro", "RJ"},
			{"c3", "u3", "30130", "belo horizonte", "MG"},
			{"c4", "u4", "99999", "porto alegre", "RS"},
		},
		config.GeolocationFile: {
			{"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng", "geolocation_city", "geolocation_state"},
			{"01310", "-23.561", "-46.655", "sao paulo", "SP"},
			{"01310", "-23.563", "-46.657", "sao paulo", "SP"},
			{"22041", "-22.97", "-43.18", "rio de janeiro", "RJ"},
			{"30130", "-19.92", "-43.94", "belo horizonte", "MG"},
		},
		config.TranslationsFile: {
			{"product_category_name", "product_category_name_english"},
			{"beleza_saude", "health_beauty"},
		},
		config.ReviewsFile: {
			{"review_id", "order_id", "review_score", "review_creation_date"},
			{"r1", "o1", "5", "2017-01-16 00:00:00"},
			{"r2", "o1", "4", "2017-01-17 00:00:00"},
			{"r3", "o4", "1", "2017-04-03 00:00:00"},
			{"r4", "o2", "3", "2017-02-21 00:00:00"},
		},
	}
}

// Clone returns a deep copy so tests can edit a fixture independently
func (f Fixture) Clone() Fixture {
	out := make(Fixture, len(f))
	for name, records := range f {
		rows := make([][]string, len(records))
		for i, row := range records {
			rows[i] = append([]string(nil), row...)
		}
		out[name] = rows
	}
	return out
}

// AppendRow adds a data row to the named file
func (f Fixture) AppendRow(file string, row ...string) Fixture {
	f[file] = append(f[file], row)
	return f
}

// WriteFixture writes every file of f into dir
func WriteFixture(t testing.TB, dir string, f Fixture) {
	t.Helper()

	for name, records := range f {
		file, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("create fixture %s: %v", name, err)
		}
		w := csv.NewWriter(file)
		if err := w.WriteAll(records); err != nil {
			file.Close()
			t.Fatalf("write fixture %s: %v", name, err)
		}
		if err := file.Close(); err != nil {
			t.Fatalf("close fixture %s: %v", name, err)
		}
	}
}

// WriteStandardDataset writes StandardFixture to a fresh temp dir and returns it
func WriteStandardDataset(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	WriteFixture(t, dir, StandardFixture())
	return dir
}
