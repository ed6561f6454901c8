package config

import "olistcli/pkg/contracts"

// Application constants
const (
	// Application Info
	AppName    = "Olist Order Analytics"
	AppVersion = contracts.Version
	EnvPrefix  = "OLIST"

	// File Paths (relative to the working directory)
	DefaultDataDir = "data/raw"
	DefaultLogsDir = "logs"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "console"
	DefaultLogFile   = "logs/olist-report.log"

	// Report Settings
	DefaultTopCategories       = 10
	DefaultHighlightCategories = 3
	DefaultSatisfactionMaxDays = 50
)

// Dataset file names under the data directory.
const (
	OrdersFile       = "olist_orders_dataset.csv"
	OrderItemsFile   = "olist_order_items_dataset.csv"
	ProductsFile     = "olist_products_dataset.csv"
	CustomersFile    = "olist_customers_dataset.csv"
	GeolocationFile  = "olist_geolocation_dataset.csv"
	TranslationsFile = "product_category_name_translation.csv"
	ReviewsFile      = "olist_order_reviews_dataset.csv"
)

// DatasetFiles lists the dataset files in load order.
func DatasetFiles() []string {
	return []string{
		OrdersFile,
		OrderItemsFile,
		ProductsFile,
		CustomersFile,
		GeolocationFile,
		TranslationsFile,
		ReviewsFile,
	}
}
