package cache

import "strconv"

// Cache keys are a deterministic function of the query name and its
// parameters. The exact string forms are part of the contract: the
// invalidation path in the coordinator relies on them.
const (
	customerSpendingPrefix = "customer_spending:"

	// TopProductsPrefix and SalesAnalyticsPrefix cover every parameter
	// variant of their queries; order placement invalidates both wholesale.
	TopProductsPrefix    = "top_products:"
	SalesAnalyticsPrefix = "sales_analytics:"
)

func CustomerSpendingKey(customerID string) string {
	return customerSpendingPrefix + customerID
}

func TopProductsKey(limit int) string {
	return TopProductsPrefix + strconv.Itoa(limit)
}

// SalesAnalyticsKey uses the raw input strings, not parsed and re-serialized
// dates, so the same inputs always address the same entry.
func SalesAnalyticsKey(startDate, endDate string) string {
	return SalesAnalyticsPrefix + startDate + "_" + endDate
}
