package analytics

import (
	"time"

	"github.com/jcmexdev/ecommerce-analytics/internal/domain"
)

// ResolvedOrder is an order with its customer and product references
// expanded. This is the shape queries return and the coordinator caches.
type ResolvedOrder struct {
	ID              string              `json:"id"`
	Customer        domain.Customer     `json:"customer"`
	Items           []ResolvedOrderItem `json:"items"`
	Total           float64             `json:"total"`
	Status          domain.OrderStatus  `json:"status"`
	PaymentMethod   string              `json:"paymentMethod"`
	ShippingAddress domain.Address      `json:"shippingAddress"`
	OrderDate       time.Time           `json:"orderDate"`
}

type ResolvedOrderItem struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`

	// Price is the unit price captured at purchase time, not the product's
	// current price.
	Price float64 `json:"price"`
}

type CustomerSpending struct {
	Customer            domain.Customer    `json:"customer"`
	TotalSpent          float64            `json:"totalSpent"`
	OrderCount          int                `json:"orderCount"`
	AverageOrderValue   float64            `json:"averageOrderValue"`
	RecentOrders        []ResolvedOrder    `json:"recentOrders"`
	PurchasesByCategory []CategorySpending `json:"purchasesByCategory"`
}

type CategorySpending struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type TopProduct struct {
	Product    domain.Product `json:"product"`
	TotalSold  int            `json:"totalSold"`
	Revenue    float64        `json:"revenue"`
	OrderCount int            `json:"orderCount"`
}

type DailySales struct {
	Date       string  `json:"date"`
	Sales      float64 `json:"sales"`
	OrderCount int     `json:"orderCount"`
}

type CategorySales struct {
	Category   string  `json:"category"`
	Sales      float64 `json:"sales"`
	Percentage float64 `json:"percentage"`
}

type SalesAnalytics struct {
	TotalSales        float64         `json:"totalSales"`
	OrderCount        int             `json:"orderCount"`
	AverageOrderValue float64         `json:"averageOrderValue"`
	SalesByDay        []DailySales    `json:"salesByDay"`
	SalesByCategory   []CategorySales `json:"salesByCategory"`
	TopProducts       []TopProduct    `json:"topProducts"`
}

type OrderPage struct {
	Orders          []ResolvedOrder `json:"orders"`
	TotalOrders     int             `json:"totalOrders"`
	TotalPages      int             `json:"totalPages"`
	CurrentPage     int             `json:"currentPage"`
	HasNextPage     bool            `json:"hasNextPage"`
	HasPreviousPage bool            `json:"hasPreviousPage"`
}
