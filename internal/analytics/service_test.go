package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-analytics/internal/domain"
	"github.com/jcmexdev/ecommerce-analytics/internal/store/memory"
)

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// newTestService seeds two customers (c1 with three orders, c2 with none)
// and three products across two categories.
func newTestService(t *testing.T) (*Service, *memory.OrderStore) {
	t.Helper()
	ctx := context.Background()

	customers := memory.NewCustomerStore()
	products := memory.NewProductStore()
	orders := memory.NewOrderStore()

	require.NoError(t, customers.Insert(ctx,
		domain.Customer{ID: "c1", Name: "Ada", Email: "ada@example.com",
			Address: domain.Address{City: "London", Country: "UK"}},
		domain.Customer{ID: "c2", Name: "Grace", Email: "grace@example.com"},
	))
	require.NoError(t, products.Insert(ctx,
		domain.Product{ID: "p1", Name: "Keyboard", Price: 10, Category: "electronics", Stock: 100, SKU: "SKU-p1"},
		domain.Product{ID: "p2", Name: "Novel", Price: 5, Category: "books", Stock: 50, SKU: "SKU-p2"},
		domain.Product{ID: "p3", Name: "Monitor", Price: 20, Category: "electronics", Stock: 10, SKU: "SKU-p3"},
	))
	require.NoError(t, orders.Insert(ctx,
		domain.Order{
			ID: "o1", CustomerID: "c1", Total: 25, Status: domain.StatusCompleted,
			PaymentMethod: "credit_card", OrderDate: date("2024-01-01T10:00:00Z"),
			Items: []domain.OrderItem{
				{ProductID: "p1", Quantity: 2, UnitPrice: 10},
				{ProductID: "p2", Quantity: 1, UnitPrice: 5},
			},
		},
		domain.Order{
			ID: "o2", CustomerID: "c1", Total: 20, Status: domain.StatusShipped,
			PaymentMethod: "credit_card", OrderDate: date("2024-01-03T10:00:00Z"),
			Items: []domain.OrderItem{
				{ProductID: "p3", Quantity: 1, UnitPrice: 20},
			},
		},
		domain.Order{
			ID: "o3", CustomerID: "c1", Total: 20, Status: domain.StatusPending,
			PaymentMethod: "paypal", OrderDate: date("2024-01-05T10:00:00Z"),
			Items: []domain.OrderItem{
				{ProductID: "p2", Quantity: 4, UnitPrice: 5},
			},
		},
	))

	return NewService(customers, products, orders), orders
}

func TestCustomerSpending(t *testing.T) {
	svc, _ := newTestService(t)

	spending, err := svc.CustomerSpending(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, "c1", spending.Customer.ID)
	assert.Equal(t, 65.0, spending.TotalSpent)
	assert.Equal(t, 3, spending.OrderCount)
	assert.Equal(t, 65.0/3, spending.AverageOrderValue)

	// Newest first, with product details resolved.
	require.Len(t, spending.RecentOrders, 3)
	assert.Equal(t, []string{"o3", "o2", "o1"}, []string{
		spending.RecentOrders[0].ID, spending.RecentOrders[1].ID, spending.RecentOrders[2].ID,
	})
	assert.Equal(t, "Novel", spending.RecentOrders[0].Items[0].Product.Name)

	require.Len(t, spending.PurchasesByCategory, 2)
	assert.Equal(t, CategorySpending{Category: "electronics", Amount: 40, Percentage: 40.0 / 65 * 100},
		spending.PurchasesByCategory[0])
	assert.Equal(t, CategorySpending{Category: "books", Amount: 25, Percentage: 25.0 / 65 * 100},
		spending.PurchasesByCategory[1])
}

func TestCustomerSpendingZeroOrders(t *testing.T) {
	svc, _ := newTestService(t)

	spending, err := svc.CustomerSpending(context.Background(), "c2")
	require.NoError(t, err)

	assert.Equal(t, 0.0, spending.TotalSpent)
	assert.Equal(t, 0, spending.OrderCount)
	assert.Equal(t, 0.0, spending.AverageOrderValue)
	assert.Empty(t, spending.RecentOrders)
	assert.Empty(t, spending.PurchasesByCategory)
	assert.NotNil(t, spending.RecentOrders)
	assert.NotNil(t, spending.PurchasesByCategory)
}

func TestCustomerSpendingNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CustomerSpending(context.Background(), "nope")

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "customer", notFound.Resource)
}

func TestTopSellingProducts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	top, err := svc.TopSellingProducts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)

	// p2: 5 units over two orders; p1: 2 units; p3: 1 unit.
	assert.Equal(t, "p2", top[0].Product.ID)
	assert.Equal(t, 5, top[0].TotalSold)
	assert.Equal(t, 25.0, top[0].Revenue)
	assert.Equal(t, 2, top[0].OrderCount)

	assert.Equal(t, "p1", top[1].Product.ID)
	assert.Equal(t, 2, top[1].TotalSold)
	assert.Equal(t, "p3", top[2].Product.ID)
}

func TestTopSellingProductsLimitMonotonic(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var previous []TopProduct
	for limit := 1; limit <= 4; limit++ {
		top, err := svc.TopSellingProducts(ctx, limit)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(top), limit)

		// Growing the limit only appends; the existing prefix is unchanged.
		require.GreaterOrEqual(t, len(top), len(previous))
		if len(previous) > 0 {
			assert.Equal(t, previous, top[:len(previous)])
		}
		previous = top
	}
}

func TestTopSellingProductsInvalidLimit(t *testing.T) {
	svc, _ := newTestService(t)

	for _, limit := range []int{0, -1} {
		_, err := svc.TopSellingProducts(context.Background(), limit)
		var invalid *domain.InvalidInputError
		require.ErrorAs(t, err, &invalid, "limit %d", limit)
	}
}

func TestSalesAnalytics(t *testing.T) {
	svc, _ := newTestService(t)

	// Bare end day is inclusive: o1 and o2 are in, o3 (Jan 5) is out.
	sales, err := svc.SalesAnalytics(context.Background(), "2024-01-01", "2024-01-03")
	require.NoError(t, err)

	assert.Equal(t, 45.0, sales.TotalSales)
	assert.Equal(t, 2, sales.OrderCount)
	assert.Equal(t, 22.5, sales.AverageOrderValue)

	require.Len(t, sales.SalesByDay, 2)
	assert.Equal(t, DailySales{Date: "2024-01-01", Sales: 25, OrderCount: 1}, sales.SalesByDay[0])
	assert.Equal(t, DailySales{Date: "2024-01-03", Sales: 20, OrderCount: 1}, sales.SalesByDay[1])

	require.Len(t, sales.SalesByCategory, 2)
	assert.Equal(t, CategorySales{Category: "electronics", Sales: 40, Percentage: 40.0 / 45 * 100},
		sales.SalesByCategory[0])
	assert.Equal(t, CategorySales{Category: "books", Sales: 5, Percentage: 5.0 / 45 * 100},
		sales.SalesByCategory[1])

	// p1 leads on quantity; p2 and p3 tie at 1 and break by product id.
	require.Len(t, sales.TopProducts, 3)
	assert.Equal(t, "p1", sales.TopProducts[0].Product.ID)
	assert.Equal(t, "p2", sales.TopProducts[1].Product.ID)
	assert.Equal(t, "p3", sales.TopProducts[2].Product.ID)
}

func TestSalesAnalyticsEmptyRange(t *testing.T) {
	svc, _ := newTestService(t)

	sales, err := svc.SalesAnalytics(context.Background(), "2030-01-01", "2030-12-31")
	require.NoError(t, err)

	assert.Equal(t, 0.0, sales.TotalSales)
	assert.Equal(t, 0, sales.OrderCount)
	assert.Equal(t, 0.0, sales.AverageOrderValue)
	assert.Empty(t, sales.SalesByDay)
	assert.Empty(t, sales.SalesByCategory)
	assert.Empty(t, sales.TopProducts)
	assert.NotNil(t, sales.SalesByDay)
	assert.NotNil(t, sales.SalesByCategory)
	assert.NotNil(t, sales.TopProducts)
}

func TestSalesAnalyticsInvalidDates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, tc := range [][2]string{
		{"not-a-date", "2024-01-03"},
		{"2024-01-01", "03/01/2024"},
	} {
		_, err := svc.SalesAnalytics(ctx, tc[0], tc[1])
		var invalid *domain.InvalidInputError
		require.ErrorAs(t, err, &invalid, "dates %v", tc)
	}
}

func TestCustomerOrdersPagination(t *testing.T) {
	svc, orders := newTestService(t)
	ctx := context.Background()

	// Top up c1 to 15 orders total.
	for i := 4; i <= 15; i++ {
		require.NoError(t, orders.Insert(ctx, domain.Order{
			ID:         fmt.Sprintf("o%02d", i),
			CustomerID: "c1",
			Total:      10,
			Status:     domain.StatusPending,
			OrderDate:  date("2024-02-01T00:00:00Z").Add(time.Duration(i) * time.Hour),
			Items:      []domain.OrderItem{{ProductID: "p1", Quantity: 1, UnitPrice: 10}},
		}))
	}

	page, err := svc.CustomerOrders(ctx, "c1", 2, 10)
	require.NoError(t, err)

	assert.Len(t, page.Orders, 5)
	assert.Equal(t, 15, page.TotalOrders)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	assert.False(t, page.HasNextPage)
	assert.True(t, page.HasPreviousPage)

	// Page 1 starts with the newest order.
	first, err := svc.CustomerOrders(ctx, "c1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "o15", first.Orders[0].ID)
	assert.True(t, first.HasNextPage)
	assert.False(t, first.HasPreviousPage)
}

func TestCustomerOrdersDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	page, err := svc.CustomerOrders(context.Background(), "c1", 0, -5)
	require.NoError(t, err)

	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Orders, 3)
	assert.Equal(t, 1, page.TotalPages)
}

func TestCustomerOrdersNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CustomerOrders(context.Background(), "nope", 1, 10)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCustomerOrdersBeyondLastPageIsEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	page, err := svc.CustomerOrders(context.Background(), "c1", 5, 10)
	require.NoError(t, err)

	assert.Empty(t, page.Orders)
	assert.NotNil(t, page.Orders)
	assert.Equal(t, 3, page.TotalOrders)
	assert.False(t, page.HasNextPage)
	assert.True(t, page.HasPreviousPage)
}

func TestGetOrderResolvesReferences(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.GetOrder(context.Background(), "o1")
	require.NoError(t, err)

	assert.Equal(t, "Ada", order.Customer.Name)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Keyboard", order.Items[0].Product.Name)
	assert.Equal(t, 10.0, order.Items[0].Price)
}

func TestListCustomers(t *testing.T) {
	svc, _ := newTestService(t)

	customers, err := svc.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "c1", customers[0].ID)
	assert.Equal(t, "c2", customers[1].ID)
}
