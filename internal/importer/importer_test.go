package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-analytics/internal/domain"
	"github.com/jcmexdev/ecommerce-analytics/internal/store/memory"
)

const customersCSV = `_id,name,email,location
c1,Ada Lovelace,ada@example.com,London
c2,Grace Hopper,grace@example.com,New York
`

const productsCSV = `_id,name,price,category,stock
prod-0001-abcd,Mechanical Keyboard,89.99,electronics,40
prod-0002-efgh,Novel,12.5,books,100
`

const ordersCSV = `_id,customerId,products,totalAmount,orderDate,status
o1,c1,"[{'productId': 'prod-0001-abcd', 'quantity': 1, 'priceAtPurchase': 89.99}]",89.99,2024-01-15T10:30:00Z,completed
o2,c2,"[{'productId': 'prod-0002-efgh', 'quantity': 2, 'priceAtPurchase': 12.5}]",25,2024-02-01 08:00:00,canceled
`

type stores struct {
	customers *memory.CustomerStore
	products  *memory.ProductStore
	orders    *memory.OrderStore
}

func newImporter(t *testing.T) (*Importer, stores) {
	t.Helper()
	s := stores{
		customers: memory.NewCustomerStore(),
		products:  memory.NewProductStore(),
		orders:    memory.NewOrderStore(),
	}
	im := New(s.customers, s.products, s.orders)
	im.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	return im, s
}

func TestRun(t *testing.T) {
	im, s := newImporter(t)
	ctx := context.Background()

	summary, err := im.Run(ctx,
		strings.NewReader(customersCSV),
		strings.NewReader(productsCSV),
		strings.NewReader(ordersCSV))
	require.NoError(t, err)
	assert.Equal(t, &Summary{Customers: 2, Products: 2, Orders: 2}, summary)

	c1, err := s.customers.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", c1.Name)
	assert.Equal(t, "London", c1.Address.City)
	assert.Equal(t, "Unknown", c1.Address.Country)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), c1.RegistrationDate)

	p1, err := s.products.Get(ctx, "prod-0001-abcd")
	require.NoError(t, err)
	assert.Equal(t, "SKU-prod-000", p1.SKU)
	assert.Equal(t, "Description for Mechanical Keyboard", p1.Description)
	assert.Equal(t, "https://example.com/mechanical_keyboard.jpg", p1.ImageURL)
	assert.Equal(t, 89.99, p1.Price)
	assert.Equal(t, 40, p1.Stock)

	o1, err := s.orders.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "c1", o1.CustomerID)
	require.Len(t, o1.Items, 1)
	assert.Equal(t, domain.OrderItem{ProductID: "prod-0001-abcd", Quantity: 1, UnitPrice: 89.99}, o1.Items[0])
	assert.Equal(t, domain.StatusCompleted, o1.Status)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), o1.OrderDate)

	// "canceled" normalizes to the canonical spelling; the space-separated
	// timestamp parses too.
	o2, err := s.orders.Get(ctx, "o2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, o2.Status)
	assert.Equal(t, time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC), o2.OrderDate)
}

func TestRunClearsExistingData(t *testing.T) {
	im, s := newImporter(t)
	ctx := context.Background()

	require.NoError(t, s.customers.Insert(ctx, domain.Customer{ID: "stale", Name: "Old", Email: "old@example.com"}))

	_, err := im.Run(ctx,
		strings.NewReader(customersCSV),
		strings.NewReader(productsCSV),
		strings.NewReader(ordersCSV))
	require.NoError(t, err)

	_, err = s.customers.Get(ctx, "stale")
	assert.Error(t, err)
}

func TestRunRejectsBadEmail(t *testing.T) {
	im, _ := newImporter(t)

	bad := `_id,name,email,location
c1,Ada,not-an-email,London
`
	_, err := im.Run(context.Background(),
		strings.NewReader(bad),
		strings.NewReader(productsCSV),
		strings.NewReader(ordersCSV))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `customer "c1"`)
}

func TestRunRejectsMalformedItemList(t *testing.T) {
	im, s := newImporter(t)

	bad := `_id,customerId,products,totalAmount,orderDate,status
o1,c1,"[{'productId': 'p1', 'quantity':",10,2024-01-15T10:30:00Z,completed
`
	_, err := im.Run(context.Background(),
		strings.NewReader(customersCSV),
		strings.NewReader(productsCSV),
		strings.NewReader(bad))
	require.Error(t, err)

	// Aborted collection keeps no partial rows.
	orders, lerr := s.orders.List(context.Background())
	require.NoError(t, lerr)
	assert.Empty(t, orders)
}

func TestRunRejectsInvalidItem(t *testing.T) {
	im, _ := newImporter(t)

	bad := `_id,customerId,products,totalAmount,orderDate,status
o1,c1,"[{'productId': 'p1', 'quantity': 0, 'priceAtPurchase': 5}]",10,2024-01-15T10:30:00Z,completed
`
	_, err := im.Run(context.Background(),
		strings.NewReader(customersCSV),
		strings.NewReader(productsCSV),
		strings.NewReader(bad))
	require.Error(t, err)
}

func TestRunRejectsUnknownStatus(t *testing.T) {
	im, _ := newImporter(t)

	bad := `_id,customerId,products,totalAmount,orderDate,status
o1,c1,"[{'productId': 'p1', 'quantity': 1, 'priceAtPurchase': 5}]",5,2024-01-15T10:30:00Z,refunded
`
	_, err := im.Run(context.Background(),
		strings.NewReader(customersCSV),
		strings.NewReader(productsCSV),
		strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown order status")
}

func TestParseOrderDateFormats(t *testing.T) {
	for _, raw := range []string{"2024-01-15T10:30:00Z", "2024-01-15 10:30:00", "2024-01-15"} {
		got, err := parseOrderDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, 2024, got.Year())
	}

	_, err := parseOrderDate("15/01/2024")
	assert.Error(t, err)
}

func TestSKUFromID(t *testing.T) {
	assert.Equal(t, "SKU-prod-000", skuFromID("prod-0001-abcd"))
	assert.Equal(t, "SKU-p1", skuFromID("p1"))
}
