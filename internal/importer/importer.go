// Package importer is the one-shot bulk loader for the three CSV exports
// (customers, products, orders). It clears the collections and reloads them
// wholesale; a malformed row anywhere aborts the whole import rather than
// being skipped silently.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"

	"github.com/jcmexdev/ecommerce-analytics/internal/domain"
	"github.com/jcmexdev/ecommerce-analytics/internal/store"
)

type Importer struct {
	customers store.CustomerStore
	products  store.ProductStore
	orders    store.OrderStore
	validate  *validator.Validate
	now       func() time.Time
}

func New(customers store.CustomerStore, products store.ProductStore, orders store.OrderStore) *Importer {
	return &Importer{
		customers: customers,
		products:  products,
		orders:    orders,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		now:       time.Now,
	}
}

type Summary struct {
	Customers int
	Products  int
	Orders    int
}

// csv row shapes; field names follow the export headers.

type customerRow struct {
	ID       string `csv:"_id" validate:"required"`
	Name     string `csv:"name" validate:"required"`
	Email    string `csv:"email" validate:"required,email"`
	Location string `csv:"location"`
}

type productRow struct {
	ID       string  `csv:"_id" validate:"required"`
	Name     string  `csv:"name" validate:"required"`
	Price    float64 `csv:"price" validate:"gte=0"`
	Category string  `csv:"category" validate:"required"`
	Stock    int     `csv:"stock" validate:"gte=0"`
}

type orderRow struct {
	ID          string  `csv:"_id" validate:"required"`
	CustomerID  string  `csv:"customerId" validate:"required"`
	Products    string  `csv:"products" validate:"required"`
	TotalAmount float64 `csv:"totalAmount" validate:"gte=0"`
	OrderDate   string  `csv:"orderDate" validate:"required"`
	Status      string  `csv:"status" validate:"required"`
}

// orderItemJSON is one element of the embedded item list in the orders CSV.
// The export writes it with single quotes, which is repaired before parsing.
type orderItemJSON struct {
	ProductID       string  `json:"productId"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"priceAtPurchase"`
}

// Run imports all three collections in reference order. Existing data is
// cleared first, matching the source loader.
func (im *Importer) Run(ctx context.Context, customersCSV, productsCSV, ordersCSV io.Reader) (*Summary, error) {
	for _, clear := range []func(context.Context) error{
		im.customers.DeleteAll, im.products.DeleteAll, im.orders.DeleteAll,
	} {
		if err := clear(ctx); err != nil {
			return nil, fmt.Errorf("importer: clear collections: %w", err)
		}
	}

	summary := &Summary{}
	var err error

	if summary.Customers, err = im.importCustomers(ctx, customersCSV); err != nil {
		return nil, err
	}
	if summary.Products, err = im.importProducts(ctx, productsCSV); err != nil {
		return nil, err
	}
	if summary.Orders, err = im.importOrders(ctx, ordersCSV); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "import complete",
		"customers", summary.Customers, "products", summary.Products, "orders", summary.Orders)
	return summary, nil
}

func (im *Importer) importCustomers(ctx context.Context, r io.Reader) (int, error) {
	var rows []customerRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return 0, fmt.Errorf("importer: parse customers csv: %w", err)
	}

	customers := make([]domain.Customer, len(rows))
	for i, row := range rows {
		if err := im.validate.Struct(row); err != nil {
			return 0, fmt.Errorf("importer: customer %q: %w", row.ID, err)
		}
		customers[i] = domain.Customer{
			ID:    row.ID,
			Name:  row.Name,
			Email: row.Email,
			// Only the city survives the export; the rest is filled in.
			Address: domain.Address{
				Street:  "Unknown",
				City:    row.Location,
				State:   "Unknown",
				Zip:     "Unknown",
				Country: "Unknown",
			},
			Phone:            "Unknown",
			RegistrationDate: im.now().UTC(),
		}
	}

	if err := im.customers.Insert(ctx, customers...); err != nil {
		return 0, fmt.Errorf("importer: insert customers: %w", err)
	}
	return len(customers), nil
}

func (im *Importer) importProducts(ctx context.Context, r io.Reader) (int, error) {
	var rows []productRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return 0, fmt.Errorf("importer: parse products csv: %w", err)
	}

	products := make([]domain.Product, len(rows))
	for i, row := range rows {
		if err := im.validate.Struct(row); err != nil {
			return 0, fmt.Errorf("importer: product %q: %w", row.ID, err)
		}
		products[i] = domain.Product{
			ID:          row.ID,
			Name:        row.Name,
			Description: "Description for " + row.Name,
			Price:       row.Price,
			Category:    row.Category,
			Stock:       row.Stock,
			SKU:         skuFromID(row.ID),
			ImageURL:    "https://example.com/" + strings.ReplaceAll(strings.ToLower(row.Name), " ", "_") + ".jpg",
		}
	}

	if err := im.products.Insert(ctx, products...); err != nil {
		return 0, fmt.Errorf("importer: insert products: %w", err)
	}
	return len(products), nil
}

func (im *Importer) importOrders(ctx context.Context, r io.Reader) (int, error) {
	var rows []orderRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return 0, fmt.Errorf("importer: parse orders csv: %w", err)
	}

	orders := make([]domain.Order, len(rows))
	for i, row := range rows {
		if err := im.validate.Struct(row); err != nil {
			return 0, fmt.Errorf("importer: order %q: %w", row.ID, err)
		}

		items, err := parseItemList(row.Products)
		if err != nil {
			return 0, fmt.Errorf("importer: order %q: %w", row.ID, err)
		}

		status, err := domain.NormalizeStatus(row.Status)
		if err != nil {
			return 0, fmt.Errorf("importer: order %q: %w", row.ID, err)
		}

		orderDate, err := parseOrderDate(row.OrderDate)
		if err != nil {
			return 0, fmt.Errorf("importer: order %q: %w", row.ID, err)
		}

		orders[i] = domain.Order{
			ID:            row.ID,
			CustomerID:    row.CustomerID,
			Items:         items,
			Total:         row.TotalAmount,
			Status:        status,
			PaymentMethod: "credit_card",
			ShippingAddress: domain.Address{
				Street:  "Unknown",
				City:    "Unknown",
				State:   "Unknown",
				Zip:     "Unknown",
				Country: "Unknown",
			},
			OrderDate: orderDate,
		}
	}

	if err := im.orders.Insert(ctx, orders...); err != nil {
		return 0, fmt.Errorf("importer: insert orders: %w", err)
	}
	return len(orders), nil
}

// parseItemList decodes the embedded item list. The export quotes it with
// single quotes; anything that still fails to parse, or parses into an
// invalid item, aborts the import.
func parseItemList(raw string) ([]domain.OrderItem, error) {
	repaired := strings.ReplaceAll(raw, "'", `"`)

	var parsed []orderItemJSON
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return nil, fmt.Errorf("malformed item list %q: %w", raw, err)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("empty item list")
	}

	items := make([]domain.OrderItem, len(parsed))
	for i, it := range parsed {
		if it.ProductID == "" || it.Quantity < 1 || it.PriceAtPurchase < 0 {
			return nil, fmt.Errorf("invalid item %+v in list %q", it, raw)
		}
		items[i] = domain.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.PriceAtPurchase,
		}
	}
	return items, nil
}

func parseOrderDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable order date %q", raw)
}

func skuFromID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return "SKU-" + id
}
