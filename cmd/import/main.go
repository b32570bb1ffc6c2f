// Command import loads the customers/products/orders CSV exports into the
// SQLite store, replacing whatever is there. It is a one-shot tool; the API
// server picks the data up on its next query.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/jcmexdev/ecommerce-analytics/internal/config"
	"github.com/jcmexdev/ecommerce-analytics/internal/importer"
	"github.com/jcmexdev/ecommerce-analytics/internal/store/sqlite"
	"github.com/jcmexdev/ecommerce-analytics/internal/telemetry"
)

func main() {
	telemetry.InitLogger()

	customersPath := flag.String("customers", "data/customers.csv", "path to customers CSV")
	productsPath := flag.String("products", "data/products.csv", "path to products CSV")
	ordersPath := flag.String("orders", "data/orders.csv", "path to orders CSV")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		slog.Error("failed to open store", "path", cfg.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	files := make([]*os.File, 0, 3)
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()
	open := func(path string) *os.File {
		f, err := os.Open(path)
		if err != nil {
			slog.Error("failed to open csv", "path", path, "error", err)
			os.Exit(1)
		}
		files = append(files, f)
		return f
	}

	customersCSV := open(*customersPath)
	productsCSV := open(*productsPath)
	ordersCSV := open(*ordersPath)

	im := importer.New(
		sqlite.NewCustomerStore(db),
		sqlite.NewProductStore(db),
		sqlite.NewOrderStore(db),
	)

	summary, err := im.Run(context.Background(), customersCSV, productsCSV, ordersCSV)
	if err != nil {
		slog.Error("import failed, no partial rows were kept in the aborted collection", "error", err)
		os.Exit(1)
	}

	slog.Info("all data imported",
		"customers", summary.Customers, "products", summary.Products, "orders", summary.Orders)
}
