// Package sqlite provides SQLite-backed implementations of the store ports.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa — analytical reads run while the checkout workflow is writing.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	// Register the pure-Go SQLite driver.
	// modernc.org/sqlite avoids CGO, keeping Docker/Alpine builds trivial.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. Address and item documents are
// stored as JSON TEXT: the dataset is document-shaped and nothing queries
// into those fields, so flattening them into columns buys nothing.
const schema = `
CREATE TABLE IF NOT EXISTS customers (
    id                TEXT PRIMARY KEY,
    name              TEXT NOT NULL,
    email             TEXT NOT NULL UNIQUE,
    address           TEXT NOT NULL DEFAULT '{}',
    phone             TEXT NOT NULL DEFAULT '',
    registration_date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    price       REAL NOT NULL CHECK (price >= 0),
    category    TEXT NOT NULL,
    stock       INTEGER NOT NULL,
    sku         TEXT NOT NULL UNIQUE,
    image_url   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS orders (
    id               TEXT PRIMARY KEY,
    customer_id      TEXT NOT NULL,
    items            TEXT NOT NULL DEFAULT '[]',
    total            REAL NOT NULL CHECK (total >= 0),
    status           TEXT NOT NULL,
    payment_method   TEXT NOT NULL,
    shipping_address TEXT NOT NULL DEFAULT '{}',

    -- RFC3339 with a fixed-width fraction, stored as TEXT. At fixed width
    -- lexicographic order equals chronological order, so range scans use
    -- the index.
    order_date       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_customer_date ON orders(customer_id, order_date);
CREATE INDEX IF NOT EXISTS idx_orders_date ON orders(order_date);
`

// DB wraps the shared connection handle the three stores are built on.
type DB struct {
	sql *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	db, err := sqlite.Open("./data/shop.db")
func Open(path string) (*DB, error) {
	// The pure-Go driver takes _pragma query parameters to configure
	// connection state. busy_timeout waits for locks instead of failing.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3", for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &DB{sql: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (d *DB) Close() error {
	return d.sql.Close()
}

// timeLayout keeps the fractional seconds fixed-width. A .999999999 fraction
// trims trailing zeros, and '.' sorts before 'Z', so trimmed and untrimmed
// values would not order chronologically as TEXT.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses the timestamp strings stored in SQLite.
// SQLite has no native datetime type; we store RFC3339 TEXT.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}
