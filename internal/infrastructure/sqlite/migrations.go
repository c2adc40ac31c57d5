package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Los importes se guardan como TEXT para no perder precisión decimal.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS operators (
		id TEXT PRIMARY KEY,
		login TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS parties (
		id TEXT PRIMARY KEY,
		person_type TEXT NOT NULL,
		legal_name TEXT NOT NULL,
		trade_name TEXT NOT NULL DEFAULT '',
		tax_id TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		categories TEXT NOT NULL DEFAULT '',
		blocked INTEGER NOT NULL DEFAULT 0,
		credit_limit TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		cost TEXT NOT NULL DEFAULT '0',
		price TEXT NOT NULL DEFAULT '0',
		stock TEXT NOT NULL DEFAULT '0',
		min_stock TEXT NOT NULL DEFAULT '0',
		active INTEGER NOT NULL DEFAULT 1,
		supplier_id TEXT REFERENCES parties(id),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_products_code ON products(code);`,
	`CREATE INDEX IF NOT EXISTS idx_parties_tax_id ON parties(tax_id);`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		counterpart_id TEXT REFERENCES parties(id),
		operator_id TEXT REFERENCES operators(id),
		subtotal TEXT NOT NULL,
		discount TEXT NOT NULL,
		total TEXT NOT NULL,
		emission_date TEXT NOT NULL,
		status TEXT NOT NULL,
		payment_method TEXT NOT NULL DEFAULT '',
		reference TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id),
		line_no INTEGER NOT NULL DEFAULT 0,
		product_id TEXT NOT NULL REFERENCES products(id),
		product_name TEXT NOT NULL,
		quantity TEXT NOT NULL,
		unit_price TEXT NOT NULL,
		subtotal TEXT NOT NULL,
		expiry_date TEXT
	);`,
	`CREATE INDEX IF NOT EXISTS idx_orders_emission ON orders(kind, emission_date);`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products(id),
		direction TEXT NOT NULL,
		quantity TEXT NOT NULL,
		stock_before TEXT NOT NULL,
		stock_after TEXT NOT NULL,
		sale_price TEXT NOT NULL,
		purchase_price TEXT NOT NULL,
		counterpart_id TEXT REFERENCES parties(id),
		order_id TEXT REFERENCES orders(id),
		operator_id TEXT REFERENCES operators(id),
		note TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements(product_id, created_at);`,
	`CREATE TABLE IF NOT EXISTS ledger_entries (
		id TEXT PRIMARY KEY,
		direction TEXT NOT NULL,
		counterpart_id TEXT REFERENCES parties(id),
		order_id TEXT REFERENCES orders(id),
		amount TEXT NOT NULL,
		description TEXT NOT NULL,
		emission_date TEXT NOT NULL,
		due_date TEXT NOT NULL,
		status TEXT NOT NULL,
		paid_at TEXT,
		created_at TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_counterpart ON ledger_entries(counterpart_id, direction, status);`,
}

// columnas agregadas después de la primera versión del esquema.
var addedColumns = []struct{ table, column, ddl string }{
	{"order_items", "line_no", `ALTER TABLE order_items ADD COLUMN line_no INTEGER NOT NULL DEFAULT 0`},
}

// Migrate crea el esquema si no existe y agrega las columnas que falten.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrar esquema: %w", err)
		}
	}
	for _, c := range addedColumns {
		var n int
		err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, c.table, c.column)
		if err != nil {
			return fmt.Errorf("inspeccionar %s: %w", c.table, err)
		}
		if n > 0 {
			continue
		}
		if _, err := db.ExecContext(ctx, c.ddl); err != nil {
			return fmt.Errorf("agregar %s.%s: %w", c.table, c.column, err)
		}
	}
	return nil
}
