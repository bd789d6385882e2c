package sqlite

import (
	"database/sql"
	"fmt"
)

// migrations se aplican en orden por versión, una transacción por versión.
// Nunca se edita una migración ya publicada: los cambios de esquema nuevos
// se agregan como una versión más.
var migrations = []struct {
	version int
	stmts   []string
}{
	{
		version: 1,
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT UNIQUE NOT NULL,
				password_hash TEXT NOT NULL,
				full_name TEXT NOT NULL DEFAULT '',
				role TEXT NOT NULL DEFAULT 'cashier',
				is_active INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS branches (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				currency TEXT NOT NULL DEFAULT 'MXN',
				timezone TEXT NOT NULL DEFAULT 'America/Mexico_City',
				is_default INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS app_config (
				key TEXT PRIMARY KEY,
				value TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS customers (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				first_name TEXT NOT NULL DEFAULT '',
				last_name TEXT NOT NULL DEFAULT '',
				phone TEXT NOT NULL DEFAULT '',
				email TEXT NOT NULL DEFAULT '',
				email_fiscal TEXT NOT NULL DEFAULT '',
				notes TEXT NOT NULL DEFAULT '',
				vip INTEGER NOT NULL DEFAULT 0,
				credit_limit REAL NOT NULL DEFAULT 0,
				credit_balance REAL NOT NULL DEFAULT 0,
				credit_authorized INTEGER NOT NULL DEFAULT 0,
				is_active INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL,
				rfc TEXT NOT NULL DEFAULT '',
				razon_social TEXT NOT NULL DEFAULT '',
				domicilio1 TEXT NOT NULL DEFAULT '',
				domicilio2 TEXT NOT NULL DEFAULT '',
				colonia TEXT NOT NULL DEFAULT '',
				municipio TEXT NOT NULL DEFAULT '',
				estado TEXT NOT NULL DEFAULT '',
				pais TEXT NOT NULL DEFAULT 'México',
				codigo_postal TEXT NOT NULL DEFAULT '',
				regimen_fiscal TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS previous_credit_balances (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				customer_id INTEGER NOT NULL REFERENCES customers(id),
				balance REAL NOT NULL DEFAULT 0,
				description TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS products (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				sku TEXT UNIQUE NOT NULL,
				barcode TEXT UNIQUE,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				price REAL NOT NULL DEFAULT 0,
				price_wholesale REAL NOT NULL DEFAULT 0,
				cost REAL NOT NULL DEFAULT 0,
				unit TEXT NOT NULL DEFAULT 'pza',
				allow_decimal INTEGER NOT NULL DEFAULT 0,
				department TEXT NOT NULL DEFAULT '',
				provider TEXT NOT NULL DEFAULT '',
				is_active INTEGER NOT NULL DEFAULT 1,
				is_favorite INTEGER NOT NULL DEFAULT 0,
				sale_type TEXT NOT NULL DEFAULT 'unit',
				kit_items TEXT NOT NULL DEFAULT '[]',
				uses_inventory INTEGER NOT NULL DEFAULT 1,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS product_stocks (
				product_id INTEGER NOT NULL REFERENCES products(id),
				branch_id INTEGER NOT NULL REFERENCES branches(id),
				stock REAL NOT NULL DEFAULT 0,
				reserved REAL NOT NULL DEFAULT 0,
				min_stock REAL NOT NULL DEFAULT 0,
				max_stock REAL NOT NULL DEFAULT 0,
				updated_at TEXT NOT NULL,
				PRIMARY KEY (product_id, branch_id)
			)`,
			`CREATE TABLE IF NOT EXISTS sales (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				branch_id INTEGER NOT NULL REFERENCES branches(id),
				user_id INTEGER REFERENCES users(id),
				customer_id INTEGER REFERENCES customers(id),
				timestamp TEXT NOT NULL,
				subtotal REAL NOT NULL DEFAULT 0,
				discount REAL NOT NULL DEFAULT 0,
				total REAL NOT NULL DEFAULT 0,
				payment_method TEXT NOT NULL DEFAULT 'cash',
				payment_breakdown TEXT NOT NULL DEFAULT '{}',
				reference TEXT NOT NULL DEFAULT '',
				card_fee REAL NOT NULL DEFAULT 0,
				usd_amount REAL NOT NULL DEFAULT 0,
				usd_exchange REAL NOT NULL DEFAULT 0,
				voucher_amount REAL NOT NULL DEFAULT 0,
				check_number TEXT NOT NULL DEFAULT '',
				turn_id INTEGER REFERENCES turns(id)
			)`,
			`CREATE TABLE IF NOT EXISTS sale_items (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				sale_id INTEGER NOT NULL REFERENCES sales(id),
				product_id INTEGER NOT NULL REFERENCES products(id),
				qty REAL NOT NULL DEFAULT 1,
				price REAL NOT NULL DEFAULT 0,
				discount REAL NOT NULL DEFAULT 0,
				total REAL NOT NULL DEFAULT 0,
				price_includes_tax INTEGER NOT NULL DEFAULT 1,
				metadata TEXT NOT NULL DEFAULT '{}'
			)`,
			`CREATE TABLE IF NOT EXISTS layaways (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				branch_id INTEGER NOT NULL REFERENCES branches(id),
				customer_id INTEGER REFERENCES customers(id),
				total REAL NOT NULL DEFAULT 0,
				deposit REAL NOT NULL DEFAULT 0,
				balance REAL NOT NULL DEFAULT 0,
				status TEXT NOT NULL DEFAULT 'pendiente',
				created_at TEXT NOT NULL,
				due_date TEXT,
				notes TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS layaway_items (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				layaway_id INTEGER NOT NULL REFERENCES layaways(id),
				product_id INTEGER NOT NULL REFERENCES products(id),
				qty REAL NOT NULL DEFAULT 1,
				price REAL NOT NULL DEFAULT 0,
				discount REAL NOT NULL DEFAULT 0,
				total REAL NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS layaway_payments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				layaway_id INTEGER NOT NULL REFERENCES layaways(id),
				amount REAL NOT NULL DEFAULT 0,
				timestamp TEXT NOT NULL,
				notes TEXT NOT NULL DEFAULT '',
				user_id INTEGER REFERENCES users(id)
			)`,
			`CREATE TABLE IF NOT EXISTS credit_payments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				customer_id INTEGER NOT NULL REFERENCES customers(id),
				amount REAL NOT NULL DEFAULT 0,
				timestamp TEXT NOT NULL,
				notes TEXT NOT NULL DEFAULT '',
				user_id INTEGER REFERENCES users(id),
				sale_ids TEXT NOT NULL DEFAULT '[]'
			)`,
			`CREATE TABLE IF NOT EXISTS audit_logs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER,
				action TEXT NOT NULL,
				payload TEXT NOT NULL DEFAULT '{}',
				timestamp TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS fiscal_config (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				rfc_emisor TEXT NOT NULL DEFAULT '',
				razon_social_emisor TEXT NOT NULL DEFAULT '',
				regimen_fiscal TEXT NOT NULL DEFAULT '',
				lugar_expedicion TEXT NOT NULL DEFAULT '',
				pac_base_url TEXT NOT NULL DEFAULT '',
				pac_user TEXT NOT NULL DEFAULT '',
				pac_password TEXT NOT NULL DEFAULT '',
				serie_factura TEXT NOT NULL DEFAULT 'A',
				folio_actual INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS cfdi_issued (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				sale_id INTEGER REFERENCES sales(id),
				customer_id INTEGER REFERENCES customers(id),
				uuid TEXT UNIQUE NOT NULL,
				serie TEXT NOT NULL DEFAULT '',
				folio TEXT NOT NULL DEFAULT '',
				fecha TEXT NOT NULL,
				total REAL NOT NULL DEFAULT 0,
				xml_path TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'vigente',
				tipo_comprobante TEXT NOT NULL DEFAULT 'I',
				uso_cfdi TEXT NOT NULL DEFAULT '',
				forma_pago TEXT NOT NULL DEFAULT '',
				metodo_pago TEXT NOT NULL DEFAULT '',
				moneda TEXT NOT NULL DEFAULT 'MXN'
			)`,
			`CREATE TABLE IF NOT EXISTS cfdi_cancelled (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				cfdi_id INTEGER NOT NULL REFERENCES cfdi_issued(id),
				fecha TEXT NOT NULL,
				motivo TEXT NOT NULL DEFAULT '',
				uuid_relacionado TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS backup_logs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				filename TEXT NOT NULL,
				created_at TEXT NOT NULL,
				sha256 TEXT NOT NULL DEFAULT '',
				size_bytes INTEGER NOT NULL DEFAULT 0,
				storage_local INTEGER NOT NULL DEFAULT 1,
				storage_nas INTEGER NOT NULL DEFAULT 0,
				storage_cloud INTEGER NOT NULL DEFAULT 0,
				notes TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS api_tokens (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL REFERENCES users(id),
				token TEXT UNIQUE NOT NULL,
				role TEXT NOT NULL DEFAULT 'cashier',
				description TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				is_active INTEGER NOT NULL DEFAULT 1
			)`,
			`CREATE TABLE IF NOT EXISTS turns (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				branch_id INTEGER NOT NULL REFERENCES branches(id),
				user_id INTEGER NOT NULL REFERENCES users(id),
				opened_at TEXT NOT NULL,
				closed_at TEXT,
				opening_amount REAL NOT NULL DEFAULT 0,
				closing_amount REAL,
				expected_amount REAL,
				status TEXT NOT NULL DEFAULT 'open',
				notes TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS cash_movements (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				branch_id INTEGER NOT NULL REFERENCES branches(id),
				user_id INTEGER REFERENCES users(id),
				type TEXT NOT NULL,
				amount REAL NOT NULL DEFAULT 0,
				reason TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				turn_id INTEGER NOT NULL REFERENCES turns(id)
			)`,
			`CREATE TABLE IF NOT EXISTS inventory_logs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				product_id INTEGER NOT NULL REFERENCES products(id),
				branch_id INTEGER NOT NULL REFERENCES branches(id),
				delta REAL NOT NULL DEFAULT 0,
				reason TEXT NOT NULL DEFAULT '',
				ref_type TEXT NOT NULL DEFAULT '',
				ref_id INTEGER,
				created_at TEXT NOT NULL
			)`,
		},
	},
	{
		version: 2,
		stmts: []string{
			`CREATE INDEX IF NOT EXISTS idx_sales_timestamp ON sales(timestamp)`,
			`CREATE INDEX IF NOT EXISTS idx_sales_turn ON sales(turn_id)`,
			`CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items(sale_id)`,
			`CREATE INDEX IF NOT EXISTS idx_inventory_logs_created ON inventory_logs(created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_layaways_status ON layaways(status)`,
			`CREATE INDEX IF NOT EXISTS idx_layaway_payments_ts ON layaway_payments(timestamp)`,
			`CREATE INDEX IF NOT EXISTS idx_credit_payments_customer ON credit_payments(customer_id)`,
			`CREATE INDEX IF NOT EXISTS idx_products_updated ON products(updated_at)`,
			`CREATE INDEX IF NOT EXISTS idx_customers_created ON customers(created_at)`,
		},
	},
	{
		version: 3,
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS catalog_events (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				event_type TEXT NOT NULL,
				product_id INTEGER NOT NULL,
				timestamp TEXT NOT NULL,
				payload TEXT NOT NULL DEFAULT '{}'
			)`,
			`CREATE TABLE IF NOT EXISTS inventory_events (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				event_type TEXT NOT NULL,
				payload TEXT NOT NULL DEFAULT '{}',
				timestamp TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_catalog_events_ts ON catalog_events(timestamp)`,
			`CREATE INDEX IF NOT EXISTS idx_inventory_events_ts ON inventory_events(timestamp)`,
		},
	},
	{
		// El abono sintético del depósito inicial se marca con una bandera;
		// la nota vuelve a ser texto libre para mostrar.
		version: 4,
		stmts: []string{
			`ALTER TABLE layaway_payments ADD COLUMN is_deposit INTEGER NOT NULL DEFAULT 0`,
			`UPDATE layaway_payments SET is_deposit = 1 WHERE notes = 'Depósito inicial'`,
		},
	},
}

// Migrate aplica las migraciones pendientes. Es idempotente: las versiones ya
// registradas en schema_migrations se saltan.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		if err := applyMigration(tx, m.version, m.stmts); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}
	return nil
}

func applyMigration(tx *sql.Tx, version int, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", version, err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))`, version); err != nil {
		return fmt.Errorf("record migration %d: %w", version, err)
	}
	return nil
}

// SchemaVersion devuelve la versión de esquema aplicada.
func SchemaVersion(db *sql.DB) (int, error) {
	var v int
	err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v)
	return v, err
}
