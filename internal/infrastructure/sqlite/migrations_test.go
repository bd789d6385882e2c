package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendamx/pos-mostrador/internal/infrastructure/sqlite"
	"github.com/tiendamx/pos-mostrador/pkg/config"
)

// openTestDB abre una base SQLite migrada en un directorio temporal.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := config.DBConfig{Path: filepath.Join(t.TempDir(), "pos.db")}.DSN()
	db, err := sqlite.Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(db))
	return db
}

// TestMigrate_SegundaCorridaNoAlteraDatos: correr las migraciones sobre una
// base ya inicializada no toca los datos existentes ni falla.
func TestMigrate_SegundaCorridaNoAlteraDatos(t *testing.T) {
	db := openTestDB(t)

	before, err := sqlite.SchemaVersion(db)
	require.NoError(t, err)
	require.Positive(t, before)

	_, err = db.Exec(`INSERT INTO branches (name, is_default) VALUES ('Matriz', 1)`)
	require.NoError(t, err)

	require.NoError(t, sqlite.Migrate(db))

	after, err := sqlite.SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, before, after, "la versión de esquema no cambia")

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM branches WHERE is_default = 1`).Scan(&name))
	assert.Equal(t, "Matriz", name)

	// Cada versión queda registrada una sola vez.
	var dup int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&dup))
	assert.Equal(t, after, dup)
}

// TestMigrate_BaseNuevaQuedaCompleta: sobre una base vacía se crean las tablas
// centrales del punto de venta.
func TestMigrate_BaseNuevaQuedaCompleta(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"users", "products", "product_stocks", "sales", "layaways", "layaway_payments", "turns", "catalog_events"} {
		var n int
		err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n)
		assert.NoError(t, err, "tabla %s", table)
	}
}
