package sqlite_test

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/infrastructure/sqlite"
)

// seedProductBranch inserta una sucursal y un producto para satisfacer las
// llaves foráneas de product_stocks.
func seedProductBranch(t *testing.T, db *sql.DB) (productID, branchID int64) {
	t.Helper()
	res, err := db.Exec(`INSERT INTO branches (name, is_default) VALUES ('Matriz', 1)`)
	require.NoError(t, err)
	branchID, err = res.LastInsertId()
	require.NoError(t, err)

	res, err = db.Exec(`INSERT INTO products (sku, name, updated_at)
		VALUES ('COCA-600', 'Coca Cola 600ml', datetime('now'))`)
	require.NoError(t, err)
	productID, err = res.LastInsertId()
	require.NoError(t, err)
	return productID, branchID
}

// TestReserve_RechazaMasQueElStock: reservar por encima de la existencia se
// rechaza y la fila queda intacta.
func TestReserve_RechazaMasQueElStock(t *testing.T) {
	db := openTestDB(t)
	productID, branchID := seedProductBranch(t, db)
	repo := sqlite.NewStockRepository(db)

	require.NoError(t, repo.AdjustStock(productID, branchID, decimal.NewFromInt(5)))

	err := repo.Reserve(productID, branchID, decimal.NewFromInt(6))
	assert.ErrorIs(t, err, domain.ErrReservedExceedsStock)

	s, err := repo.Get(productID, branchID)
	require.NoError(t, err)
	assert.True(t, s.Reserved.IsZero(), "la reserva fallida no deja rastro: %s", s.Reserved)
	assert.True(t, s.Stock.Equal(decimal.NewFromInt(5)))
}

// TestReserve_HastaElLimiteDelStock: reservar exactamente hasta agotar la
// existencia es válido; una unidad más ya no.
func TestReserve_HastaElLimiteDelStock(t *testing.T) {
	db := openTestDB(t)
	productID, branchID := seedProductBranch(t, db)
	repo := sqlite.NewStockRepository(db)

	require.NoError(t, repo.AdjustStock(productID, branchID, decimal.NewFromInt(5)))
	require.NoError(t, repo.Reserve(productID, branchID, decimal.NewFromInt(3)))

	// reserved + qty == stock: permitido.
	require.NoError(t, repo.Reserve(productID, branchID, decimal.NewFromInt(2)))

	s, err := repo.Get(productID, branchID)
	require.NoError(t, err)
	assert.True(t, s.Reserved.Equal(decimal.NewFromInt(5)))

	err = repo.Reserve(productID, branchID, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrReservedExceedsStock)
}

// TestReserve_SinFilaEquivaleAStockCero: un producto sin fila de stock no
// acepta reservas.
func TestReserve_SinFilaEquivaleAStockCero(t *testing.T) {
	db := openTestDB(t)
	productID, branchID := seedProductBranch(t, db)
	repo := sqlite.NewStockRepository(db)

	err := repo.Reserve(productID, branchID, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrReservedExceedsStock)
}

// TestConsumeReserved_DescuentaReservaYStock: consumir la reserva baja ambos
// contadores, como al liquidar un apartado.
func TestConsumeReserved_DescuentaReservaYStock(t *testing.T) {
	db := openTestDB(t)
	productID, branchID := seedProductBranch(t, db)
	repo := sqlite.NewStockRepository(db)

	require.NoError(t, repo.AdjustStock(productID, branchID, decimal.NewFromInt(5)))
	require.NoError(t, repo.Reserve(productID, branchID, decimal.NewFromInt(2)))
	require.NoError(t, repo.ConsumeReserved(productID, branchID, decimal.NewFromInt(2)))

	s, err := repo.Get(productID, branchID)
	require.NoError(t, err)
	assert.True(t, s.Reserved.IsZero())
	assert.True(t, s.Stock.Equal(decimal.NewFromInt(3)))
}
