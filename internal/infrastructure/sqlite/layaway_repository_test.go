package sqlite_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/infrastructure/sqlite"
)

// TestSumPayments_ExcluyeSoloElDeposito: la suma de abonos descarta el abono
// sintético del depósito por su bandera; un abono normal cuenta aunque su
// nota diga exactamente "Depósito inicial".
func TestSumPayments_ExcluyeSoloElDeposito(t *testing.T) {
	db := openTestDB(t)
	_, branchID := seedProductBranch(t, db)
	repo := sqlite.NewLayawayRepository(db)

	id, err := repo.Create(&entity.Layaway{
		BranchID: branchID,
		Total:    decimal.NewFromInt(500),
		Deposit:  decimal.NewFromInt(200),
		Balance:  decimal.NewFromInt(300),
		Status:   entity.LayawayPending,
	})
	require.NoError(t, err)

	_, err = repo.CreatePayment(&entity.LayawayPayment{
		LayawayID: id,
		Amount:    decimal.NewFromInt(200),
		Notes:     "Depósito inicial",
		IsDeposit: true,
	})
	require.NoError(t, err)

	_, err = repo.CreatePayment(&entity.LayawayPayment{
		LayawayID: id,
		Amount:    decimal.NewFromInt(100),
		Notes:     "Depósito inicial", // nota libre del cajero, no es depósito
	})
	require.NoError(t, err)

	sum, err := repo.SumPayments(id)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(100)), "suma de abonos: %s", sum)

	payments, err := repo.Payments(id)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.True(t, payments[0].IsDeposit)
	assert.False(t, payments[1].IsDeposit)
}
