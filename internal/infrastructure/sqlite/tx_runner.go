package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner construye el runner con la conexión.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(a *repository.Atomic) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewAtomic(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewAtomic arma el paquete de repositorios sobre un mismo Querier.
func NewAtomic(q Querier) *repository.Atomic {
	return &repository.Atomic{
		Products:      NewProductRepository(q),
		Stocks:        NewStockRepository(q),
		InventoryLogs: NewInventoryLogRepository(q),
		Customers:     NewCustomerRepository(q),
		Credits:       NewCreditRepository(q),
		Sales:         NewSaleRepository(q),
		Layaways:      NewLayawayRepository(q),
		Turns:         NewTurnRepository(q),
		CashMovements: NewCashMovementRepository(q),
		Audits:        NewAuditRepository(q),
		Fiscal:        NewFiscalRepository(q),
		SyncEvents:    NewSyncEventRepository(q),
	}
}
