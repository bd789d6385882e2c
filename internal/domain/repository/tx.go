package repository

import "context"

// Atomic agrupa los repositorios atados a una misma transacción. Los use
// cases que tocan varias tablas reciben un Atomic y todo lo que hagan con él
// se confirma o revierte junto.
type Atomic struct {
	Products      ProductRepository
	Stocks        StockRepository
	InventoryLogs InventoryLogRepository
	Customers     CustomerRepository
	Credits       CreditRepository
	Sales         SaleRepository
	Layaways      LayawayRepository
	Turns         TurnRepository
	CashMovements CashMovementRepository
	Audits        AuditRepository
	Fiscal        FiscalRepository
	SyncEvents    SyncEventRepository
}

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(r *Atomic) error) error
}
