package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un turno de caja.
const (
	TurnOpen   = "open"
	TurnClosed = "closed"
)

// Turn es un turno de caja (corte). A lo más un turno abierto por
// (sucursal, usuario); el cierre es irreversible y persiste el efectivo
// esperado calculado en ese momento.
type Turn struct {
	ID             int64
	BranchID       int64
	UserID         int64
	OpenedAt       time.Time
	ClosedAt       *time.Time
	OpeningAmount  decimal.Decimal
	ClosingAmount  *decimal.Decimal
	ExpectedAmount *decimal.Decimal
	Notes          string
	Status         string
}

// Tipos de movimiento de efectivo.
const (
	CashIn  = "in"
	CashOut = "out"
)

// CashMovement es una entrada o salida de efectivo ligada a un turno.
type CashMovement struct {
	ID        int64
	BranchID  int64
	UserID    *int64
	Type      string
	Amount    decimal.Decimal
	Reason    string
	CreatedAt time.Time
	TurnID    int64
}

// TurnSummary es el resumen de un turno para el corte de caja.
type TurnSummary struct {
	Opening         decimal.Decimal
	CashSales       decimal.Decimal
	CreditSales     decimal.Decimal
	LayawayPayments decimal.Decimal
	CreditPayments  decimal.Decimal
	Ins             decimal.Decimal
	Outs            decimal.Decimal
	ExpectedCash    decimal.Decimal
	SalesByMethod   map[string]decimal.Decimal
}
