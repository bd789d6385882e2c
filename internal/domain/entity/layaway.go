package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un apartado. Vencido no se persiste: se deriva en consultas
// cuando un pendiente rebasa su fecha límite.
const (
	LayawayPending    = "pendiente"
	LayawayLiquidated = "liquidado"
	LayawayCancelled  = "cancelado"
	LayawayOverdue    = "vencido"
)

// Layaway es un apartado: mercancía reservada que se paga en abonos antes de
// entregarse. Invariante: Balance = max(Total − (Deposit + Σ abonos), 0);
// status pasa a liquidado exactamente cuando Balance llega a 0.
type Layaway struct {
	ID         int64
	BranchID   int64
	CustomerID *int64
	Total      decimal.Decimal
	Deposit    decimal.Decimal
	Balance    decimal.Decimal
	Status     string
	CreatedAt  time.Time
	DueDate    *time.Time
	Notes      string
}

// DisplayStatus devuelve el estado derivado: pendiente con fecha límite
// rebasada se muestra como vencido.
func (l *Layaway) DisplayStatus(now time.Time) string {
	if l.Status == LayawayPending && l.DueDate != nil && l.DueDate.Before(now) {
		return LayawayOverdue
	}
	return l.Status
}

// LayawayItem es una línea del apartado; su stock queda reservado al crear.
type LayawayItem struct {
	ID        int64
	LayawayID int64
	ProductID int64
	Qty       decimal.Decimal
	Price     decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
}

// LayawayPayment es un abono a un apartado. IsDeposit distingue el abono
// sintético que registra el depósito inicial; ese monto ya cuenta en
// Layaway.Deposit y no debe sumarse dos veces.
type LayawayPayment struct {
	ID        int64
	LayawayID int64
	Amount    decimal.Decimal
	Timestamp time.Time
	Notes     string
	IsDeposit bool
	UserID    *int64
}
