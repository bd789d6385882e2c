package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStock es la existencia de un producto en una sucursal. Stock es el
// total en piso y Reserved la porción apartada; ambos se mueven únicamente a
// través de movimientos registrados en inventory_logs.
// Invariante: Reserved ≤ Stock en toda mutación de reserva.
type ProductStock struct {
	ProductID int64
	BranchID  int64
	Stock     decimal.Decimal
	Reserved  decimal.Decimal
	MinStock  decimal.Decimal
	MaxStock  decimal.Decimal
	UpdatedAt time.Time
}

// Available devuelve la existencia vendible (stock menos reservado).
func (s *ProductStock) Available() decimal.Decimal {
	return s.Stock.Sub(s.Reserved)
}

// InventoryLog es una entrada del libro append-only de movimientos de stock.
type InventoryLog struct {
	ID        int64
	ProductID int64
	BranchID  int64
	Delta     decimal.Decimal
	Reason    string
	RefType   string
	RefID     *int64
	CreatedAt time.Time
}

// Razones de movimiento usadas por el ledger.
const (
	ReasonSale             = "sale"
	ReasonSaleKit          = "sale_kit"
	ReasonAdjust           = "adjust"
	ReasonLayawayReserve   = "layaway reserve"
	ReasonLayawayRelease   = "layaway release"
	ReasonLayawayConsume   = "layaway consume"
	ReasonLayawayCancel    = "layaway cancel"
	ReasonLayawayLiquidate = "layaway liquidate"
)
