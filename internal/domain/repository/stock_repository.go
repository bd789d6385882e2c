package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// StockRepository existencias por (producto, sucursal). Todas las mutaciones
// son ajustes relativos (stock = stock + delta) y las de reserva verifican el
// invariante reserved ≤ stock.
type StockRepository interface {
	Get(productID, branchID int64) (*entity.ProductStock, error)
	// AdjustStock suma delta al stock en piso (negativo para descuentos).
	AdjustStock(productID, branchID int64, delta decimal.Decimal) error
	// Reserve aparta qty; falla con ErrReservedExceedsStock si la reserva
	// resultante rebasa el stock.
	Reserve(productID, branchID int64, qty decimal.Decimal) error
	// ReleaseReserved regresa qty reservada al piso: reserved baja (piso en
	// cero) y stock sube en la misma cantidad.
	ReleaseReserved(productID, branchID int64, qty decimal.Decimal) error
	// ConsumeReserved convierte qty reservada en salida real (reserved y stock bajan).
	ConsumeReserved(productID, branchID int64, qty decimal.Decimal) error
	SetLevels(productID, branchID int64, minStock, maxStock decimal.Decimal) error
	ListByBranch(branchID int64) ([]*entity.ProductStock, error)
}

// InventoryLogRepository bitácora append-only de movimientos de stock.
type InventoryLogRepository interface {
	Create(log *entity.InventoryLog) error
	List(productID, branchID int64, limit int) ([]*entity.InventoryLog, error)
	// Since devuelve movimientos desde un timestamp (pull incremental).
	Since(since string, limit int) ([]*entity.InventoryLog, error)
}
