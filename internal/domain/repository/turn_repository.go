package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// TurnRepository turnos de caja.
type TurnRepository interface {
	Create(t *entity.Turn) (int64, error)
	GetByID(id int64) (*entity.Turn, error)
	// GetOpen devuelve el turno abierto de (sucursal, usuario) o nil.
	GetOpen(branchID, userID int64) (*entity.Turn, error)
	Close(id int64, closingAmount, expectedAmount decimal.Decimal, notes string) error
	List(branchID int64, status string, limit int) ([]*entity.Turn, error)
}

// CashMovementRepository entradas/salidas de efectivo de un turno.
type CashMovementRepository interface {
	Create(m *entity.CashMovement) (int64, error)
	ListByTurn(turnID int64) ([]*entity.CashMovement, error)
	Delete(id int64) error
	// Sums devuelve (entradas, salidas) del turno.
	Sums(turnID int64) (ins, outs decimal.Decimal, err error)
}
