package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// LayawayFilter filtros de listado de apartados.
type LayawayFilter struct {
	BranchID   int64
	CustomerID int64
	Status     string // incluye el derivado "vencido"
	DateFrom   string
	DateTo     string
	Limit      int
}

// LayawayRepository apartados, sus líneas y abonos.
type LayawayRepository interface {
	Create(l *entity.Layaway) (int64, error)
	CreateItem(item *entity.LayawayItem) error
	CreatePayment(p *entity.LayawayPayment) (int64, error)
	GetByID(id int64) (*entity.Layaway, error)
	Items(layawayID int64) ([]*entity.LayawayItem, error)
	Payments(layawayID int64) ([]*entity.LayawayPayment, error)
	// SumPayments total abonado (sin contar el depósito inicial).
	SumPayments(layawayID int64) (decimal.Decimal, error)
	// PaymentsInWindow suma abonos de la sucursal en una ventana (corte).
	PaymentsInWindow(branchID int64, from, to string) (decimal.Decimal, error)
	UpdateBalanceStatus(id int64, balance decimal.Decimal, status string) error
	List(f LayawayFilter) ([]*entity.Layaway, error)
}
