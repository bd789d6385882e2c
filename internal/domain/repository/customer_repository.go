package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// CustomerRepository acceso a clientes y su cuenta de crédito. Las mutaciones
// de saldo son relativas (credit_balance = credit_balance + delta) para evitar
// carreras read-then-write entre cajas.
type CustomerRepository interface {
	Create(c *entity.Customer) (int64, error)
	Update(c *entity.Customer) error
	Delete(id int64) error
	GetByID(id int64) (*entity.Customer, error)
	Search(query string, limit int) ([]*entity.Customer, error)
	List(limit int) ([]*entity.Customer, error)
	// AddCreditBalance suma delta al saldo deudor (venta fiada).
	AddCreditBalance(id int64, delta decimal.Decimal) error
	// ReduceCreditBalance resta amount al saldo con piso en cero (abono).
	ReduceCreditBalance(id int64, amount decimal.Decimal) error
	// ListWithBalance clientes con saldo deudor > 0 ordenados por nombre.
	ListWithBalance() ([]*entity.Customer, error)
	Since(since string, limit int) ([]*entity.Customer, error)
}

// CreditRepository abonos a cuenta y saldos consolidados previos.
type CreditRepository interface {
	CreatePayment(p *entity.CreditPayment) (int64, error)
	PaymentsByCustomer(customerID int64) ([]*entity.CreditPayment, error)
	ListAllPayments(limit int) ([]*entity.CreditPayment, error)
	// PaymentsInWindow suma abonos dentro de una ventana de tiempo (corte).
	PaymentsInWindow(from, to string) (decimal.Decimal, error)
	GetPreviousBalance(customerID int64) (*entity.PreviousCreditBalance, error)
	SetPreviousBalance(customerID int64, balance decimal.Decimal, description string) (int64, error)
}
