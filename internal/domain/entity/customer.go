package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/credit"
)

// Customer representa un cliente con sus datos fiscales y su cuenta de
// crédito. CreditBalance es lo que el cliente debe; el límite se valida al
// momento de la venta, no en mutaciones arbitrarias del saldo.
type Customer struct {
	ID               int64
	FirstName        string
	LastName         string
	Phone            string
	Email            string
	EmailFiscal      string
	Notes            string
	VIP              bool
	CreditLimit      credit.Limit
	CreditBalance    decimal.Decimal
	CreditAuthorized bool
	IsActive         bool
	CreatedAt        time.Time

	// Campos fiscales (CFDI)
	RFC           string
	RazonSocial   string
	Domicilio1    string
	Domicilio2    string
	Colonia       string
	Municipio     string
	Estado        string
	Pais          string
	CodigoPostal  string
	RegimenFiscal string
}

// FullName devuelve nombre y apellido sin espacios sobrantes.
func (c *Customer) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// PreviousCreditBalance es un saldo consolidado anterior, punto de partida del
// estado de cuenta.
type PreviousCreditBalance struct {
	ID          int64
	CustomerID  int64
	Balance     decimal.Decimal
	Description string
	CreatedAt   time.Time
}

// CreditPayment es un abono a la cuenta de crédito de un cliente. SaleIDs es
// informativo: el saldo es corrido, sin asignación FIFO por venta.
type CreditPayment struct {
	ID         int64
	CustomerID int64
	Amount     decimal.Decimal
	Timestamp  time.Time
	Notes      string
	UserID     *int64
	SaleIDs    []int64
}
