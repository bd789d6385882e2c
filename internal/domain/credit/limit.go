package credit

import "github.com/shopspring/decimal"

// Limit es el límite de crédito de un cliente: ilimitado o acotado a un monto.
// En la base el ilimitado se codifica como credit_limit negativo; esa
// convención vive solo en la capa SQL, el dominio trabaja con el valor
// etiquetado.
type Limit struct {
	unlimited bool
	amount    decimal.Decimal
}

// Unlimited construye un límite sin tope.
func Unlimited() Limit {
	return Limit{unlimited: true}
}

// Capped construye un límite acotado al monto dado (monto ≥ 0).
func Capped(amount decimal.Decimal) Limit {
	return Limit{amount: amount}
}

// FromStored decodifica el valor persistido: negativo = ilimitado.
func FromStored(v decimal.Decimal) Limit {
	if v.IsNegative() {
		return Unlimited()
	}
	return Capped(v)
}

// Stored devuelve la representación persistida (-1 para ilimitado).
func (l Limit) Stored() decimal.Decimal {
	if l.unlimited {
		return decimal.NewFromInt(-1)
	}
	return l.amount
}

// IsUnlimited indica si el límite no tiene tope.
func (l Limit) IsUnlimited() bool { return l.unlimited }

// Amount devuelve el tope cuando el límite es acotado (cero si es ilimitado).
func (l Limit) Amount() decimal.Decimal { return l.amount }

// Allows indica si un saldo proyectado cabe dentro del límite.
func (l Limit) Allows(projected decimal.Decimal) bool {
	if l.unlimited {
		return true
	}
	return projected.LessThanOrEqual(l.amount)
}
