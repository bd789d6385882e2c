package payment

import (
	"github.com/shopspring/decimal"
)

// Method es el método de pago de una venta.
type Method string

const (
	MethodCash     Method = "cash"
	MethodCard     Method = "card"
	MethodTransfer Method = "transfer"
	MethodUSD      Method = "usd"
	MethodVoucher  Method = "voucher"
	MethodCheck    Method = "check"
	MethodCredit   Method = "credit"
	MethodMixed    Method = "mixed"
)

// Valid indica si el método pertenece al conjunto soportado.
func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer, MethodUSD, MethodVoucher,
		MethodCheck, MethodCredit, MethodMixed:
		return true
	}
	return false
}

// Breakdown es el desglose de pago de una venta: un tag de método más los
// campos de su variante. Para method=mixed los sub-pagos van en Mixed.
// El JSON coincide con la columna sales.payment_breakdown.
type Breakdown struct {
	Method Method `json:"method"`

	// Variante simple (cash/card/transfer/check/voucher/credit)
	Amount    decimal.Decimal `json:"amount,omitempty"`
	Reference string          `json:"reference,omitempty"`
	CardFee   decimal.Decimal `json:"card_fee,omitempty"`

	// Variante USD
	USDAmount   decimal.Decimal `json:"usd_amount,omitempty"`
	USDExchange decimal.Decimal `json:"usd_exchange,omitempty"`
	AmountMXN   decimal.Decimal `json:"amount_mxn,omitempty"`

	// Variante cheque / vale
	CheckNumber   string          `json:"check_number,omitempty"`
	VoucherAmount decimal.Decimal `json:"voucher_amount,omitempty"`

	// Monto fiado dentro de un pago que no es 100% crédito
	CreditAmount decimal.Decimal `json:"credit_amount,omitempty"`

	// Variante mixed: sub-desglose por método
	Mixed *Mixed `json:"breakdown,omitempty"`
}

// Mixed agrupa los sub-pagos de un pago mixto, uno por método como máximo.
type Mixed struct {
	Cash     decimal.Decimal `json:"cash,omitempty"`
	Card     *CardPart       `json:"card,omitempty"`
	Transfer *TransferPart   `json:"transfer,omitempty"`
	USD      *USDPart        `json:"usd,omitempty"`
	Check    *CheckPart      `json:"check,omitempty"`
	Vouchers decimal.Decimal `json:"vouchers,omitempty"`
	Credit   decimal.Decimal `json:"credit,omitempty"`
}

// CardPart pago con tarjeta dentro de un mixto. Fee es la comisión que se
// suma por encima del total de la venta.
type CardPart struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
	Fee       decimal.Decimal `json:"fee,omitempty"`
}

// TransferPart transferencia dentro de un mixto.
type TransferPart struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
}

// USDPart dólares dentro de un mixto; el monto local se deriva del tipo de
// cambio capturado al momento de la venta.
type USDPart struct {
	USDAmount   decimal.Decimal `json:"usd_amount"`
	USDExchange decimal.Decimal `json:"usd_exchange"`
}

// CheckPart cheque dentro de un mixto.
type CheckPart struct {
	Amount decimal.Decimal `json:"amount"`
	Number string          `json:"check_number,omitempty"`
}

// Flatten reduce el desglose a un mapa método→monto en moneda local para
// reportes y cortes de caja: los mixtos se aplanan, los USD se convierten con
// el tipo de cambio almacenado y la comisión de tarjeta se suma al monto de
// tarjeta.
func (b Breakdown) Flatten() map[Method]decimal.Decimal {
	flat := make(map[Method]decimal.Decimal)
	if b.Method == MethodMixed {
		if b.Mixed == nil {
			return flat
		}
		m := b.Mixed
		addFlat(flat, MethodCash, m.Cash)
		if m.Card != nil {
			addFlat(flat, MethodCard, m.Card.Amount.Add(m.Card.Fee))
		}
		if m.Transfer != nil {
			addFlat(flat, MethodTransfer, m.Transfer.Amount)
		}
		if m.USD != nil {
			addFlat(flat, MethodUSD, m.USD.USDAmount.Mul(m.USD.USDExchange))
		}
		if m.Check != nil {
			addFlat(flat, MethodCheck, m.Check.Amount)
		}
		addFlat(flat, MethodVoucher, m.Vouchers)
		addFlat(flat, MethodCredit, m.Credit)
		return flat
	}

	if !b.Method.Valid() {
		return flat
	}
	amount := b.Amount
	if amount.IsZero() && !b.AmountMXN.IsZero() {
		amount = b.AmountMXN
	}
	if b.Method == MethodCard {
		amount = amount.Add(b.CardFee)
	}
	if b.Method == MethodUSD && !b.USDAmount.IsZero() && !b.USDExchange.IsZero() {
		amount = b.USDAmount.Mul(b.USDExchange)
	}
	if b.Method == MethodVoucher && amount.IsZero() {
		amount = b.VoucherAmount
	}
	addFlat(flat, b.Method, amount)
	return flat
}

func addFlat(flat map[Method]decimal.Decimal, m Method, amount decimal.Decimal) {
	if amount.IsZero() {
		return
	}
	flat[m] = flat[m].Add(amount)
}

// CashPortion devuelve el monto en efectivo del desglose (para el corte).
func (b Breakdown) CashPortion() decimal.Decimal {
	return b.Flatten()[MethodCash]
}

// TotalCardFee es la comisión de tarjeta total del pago, fuera o dentro de un
// mixto; se suma por encima del total calculado de la venta.
func (b Breakdown) TotalCardFee() decimal.Decimal {
	fee := b.CardFee
	if b.Method == MethodMixed && b.Mixed != nil && b.Mixed.Card != nil {
		fee = fee.Add(b.Mixed.Card.Fee)
	}
	return fee
}

// CreditPortion devuelve el monto fiado del pago: el total de la venta si el
// método es credit, o el sub-monto credit declarado (directo o dentro del
// mixto) en cualquier otro caso.
func (b Breakdown) CreditPortion(saleTotal decimal.Decimal) decimal.Decimal {
	if b.Method == MethodCredit {
		return saleTotal
	}
	credit := b.CreditAmount
	if b.Method == MethodMixed && b.Mixed != nil && credit.IsZero() {
		credit = b.Mixed.Credit
	}
	return credit
}

// USDDetail devuelve (monto en USD, tipo de cambio) del pago, buscando dentro
// del mixto cuando aplica. Ambos en cero si el pago no involucra dólares.
func (b Breakdown) USDDetail() (decimal.Decimal, decimal.Decimal) {
	if b.Method == MethodMixed && b.Mixed != nil && b.Mixed.USD != nil {
		return b.Mixed.USD.USDAmount, b.Mixed.USD.USDExchange
	}
	if !b.USDAmount.IsZero() {
		return b.USDAmount, b.USDExchange
	}
	return decimal.Zero, decimal.Zero
}

// VoucherTotal devuelve el monto pagado con vales, directo o dentro del mixto.
func (b Breakdown) VoucherTotal() decimal.Decimal {
	if b.Method == MethodMixed && b.Mixed != nil {
		return b.Mixed.Vouchers
	}
	if b.Method == MethodVoucher && b.VoucherAmount.IsZero() {
		return b.Amount
	}
	return b.VoucherAmount
}

// ResolveReference devuelve la referencia bancaria del pago (tarjeta o
// transferencia), buscando dentro del mixto cuando el campo directo está vacío.
func (b Breakdown) ResolveReference() string {
	if b.Reference != "" {
		return b.Reference
	}
	if b.Method == MethodMixed && b.Mixed != nil {
		if b.Mixed.Card != nil && b.Mixed.Card.Reference != "" {
			return b.Mixed.Card.Reference
		}
		if b.Mixed.Transfer != nil {
			return b.Mixed.Transfer.Reference
		}
	}
	return ""
}

// ResolveCheckNumber devuelve el número de cheque, directo o dentro del mixto.
func (b Breakdown) ResolveCheckNumber() string {
	if b.CheckNumber != "" {
		return b.CheckNumber
	}
	if b.Method == MethodMixed && b.Mixed != nil && b.Mixed.Check != nil {
		return b.Mixed.Check.Number
	}
	return ""
}
