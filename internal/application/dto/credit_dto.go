package dto

import (
	"github.com/shopspring/decimal"
)

// CreditPaymentRequest abono a la cuenta de crédito de un cliente. SaleIDs es
// informativo (a qué ventas corresponde el abono).
type CreditPaymentRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Notes   string          `json:"notes"`
	SaleIDs []int64         `json:"sale_ids"`
}

// StatementEntryResponse renglón del estado de cuenta.
type StatementEntryResponse struct {
	Date        string          `json:"date"`
	Type        string          `json:"type"` // saldo_anterior | venta | abono
	Description string          `json:"description"`
	Charge      decimal.Decimal `json:"charge"`
	Payment     decimal.Decimal `json:"payment"`
	Balance     decimal.Decimal `json:"balance"`
	RefID       int64           `json:"ref_id,omitempty"`
}

// StatementResponse estado de cuenta con saldo corrido.
type StatementResponse struct {
	Customer CustomerResponse         `json:"customer"`
	Entries  []StatementEntryResponse `json:"entries"`
	Balance  decimal.Decimal          `json:"balance"`
}
