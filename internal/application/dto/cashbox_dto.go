package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// OpenTurnRequest apertura de turno con fondo inicial.
type OpenTurnRequest struct {
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	Notes         string          `json:"notes"`
}

// CloseTurnRequest cierre de turno con el efectivo contado.
type CloseTurnRequest struct {
	CountedAmount decimal.Decimal `json:"counted_amount"`
	Notes         string          `json:"notes"`
}

// CashMovementRequest entrada o salida de efectivo del turno abierto.
type CashMovementRequest struct {
	Type   string          `json:"type"` // in | out
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

// TurnResponse turno serializado.
type TurnResponse struct {
	ID             int64            `json:"id"`
	BranchID       int64            `json:"branch_id"`
	UserID         int64            `json:"user_id"`
	OpenedAt       time.Time        `json:"opened_at"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
	OpeningAmount  decimal.Decimal  `json:"opening_amount"`
	ClosingAmount  *decimal.Decimal `json:"closing_amount,omitempty"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	Status         string           `json:"status"`
}

// TurnFromEntity arma la respuesta desde la entidad.
func TurnFromEntity(t *entity.Turn) TurnResponse {
	return TurnResponse{
		ID:             t.ID,
		BranchID:       t.BranchID,
		UserID:         t.UserID,
		OpenedAt:       t.OpenedAt,
		ClosedAt:       t.ClosedAt,
		OpeningAmount:  t.OpeningAmount,
		ClosingAmount:  t.ClosingAmount,
		ExpectedAmount: t.ExpectedAmount,
		Notes:          t.Notes,
		Status:         t.Status,
	}
}

// TurnsFromEntities convierte un listado.
func TurnsFromEntities(ts []*entity.Turn) []TurnResponse {
	out := make([]TurnResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, TurnFromEntity(t))
	}
	return out
}

// TurnSummaryResponse resumen del corte.
type TurnSummaryResponse struct {
	Opening         decimal.Decimal            `json:"opening"`
	CashSales       decimal.Decimal            `json:"cash_sales"`
	CreditSales     decimal.Decimal            `json:"credit_sales"`
	LayawayPayments decimal.Decimal            `json:"layaway_payments"`
	CreditPayments  decimal.Decimal            `json:"credit_payments"`
	Ins             decimal.Decimal            `json:"cash_in"`
	Outs            decimal.Decimal            `json:"cash_out"`
	ExpectedCash    decimal.Decimal            `json:"expected_cash"`
	SalesByMethod   map[string]decimal.Decimal `json:"sales_by_method"`
}

// TurnSummaryFromEntity arma la respuesta del resumen.
func TurnSummaryFromEntity(s *entity.TurnSummary) TurnSummaryResponse {
	return TurnSummaryResponse{
		Opening:         s.Opening,
		CashSales:       s.CashSales,
		CreditSales:     s.CreditSales,
		LayawayPayments: s.LayawayPayments,
		CreditPayments:  s.CreditPayments,
		Ins:             s.Ins,
		Outs:            s.Outs,
		ExpectedCash:    s.ExpectedCash,
		SalesByMethod:   s.SalesByMethod,
	}
}

// CashMovementResponse movimiento serializado.
type CashMovementResponse struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	CreatedAt time.Time       `json:"created_at"`
	TurnID    int64           `json:"turn_id"`
}

// CashMovementFromEntity arma la respuesta de un movimiento.
func CashMovementFromEntity(m *entity.CashMovement) CashMovementResponse {
	return CashMovementResponse{
		ID:        m.ID,
		Type:      m.Type,
		Amount:    m.Amount,
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt,
		TurnID:    m.TurnID,
	}
}

// CashMovementsFromEntities convierte un listado.
func CashMovementsFromEntities(ms []*entity.CashMovement) []CashMovementResponse {
	out := make([]CashMovementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, CashMovementFromEntity(m))
	}
	return out
}

// CloseTurnResponse resultado del cierre: turno, resumen y diferencia
// contado − esperado.
type CloseTurnResponse struct {
	Turn    TurnResponse        `json:"turn"`
	Summary TurnSummaryResponse `json:"summary"`
	Delta   decimal.Decimal     `json:"delta"`
}
