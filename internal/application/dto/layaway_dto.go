package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// LayawayItemRequest línea de un apartado nuevo.
type LayawayItemRequest struct {
	ProductID int64           `json:"product_id"`
	Qty       decimal.Decimal `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreateLayawayRequest alta de apartado con depósito inicial.
type CreateLayawayRequest struct {
	CustomerID *int64               `json:"customer_id"`
	Items      []LayawayItemRequest `json:"items"`
	Deposit    decimal.Decimal      `json:"deposit"`
	DueDate    *time.Time           `json:"due_date"`
	Notes      string               `json:"notes"`
}

// LayawayPaymentRequest abono a un apartado.
type LayawayPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes"`
}

// LayawayResponse apartado serializado; status es el derivado (incluye
// vencido).
type LayawayResponse struct {
	ID         int64           `json:"id"`
	BranchID   int64           `json:"branch_id"`
	CustomerID *int64          `json:"customer_id,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Deposit    decimal.Decimal `json:"deposit"`
	Balance    decimal.Decimal `json:"balance"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	DueDate    *time.Time      `json:"due_date,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}

// LayawayFromEntity arma la respuesta con el estado derivado al momento.
func LayawayFromEntity(l *entity.Layaway) LayawayResponse {
	return LayawayResponse{
		ID:         l.ID,
		BranchID:   l.BranchID,
		CustomerID: l.CustomerID,
		Total:      l.Total,
		Deposit:    l.Deposit,
		Balance:    l.Balance,
		Status:     l.DisplayStatus(time.Now()),
		CreatedAt:  l.CreatedAt,
		DueDate:    l.DueDate,
		Notes:      l.Notes,
	}
}

// LayawaysFromEntities convierte un listado.
func LayawaysFromEntities(ls []*entity.Layaway) []LayawayResponse {
	out := make([]LayawayResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, LayawayFromEntity(l))
	}
	return out
}

// LayawayItemResponse línea serializada.
type LayawayItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Qty       decimal.Decimal `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

// LayawayPaymentResponse abono serializado.
type LayawayPaymentResponse struct {
	ID        int64           `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
	Notes     string          `json:"notes,omitempty"`
	IsDeposit bool            `json:"is_deposit"`
}

// LayawayDetailResponse apartado con líneas y abonos.
type LayawayDetailResponse struct {
	Layaway  LayawayResponse          `json:"layaway"`
	Items    []LayawayItemResponse    `json:"items"`
	Payments []LayawayPaymentResponse `json:"payments"`
}

// LayawayItemsFromEntities convierte las líneas.
func LayawayItemsFromEntities(items []*entity.LayawayItem) []LayawayItemResponse {
	out := make([]LayawayItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, LayawayItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Qty:       it.Qty,
			Price:     it.Price,
			Discount:  it.Discount,
			Total:     it.Total,
		})
	}
	return out
}

// LayawayPaymentsFromEntities convierte los abonos.
func LayawayPaymentsFromEntities(ps []*entity.LayawayPayment) []LayawayPaymentResponse {
	out := make([]LayawayPaymentResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, LayawayPaymentResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			Timestamp: p.Timestamp,
			Notes:     p.Notes,
			IsDeposit: p.IsDeposit,
		})
	}
	return out
}
