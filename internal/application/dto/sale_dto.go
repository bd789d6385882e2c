package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/payment"
)

// SaleLineRequest línea del carrito. ProductID en cero es una venta común
// (línea ad-hoc con descripción libre).
type SaleLineRequest struct {
	ProductID        int64           `json:"product_id"`
	Description      string          `json:"description"`
	Qty              decimal.Decimal `json:"qty"`
	Price            decimal.Decimal `json:"price"`
	Discount         decimal.Decimal `json:"discount"`
	Wholesale        bool            `json:"wholesale"`
	PriceIncludesTax bool            `json:"price_includes_tax"`
}

// CreateSaleRequest cierre de una venta con su desglose de pago.
type CreateSaleRequest struct {
	CustomerID *int64            `json:"customer_id"`
	Items      []SaleLineRequest `json:"items"`
	Discount   decimal.Decimal   `json:"discount"`
	Breakdown  payment.Breakdown `json:"payment"`
}

// CreateSaleResponse resultado del cierre.
type CreateSaleResponse struct {
	SaleID      int64           `json:"sale_id"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	CreditDelta decimal.Decimal `json:"credit_delta"`
	TurnID      *int64          `json:"turn_id,omitempty"`
}

// SaleResponse venta serializada para la API.
type SaleResponse struct {
	ID            int64             `json:"id"`
	BranchID      int64             `json:"branch_id"`
	UserID        *int64            `json:"user_id,omitempty"`
	CustomerID    *int64            `json:"customer_id,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Discount      decimal.Decimal   `json:"discount"`
	Total         decimal.Decimal   `json:"total"`
	PaymentMethod string            `json:"payment_method"`
	Breakdown     payment.Breakdown `json:"payment"`
	Reference     string            `json:"reference,omitempty"`
	CardFee       decimal.Decimal   `json:"card_fee"`
	TurnID        *int64            `json:"turn_id,omitempty"`
}

// SaleFromEntity arma la respuesta desde la entidad.
func SaleFromEntity(s *entity.Sale) SaleResponse {
	return SaleResponse{
		ID:            s.ID,
		BranchID:      s.BranchID,
		UserID:        s.UserID,
		CustomerID:    s.CustomerID,
		Timestamp:     s.Timestamp,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		PaymentMethod: string(s.PaymentMethod),
		Breakdown:     s.Breakdown,
		Reference:     s.Reference,
		CardFee:       s.CardFee,
		TurnID:        s.TurnID,
	}
}

// SalesFromEntities convierte un listado.
func SalesFromEntities(ss []*entity.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(ss))
	for _, s := range ss {
		out = append(out, SaleFromEntity(s))
	}
	return out
}

// SaleItemResponse línea de venta serializada.
type SaleItemResponse struct {
	ID        int64               `json:"id"`
	ProductID int64               `json:"product_id"`
	Qty       decimal.Decimal     `json:"qty"`
	Price     decimal.Decimal     `json:"price"`
	Discount  decimal.Decimal     `json:"discount"`
	Total     decimal.Decimal     `json:"total"`
	Metadata  entity.SaleItemMeta `json:"metadata"`
}

// SaleDetailResponse venta con sus líneas.
type SaleDetailResponse struct {
	Sale  SaleResponse       `json:"sale"`
	Items []SaleItemResponse `json:"items"`
}

// SaleItemsFromEntities convierte las líneas de una venta.
func SaleItemsFromEntities(items []*entity.SaleItem) []SaleItemResponse {
	out := make([]SaleItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Qty:       it.Qty,
			Price:     it.Price,
			Discount:  it.Discount,
			Total:     it.Total,
			Metadata:  it.Metadata,
		})
	}
	return out
}
