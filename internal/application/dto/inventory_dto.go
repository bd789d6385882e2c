package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// StockAdjustRequest ajuste relativo de existencia.
type StockAdjustRequest struct {
	ProductID int64           `json:"product_id"`
	Delta     decimal.Decimal `json:"delta"`
	Reason    string          `json:"reason"`
}

// StockSetRequest fija la existencia absoluta de un producto.
type StockSetRequest struct {
	ProductID int64           `json:"product_id"`
	Stock     decimal.Decimal `json:"stock"`
}

// StockLevelsRequest niveles mínimo y máximo para alertas.
type StockLevelsRequest struct {
	ProductID int64           `json:"product_id"`
	MinStock  decimal.Decimal `json:"min_stock"`
	MaxStock  decimal.Decimal `json:"max_stock"`
}

// StockResponse existencia serializada.
type StockResponse struct {
	ProductID int64           `json:"product_id"`
	BranchID  int64           `json:"branch_id"`
	Stock     decimal.Decimal `json:"stock"`
	Reserved  decimal.Decimal `json:"reserved"`
	Available decimal.Decimal `json:"available"`
	MinStock  decimal.Decimal `json:"min_stock"`
	MaxStock  decimal.Decimal `json:"max_stock"`
}

// StockFromEntity arma la respuesta desde la entidad.
func StockFromEntity(s *entity.ProductStock) StockResponse {
	return StockResponse{
		ProductID: s.ProductID,
		BranchID:  s.BranchID,
		Stock:     s.Stock,
		Reserved:  s.Reserved,
		Available: s.Available(),
		MinStock:  s.MinStock,
		MaxStock:  s.MaxStock,
	}
}

// StocksFromEntities convierte un listado.
func StocksFromEntities(ss []*entity.ProductStock) []StockResponse {
	out := make([]StockResponse, 0, len(ss))
	for _, s := range ss {
		out = append(out, StockFromEntity(s))
	}
	return out
}

// InventoryLogResponse movimiento del libro de inventario.
type InventoryLogResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	BranchID  int64           `json:"branch_id"`
	Delta     decimal.Decimal `json:"delta"`
	Reason    string          `json:"reason"`
	RefType   string          `json:"ref_type,omitempty"`
	RefID     *int64          `json:"ref_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// InventoryLogsFromEntities convierte un listado.
func InventoryLogsFromEntities(ls []*entity.InventoryLog) []InventoryLogResponse {
	out := make([]InventoryLogResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, InventoryLogResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			BranchID:  l.BranchID,
			Delta:     l.Delta,
			Reason:    l.Reason,
			RefType:   l.RefType,
			RefID:     l.RefID,
			CreatedAt: l.CreatedAt,
		})
	}
	return out
}
