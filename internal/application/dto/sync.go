package dto

import (
	"github.com/shopspring/decimal"
)

// IncrementalPayload es la respuesta del pull incremental: todo lo que cambió
// desde el timestamp solicitado, acotado por página para que una caja
// rezagada no se ahogue.
type IncrementalPayload struct {
	Timestamp       string              `json:"timestamp"`
	Products        []ProductDTO        `json:"products"`
	CatalogEvents   []CatalogEventDTO   `json:"catalog_events"`
	InventoryLogs   []InventoryLogDTO   `json:"inventory_logs"`
	InventoryEvents []InventoryEventDTO `json:"inventory_events"`
	Sales           []SaleSyncDTO       `json:"sales"`
	Customers       []CustomerSyncDTO   `json:"customers"`
}

// CatalogEventDTO evento de catálogo en el cable.
type CatalogEventDTO struct {
	ID        int64  `json:"id"`
	EventType string `json:"event_type"`
	ProductID int64  `json:"product_id"`
	Timestamp string `json:"timestamp"`
	Payload   string `json:"payload"`
}

// InventoryEventDTO evento de inventario en el cable.
type InventoryEventDTO struct {
	ID        int64  `json:"id"`
	EventType string `json:"event_type"`
	Payload   string `json:"payload"`
	Timestamp string `json:"timestamp"`
}

// InventoryLogDTO movimiento de inventario en el cable.
type InventoryLogDTO struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	BranchID  int64           `json:"branch_id"`
	Delta     decimal.Decimal `json:"delta"`
	Reason    string          `json:"reason"`
	RefType   string          `json:"ref_type,omitempty"`
	RefID     *int64          `json:"ref_id,omitempty"`
	CreatedAt string          `json:"created_at"`
}

// SaleSyncDTO venta resumida para el pull incremental (las líneas viajan en
// los movimientos de inventario).
type SaleSyncDTO struct {
	ID            int64           `json:"id"`
	BranchID      int64           `json:"branch_id"`
	Timestamp     string          `json:"timestamp"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
}

// CustomerSyncDTO cliente resumido para el pull incremental.
type CustomerSyncDTO struct {
	ID            int64           `json:"id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Phone         string          `json:"phone,omitempty"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	CreatedAt     string          `json:"created_at"`
}
