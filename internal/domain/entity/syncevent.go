package entity

import "time"

// Tipos de evento de catálogo propagados a las cajas cliente.
const (
	EventProductCreated = "product_created"
	EventProductUpdated = "product_updated"
	EventProductDeleted = "product_deleted"
)

// Tipos de evento de inventario.
const (
	EventInventoryAdjust = "adjust"
	EventInventorySale   = "sale"
)

// CatalogEvent es un evento de catálogo registrado best-effort en el servidor
// para el pull incremental de las cajas.
type CatalogEvent struct {
	ID        int64
	EventType string
	ProductID int64
	Timestamp time.Time
	Payload   string // JSON del producto
}

// InventoryEvent es un evento de inventario registrado best-effort.
type InventoryEvent struct {
	ID        int64
	EventType string
	Payload   string // JSON
	Timestamp time.Time
}
