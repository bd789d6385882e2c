package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiendamx/pos-mostrador/internal/application/syncsvc"
)

// SyncHandler expone el pull incremental para las cajas cliente (MultiCaja).
type SyncHandler struct {
	uc *syncsvc.Usecase
}

// NewSyncHandler construye el handler.
func NewSyncHandler(uc *syncsvc.Usecase) *SyncHandler {
	return &SyncHandler{uc: uc}
}

// Ping latido para que las cajas detecten al servidor.
func (h *SyncHandler) Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Incremental devuelve catálogo, inventario, ventas y clientes cambiados
// desde ?since= (vacío trae todo).
func (h *SyncHandler) Incremental(c *fiber.Ctx) error {
	payload, err := h.uc.IncrementalPayload(c.Context(), c.Query("since"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payload)
}
