package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiendamx/pos-mostrador/internal/application/dto"
	"github.com/tiendamx/pos-mostrador/internal/application/inventory"
)

// InventoryHandler maneja existencias y el libro de movimientos.
type InventoryHandler struct {
	uc *inventory.Usecase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.Usecase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Adjust aplica un ajuste relativo de existencia.
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.StockAdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.Adjust(c.Context(), inventory.AdjustInput{
		Session:   GetSession(c),
		ProductID: in.ProductID,
		Delta:     in.Delta,
		Reason:    in.Reason,
	}); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Set fija la existencia absoluta de un producto.
func (h *InventoryHandler) Set(c *fiber.Ctx) error {
	var in dto.StockSetRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.SetStock(c.Context(), GetSession(c), in.ProductID, in.Stock); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetLevels define mínimos y máximos para alertas de stock bajo.
func (h *InventoryHandler) SetLevels(c *fiber.Ctx) error {
	var in dto.StockLevelsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.SetLevels(c.Context(), GetSession(c), in.ProductID, in.MinStock, in.MaxStock); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ApplySale descuenta el inventario de una venta hecha en una caja cliente
// (endpoint de sincronización, protegido con X-Token).
func (h *InventoryHandler) ApplySale(c *fiber.Ctx) error {
	var lines []inventory.RemoteSaleLine
	if err := c.BodyParser(&lines); err != nil {
		return invalidBody(c)
	}
	if len(lines) == 0 {
		return badRequest(c, "venta sin líneas")
	}
	if err := h.uc.ApplyRemoteSale(c.Context(), GetSession(c), lines); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"applied": true})
}

// GetStock devuelve la existencia de un producto.
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	st, err := h.uc.GetStock(c.Context(), int64(id), GetSession(c).BranchID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockFromEntity(st))
}

// ListStock lista las existencias de la sucursal.
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	ss, err := h.uc.ListStock(c.Context(), GetSession(c).BranchID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StocksFromEntities(ss))
}

// Logs lista movimientos del libro; product_id filtra por producto.
func (h *InventoryHandler) Logs(c *fiber.Ctx) error {
	ls, err := h.uc.Logs(c.Context(), int64(c.QueryInt("product_id", 0)), GetSession(c).BranchID, c.QueryInt("limit", 100))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.InventoryLogsFromEntities(ls))
}
