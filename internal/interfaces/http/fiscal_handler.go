package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiendamx/pos-mostrador/internal/application/dto"
	"github.com/tiendamx/pos-mostrador/internal/application/fiscal"
)

// FiscalHandler maneja configuración del emisor y emisión de CFDI.
type FiscalHandler struct {
	uc *fiscal.Usecase
}

// NewFiscalHandler construye el handler.
func NewFiscalHandler(uc *fiscal.Usecase) *FiscalHandler {
	return &FiscalHandler{uc: uc}
}

// GetConfig devuelve los datos del emisor.
func (h *FiscalHandler) GetConfig(c *fiber.Ctx) error {
	cfg, err := h.uc.GetConfig(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FiscalConfigFromEntity(cfg))
}

// UpdateConfig guarda los datos del emisor.
func (h *FiscalHandler) UpdateConfig(c *fiber.Ctx) error {
	var in dto.FiscalConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.UpdateConfig(c.Context(), GetSession(c), in.ToEntity()); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Issue emite el CFDI de ingreso de una venta.
func (h *FiscalHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueCFDIRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.SaleID <= 0 {
		return badRequest(c, "sale_id es requerido")
	}
	rec, err := h.uc.IssueForSale(c.Context(), fiscal.IssueInput{
		Session:    GetSession(c),
		SaleID:     in.SaleID,
		CustomerID: in.CustomerID,
		UsoCFDI:    in.UsoCFDI,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CFDIFromEntity(rec))
}

// IssuePago emite el complemento de pago de un abono de cliente.
func (h *FiscalHandler) IssuePago(c *fiber.Ctx) error {
	var in dto.IssuePagoRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.CustomerID <= 0 {
		return badRequest(c, "customer_id es requerido")
	}
	rec, err := h.uc.IssuePago(c.Context(), fiscal.PagoIssueInput{
		Session:       GetSession(c),
		CustomerID:    in.CustomerID,
		Amount:        in.Amount,
		FormaPago:     in.FormaPago,
		UUIDRelacion:  in.UUIDRelacion,
		ParcialidadNo: in.ParcialidadNo,
		SaldoAnterior: in.SaldoAnterior,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CFDIFromEntity(rec))
}

// ForSale devuelve el CFDI ligado a una venta.
func (h *FiscalHandler) ForSale(c *fiber.Ctx) error {
	saleID, err := c.ParamsInt("id")
	if err != nil || saleID <= 0 {
		return badRequest(c, "id inválido")
	}
	rec, err := h.uc.GetForSale(c.Context(), int64(saleID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CFDIFromEntity(rec))
}

// Cancel cancela un CFDI vigente.
func (h *FiscalHandler) Cancel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	var in dto.CancelCFDIRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.Cancel(c.Context(), GetSession(c), int64(id), in.Motivo); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID devuelve un CFDI por id.
func (h *FiscalHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	rec, err := h.uc.Get(c.Context(), int64(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CFDIFromEntity(rec))
}

// XML devuelve el XML del comprobante.
func (h *FiscalHandler) XML(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	data, err := h.uc.ReadXML(c.Context(), int64(id))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	return c.Send(data)
}

// List lista los CFDI más recientes.
func (h *FiscalHandler) List(c *fiber.Ctx) error {
	rs, err := h.uc.List(c.Context(), c.QueryInt("limit", 100))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CFDIsFromEntities(rs))
}
