package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiendamx/pos-mostrador/internal/application/dto"
	"github.com/tiendamx/pos-mostrador/internal/application/sales"
)

// SaleHandler maneja el cierre y consulta de ventas.
type SaleHandler struct {
	uc *sales.Usecase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.Usecase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create cierra una venta con su desglose de pago.
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	items := make([]sales.LineInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, sales.LineInput{
			ProductID:        it.ProductID,
			Description:      it.Description,
			Qty:              it.Qty,
			Price:            it.Price,
			Discount:         it.Discount,
			Wholesale:        it.Wholesale,
			PriceIncludesTax: it.PriceIncludesTax,
		})
	}
	out, err := h.uc.CreateSale(c.Context(), sales.CreateSaleInput{
		Session:    GetSession(c),
		CustomerID: in.CustomerID,
		Items:      items,
		Discount:   in.Discount,
		Breakdown:  in.Breakdown,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateSaleResponse{
		SaleID:      out.SaleID,
		Subtotal:    out.Subtotal,
		Tax:         out.Tax,
		Total:       out.Total,
		CreditDelta: out.CreditDelta,
		TurnID:      out.TurnID,
	})
}

// GetByID devuelve una venta con sus líneas.
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	detail, err := h.uc.GetSale(c.Context(), int64(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SaleDetailResponse{
		Sale:  dto.SaleFromEntity(detail.Sale),
		Items: dto.SaleItemsFromEntities(detail.Items),
	})
}

// List lista ventas recientes; customer_id filtra por cliente.
func (h *SaleHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if customerID := c.QueryInt("customer_id", 0); customerID > 0 {
		ss, err := h.uc.ListByCustomer(c.Context(), int64(customerID), limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.SalesFromEntities(ss))
	}
	ss, err := h.uc.ListRecent(c.Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SalesFromEntities(ss))
}
