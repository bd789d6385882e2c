package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiendamx/pos-mostrador/internal/application/dto"
	"github.com/tiendamx/pos-mostrador/internal/application/layaway"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
)

// LayawayHandler maneja apartados: alta, abonos, liquidación y cancelación.
type LayawayHandler struct {
	uc *layaway.Usecase
}

// NewLayawayHandler construye el handler.
func NewLayawayHandler(uc *layaway.Usecase) *LayawayHandler {
	return &LayawayHandler{uc: uc}
}

// Create abre un apartado reservando el stock de sus líneas.
func (h *LayawayHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLayawayRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	items := make([]layaway.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, layaway.ItemInput{
			ProductID: it.ProductID,
			Qty:       it.Qty,
			Price:     it.Price,
			Discount:  it.Discount,
		})
	}
	lay, err := h.uc.Create(c.Context(), layaway.CreateInput{
		Session:    GetSession(c),
		CustomerID: in.CustomerID,
		Items:      items,
		Deposit:    in.Deposit,
		DueDate:    in.DueDate,
		Notes:      in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.LayawayFromEntity(lay))
}

// AddPayment registra un abono; al llegar a cero el apartado se liquida.
func (h *LayawayHandler) AddPayment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	var in dto.LayawayPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	lay, err := h.uc.AddPayment(c.Context(), layaway.PaymentInput{
		Session:   GetSession(c),
		LayawayID: int64(id),
		Amount:    in.Amount,
		Notes:     in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LayawayFromEntity(lay))
}

// Liquidate entrega un apartado ya pagado consumiendo su reserva.
func (h *LayawayHandler) Liquidate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	lay, err := h.uc.Liquidate(c.Context(), GetSession(c), int64(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LayawayFromEntity(lay))
}

// Cancel cancela un apartado liberando su reserva al piso de venta.
func (h *LayawayHandler) Cancel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	lay, err := h.uc.Cancel(c.Context(), GetSession(c), int64(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LayawayFromEntity(lay))
}

// GetByID devuelve un apartado con líneas y abonos.
func (h *LayawayHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	detail, err := h.uc.Get(c.Context(), int64(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LayawayDetailResponse{
		Layaway:  dto.LayawayFromEntity(detail.Layaway),
		Items:    dto.LayawayItemsFromEntities(detail.Items),
		Payments: dto.LayawayPaymentsFromEntities(detail.Payments),
	})
}

// List lista apartados con filtros de estado, cliente y rango de fechas. El
// estado "vencido" se filtra sobre el derivado.
func (h *LayawayHandler) List(c *fiber.Ctx) error {
	f := repository.LayawayFilter{
		BranchID:   GetSession(c).BranchID,
		CustomerID: int64(c.QueryInt("customer_id", 0)),
		Status:     c.Query("status"),
		DateFrom:   c.Query("from"),
		DateTo:     c.Query("to"),
		Limit:      c.QueryInt("limit", 100),
	}
	ls, err := h.uc.List(c.Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LayawaysFromEntities(ls))
}
