package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiendamx/pos-mostrador/internal/application/cashbox"
	"github.com/tiendamx/pos-mostrador/internal/application/dto"
)

// CashboxHandler maneja turnos de caja y movimientos de efectivo.
type CashboxHandler struct {
	uc *cashbox.Usecase
}

// NewCashboxHandler construye el handler.
func NewCashboxHandler(uc *cashbox.Usecase) *CashboxHandler {
	return &CashboxHandler{uc: uc}
}

// Open abre un turno con el fondo inicial.
func (h *CashboxHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenTurnRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	turn, err := h.uc.OpenTurn(c.Context(), GetSession(c), in.OpeningAmount, in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TurnFromEntity(turn))
}

// Current devuelve el turno abierto del usuario en sesión.
func (h *CashboxHandler) Current(c *fiber.Ctx) error {
	turn, err := h.uc.CurrentTurn(c.Context(), GetSession(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TurnFromEntity(turn))
}

// Movement registra una entrada o salida de efectivo en el turno abierto.
func (h *CashboxHandler) Movement(c *fiber.Ctx) error {
	var in dto.CashMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	mov, err := h.uc.RegisterMovement(c.Context(), GetSession(c), in.Type, in.Amount, in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CashMovementFromEntity(mov))
}

// Summary devuelve el resumen (corte X) de un turno.
func (h *CashboxHandler) Summary(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	sum, err := h.uc.Summary(c.Context(), int64(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TurnSummaryFromEntity(sum))
}

// Close cierra el turno abierto contra el efectivo contado.
func (h *CashboxHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseTurnRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CloseTurn(c.Context(), GetSession(c), in.CountedAmount, in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CloseTurnResponse{
		Turn:    dto.TurnFromEntity(out.Turn),
		Summary: dto.TurnSummaryFromEntity(out.Summary),
		Delta:   out.Delta,
	})
}

// List lista turnos de la sucursal; status filtra open/closed.
func (h *CashboxHandler) List(c *fiber.Ctx) error {
	ts, err := h.uc.ListTurns(c.Context(), GetSession(c).BranchID, c.Query("status"), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TurnsFromEntities(ts))
}

// Movements lista los movimientos de efectivo de un turno.
func (h *CashboxHandler) Movements(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	ms, err := h.uc.Movements(c.Context(), int64(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CashMovementsFromEntities(ms))
}
