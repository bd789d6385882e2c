package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiendamx/pos-mostrador/internal/application/credit"
	"github.com/tiendamx/pos-mostrador/internal/application/dto"
)

// CreditHandler maneja abonos a crédito y estados de cuenta.
type CreditHandler struct {
	uc *credit.Usecase
}

// NewCreditHandler construye el handler.
func NewCreditHandler(uc *credit.Usecase) *CreditHandler {
	return &CreditHandler{uc: uc}
}

// RegisterPayment abona a la cuenta de un cliente reduciendo su saldo deudor.
func (h *CreditHandler) RegisterPayment(c *fiber.Ctx) error {
	customerID, err := c.ParamsInt("id")
	if err != nil || customerID <= 0 {
		return badRequest(c, "id inválido")
	}
	var in dto.CreditPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	paymentID, err := h.uc.RegisterPayment(c.Context(), credit.PaymentInput{
		Session:    GetSession(c),
		CustomerID: int64(customerID),
		Amount:     in.Amount,
		Notes:      in.Notes,
		SaleIDs:    in.SaleIDs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"payment_id": paymentID})
}

// Statement devuelve el estado de cuenta con saldo corrido.
func (h *CreditHandler) Statement(c *fiber.Ctx) error {
	customerID, err := c.ParamsInt("id")
	if err != nil || customerID <= 0 {
		return badRequest(c, "id inválido")
	}
	st, err := h.uc.GetStatement(c.Context(), int64(customerID))
	if err != nil {
		return respondError(c, err)
	}
	entries := make([]dto.StatementEntryResponse, 0, len(st.Entries))
	for _, e := range st.Entries {
		entries = append(entries, dto.StatementEntryResponse{
			Date:        e.Date.Format("2006-01-02 15:04:05"),
			Type:        e.Type,
			Description: e.Description,
			Charge:      e.Charge,
			Payment:     e.Payment,
			Balance:     e.Balance,
			RefID:       e.RefID,
		})
	}
	return c.JSON(dto.StatementResponse{
		Customer: dto.CustomerFromEntity(st.Customer),
		Entries:  entries,
		Balance:  st.Balance,
	})
}

// Debtors lista los clientes con saldo deudor.
func (h *CreditHandler) Debtors(c *fiber.Ctx) error {
	cs, err := h.uc.ListDebtors(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CustomersFromEntities(cs))
}
