package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiendamx/pos-mostrador/internal/application/customers"
	"github.com/tiendamx/pos-mostrador/internal/application/dto"
)

// CustomerHandler maneja las peticiones HTTP de clientes.
type CustomerHandler struct {
	uc *customers.Usecase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *customers.Usecase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create da de alta un cliente.
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	cust := in.ToEntity()
	id, err := h.uc.Create(c.Context(), GetSession(c), cust)
	if err != nil {
		return respondError(c, err)
	}
	cust.ID = id
	return c.Status(fiber.StatusCreated).JSON(dto.CustomerFromEntity(cust))
}

// Update edita un cliente.
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	var in dto.CustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	cust := in.ToEntity()
	cust.ID = int64(id)
	if err := h.uc.Update(c.Context(), GetSession(c), cust); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CustomerFromEntity(cust))
}

// Delete borra un cliente sin saldo; con saldo responde conflicto.
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	if err := h.uc.Delete(c.Context(), GetSession(c), int64(id)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID devuelve un cliente por id.
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	cust, err := h.uc.Get(c.Context(), int64(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CustomerFromEntity(cust))
}

// List lista clientes; q busca por nombre o teléfono.
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if q := c.Query("q"); q != "" {
		cs, err := h.uc.Search(c.Context(), q, limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.CustomersFromEntities(cs))
	}
	cs, err := h.uc.List(c.Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CustomersFromEntities(cs))
}
