package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los mensajes son los que
// llegan al usuario final, por eso van en español.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Ventas y crédito
	ErrEmptyCart            = errors.New("la venta requiere al menos un artículo")
	ErrCreditNeedsCustomer  = errors.New("venta a crédito requiere cliente asignado")
	ErrCreditNotAuthorized  = errors.New("el cliente no tiene crédito autorizado")
	ErrCreditLimitExceeded  = errors.New("límite de crédito excedido para el cliente")
	ErrAmountNotPositive    = errors.New("la cantidad debe ser mayor a cero")
	ErrAmountExceedsBalance = errors.New("el abono no puede ser mayor al saldo")

	// Apartados
	ErrLayawayCancelled = errors.New("el apartado está cancelado")

	// Turnos
	ErrTurnAlreadyOpen = errors.New("ya existe un turno abierto")
	ErrNoOpenTurn      = errors.New("no hay turno abierto")
	ErrTurnClosed      = errors.New("turno no encontrado o ya cerrado")

	// Inventario
	ErrReservedExceedsStock = errors.New("la reserva excede el stock disponible")

	// Catálogo / clientes
	ErrProductHasSales    = errors.New("el producto tiene ventas asociadas; desactívalo en lugar de borrarlo")
	ErrCustomerHasBalance = errors.New("el cliente tiene saldo pendiente; no se puede eliminar")
	ErrInvalidCredentials = errors.New("usuario o contraseña incorrectos")
)
