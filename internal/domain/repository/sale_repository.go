package repository

import (
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// SaleRepository ventas y sus líneas. Las ventas son inmutables: no hay
// Update salvo la liga al CFDI emitido.
type SaleRepository interface {
	Create(s *entity.Sale) (int64, error)
	CreateItem(item *entity.SaleItem) error
	GetByID(id int64) (*entity.Sale, error)
	GetItems(saleID int64) ([]*entity.SaleItem, error)
	ListRecent(limit int) ([]*entity.Sale, error)
	// ListByTurn ventas atribuidas a un turno por su turn_id almacenado.
	ListByTurn(turnID int64) ([]*entity.Sale, error)
	ListByCustomer(customerID int64, limit int) ([]*entity.Sale, error)
	Since(since string, limit int) ([]*entity.Sale, error)
}
