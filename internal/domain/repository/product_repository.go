package repository

import (
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// ProductRepository acceso al catálogo de productos.
type ProductRepository interface {
	Create(p *entity.Product) (int64, error)
	Update(p *entity.Product) error
	Delete(id int64) error
	Deactivate(id int64) error
	ToggleFavorite(id int64) error
	GetByID(id int64) (*entity.Product, error)
	GetBySKUOrBarcode(identifier string) (*entity.Product, error)
	Search(query string, limit int) ([]*entity.Product, error)
	List(onlyActive bool, limit int) ([]*entity.Product, error)
	SalesCount(id int64) (int64, error)
	Since(since string, limit int) ([]*entity.Product, error)
	// EnsureCommon devuelve (creándolo si hace falta) el producto sintético
	// para líneas ad-hoc.
	EnsureCommon() (int64, error)
}
