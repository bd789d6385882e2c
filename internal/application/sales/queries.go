package sales

import (
	"context"

	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// SaleDetail venta con sus líneas.
type SaleDetail struct {
	Sale  *entity.Sale
	Items []*entity.SaleItem
}

// GetSale devuelve la venta con sus líneas.
func (uc *Usecase) GetSale(ctx context.Context, id int64) (*SaleDetail, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	items, err := uc.saleRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	return &SaleDetail{Sale: sale, Items: items}, nil
}

// ListRecent devuelve las últimas ventas registradas.
func (uc *Usecase) ListRecent(ctx context.Context, limit int) ([]*entity.Sale, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return uc.saleRepo.ListRecent(limit)
}

// ListByCustomer devuelve las ventas de un cliente.
func (uc *Usecase) ListByCustomer(ctx context.Context, customerID int64, limit int) ([]*entity.Sale, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.saleRepo.ListByCustomer(customerID, limit)
}
