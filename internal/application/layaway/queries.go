package layaway

import (
	"context"
	"time"

	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
)

// Detail apartado con sus líneas y abonos. Status es el derivado (incluye
// vencido).
type Detail struct {
	Layaway  *entity.Layaway
	Items    []*entity.LayawayItem
	Payments []*entity.LayawayPayment
	Status   string
}

// Get devuelve el apartado con líneas, abonos y estado derivado.
func (uc *Usecase) Get(ctx context.Context, id int64) (*Detail, error) {
	lay, err := uc.layawayRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	items, err := uc.layawayRepo.Items(id)
	if err != nil {
		return nil, err
	}
	payments, err := uc.layawayRepo.Payments(id)
	if err != nil {
		return nil, err
	}
	return &Detail{
		Layaway:  lay,
		Items:    items,
		Payments: payments,
		Status:   lay.DisplayStatus(time.Now()),
	}, nil
}

// List devuelve apartados filtrados; el estado de cada uno es el derivado.
func (uc *Usecase) List(ctx context.Context, f repository.LayawayFilter) ([]*entity.Layaway, error) {
	list, err := uc.layawayRepo.List(f)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for _, l := range list {
		l.Status = l.DisplayStatus(now)
	}
	return list, nil
}
