package customers

import (
	"context"
	"encoding/json"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/internal/domain/session"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// Usecase clientes: altas, cambios y bajas. La baja se rechaza mientras el
// cliente tenga saldo deudor.
type Usecase struct {
	txRunner     repository.TxRunner
	customerRepo repository.CustomerRepository
	log          *logger.Logger
}

// New construye el caso de uso.
func New(txRunner repository.TxRunner, customerRepo repository.CustomerRepository, log *logger.Logger) *Usecase {
	return &Usecase{txRunner: txRunner, customerRepo: customerRepo, log: log}
}

// Create da de alta un cliente.
func (uc *Usecase) Create(ctx context.Context, s session.Session, c *entity.Customer) (int64, error) {
	if c.FullName() == "" {
		return 0, domain.ErrInvalidInput
	}
	var id int64
	err := uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		created, err := r.Customers.Create(c)
		if err != nil {
			return err
		}
		id = created
		auditCustomer(r, &s, "create_customer", map[string]any{"customer_id": created})
		return nil
	})
	if err != nil {
		return 0, err
	}
	uc.log.Info().Int64("customer_id", id).Msg("cliente creado")
	return id, nil
}

// Update modifica un cliente. El saldo deudor no se toca aquí: solo cambia
// con ventas a crédito y abonos.
func (uc *Usecase) Update(ctx context.Context, s session.Session, c *entity.Customer) error {
	if c.ID == 0 || c.FullName() == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		if err := r.Customers.Update(c); err != nil {
			return err
		}
		auditCustomer(r, &s, "update_customer", map[string]any{"customer_id": c.ID})
		return nil
	})
}

// Delete elimina un cliente sin saldo deudor; con saldo la baja se rechaza.
func (uc *Usecase) Delete(ctx context.Context, s session.Session, id int64) error {
	return uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		c, err := r.Customers.GetByID(id)
		if err != nil {
			return err
		}
		if c.CreditBalance.IsPositive() {
			return domain.ErrCustomerHasBalance
		}
		if err := r.Customers.Delete(id); err != nil {
			return err
		}
		auditCustomer(r, &s, "delete_customer", map[string]any{"customer_id": id})
		return nil
	})
}

// Get devuelve un cliente por id.
func (uc *Usecase) Get(ctx context.Context, id int64) (*entity.Customer, error) {
	return uc.customerRepo.GetByID(id)
}

// Search búsqueda por nombre, teléfono o RFC.
func (uc *Usecase) Search(ctx context.Context, query string, limit int) ([]*entity.Customer, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return uc.customerRepo.Search(query, limit)
}

// List lista clientes.
func (uc *Usecase) List(ctx context.Context, limit int) ([]*entity.Customer, error) {
	if limit <= 0 || limit > 2000 {
		limit = 500
	}
	return uc.customerRepo.List(limit)
}

func auditCustomer(r *repository.Atomic, s *session.Session, action string, payload map[string]any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("{}")
	}
	_ = r.Audits.Create(&entity.AuditLog{
		UserID:  &s.UserID,
		Action:  action,
		Payload: string(raw),
	})
}
