package catalog

import (
	"context"
	"encoding/json"

	"github.com/tiendamx/pos-mostrador/internal/application/dto"
	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/internal/domain/session"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// Usecase catálogo de productos. Cada alta/cambio/baja registra un evento de
// catálogo best-effort para que las cajas cliente lo recojan en el pull
// incremental.
type Usecase struct {
	txRunner    repository.TxRunner
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// New construye el caso de uso.
func New(txRunner repository.TxRunner, productRepo repository.ProductRepository, log *logger.Logger) *Usecase {
	return &Usecase{txRunner: txRunner, productRepo: productRepo, log: log}
}

// CreateProduct da de alta un producto. SKU y código de barras deben ser
// únicos.
func (uc *Usecase) CreateProduct(ctx context.Context, s session.Session, p *entity.Product) (int64, error) {
	if p.SKU == "" || p.Name == "" {
		return 0, domain.ErrInvalidInput
	}
	if p.SaleType == "" {
		p.SaleType = entity.SaleTypeUnit
	}
	var id int64
	err := uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		created, err := r.Products.Create(p)
		if err != nil {
			return err
		}
		id = created
		p.ID = created
		recordCatalogEvent(r, entity.EventProductCreated, p)
		auditCatalog(r, &s, "create_product", map[string]any{"product_id": created, "sku": p.SKU})
		return nil
	})
	if err != nil {
		return 0, err
	}
	uc.log.Info().Int64("product_id", id).Str("sku", p.SKU).Msg("producto creado")
	return id, nil
}

// UpdateProduct modifica un producto existente.
func (uc *Usecase) UpdateProduct(ctx context.Context, s session.Session, p *entity.Product) error {
	if p.ID == 0 || p.SKU == "" || p.Name == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		if err := r.Products.Update(p); err != nil {
			return err
		}
		recordCatalogEvent(r, entity.EventProductUpdated, p)
		auditCatalog(r, &s, "update_product", map[string]any{"product_id": p.ID})
		return nil
	})
}

// DeleteProduct elimina un producto sin historial de ventas. Con ventas
// asociadas el borrado se rechaza: hay que desactivarlo.
func (uc *Usecase) DeleteProduct(ctx context.Context, s session.Session, id int64) error {
	return uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		p, err := r.Products.GetByID(id)
		if err != nil {
			return err
		}
		count, err := r.Products.SalesCount(id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrProductHasSales
		}
		if err := r.Products.Delete(id); err != nil {
			return err
		}
		recordCatalogEvent(r, entity.EventProductDeleted, p)
		auditCatalog(r, &s, "delete_product", map[string]any{"product_id": id})
		return nil
	})
}

// DeactivateProduct desactiva el producto (la alternativa al borrado cuando
// ya tiene ventas).
func (uc *Usecase) DeactivateProduct(ctx context.Context, s session.Session, id int64) error {
	return uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		if err := r.Products.Deactivate(id); err != nil {
			return err
		}
		p, err := r.Products.GetByID(id)
		if err != nil {
			return err
		}
		recordCatalogEvent(r, entity.EventProductUpdated, p)
		auditCatalog(r, &s, "deactivate_product", map[string]any{"product_id": id})
		return nil
	})
}

// ToggleFavorite alterna la marca de favorito.
func (uc *Usecase) ToggleFavorite(ctx context.Context, id int64) error {
	return uc.productRepo.ToggleFavorite(id)
}

// GetProduct devuelve un producto por id.
func (uc *Usecase) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	return uc.productRepo.GetByID(id)
}

// FindProduct busca por SKU o código de barras exacto (escaneo en caja).
func (uc *Usecase) FindProduct(ctx context.Context, identifier string) (*entity.Product, error) {
	return uc.productRepo.GetBySKUOrBarcode(identifier)
}

// SearchProducts búsqueda por texto en nombre, SKU y código de barras.
func (uc *Usecase) SearchProducts(ctx context.Context, query string, limit int) ([]*entity.Product, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return uc.productRepo.Search(query, limit)
}

// ListProducts lista el catálogo.
func (uc *Usecase) ListProducts(ctx context.Context, onlyActive bool, limit int) ([]*entity.Product, error) {
	if limit <= 0 || limit > 2000 {
		limit = 500
	}
	return uc.productRepo.List(onlyActive, limit)
}

// recordCatalogEvent registra el evento best-effort: si falla no bloquea la
// operación de catálogo.
func recordCatalogEvent(r *repository.Atomic, eventType string, p *entity.Product) {
	payload, err := json.Marshal(dto.ProductFromEntity(p))
	if err != nil {
		payload = []byte("{}")
	}
	_ = r.SyncEvents.RecordCatalog(&entity.CatalogEvent{
		EventType: eventType,
		ProductID: p.ID,
		Payload:   string(payload),
	})
}

func auditCatalog(r *repository.Atomic, s *session.Session, action string, payload map[string]any) {
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
