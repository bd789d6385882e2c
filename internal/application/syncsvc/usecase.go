package syncsvc

import (
	"context"
	"time"

	"github.com/tiendamx/pos-mostrador/internal/application/dto"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// Límites de página del pull incremental. Una caja muy rezagada recibe el
// cambio en varios pulls consecutivos en lugar de una respuesta gigante.
const (
	maxProducts      = 200
	maxInventoryLogs = 400
	maxSales         = 200
	maxCustomers     = 200
	maxEvents        = 400
)

const timeLayout = "2006-01-02 15:04:05"

// Usecase lado servidor de la sincronización multi-caja: arma el payload
// incremental que las cajas cliente piden con ?since=.
type Usecase struct {
	productRepo  repository.ProductRepository
	logRepo      repository.InventoryLogRepository
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	eventRepo    repository.SyncEventRepository
	log          *logger.Logger
}

// New construye el caso de uso.
func New(productRepo repository.ProductRepository, logRepo repository.InventoryLogRepository,
	saleRepo repository.SaleRepository, customerRepo repository.CustomerRepository,
	eventRepo repository.SyncEventRepository, log *logger.Logger) *Usecase {
	return &Usecase{
		productRepo:  productRepo,
		logRepo:      logRepo,
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		eventRepo:    eventRepo,
		log:          log,
	}
}

// IncrementalPayload arma el delta desde `since` (layout de la base o
// RFC3339; vacío significa "todo"). El Timestamp de la respuesta es el punto
// de partida del siguiente pull.
func (uc *Usecase) IncrementalPayload(ctx context.Context, since string) (*dto.IncrementalPayload, error) {
	since = normalizeSince(since)
	now := time.Now().Format(timeLayout)

	payload := &dto.IncrementalPayload{
		Timestamp:       now,
		Products:        []dto.ProductDTO{},
		CatalogEvents:   []dto.CatalogEventDTO{},
		InventoryLogs:   []dto.InventoryLogDTO{},
		InventoryEvents: []dto.InventoryEventDTO{},
		Sales:           []dto.SaleSyncDTO{},
		Customers:       []dto.CustomerSyncDTO{},
	}

	products, err := uc.productRepo.Since(since, maxProducts)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		payload.Products = append(payload.Products, dto.ProductFromEntity(p))
	}

	catalogEvents, err := uc.eventRepo.CatalogSince(since, maxEvents)
	if err != nil {
		return nil, err
	}
	for _, e := range catalogEvents {
		payload.CatalogEvents = append(payload.CatalogEvents, dto.CatalogEventDTO{
			ID:        e.ID,
			EventType: e.EventType,
			ProductID: e.ProductID,
			Timestamp: e.Timestamp.Format(timeLayout),
			Payload:   e.Payload,
		})
	}

	logs, err := uc.logRepo.Since(since, maxInventoryLogs)
	if err != nil {
		return nil, err
	}
	for _, l := range logs {
		payload.InventoryLogs = append(payload.InventoryLogs, dto.InventoryLogDTO{
			ID:        l.ID,
			ProductID: l.ProductID,
			BranchID:  l.BranchID,
			Delta:     l.Delta,
			Reason:    l.Reason,
			RefType:   l.RefType,
			RefID:     l.RefID,
			CreatedAt: l.CreatedAt.Format(timeLayout),
		})
	}

	inventoryEvents, err := uc.eventRepo.InventorySince(since, maxEvents)
	if err != nil {
		return nil, err
	}
	for _, e := range inventoryEvents {
		payload.InventoryEvents = append(payload.InventoryEvents, dto.InventoryEventDTO{
			ID:        e.ID,
			EventType: e.EventType,
			Payload:   e.Payload,
			Timestamp: e.Timestamp.Format(timeLayout),
		})
	}

	sales, err := uc.saleRepo.Since(since, maxSales)
	if err != nil {
		return nil, err
	}
	for _, s := range sales {
		payload.Sales = append(payload.Sales, dto.SaleSyncDTO{
			ID:            s.ID,
			BranchID:      s.BranchID,
			Timestamp:     s.Timestamp.Format(timeLayout),
			Total:         s.Total,
			PaymentMethod: string(s.PaymentMethod),
		})
	}

	customers, err := uc.customerRepo.Since(since, maxCustomers)
	if err != nil {
		return nil, err
	}
	for _, c := range customers {
		payload.Customers = append(payload.Customers, dto.CustomerSyncDTO{
			ID:            c.ID,
			FirstName:     c.FirstName,
			LastName:      c.LastName,
			Phone:         c.Phone,
			CreditBalance: c.CreditBalance,
			CreatedAt:     c.CreatedAt.Format(timeLayout),
		})
	}

	uc.log.Debug().
		Str("since", since).
		Int("products", len(payload.Products)).
		Int("inventory_logs", len(payload.InventoryLogs)).
		Int("sales", len(payload.Sales)).
		Msg("payload incremental armado")
	return payload, nil
}

// normalizeSince acepta vacío (todo), el layout de la base o RFC3339.
func normalizeSince(since string) string {
	if since == "" {
		return "1970-01-01 00:00:00"
	}
	if t, err := time.Parse(time.RFC3339, since); err == nil {
		return t.Format(timeLayout)
	}
	return since
}
