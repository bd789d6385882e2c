package multicaja

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/application/dto"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// Nombres de los documentos del caché local.
const (
	cacheProducts  = "products"
	cacheCustomers = "customers"
	cacheMeta      = "sync_meta"
)

// SaleLine línea de una venta remota que se reporta al servidor.
type SaleLine struct {
	ProductID int64           `json:"product_id"`
	Qty       decimal.Decimal `json:"qty"`
}

// InventoryAdjust ajuste de inventario que se reporta al servidor.
type InventoryAdjust struct {
	ProductID int64           `json:"product_id"`
	Delta     decimal.Decimal `json:"delta"`
	Reason    string          `json:"reason"`
}

type syncMeta struct {
	LastSync string `json:"last_sync"`
}

// MultiCaja coordina una caja cliente contra el servidor: reporta ventas y
// ajustes (con cola offline), hace el pull incremental y funde el resultado
// al caché JSON local por id (last-write-wins, sin resolución de conflictos).
type MultiCaja struct {
	client *Client
	salesQ *OfflineQueue
	invQ   *OfflineQueue
	log    *logger.Logger
}

// New construye el coordinador con sus dos colas offline.
func New(client *Client, salesQueue, inventoryQueue *OfflineQueue, log *logger.Logger) *MultiCaja {
	return &MultiCaja{client: client, salesQ: salesQueue, invQ: inventoryQueue, log: log}
}

// PostSale reporta una venta al servidor. Si la red falla, la venta queda
// encolada y la caja sigue; queued indica si se encoló.
func (m *MultiCaja) PostSale(ctx context.Context, lines []SaleLine) (queued bool, err error) {
	if err := m.client.Post(ctx, "/api/inventory/apply_sale", lines, nil); err != nil {
		m.log.Warn().Err(err).Msg("venta sin red: encolada")
		if qerr := m.salesQ.Append(lines); qerr != nil {
			return false, qerr
		}
		return true, nil
	}
	return false, nil
}

// PostAdjust reporta un ajuste de inventario; ante fallo se encola.
func (m *MultiCaja) PostAdjust(ctx context.Context, adj InventoryAdjust) (queued bool, err error) {
	if err := m.client.Post(ctx, "/api/inventory/remote_adjust", adj, nil); err != nil {
		m.log.Warn().Err(err).Msg("ajuste sin red: encolado")
		if qerr := m.invQ.Append(adj); qerr != nil {
			return false, qerr
		}
		return true, nil
	}
	return false, nil
}

// FlushQueues reintenta las operaciones encoladas en orden FIFO. Se detiene
// en el primer fallo y solo limpia cada cola tras el replay exitoso de todas
// sus operaciones. Colas vacías son no-op.
func (m *MultiCaja) FlushQueues(ctx context.Context) error {
	if m.salesQ.Len() == 0 && m.invQ.Len() == 0 {
		return nil
	}
	if !m.client.Ping(ctx) {
		return nil
	}
	if err := m.flush(ctx, m.salesQ, "/api/inventory/apply_sale"); err != nil {
		return err
	}
	return m.flush(ctx, m.invQ, "/api/inventory/remote_adjust")
}

func (m *MultiCaja) flush(ctx context.Context, q *OfflineQueue, path string) error {
	items, err := q.ReadAll()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for _, item := range items {
		if err := m.client.Post(ctx, path, json.RawMessage(item), nil); err != nil {
			m.log.Warn().Err(err).Str("path", path).Msg("replay interrumpido; la cola se conserva")
			return err
		}
	}
	if err := q.Clear(); err != nil {
		return err
	}
	m.log.Info().Int("ops", len(items)).Str("path", path).Msg("cola offline drenada")
	return nil
}

// SyncIncremental hace el pull incremental desde el último timestamp conocido
// y funde productos y clientes al caché local. Devuelve el payload para que
// la caja actualice su vista.
func (m *MultiCaja) SyncIncremental(ctx context.Context) (*dto.IncrementalPayload, error) {
	var meta syncMeta
	if err := m.client.ReadCache(cacheMeta, &meta); err != nil {
		return nil, err
	}

	var payload dto.IncrementalPayload
	if err := m.client.Get(ctx, "/api/sync?since="+meta.LastSync, &payload); err != nil {
		return nil, err
	}

	if err := m.mergeProducts(payload.Products, payload.CatalogEvents); err != nil {
		return nil, err
	}
	if err := m.mergeCustomers(payload.Customers); err != nil {
		return nil, err
	}

	meta.LastSync = payload.Timestamp
	if err := m.client.WriteCache(cacheMeta, meta); err != nil {
		return nil, err
	}
	m.log.Debug().
		Int("products", len(payload.Products)).
		Int("customers", len(payload.Customers)).
		Str("since", meta.LastSync).
		Msg("pull incremental aplicado")
	return &payload, nil
}

// mergeProducts funde por id; los eventos product_deleted retiran la entrada
// del caché.
func (m *MultiCaja) mergeProducts(incoming []dto.ProductDTO, events []dto.CatalogEventDTO) error {
	cache := map[string]dto.ProductDTO{}
	if err := m.client.ReadCache(cacheProducts, &cache); err != nil {
		return err
	}
	for _, p := range incoming {
		cache[strconv.FormatInt(p.ID, 10)] = p
	}
	for _, ev := range events {
		if ev.EventType == "product_deleted" {
			delete(cache, strconv.FormatInt(ev.ProductID, 10))
		}
	}
	return m.client.WriteCache(cacheProducts, cache)
}

func (m *MultiCaja) mergeCustomers(incoming []dto.CustomerSyncDTO) error {
	cache := map[string]dto.CustomerSyncDTO{}
	if err := m.client.ReadCache(cacheCustomers, &cache); err != nil {
		return err
	}
	for _, c := range incoming {
		cache[strconv.FormatInt(c.ID, 10)] = c
	}
	return m.client.WriteCache(cacheCustomers, cache)
}

// CachedProducts devuelve el catálogo del caché local (operación offline).
func (m *MultiCaja) CachedProducts() ([]dto.ProductDTO, error) {
	cache := map[string]dto.ProductDTO{}
	if err := m.client.ReadCache(cacheProducts, &cache); err != nil {
		return nil, err
	}
	out := make([]dto.ProductDTO, 0, len(cache))
	for _, p := range cache {
		out = append(out, p)
	}
	return out, nil
}
