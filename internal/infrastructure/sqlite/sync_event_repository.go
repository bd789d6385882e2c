package sqlite

import (
	"fmt"
	"time"

	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
)

var _ repository.SyncEventRepository = (*SyncEventRepository)(nil)

// SyncEventRepository side-tables de eventos para el pull incremental.
type SyncEventRepository struct {
	q Querier
}

func NewSyncEventRepository(q Querier) *SyncEventRepository {
	return &SyncEventRepository{q: q}
}

func (r *SyncEventRepository) RecordCatalog(e *entity.CatalogEvent) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	payload := e.Payload
	if payload == "" {
		payload = "{}"
	}
	_, err := r.q.Exec(`INSERT INTO catalog_events (event_type, product_id, timestamp, payload)
		VALUES (?, ?, ?, ?)`, e.EventType, e.ProductID, formatTime(ts), payload)
	if err != nil {
		return fmt.Errorf("insert catalog event: %w", err)
	}
	return nil
}

func (r *SyncEventRepository) RecordInventory(e *entity.InventoryEvent) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	payload := e.Payload
	if payload == "" {
		payload = "{}"
	}
	_, err := r.q.Exec(`INSERT INTO inventory_events (event_type, payload, timestamp)
		VALUES (?, ?, ?)`, e.EventType, payload, formatTime(ts))
	if err != nil {
		return fmt.Errorf("insert inventory event: %w", err)
	}
	return nil
}

func (r *SyncEventRepository) CatalogSince(since string, limit int) ([]*entity.CatalogEvent, error) {
	rows, err := r.q.Query(`SELECT id, event_type, product_id, timestamp, payload
		FROM catalog_events WHERE timestamp >= ? ORDER BY id LIMIT ?`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog events since: %w", err)
	}
	defer rows.Close()
	var out []*entity.CatalogEvent
	for rows.Next() {
		var (
			e  entity.CatalogEvent
			ts string
		)
		if err := rows.Scan(&e.ID, &e.EventType, &e.ProductID, &ts, &e.Payload); err != nil {
			return nil, fmt.Errorf("scan catalog event: %w", err)
		}
		e.Timestamp = parseTime(ts)
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *SyncEventRepository) InventorySince(since string, limit int) ([]*entity.InventoryEvent, error) {
	rows, err := r.q.Query(`SELECT id, event_type, payload, timestamp
		FROM inventory_events WHERE timestamp >= ? ORDER BY id LIMIT ?`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("inventory events since: %w", err)
	}
	defer rows.Close()
	var out []*entity.InventoryEvent
	for rows.Next() {
		var (
			e  entity.InventoryEvent
			ts string
		)
		if err := rows.Scan(&e.ID, &e.EventType, &e.Payload, &ts); err != nil {
			return nil, fmt.Errorf("scan inventory event: %w", err)
		}
		e.Timestamp = parseTime(ts)
		out = append(out, &e)
	}
	return out, rows.Err()
}
