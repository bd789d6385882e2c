package repository

import (
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// UserRepository usuarios del punto de venta.
type UserRepository interface {
	Create(u *entity.User) (int64, error)
	GetByID(id int64) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	List() ([]*entity.User, error)
	UpdateRole(id int64, role string) error
	SetActive(id int64, active bool) error
}

// BranchRepository sucursales.
type BranchRepository interface {
	Create(b *entity.Branch) (int64, error)
	GetByID(id int64) (*entity.Branch, error)
	GetDefault() (*entity.Branch, error)
	List() ([]*entity.Branch, error)
}

// AuditRepository registro de auditoría (append-only, best-effort).
type AuditRepository interface {
	Create(log *entity.AuditLog) error
	List(limit int) ([]*entity.AuditLog, error)
}

// APITokenRepository tokens estáticos para las cajas cliente (header X-Token).
type APITokenRepository interface {
	Create(t *entity.APIToken) (int64, error)
	GetByToken(token string) (*entity.APIToken, error)
	Revoke(id int64) error
	List() ([]*entity.APIToken, error)
}

// BackupLogRepository bitácora de respaldos.
type BackupLogRepository interface {
	Create(b *entity.BackupLog) (int64, error)
	List() ([]*entity.BackupLog, error)
	GetByID(id int64) (*entity.BackupLog, error)
	Delete(id int64) error
}

// FiscalRepository configuración del emisor y comprobantes CFDI.
type FiscalRepository interface {
	GetConfig() (*entity.FiscalConfig, error)
	UpdateConfig(cfg *entity.FiscalConfig) error
	// NextFolio devuelve serie+folio consecutivo y avanza el contador.
	NextFolio() (string, error)
	CreateCFDI(r *entity.CFDIRecord) (int64, error)
	GetCFDIByID(id int64) (*entity.CFDIRecord, error)
	GetCFDIForSale(saleID int64) (*entity.CFDIRecord, error)
	ListCFDI(limit int) ([]*entity.CFDIRecord, error)
	MarkCancelled(c *entity.CFDICancellation) error
}

// SyncEventRepository side-table de eventos para el pull incremental.
type SyncEventRepository interface {
	RecordCatalog(e *entity.CatalogEvent) error
	RecordInventory(e *entity.InventoryEvent) error
	CatalogSince(since string, limit int) ([]*entity.CatalogEvent, error)
	InventorySince(since string, limit int) ([]*entity.InventoryEvent, error)
}
