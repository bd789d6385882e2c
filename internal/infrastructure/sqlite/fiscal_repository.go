package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
)

var _ repository.FiscalRepository = (*FiscalRepository)(nil)

// FiscalRepository configuración del emisor y comprobantes sobre SQLite.
// fiscal_config es fila única (id = 1).
type FiscalRepository struct {
	q Querier
}

func NewFiscalRepository(q Querier) *FiscalRepository {
	return &FiscalRepository{q: q}
}

func (r *FiscalRepository) GetConfig() (*entity.FiscalConfig, error) {
	var cfg entity.FiscalConfig
	err := r.q.QueryRow(`SELECT rfc_emisor, razon_social_emisor, regimen_fiscal,
		lugar_expedicion, pac_base_url, pac_user, pac_password, serie_factura, folio_actual
		FROM fiscal_config WHERE id = 1`).
		Scan(&cfg.RFCEmisor, &cfg.RazonSocialEmisor, &cfg.RegimenFiscal,
			&cfg.LugarExpedicion, &cfg.PACBaseURL, &cfg.PACUser, &cfg.PACPassword,
			&cfg.SerieFactura, &cfg.FolioActual)
	if errors.Is(err, sql.ErrNoRows) {
		// Sin fila: emisor no configurado, serie por omisión.
		return &entity.FiscalConfig{SerieFactura: "A"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get fiscal config: %w", err)
	}
	return &cfg, nil
}

func (r *FiscalRepository) UpdateConfig(cfg *entity.FiscalConfig) error {
	_, err := r.q.Exec(`INSERT INTO fiscal_config
		(id, rfc_emisor, razon_social_emisor, regimen_fiscal, lugar_expedicion,
		 pac_base_url, pac_user, pac_password, serie_factura, folio_actual)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			rfc_emisor = excluded.rfc_emisor,
			razon_social_emisor = excluded.razon_social_emisor,
			regimen_fiscal = excluded.regimen_fiscal,
			lugar_expedicion = excluded.lugar_expedicion,
			pac_base_url = excluded.pac_base_url,
			pac_user = excluded.pac_user,
			pac_password = excluded.pac_password,
			serie_factura = excluded.serie_factura,
			folio_actual = excluded.folio_actual`,
		cfg.RFCEmisor, cfg.RazonSocialEmisor, cfg.RegimenFiscal, cfg.LugarExpedicion,
		cfg.PACBaseURL, cfg.PACUser, cfg.PACPassword, cfg.SerieFactura, cfg.FolioActual)
	if err != nil {
		return fmt.Errorf("update fiscal config: %w", err)
	}
	return nil
}

// NextFolio avanza el consecutivo y devuelve "SERIE-FOLIO".
func (r *FiscalRepository) NextFolio() (string, error) {
	_, err := r.q.Exec(`INSERT INTO fiscal_config (id) VALUES (1) ON CONFLICT(id) DO NOTHING`)
	if err != nil {
		return "", fmt.Errorf("ensure fiscal config: %w", err)
	}
	if _, err := r.q.Exec(`UPDATE fiscal_config SET folio_actual = folio_actual + 1 WHERE id = 1`); err != nil {
		return "", fmt.Errorf("advance folio: %w", err)
	}
	var (
		serie string
		folio int64
	)
	if err := r.q.QueryRow(`SELECT serie_factura, folio_actual FROM fiscal_config WHERE id = 1`).
		Scan(&serie, &folio); err != nil {
		return "", fmt.Errorf("read folio: %w", err)
	}
	return fmt.Sprintf("%s-%d", serie, folio), nil
}

const cfdiColumns = `id, sale_id, customer_id, uuid, serie, folio, fecha, total, xml_path,
	status, tipo_comprobante, uso_cfdi, forma_pago, metodo_pago, moneda`

func (r *FiscalRepository) CreateCFDI(rec *entity.CFDIRecord) (int64, error) {
	ts := rec.Fecha
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := r.q.Exec(`INSERT INTO cfdi_issued
		(sale_id, customer_id, uuid, serie, folio, fecha, total, xml_path,
		 status, tipo_comprobante, uso_cfdi, forma_pago, metodo_pago, moneda)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64PtrArg(rec.SaleID), int64PtrArg(rec.CustomerID), rec.UUID, rec.Serie,
		rec.Folio, formatTime(ts), rec.Total, rec.XMLPath, rec.Status,
		rec.TipoComprobante, rec.UsoCFDI, rec.FormaPago, rec.MetodoPago, rec.Moneda)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicate
		}
		return 0, fmt.Errorf("insert cfdi: %w", err)
	}
	rec.Fecha = ts
	return res.LastInsertId()
}

func (r *FiscalRepository) GetCFDIByID(id int64) (*entity.CFDIRecord, error) {
	row := r.q.QueryRow(`SELECT `+cfdiColumns+` FROM cfdi_issued WHERE id = ?`, id)
	return scanCFDI(row)
}

func (r *FiscalRepository) GetCFDIForSale(saleID int64) (*entity.CFDIRecord, error) {
	row := r.q.QueryRow(`SELECT `+cfdiColumns+` FROM cfdi_issued
		WHERE sale_id = ? ORDER BY id DESC LIMIT 1`, saleID)
	return scanCFDI(row)
}

func (r *FiscalRepository) ListCFDI(limit int) ([]*entity.CFDIRecord, error) {
	rows, err := r.q.Query(`SELECT `+cfdiColumns+` FROM cfdi_issued ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list cfdi: %w", err)
	}
	defer rows.Close()
	var out []*entity.CFDIRecord
	for rows.Next() {
		rec, err := scanCFDI(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// MarkCancelled registra la cancelación y marca el comprobante.
func (r *FiscalRepository) MarkCancelled(c *entity.CFDICancellation) error {
	ts := c.Fecha
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := r.q.Exec(`UPDATE cfdi_issued SET status = ? WHERE id = ? AND status = ?`,
		entity.CFDICancelado, c.CFDIID, entity.CFDIVigente)
	if err != nil {
		return fmt.Errorf("cancel cfdi: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrConflict
	}
	if _, err := r.q.Exec(`INSERT INTO cfdi_cancelled (cfdi_id, fecha, motivo, uuid_relacionado)
		VALUES (?, ?, ?, ?)`,
		c.CFDIID, formatTime(ts), c.Motivo, c.UUIDRelacionado); err != nil {
		return fmt.Errorf("insert cfdi cancellation: %w", err)
	}
	c.Fecha = ts
	return nil
}

func scanCFDI(row rowScanner) (*entity.CFDIRecord, error) {
	var (
		rec        entity.CFDIRecord
		saleID     sql.NullInt64
		customerID sql.NullInt64
		fecha      string
	)
	err := row.Scan(&rec.ID, &saleID, &customerID, &rec.UUID, &rec.Serie, &rec.Folio,
		&fecha, &rec.Total, &rec.XMLPath, &rec.Status, &rec.TipoComprobante,
		&rec.UsoCFDI, &rec.FormaPago, &rec.MetodoPago, &rec.Moneda)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan cfdi: %w", err)
	}
	rec.SaleID = nullInt64Ptr(saleID)
	rec.CustomerID = nullInt64Ptr(customerID)
	rec.Fecha = parseTime(fecha)
	return &rec, nil
}

var _ repository.BackupLogRepository = (*BackupLogRepository)(nil)

// BackupLogRepository bitácora de respaldos sobre SQLite.
type BackupLogRepository struct {
	q Querier
}

func NewBackupLogRepository(q Querier) *BackupLogRepository {
	return &BackupLogRepository{q: q}
}

const backupColumns = `id, filename, created_at, sha256, size_bytes, storage_local,
	storage_nas, storage_cloud, notes`

func (r *BackupLogRepository) Create(b *entity.BackupLog) (int64, error) {
	ts := b.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := r.q.Exec(`INSERT INTO backup_logs
		(filename, created_at, sha256, size_bytes, storage_local, storage_nas, storage_cloud, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Filename, formatTime(ts), b.SHA256, b.SizeBytes, b.StorageLocal,
		b.StorageNAS, b.StorageCloud, b.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert backup log: %w", err)
	}
	b.CreatedAt = ts
	return res.LastInsertId()
}

func (r *BackupLogRepository) List() ([]*entity.BackupLog, error) {
	rows, err := r.q.Query(`SELECT ` + backupColumns + ` FROM backup_logs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list backup logs: %w", err)
	}
	defer rows.Close()
	var out []*entity.BackupLog
	for rows.Next() {
		b, err := scanBackupLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BackupLogRepository) GetByID(id int64) (*entity.BackupLog, error) {
	row := r.q.QueryRow(`SELECT `+backupColumns+` FROM backup_logs WHERE id = ?`, id)
	return scanBackupLog(row)
}

func (r *BackupLogRepository) Delete(id int64) error {
	res, err := r.q.Exec(`DELETE FROM backup_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete backup log: %w", err)
	}
	return requireRows(res)
}

func scanBackupLog(row rowScanner) (*entity.BackupLog, error) {
	var (
		b       entity.BackupLog
		created string
	)
	err := row.Scan(&b.ID, &b.Filename, &created, &b.SHA256, &b.SizeBytes,
		&b.StorageLocal, &b.StorageNAS, &b.StorageCloud, &b.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan backup log: %w", err)
	}
	b.CreatedAt = parseTime(created)
	return &b, nil
}
