package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// FiscalConfigRequest datos del emisor CFDI.
type FiscalConfigRequest struct {
	RFCEmisor         string `json:"rfc_emisor"`
	RazonSocialEmisor string `json:"razon_social_emisor"`
	RegimenFiscal     string `json:"regimen_fiscal"`
	LugarExpedicion   string `json:"lugar_expedicion"`
	PACBaseURL        string `json:"pac_base_url"`
	PACUser           string `json:"pac_user"`
	PACPassword       string `json:"pac_password"`
	SerieFactura      string `json:"serie_factura"`
}

// ToEntity convierte la petición a la entidad de dominio.
func (r FiscalConfigRequest) ToEntity() *entity.FiscalConfig {
	return &entity.FiscalConfig{
		RFCEmisor:         r.RFCEmisor,
		RazonSocialEmisor: r.RazonSocialEmisor,
		RegimenFiscal:     r.RegimenFiscal,
		LugarExpedicion:   r.LugarExpedicion,
		PACBaseURL:        r.PACBaseURL,
		PACUser:           r.PACUser,
		PACPassword:       r.PACPassword,
		SerieFactura:      r.SerieFactura,
	}
}

// FiscalConfigResponse emisor serializado; la contraseña del PAC no sale.
type FiscalConfigResponse struct {
	RFCEmisor         string `json:"rfc_emisor"`
	RazonSocialEmisor string `json:"razon_social_emisor"`
	RegimenFiscal     string `json:"regimen_fiscal"`
	LugarExpedicion   string `json:"lugar_expedicion"`
	PACBaseURL        string `json:"pac_base_url"`
	PACUser           string `json:"pac_user"`
	SerieFactura      string `json:"serie_factura"`
	FolioActual       int64  `json:"folio_actual"`
}

// FiscalConfigFromEntity arma la respuesta desde la entidad.
func FiscalConfigFromEntity(c *entity.FiscalConfig) FiscalConfigResponse {
	return FiscalConfigResponse{
		RFCEmisor:         c.RFCEmisor,
		RazonSocialEmisor: c.RazonSocialEmisor,
		RegimenFiscal:     c.RegimenFiscal,
		LugarExpedicion:   c.LugarExpedicion,
		PACBaseURL:        c.PACBaseURL,
		PACUser:           c.PACUser,
		SerieFactura:      c.SerieFactura,
		FolioActual:       c.FolioActual,
	}
}

// IssueCFDIRequest emitir el CFDI de ingreso de una venta.
type IssueCFDIRequest struct {
	SaleID     int64  `json:"sale_id"`
	CustomerID *int64 `json:"customer_id"`
	UsoCFDI    string `json:"uso_cfdi"`
}

// IssuePagoRequest emitir un complemento de pago (tipo P) por un abono.
type IssuePagoRequest struct {
	CustomerID    int64           `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	FormaPago     string          `json:"forma_pago"`
	UUIDRelacion  string          `json:"uuid_relacion"`
	ParcialidadNo int             `json:"parcialidad_no"`
	SaldoAnterior decimal.Decimal `json:"saldo_anterior"`
}

// CancelCFDIRequest cancelar un CFDI con motivo SAT.
type CancelCFDIRequest struct {
	Motivo string `json:"motivo"`
}

// CFDIResponse comprobante serializado.
type CFDIResponse struct {
	ID              int64           `json:"id"`
	SaleID          *int64          `json:"sale_id,omitempty"`
	CustomerID      *int64          `json:"customer_id,omitempty"`
	UUID            string          `json:"uuid"`
	Serie           string          `json:"serie"`
	Folio           string          `json:"folio"`
	Fecha           time.Time       `json:"fecha"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
	TipoComprobante string          `json:"tipo_comprobante"`
	UsoCFDI         string          `json:"uso_cfdi,omitempty"`
	FormaPago       string          `json:"forma_pago,omitempty"`
	MetodoPago      string          `json:"metodo_pago,omitempty"`
}

// CFDIFromEntity arma la respuesta desde el registro.
func CFDIFromEntity(r *entity.CFDIRecord) CFDIResponse {
	return CFDIResponse{
		ID:              r.ID,
		SaleID:          r.SaleID,
		CustomerID:      r.CustomerID,
		UUID:            r.UUID,
		Serie:           r.Serie,
		Folio:           r.Folio,
		Fecha:           r.Fecha,
		Total:           r.Total,
		Status:          r.Status,
		TipoComprobante: r.TipoComprobante,
		UsoCFDI:         r.UsoCFDI,
		FormaPago:       r.FormaPago,
		MetodoPago:      r.MetodoPago,
	}
}

// CFDIsFromEntities convierte un listado.
func CFDIsFromEntities(rs []*entity.CFDIRecord) []CFDIResponse {
	out := make([]CFDIResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, CFDIFromEntity(r))
	}
	return out
}

// BackupResponse respaldo serializado.
type BackupResponse struct {
	ID           int64     `json:"id"`
	Filename     string    `json:"filename"`
	CreatedAt    time.Time `json:"created_at"`
	SHA256       string    `json:"sha256"`
	SizeBytes    int64     `json:"size_bytes"`
	StorageLocal bool      `json:"storage_local"`
	StorageNAS   bool      `json:"storage_nas"`
	StorageCloud bool      `json:"storage_cloud"`
	Notes        string    `json:"notes,omitempty"`
}

// BackupFromEntity arma la respuesta desde la bitácora.
func BackupFromEntity(b *entity.BackupLog) BackupResponse {
	return BackupResponse{
		ID:           b.ID,
		Filename:     b.Filename,
		CreatedAt:    b.CreatedAt,
		SHA256:       b.SHA256,
		SizeBytes:    b.SizeBytes,
		StorageLocal: b.StorageLocal,
		StorageNAS:   b.StorageNAS,
		StorageCloud: b.StorageCloud,
		Notes:        b.Notes,
	}
}

// BackupsFromEntities convierte la bitácora de respaldos.
func BackupsFromEntities(bs []*entity.BackupLog) []BackupResponse {
	out := make([]BackupResponse, 0, len(bs))
	for _, b := range bs {
		out = append(out, BackupFromEntity(b))
	}
	return out
}
