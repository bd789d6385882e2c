package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FiscalConfig es la configuración del emisor CFDI (fila única).
type FiscalConfig struct {
	RFCEmisor         string
	RazonSocialEmisor string
	RegimenFiscal     string
	LugarExpedicion   string
	PACBaseURL        string
	PACUser           string
	PACPassword       string
	SerieFactura      string
	FolioActual       int64
}

// Estados de un CFDI emitido.
const (
	CFDIVigente   = "vigente"
	CFDICancelado = "cancelado"
)

// CFDIRecord es el registro de un comprobante emitido (stub: sin timbrado).
type CFDIRecord struct {
	ID              int64
	SaleID          *int64
	CustomerID      *int64
	UUID            string
	Serie           string
	Folio           string
	Fecha           time.Time
	Total           decimal.Decimal
	XMLPath         string
	Status          string
	TipoComprobante string // I = ingreso, P = pago
	UsoCFDI         string
	FormaPago       string
	MetodoPago      string
	Moneda          string
}

// CFDICancellation registra la cancelación de un comprobante.
type CFDICancellation struct {
	ID              int64
	CFDIID          int64
	Fecha           time.Time
	Motivo          string
	UUIDRelacionado string
}

// BackupLog es la bitácora de un respaldo generado.
type BackupLog struct {
	ID           int64
	Filename     string
	CreatedAt    time.Time
	SHA256       string
	SizeBytes    int64
	StorageLocal bool
	StorageNAS   bool
	StorageCloud bool
	Notes        string
}
