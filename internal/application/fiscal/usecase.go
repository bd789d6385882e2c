package fiscal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/payment"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
	"github.com/tiendamx/pos-mostrador/internal/domain/session"
	"github.com/tiendamx/pos-mostrador/internal/infrastructure/cfdi"
	"github.com/tiendamx/pos-mostrador/pkg/logger"
)

// Usecase emite y cancela CFDI en modo local (sin timbrado ante PAC). El XML
// generado queda en disco y la fila en cfdi_issued liga la venta con su folio.
type Usecase struct {
	txRunner     repository.TxRunner
	fiscalRepo   repository.FiscalRepository
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	xmlDir       string
	taxRate      decimal.Decimal
	log          *logger.Logger
}

// New construye el caso de uso fiscal. xmlDir es el directorio donde se
// escriben los comprobantes.
func New(
	txRunner repository.TxRunner,
	fiscalRepo repository.FiscalRepository,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	xmlDir string,
	taxRate decimal.Decimal,
	log *logger.Logger,
) *Usecase {
	return &Usecase{
		txRunner:     txRunner,
		fiscalRepo:   fiscalRepo,
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		xmlDir:       xmlDir,
		taxRate:      taxRate,
		log:          log,
	}
}

// GetConfig devuelve la configuración del emisor.
func (uc *Usecase) GetConfig(ctx context.Context) (*entity.FiscalConfig, error) {
	return uc.fiscalRepo.GetConfig()
}

// UpdateConfig guarda los datos del emisor.
func (uc *Usecase) UpdateConfig(ctx context.Context, s session.Session, cfg *entity.FiscalConfig) error {
	if strings.TrimSpace(cfg.RFCEmisor) == "" {
		return fmt.Errorf("%w: RFC del emisor requerido", domain.ErrInvalidInput)
	}
	if cfg.SerieFactura == "" {
		cfg.SerieFactura = "A"
	}
	return uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		if err := r.Fiscal.UpdateConfig(cfg); err != nil {
			return err
		}
		audit(r, s, "fiscal_config_updated", map[string]any{"rfc": cfg.RFCEmisor})
		return nil
	})
}

// IssueInput datos para emitir el CFDI de ingreso de una venta.
type IssueInput struct {
	Session    session.Session
	SaleID     int64
	CustomerID *int64 // nil usa el cliente de la venta; venta sin cliente emite a público en general
	UsoCFDI    string
}

// IssueForSale emite el comprobante de ingreso de una venta. Una venta admite
// un solo CFDI vigente.
func (uc *Usecase) IssueForSale(ctx context.Context, in IssueInput) (*entity.CFDIRecord, error) {
	sale, err := uc.saleRepo.GetByID(in.SaleID)
	if err != nil {
		return nil, err
	}
	if existing, err := uc.fiscalRepo.GetCFDIForSale(in.SaleID); err == nil && existing.Status == entity.CFDIVigente {
		return nil, fmt.Errorf("%w: la venta %d ya tiene CFDI %s", domain.ErrConflict, in.SaleID, existing.UUID)
	}
	cfg, err := uc.fiscalRepo.GetConfig()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.RFCEmisor) == "" {
		return nil, fmt.Errorf("%w: configura el RFC del emisor antes de facturar", domain.ErrConflict)
	}

	customerID := sale.CustomerID
	if in.CustomerID != nil {
		customerID = in.CustomerID
	}
	var customer *entity.Customer
	if customerID != nil {
		if customer, err = uc.customerRepo.GetByID(*customerID); err != nil {
			return nil, err
		}
	}

	items, err := uc.saleRepo.GetItems(in.SaleID)
	if err != nil {
		return nil, err
	}
	conceptos, err := uc.buildConceptos(items)
	if err != nil {
		return nil, err
	}

	usoCFDI := in.UsoCFDI
	if usoCFDI == "" {
		usoCFDI = "G03"
	}
	now := time.Now()

	var rec *entity.CFDIRecord
	err = uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		combined, err := r.Fiscal.NextFolio()
		if err != nil {
			return err
		}
		serie, folio := splitFolio(combined)

		builder := cfdi.NewBuilder(cfg)
		xml, err := builder.BuildIngreso(cfdi.IngresoInput{
			Serie:      serie,
			Folio:      folio,
			Fecha:      now,
			Receptor:   customer,
			UsoCFDI:    usoCFDI,
			FormaPago:  formaPago(sale.PaymentMethod),
			MetodoPago: metodoPago(sale.PaymentMethod),
			Moneda:     "MXN",
			SubTotal:   sale.Subtotal,
			Descuento:  sale.Discount,
			Total:      sale.Total,
			IVA:        sale.Total.Sub(sale.Subtotal).Sub(sale.CardFee),
			Conceptos:  conceptos,
		})
		if err != nil {
			return fmt.Errorf("build cfdi: %w", err)
		}

		id := uuid.New().String()
		path, err := uc.writeXML(fmt.Sprintf("%s-%s_%s.xml", serie, folio, id), xml)
		if err != nil {
			return err
		}

		rec = &entity.CFDIRecord{
			SaleID:          &in.SaleID,
			CustomerID:      customerID,
			UUID:            id,
			Serie:           serie,
			Folio:           folio,
			Fecha:           now,
			Total:           sale.Total,
			XMLPath:         path,
			Status:          entity.CFDIVigente,
			TipoComprobante: "I",
			UsoCFDI:         usoCFDI,
			FormaPago:       formaPago(sale.PaymentMethod),
			MetodoPago:      metodoPago(sale.PaymentMethod),
			Moneda:          "MXN",
		}
		recID, err := r.Fiscal.CreateCFDI(rec)
		if err != nil {
			return err
		}
		rec.ID = recID
		audit(r, in.Session, "cfdi_issued", map[string]any{"sale_id": in.SaleID, "uuid": id})
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("sale_id", in.SaleID).
		Str("uuid", rec.UUID).
		Str("folio", rec.Serie+"-"+rec.Folio).
		Msg("CFDI de ingreso emitido")
	return rec, nil
}

// PagoIssueInput datos para un complemento de pago (abono de crédito o de
// apartado de un cliente con RFC).
type PagoIssueInput struct {
	Session       session.Session
	CustomerID    int64
	Amount        decimal.Decimal
	FormaPago     string
	UUIDRelacion  string
	ParcialidadNo int
	SaldoAnterior decimal.Decimal
}

// IssuePago emite un CFDI de pago (tipo P) por un abono recibido.
func (uc *Usecase) IssuePago(ctx context.Context, in PagoIssueInput) (*entity.CFDIRecord, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrAmountNotPositive
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	cfg, err := uc.fiscalRepo.GetConfig()
	if err != nil {
		return nil, err
	}
	formaPago := in.FormaPago
	if formaPago == "" {
		formaPago = "01"
	}
	now := time.Now()

	var rec *entity.CFDIRecord
	err = uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		combined, err := r.Fiscal.NextFolio()
		if err != nil {
			return err
		}
		serie, folio := splitFolio(combined)

		builder := cfdi.NewBuilder(cfg)
		xml, err := builder.BuildPago(cfdi.PagoInput{
			Serie:         serie,
			Folio:         folio,
			Fecha:         now,
			Receptor:      customer,
			FechaPago:     now,
			FormaPago:     formaPago,
			Monto:         in.Amount,
			UUIDRelacion:  in.UUIDRelacion,
			ParcialidadNo: in.ParcialidadNo,
			SaldoAnterior: in.SaldoAnterior,
			SaldoInsoluto: decimal.Max(in.SaldoAnterior.Sub(in.Amount), decimal.Zero),
		})
		if err != nil {
			return fmt.Errorf("build cfdi pago: %w", err)
		}

		id := uuid.New().String()
		path, err := uc.writeXML(fmt.Sprintf("%s-%s_%s.xml", serie, folio, id), xml)
		if err != nil {
			return err
		}

		rec = &entity.CFDIRecord{
			CustomerID:      &in.CustomerID,
			UUID:            id,
			Serie:           serie,
			Folio:           folio,
			Fecha:           now,
			Total:           in.Amount,
			XMLPath:         path,
			Status:          entity.CFDIVigente,
			TipoComprobante: "P",
			UsoCFDI:         "CP01",
			FormaPago:       formaPago,
			MetodoPago:      "PUE",
			Moneda:          "MXN",
		}
		recID, err := r.Fiscal.CreateCFDI(rec)
		if err != nil {
			return err
		}
		rec.ID = recID
		audit(r, in.Session, "cfdi_pago_issued", map[string]any{"customer_id": in.CustomerID, "uuid": id})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Cancel marca un CFDI como cancelado y registra el motivo. No hay cancelación
// ante el SAT en modo local.
func (uc *Usecase) Cancel(ctx context.Context, s session.Session, cfdiID int64, motivo string) error {
	if strings.TrimSpace(motivo) == "" {
		motivo = "02" // sin relación
	}
	rec, err := uc.fiscalRepo.GetCFDIByID(cfdiID)
	if err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(r *repository.Atomic) error {
		if err := r.Fiscal.MarkCancelled(&entity.CFDICancellation{
			CFDIID:          cfdiID,
			Fecha:           time.Now(),
			Motivo:          motivo,
			UUIDRelacionado: rec.UUID,
		}); err != nil {
			return err
		}
		audit(r, s, "cfdi_cancelled", map[string]any{"cfdi_id": cfdiID, "uuid": rec.UUID})
		return nil
	})
}

// Get devuelve un CFDI por id.
func (uc *Usecase) Get(ctx context.Context, cfdiID int64) (*entity.CFDIRecord, error) {
	return uc.fiscalRepo.GetCFDIByID(cfdiID)
}

// GetForSale devuelve el CFDI ligado a una venta.
func (uc *Usecase) GetForSale(ctx context.Context, saleID int64) (*entity.CFDIRecord, error) {
	return uc.fiscalRepo.GetCFDIForSale(saleID)
}

// List devuelve los CFDI más recientes.
func (uc *Usecase) List(ctx context.Context, limit int) ([]*entity.CFDIRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.fiscalRepo.ListCFDI(limit)
}

// ReadXML devuelve el contenido del XML de un comprobante emitido.
func (uc *Usecase) ReadXML(ctx context.Context, cfdiID int64) ([]byte, error) {
	rec, err := uc.fiscalRepo.GetCFDIByID(cfdiID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(rec.XMLPath)
	if err != nil {
		return nil, fmt.Errorf("leer xml %s: %w", rec.XMLPath, err)
	}
	return data, nil
}

func (uc *Usecase) buildConceptos(items []*entity.SaleItem) ([]cfdi.Concepto, error) {
	conceptos := make([]cfdi.Concepto, 0, len(items))
	for _, it := range items {
		desc := "Artículo"
		if p, err := uc.productRepo.GetByID(it.ProductID); err == nil {
			desc = p.Name
		}
		base := it.Total
		if it.PriceIncludesTax {
			base = it.Total.Div(decimal.NewFromInt(1).Add(uc.taxRate)).Round(2)
		}
		conceptos = append(conceptos, cfdi.Concepto{
			ClaveProdServ: "01010101",
			Cantidad:      it.Qty,
			ClaveUnidad:   "H87",
			Descripcion:   desc,
			ValorUnitario: it.Price,
			Importe:       base,
		})
	}
	return conceptos, nil
}

func (uc *Usecase) writeXML(name string, data []byte) (string, error) {
	if err := os.MkdirAll(uc.xmlDir, 0o755); err != nil {
		return "", fmt.Errorf("crear directorio cfdi: %w", err)
	}
	path := filepath.Join(uc.xmlDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("escribir xml: %w", err)
	}
	return path, nil
}

// splitFolio separa "SERIE-123" en serie y folio.
func splitFolio(combined string) (string, string) {
	idx := strings.LastIndex(combined, "-")
	if idx < 0 {
		return "A", combined
	}
	return combined[:idx], combined[idx+1:]
}

// Catálogo SAT c_FormaPago para los métodos de cobro del mostrador.
func formaPago(m payment.Method) string {
	switch m {
	case payment.MethodCash, payment.MethodUSD:
		return "01"
	case payment.MethodCheck:
		return "02"
	case payment.MethodTransfer:
		return "03"
	case payment.MethodCard:
		return "04"
	case payment.MethodCredit:
		return "99" // por definir: se paga en parcialidades
	default:
		return "01"
	}
}

func metodoPago(m payment.Method) string {
	if m == payment.MethodCredit {
		return "PPD"
	}
	return "PUE"
}

func audit(r *repository.Atomic, s session.Session, action string, payload map[string]any) {
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
