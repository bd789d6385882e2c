package cfdi

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// Builder arma el XML de un CFDI 4.0 sin timbrar (stub local: sin sello ni
// certificado; el timbrado ante el PAC queda fuera).
type Builder struct {
	emisor *entity.FiscalConfig
}

// NewBuilder construye el builder con los datos del emisor.
func NewBuilder(emisor *entity.FiscalConfig) *Builder {
	return &Builder{emisor: emisor}
}

// Concepto línea del comprobante.
type Concepto struct {
	ClaveProdServ string
	Cantidad      decimal.Decimal
	ClaveUnidad   string
	Descripcion   string
	ValorUnitario decimal.Decimal
	Importe       decimal.Decimal
}

// IngresoInput datos para un comprobante de ingreso (tipo I).
type IngresoInput struct {
	Serie      string
	Folio      string
	Fecha      time.Time
	Receptor   *entity.Customer
	UsoCFDI    string
	FormaPago  string
	MetodoPago string
	Moneda     string
	SubTotal   decimal.Decimal
	Descuento  decimal.Decimal
	Total      decimal.Decimal
	IVA        decimal.Decimal
	Conceptos  []Concepto
}

// BuildIngreso genera el XML del comprobante de ingreso.
func (b *Builder) BuildIngreso(in IngresoInput) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	comp := doc.CreateElement("cfdi:Comprobante")
	comp.CreateAttr("xmlns:cfdi", "http://www.sat.gob.mx/cfd/4")
	comp.CreateAttr("Version", "4.0")
	comp.CreateAttr("Serie", in.Serie)
	comp.CreateAttr("Folio", in.Folio)
	comp.CreateAttr("Fecha", in.Fecha.Format("2006-01-02T15:04:05"))
	comp.CreateAttr("TipoDeComprobante", "I")
	comp.CreateAttr("Moneda", in.Moneda)
	comp.CreateAttr("SubTotal", in.SubTotal.StringFixed(2))
	if in.Descuento.IsPositive() {
		comp.CreateAttr("Descuento", in.Descuento.StringFixed(2))
	}
	comp.CreateAttr("Total", in.Total.StringFixed(2))
	comp.CreateAttr("FormaPago", in.FormaPago)
	comp.CreateAttr("MetodoPago", in.MetodoPago)
	comp.CreateAttr("LugarExpedicion", b.emisor.LugarExpedicion)
	comp.CreateAttr("Exportacion", "01")

	emisor := comp.CreateElement("cfdi:Emisor")
	emisor.CreateAttr("Rfc", b.emisor.RFCEmisor)
	emisor.CreateAttr("Nombre", b.emisor.RazonSocialEmisor)
	emisor.CreateAttr("RegimenFiscal", b.emisor.RegimenFiscal)

	receptor := comp.CreateElement("cfdi:Receptor")
	if in.Receptor != nil && in.Receptor.RFC != "" {
		receptor.CreateAttr("Rfc", in.Receptor.RFC)
		receptor.CreateAttr("Nombre", in.Receptor.RazonSocial)
		receptor.CreateAttr("DomicilioFiscalReceptor", in.Receptor.CodigoPostal)
		receptor.CreateAttr("RegimenFiscalReceptor", in.Receptor.RegimenFiscal)
	} else {
		// Público en general
		receptor.CreateAttr("Rfc", "XAXX010101000")
		receptor.CreateAttr("Nombre", "PUBLICO EN GENERAL")
		receptor.CreateAttr("DomicilioFiscalReceptor", b.emisor.LugarExpedicion)
		receptor.CreateAttr("RegimenFiscalReceptor", "616")
	}
	receptor.CreateAttr("UsoCFDI", in.UsoCFDI)

	conceptos := comp.CreateElement("cfdi:Conceptos")
	for _, c := range in.Conceptos {
		el := conceptos.CreateElement("cfdi:Concepto")
		el.CreateAttr("ClaveProdServ", c.ClaveProdServ)
		el.CreateAttr("Cantidad", c.Cantidad.String())
		el.CreateAttr("ClaveUnidad", c.ClaveUnidad)
		el.CreateAttr("Descripcion", c.Descripcion)
		el.CreateAttr("ValorUnitario", c.ValorUnitario.StringFixed(2))
		el.CreateAttr("Importe", c.Importe.StringFixed(2))
		el.CreateAttr("ObjetoImp", "02")
	}

	if in.IVA.IsPositive() {
		impuestos := comp.CreateElement("cfdi:Impuestos")
		impuestos.CreateAttr("TotalImpuestosTrasladados", in.IVA.StringFixed(2))
		traslados := impuestos.CreateElement("cfdi:Traslados")
		traslado := traslados.CreateElement("cfdi:Traslado")
		traslado.CreateAttr("Base", in.SubTotal.StringFixed(2))
		traslado.CreateAttr("Impuesto", "002")
		traslado.CreateAttr("TipoFactor", "Tasa")
		traslado.CreateAttr("Importe", in.IVA.StringFixed(2))
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

// PagoInput datos para un comprobante de pago (tipo P).
type PagoInput struct {
	Serie         string
	Folio         string
	Fecha         time.Time
	Receptor      *entity.Customer
	FechaPago     time.Time
	FormaPago     string
	Monto         decimal.Decimal
	UUIDRelacion  string
	ParcialidadNo int
	SaldoAnterior decimal.Decimal
	SaldoInsoluto decimal.Decimal
}

// BuildPago genera el XML del complemento de pago.
func (b *Builder) BuildPago(in PagoInput) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	comp := doc.CreateElement("cfdi:Comprobante")
	comp.CreateAttr("xmlns:cfdi", "http://www.sat.gob.mx/cfd/4")
	comp.CreateAttr("xmlns:pago20", "http://www.sat.gob.mx/Pagos20")
	comp.CreateAttr("Version", "4.0")
	comp.CreateAttr("Serie", in.Serie)
	comp.CreateAttr("Folio", in.Folio)
	comp.CreateAttr("Fecha", in.Fecha.Format("2006-01-02T15:04:05"))
	comp.CreateAttr("TipoDeComprobante", "P")
	comp.CreateAttr("Moneda", "XXX")
	comp.CreateAttr("SubTotal", "0")
	comp.CreateAttr("Total", "0")
	comp.CreateAttr("LugarExpedicion", b.emisor.LugarExpedicion)
	comp.CreateAttr("Exportacion", "01")

	emisor := comp.CreateElement("cfdi:Emisor")
	emisor.CreateAttr("Rfc", b.emisor.RFCEmisor)
	emisor.CreateAttr("Nombre", b.emisor.RazonSocialEmisor)
	emisor.CreateAttr("RegimenFiscal", b.emisor.RegimenFiscal)

	receptor := comp.CreateElement("cfdi:Receptor")
	if in.Receptor == nil || in.Receptor.RFC == "" {
		return nil, fmt.Errorf("cfdi pago: receptor con RFC requerido")
	}
	receptor.CreateAttr("Rfc", in.Receptor.RFC)
	receptor.CreateAttr("Nombre", in.Receptor.RazonSocial)
	receptor.CreateAttr("DomicilioFiscalReceptor", in.Receptor.CodigoPostal)
	receptor.CreateAttr("RegimenFiscalReceptor", in.Receptor.RegimenFiscal)
	receptor.CreateAttr("UsoCFDI", "CP01")

	conceptos := comp.CreateElement("cfdi:Conceptos")
	concepto := conceptos.CreateElement("cfdi:Concepto")
	concepto.CreateAttr("ClaveProdServ", "84111506")
	concepto.CreateAttr("Cantidad", "1")
	concepto.CreateAttr("ClaveUnidad", "ACT")
	concepto.CreateAttr("Descripcion", "Pago")
	concepto.CreateAttr("ValorUnitario", "0")
	concepto.CreateAttr("Importe", "0")
	concepto.CreateAttr("ObjetoImp", "01")

	complemento := comp.CreateElement("cfdi:Complemento")
	pagos := complemento.CreateElement("pago20:Pagos")
	pagos.CreateAttr("Version", "2.0")
	totales := pagos.CreateElement("pago20:Totales")
	totales.CreateAttr("MontoTotalPagos", in.Monto.StringFixed(2))
	pago := pagos.CreateElement("pago20:Pago")
	pago.CreateAttr("FechaPago", in.FechaPago.Format("2006-01-02T15:04:05"))
	pago.CreateAttr("FormaDePagoP", in.FormaPago)
	pago.CreateAttr("MonedaP", "MXN")
	pago.CreateAttr("TipoCambioP", "1")
	pago.CreateAttr("Monto", in.Monto.StringFixed(2))
	if in.UUIDRelacion != "" {
		docto := pago.CreateElement("pago20:DoctoRelacionado")
		docto.CreateAttr("IdDocumento", in.UUIDRelacion)
		docto.CreateAttr("MonedaDR", "MXN")
		docto.CreateAttr("EquivalenciaDR", "1")
		docto.CreateAttr("NumParcialidad", fmt.Sprintf("%d", in.ParcialidadNo))
		docto.CreateAttr("ImpSaldoAnt", in.SaldoAnterior.StringFixed(2))
		docto.CreateAttr("ImpPagado", in.Monto.StringFixed(2))
		docto.CreateAttr("ImpSaldoInsoluto", in.SaldoInsoluto.StringFixed(2))
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}
