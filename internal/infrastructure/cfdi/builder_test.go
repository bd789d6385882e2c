package cfdi_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/infrastructure/cfdi"
)

func testEmisor() *entity.FiscalConfig {
	return &entity.FiscalConfig{
		RFCEmisor:         "TME9001011A2",
		RazonSocialEmisor: "TIENDA MOSTRADOR SA DE CV",
		RegimenFiscal:     "601",
		LugarExpedicion:   "64000",
		SerieFactura:      "A",
	}
}

func testIngreso(receptor *entity.Customer) cfdi.IngresoInput {
	return cfdi.IngresoInput{
		Serie:      "A",
		Folio:      "42",
		Fecha:      time.Date(2026, 3, 15, 12, 30, 0, 0, time.Local),
		Receptor:   receptor,
		UsoCFDI:    "G03",
		FormaPago:  "01",
		MetodoPago: "PUE",
		Moneda:     "MXN",
		SubTotal:   decimal.NewFromInt(200),
		Total:      decimal.NewFromInt(232),
		IVA:        decimal.NewFromInt(32),
		Conceptos: []cfdi.Concepto{{
			ClaveProdServ: "01010101",
			Cantidad:      decimal.NewFromInt(1),
			ClaveUnidad:   "H87",
			Descripcion:   "Artículo",
			ValorUnitario: decimal.NewFromInt(200),
			Importe:       decimal.NewFromInt(200),
		}},
	}
}

// parse devuelve la raíz del XML generado para inspeccionar atributos.
func parse(t *testing.T, raw []byte) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(raw))
	root := doc.Root()
	require.NotNil(t, root)
	return root
}

// TestBuildIngreso_ComprobanteCompleto valida la estructura del comprobante
// de ingreso: versión, tipo, montos con dos decimales y el traslado de IVA.
func TestBuildIngreso_ComprobanteCompleto(t *testing.T) {
	b := cfdi.NewBuilder(testEmisor())

	raw, err := b.BuildIngreso(testIngreso(&entity.Customer{
		RFC:           "XEXX010101000",
		RazonSocial:   "CLIENTE EXTRANJERO",
		CodigoPostal:  "64010",
		RegimenFiscal: "616",
	}))
	require.NoError(t, err)

	root := parse(t, raw)
	assert.Equal(t, "Comprobante", root.Tag)
	assert.Equal(t, "cfdi", root.Space)
	assert.Equal(t, "4.0", root.SelectAttrValue("Version", ""))
	assert.Equal(t, "I", root.SelectAttrValue("TipoDeComprobante", ""))
	assert.Equal(t, "200.00", root.SelectAttrValue("SubTotal", ""))
	assert.Equal(t, "232.00", root.SelectAttrValue("Total", ""))

	emisor := root.SelectElement("cfdi:Emisor")
	require.NotNil(t, emisor)
	assert.Equal(t, "TME9001011A2", emisor.SelectAttrValue("Rfc", ""))

	receptor := root.SelectElement("cfdi:Receptor")
	require.NotNil(t, receptor)
	assert.Equal(t, "XEXX010101000", receptor.SelectAttrValue("Rfc", ""))
	assert.Equal(t, "G03", receptor.SelectAttrValue("UsoCFDI", ""))

	impuestos := root.SelectElement("cfdi:Impuestos")
	require.NotNil(t, impuestos, "con IVA positivo debe ir el nodo de impuestos")
	assert.Equal(t, "32.00", impuestos.SelectAttrValue("TotalImpuestosTrasladados", ""))
	traslado := impuestos.SelectElement("cfdi:Traslados").SelectElement("cfdi:Traslado")
	require.NotNil(t, traslado)
	assert.Equal(t, "002", traslado.SelectAttrValue("Impuesto", ""))
}

// TestBuildIngreso_PublicoEnGeneral: sin receptor con RFC se factura al
// RFC genérico con régimen 616.
func TestBuildIngreso_PublicoEnGeneral(t *testing.T) {
	b := cfdi.NewBuilder(testEmisor())

	raw, err := b.BuildIngreso(testIngreso(nil))
	require.NoError(t, err)

	receptor := parse(t, raw).SelectElement("cfdi:Receptor")
	require.NotNil(t, receptor)
	assert.Equal(t, "XAXX010101000", receptor.SelectAttrValue("Rfc", ""))
	assert.Equal(t, "PUBLICO EN GENERAL", receptor.SelectAttrValue("Nombre", ""))
	assert.Equal(t, "616", receptor.SelectAttrValue("RegimenFiscalReceptor", ""))
	assert.Equal(t, "64000", receptor.SelectAttrValue("DomicilioFiscalReceptor", ""),
		"público en general usa el lugar de expedición del emisor")
}

// TestBuildIngreso_SinIVANoLlevaImpuestos: IVA en cero omite el nodo.
func TestBuildIngreso_SinIVANoLlevaImpuestos(t *testing.T) {
	b := cfdi.NewBuilder(testEmisor())
	in := testIngreso(nil)
	in.IVA = decimal.Zero
	in.SubTotal = decimal.NewFromInt(232)

	raw, err := b.BuildIngreso(in)
	require.NoError(t, err)

	assert.Nil(t, parse(t, raw).SelectElement("cfdi:Impuestos"))
}

// TestBuildPago_ComplementoDePago: el comprobante tipo P lleva el complemento
// pago20 con el saldo de la parcialidad.
func TestBuildPago_ComplementoDePago(t *testing.T) {
	b := cfdi.NewBuilder(testEmisor())

	raw, err := b.BuildPago(cfdi.PagoInput{
		Serie: "A",
		Folio: "43",
		Fecha: time.Date(2026, 4, 1, 9, 0, 0, 0, time.Local),
		Receptor: &entity.Customer{
			RFC:           "CACX7605101P8",
			RazonSocial:   "XOCHILT CASAS",
			CodigoPostal:  "64020",
			RegimenFiscal: "605",
		},
		FechaPago:     time.Date(2026, 4, 1, 9, 0, 0, 0, time.Local),
		FormaPago:     "01",
		Monto:         decimal.NewFromInt(150),
		UUIDRelacion:  "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
		ParcialidadNo: 2,
		SaldoAnterior: decimal.NewFromInt(300),
		SaldoInsoluto: decimal.NewFromInt(150),
	})
	require.NoError(t, err)

	root := parse(t, raw)
	assert.Equal(t, "P", root.SelectAttrValue("TipoDeComprobante", ""))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(raw))
	pago := doc.FindElement("//pago20:Pago")
	require.NotNil(t, pago, "debe existir el complemento de pagos")
	assert.Equal(t, "150.00", pago.SelectAttrValue("Monto", ""))

	docto := doc.FindElement("//pago20:DoctoRelacionado")
	require.NotNil(t, docto)
	assert.Equal(t, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", docto.SelectAttrValue("IdDocumento", ""))
	assert.Equal(t, "2", docto.SelectAttrValue("NumParcialidad", ""))
	assert.Equal(t, "150.00", docto.SelectAttrValue("ImpSaldoInsoluto", ""))
}

// TestBuildPago_RequiereRFC: un complemento de pago sin RFC del receptor no
// tiene sentido fiscal y se rechaza.
func TestBuildPago_RequiereRFC(t *testing.T) {
	b := cfdi.NewBuilder(testEmisor())

	_, err := b.BuildPago(cfdi.PagoInput{
		Serie:    "A",
		Folio:    "44",
		Fecha:    time.Now(),
		Receptor: &entity.Customer{RazonSocial: "SIN RFC"},
		Monto:    decimal.NewFromInt(100),
	})

	assert.Error(t, err)
}
