package payment_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendamx/pos-mostrador/internal/domain/payment"
)

// ──────────────────────────────────────────────────────────────────────────────
// Flatten: el aplanado método→monto es la base de los cortes de caja y los
// reportes por método. Un error aquí descuadra todos los cortes.
// ──────────────────────────────────────────────────────────────────────────────

func TestFlatten_EfectivoSimple(t *testing.T) {
	b := payment.Breakdown{
		Method: payment.MethodCash,
		Amount: decimal.NewFromInt(150),
	}

	flat := b.Flatten()

	assert.True(t, flat[payment.MethodCash].Equal(decimal.NewFromInt(150)),
		"el efectivo simple debe aplanarse a su monto")
	assert.Len(t, flat, 1)
}

func TestFlatten_TarjetaSumaComision(t *testing.T) {
	b := payment.Breakdown{
		Method:  payment.MethodCard,
		Amount:  decimal.NewFromInt(500),
		CardFee: decimal.NewFromInt(15),
	}

	flat := b.Flatten()

	assert.True(t, flat[payment.MethodCard].Equal(decimal.NewFromInt(515)),
		"la comisión de tarjeta debe sumarse al monto de tarjeta")
}

func TestFlatten_USDConvierteConTipoDeCambio(t *testing.T) {
	b := payment.Breakdown{
		Method:      payment.MethodUSD,
		USDAmount:   decimal.NewFromInt(10),
		USDExchange: decimal.NewFromFloat(17.50),
	}

	flat := b.Flatten()

	assert.True(t, flat[payment.MethodUSD].Equal(decimal.NewFromInt(175)),
		"los dólares deben convertirse con el tipo de cambio capturado")
}

// TestFlatten_MixtoCompleto aplana un pago mixto con efectivo, tarjeta con
// comisión y dólares: exactamente el caso que alimenta el corte de un turno.
func TestFlatten_MixtoCompleto(t *testing.T) {
	b := payment.Breakdown{
		Method: payment.MethodMixed,
		Mixed: &payment.Mixed{
			Cash: decimal.NewFromInt(100),
			Card: &payment.CardPart{
				Amount:    decimal.NewFromInt(200),
				Reference: "AUTH-123",
				Fee:       decimal.NewFromInt(6),
			},
			USD: &payment.USDPart{
				USDAmount:   decimal.NewFromInt(5),
				USDExchange: decimal.NewFromInt(18),
			},
			Credit: decimal.NewFromInt(50),
		},
	}

	flat := b.Flatten()

	assert.True(t, flat[payment.MethodCash].Equal(decimal.NewFromInt(100)))
	assert.True(t, flat[payment.MethodCard].Equal(decimal.NewFromInt(206)),
		"tarjeta dentro del mixto incluye su comisión")
	assert.True(t, flat[payment.MethodUSD].Equal(decimal.NewFromInt(90)),
		"5 USD a 18.00 son 90 pesos")
	assert.True(t, flat[payment.MethodCredit].Equal(decimal.NewFromInt(50)))
	assert.Len(t, flat, 4, "los métodos en cero no deben aparecer en el mapa")
}

func TestFlatten_MixtoSinDesgloseEsVacio(t *testing.T) {
	b := payment.Breakdown{Method: payment.MethodMixed}
	assert.Empty(t, b.Flatten(), "mixed sin sub-desglose no aporta montos")
}

func TestFlatten_MetodoInvalidoEsVacio(t *testing.T) {
	b := payment.Breakdown{Method: payment.Method("bitcoin"), Amount: decimal.NewFromInt(99)}
	assert.Empty(t, b.Flatten())
}

// ──────────────────────────────────────────────────────────────────────────────
// CreditPortion / TotalCardFee / USDDetail
// ──────────────────────────────────────────────────────────────────────────────

func TestCreditPortion_PagoTodoCredito(t *testing.T) {
	b := payment.Breakdown{Method: payment.MethodCredit}
	total := decimal.NewFromInt(320)

	assert.True(t, b.CreditPortion(total).Equal(total),
		"un pago credit fía el total completo de la venta")
}

func TestCreditPortion_CreditoDentroDeMixto(t *testing.T) {
	b := payment.Breakdown{
		Method: payment.MethodMixed,
		Mixed: &payment.Mixed{
			Cash:   decimal.NewFromInt(100),
			Credit: decimal.NewFromInt(132),
		},
	}

	portion := b.CreditPortion(decimal.NewFromInt(232))

	assert.True(t, portion.Equal(decimal.NewFromInt(132)),
		"solo el sub-monto credit del mixto se fía")
}

func TestCreditPortion_PagoSinCreditoEsCero(t *testing.T) {
	b := payment.Breakdown{Method: payment.MethodCash, Amount: decimal.NewFromInt(50)}
	assert.True(t, b.CreditPortion(decimal.NewFromInt(50)).IsZero())
}

func TestTotalCardFee_DirectaYDentroDeMixto(t *testing.T) {
	directo := payment.Breakdown{
		Method:  payment.MethodCard,
		Amount:  decimal.NewFromInt(100),
		CardFee: decimal.NewFromInt(3),
	}
	mixto := payment.Breakdown{
		Method: payment.MethodMixed,
		Mixed: &payment.Mixed{
			Card: &payment.CardPart{Amount: decimal.NewFromInt(100), Fee: decimal.NewFromInt(4)},
		},
	}

	assert.True(t, directo.TotalCardFee().Equal(decimal.NewFromInt(3)))
	assert.True(t, mixto.TotalCardFee().Equal(decimal.NewFromInt(4)))
}

func TestUSDDetail_DentroDeMixto(t *testing.T) {
	b := payment.Breakdown{
		Method: payment.MethodMixed,
		Mixed: &payment.Mixed{
			USD: &payment.USDPart{
				USDAmount:   decimal.NewFromInt(20),
				USDExchange: decimal.NewFromFloat(17.25),
			},
		},
	}

	usd, tc := b.USDDetail()

	assert.True(t, usd.Equal(decimal.NewFromInt(20)))
	assert.True(t, tc.Equal(decimal.NewFromFloat(17.25)))
}

func TestResolveReference_PrefiereCampoDirecto(t *testing.T) {
	b := payment.Breakdown{
		Method:    payment.MethodMixed,
		Reference: "DIRECTA",
		Mixed: &payment.Mixed{
			Card: &payment.CardPart{Amount: decimal.NewFromInt(10), Reference: "DEL-MIXTO"},
		},
	}
	assert.Equal(t, "DIRECTA", b.ResolveReference())

	b.Reference = ""
	assert.Equal(t, "DEL-MIXTO", b.ResolveReference(),
		"sin referencia directa se toma la de la tarjeta del mixto")
}

// ──────────────────────────────────────────────────────────────────────────────
// Serialización: el JSON del desglose es lo que se guarda en la columna de la
// venta; el roundtrip debe conservar la variante mixta completa.
// ──────────────────────────────────────────────────────────────────────────────

func TestBreakdown_RoundtripJSONMixto(t *testing.T) {
	original := payment.Breakdown{
		Method: payment.MethodMixed,
		Mixed: &payment.Mixed{
			Cash:  decimal.NewFromInt(80),
			Check: &payment.CheckPart{Amount: decimal.NewFromInt(120), Number: "00451"},
		},
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded payment.Breakdown
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, payment.MethodMixed, decoded.Method)
	require.NotNil(t, decoded.Mixed)
	require.NotNil(t, decoded.Mixed.Check)
	assert.Equal(t, "00451", decoded.Mixed.Check.Number)
	assert.True(t, decoded.Mixed.Cash.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, "00451", decoded.ResolveCheckNumber())
}
