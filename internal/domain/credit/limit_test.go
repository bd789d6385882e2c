package credit_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tiendamx/pos-mostrador/internal/domain/credit"
)

// TestLimit_IlimitadoPermiteTodo verifica que un límite sin tope acepta
// cualquier saldo proyectado.
func TestLimit_IlimitadoPermiteTodo(t *testing.T) {
	l := credit.Unlimited()

	assert.True(t, l.IsUnlimited())
	assert.True(t, l.Allows(decimal.NewFromInt(1_000_000)))
}

// TestLimit_AcotadoEnElBorde valida el borde exacto: el saldo igual al tope
// cabe, un centavo más no.
func TestLimit_AcotadoEnElBorde(t *testing.T) {
	l := credit.Capped(decimal.NewFromInt(500))

	assert.False(t, l.IsUnlimited())
	assert.True(t, l.Allows(decimal.NewFromInt(500)), "el tope exacto sí cabe")
	assert.False(t, l.Allows(decimal.NewFromFloat(500.01)), "un centavo arriba del tope no cabe")
}

// TestLimit_CeroNoEsIlimitado: un tope de cero significa "sin crédito", no
// "sin tope". Cualquier saldo positivo debe rechazarse.
func TestLimit_CeroNoEsIlimitado(t *testing.T) {
	l := credit.Capped(decimal.Zero)

	assert.False(t, l.IsUnlimited())
	assert.True(t, l.Allows(decimal.Zero))
	assert.False(t, l.Allows(decimal.NewFromFloat(0.01)))
}

// TestLimit_RoundtripAlmacenado verifica la codificación de la base: negativo
// se decodifica como ilimitado y el ilimitado se persiste como -1.
func TestLimit_RoundtripAlmacenado(t *testing.T) {
	ilimitado := credit.FromStored(decimal.NewFromInt(-1))
	assert.True(t, ilimitado.IsUnlimited())
	assert.True(t, ilimitado.Stored().Equal(decimal.NewFromInt(-1)))

	acotado := credit.FromStored(decimal.NewFromInt(750))
	assert.False(t, acotado.IsUnlimited())
	assert.True(t, acotado.Stored().Equal(decimal.NewFromInt(750)))
	assert.True(t, acotado.Amount().Equal(decimal.NewFromInt(750)))

	// Cualquier negativo, no solo -1, significa ilimitado al decodificar.
	assert.True(t, credit.FromStored(decimal.NewFromInt(-99)).IsUnlimited())
}
