package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/tiendamx/pos-mostrador/pkg/jwt"
)

const (
	testSecret = "secreto-de-pruebas"
	testIssuer = "pos-mostrador-test"
)

// TestGenerateParse_Roundtrip: los claims viajan íntegros del generador al
// parser.
func TestGenerateParse_Roundtrip(t *testing.T) {
	token, err := pkgjwt.Generate(testSecret, 7, 2, "cashier", testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, branchID, role, err := pkgjwt.Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
	assert.Equal(t, int64(2), branchID)
	assert.Equal(t, "cashier", role)
}

func TestParse_SecretoIncorrecto(t *testing.T) {
	token, err := pkgjwt.Generate(testSecret, 7, 2, "admin", testIssuer, 60)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secreto", token)
	assert.Error(t, err, "un token firmado con otro secreto debe rechazarse")
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := pkgjwt.Generate(testSecret, 7, 2, "admin", testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testSecret, token)
	assert.Error(t, err, "un token vencido debe rechazarse")
}

func TestParse_BasuraNoEsToken(t *testing.T) {
	_, _, _, err := pkgjwt.Parse(testSecret, "no.es.jwt")
	assert.Error(t, err)
}
