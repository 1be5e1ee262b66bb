package nit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/pkg/nit"
)

func TestValidate_Limites(t *testing.T) {
	assert.NoError(t, nit.Validate(1_000_000_000))
	assert.NoError(t, nit.Validate(9_999_999_999))
	assert.Error(t, nit.Validate(999_999_999))
	assert.Error(t, nit.Validate(10_000_000_000))
	assert.Error(t, nit.Validate(0))
}

func TestParse_ConSeparadores(t *testing.T) {
	n, err := nit.Parse("123.456.789-0")
	require.NoError(t, err)
	assert.Equal(t, int64(1234567890), n)
	assert.Equal(t, "1234567890", nit.Format(n))
}

func TestParse_LongitudIncorrecta(t *testing.T) {
	_, err := nit.Parse("12345")
	assert.Error(t, err)

	_, err = nit.Parse("0123456789")
	assert.Error(t, err, "un NIT con cero a la izquierda queda por debajo del mínimo")
}
