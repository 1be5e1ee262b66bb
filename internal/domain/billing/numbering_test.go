package billing_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
)

func TestNextInvoiceNumber(t *testing.T) {
	assert.Equal(t, "FAC-00000001", billing.NextInvoiceNumber("FAC", 0), "primera factura de una serie nueva")
	assert.Equal(t, "FAC-00000043", billing.NextInvoiceNumber("FAC", 42))
	assert.Equal(t, "B-100000000", billing.NextInvoiceNumber("B", 99_999_999), "el consecutivo no se trunca al pasar de 8 dígitos")
}

func TestSequenceStart(t *testing.T) {
	cases := []struct {
		serie string
		want  int
	}{
		{"FAC", 5},
		{"F.1", 5},
		{"FAÑ", 5},
		{"ÑÑÑÑÑ", 7},
		{"請求書", 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, billing.SequenceStart(tc.serie), tc.serie)
	}
}

func TestSequenceStart_RecortaElConsecutivo(t *testing.T) {
	for _, serie := range []string{"FAC", "ÑÑÑÑÑ", "請求書"} {
		numero := billing.FormatInvoiceNumber(serie, 1000)
		digits := string([]rune(numero)[billing.SequenceStart(serie)-1:])
		assert.Equal(t, "00001000", digits, serie)
	}
}

func TestNumeracion_Monotona(t *testing.T) {
	var last int64
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := billing.NextInvoiceNumber("S1", last)
		require.False(t, seen[n], "número repetido %s", n)
		seen[n] = true
		seq, err := strconv.ParseInt(n[billing.SequenceStart("S1")-1:], 10, 64)
		require.NoError(t, err)
		require.Equal(t, last+1, seq)
		last = seq
	}
}
