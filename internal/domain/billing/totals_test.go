package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/money"
)

func line(t *testing.T, cantidad int, precio, descuento string) entity.InvoiceDetail {
	t.Helper()
	d, err := billing.NewDetail(billing.LineInput{
		Descripcion: "item", Cantidad: cantidad, PrecioUnitario: dec(precio), Descuento: decPtr(descuento),
	})
	require.NoError(t, err)
	return d
}

func TestComputeTotals_UnDetalle(t *testing.T) {
	got := billing.ComputeTotals([]entity.InvoiceDetail{line(t, 2, "100.00", "0")})

	assert.Equal(t, "200.00", money.Format(got.Subtotal))
	assert.Equal(t, "26.00", money.Format(got.IVA))
	assert.Equal(t, "6.00", money.Format(got.IT))
	assert.Equal(t, "232.00", money.Format(got.Total))
}

func TestComputeTotals_VariosDetalles(t *testing.T) {
	got := billing.ComputeTotals([]entity.InvoiceDetail{
		line(t, 5, "50.00", "0"),      // 250.00
		line(t, 1, "100.00", "15.00"), // 85.00
	})

	assert.Equal(t, "335.00", money.Format(got.Subtotal))
	assert.Equal(t, "43.55", money.Format(got.IVA))
	assert.Equal(t, "10.05", money.Format(got.IT))
	assert.Equal(t, "388.60", money.Format(got.Total))
}

func TestComputeTotals_RedondeaImpuestos(t *testing.T) {
	// 0.35 * 0.13 = 0.0455 -> 0.05 ; 0.35 * 0.03 = 0.0105 -> 0.01
	got := billing.ComputeTotals([]entity.InvoiceDetail{line(t, 1, "0.35", "0")})
	assert.Equal(t, "0.05", money.Format(got.IVA))
	assert.Equal(t, "0.01", money.Format(got.IT))
	assert.Equal(t, "0.41", money.Format(got.Total))
}

func TestComputeTotals_SubtotalNegativo(t *testing.T) {
	got := billing.ComputeTotals([]entity.InvoiceDetail{line(t, 2, "50.00", "150.00")})
	assert.Equal(t, "-50.00", money.Format(got.Subtotal))
	assert.Equal(t, "-6.50", money.Format(got.IVA))
	assert.Equal(t, "-1.50", money.Format(got.IT))
	assert.Equal(t, "-58.00", money.Format(got.Total))
}

func TestApplyTotals_AsignaCampos(t *testing.T) {
	inv := &entity.Invoice{ID: "inv-1"}
	inv.AddDetail(line(t, 2, "100.00", "0"))
	billing.ApplyTotals(inv)

	assert.Equal(t, "inv-1", inv.Detalles[0].InvoiceID)
	assert.Equal(t, "232.00", money.Format(inv.Total))
	assert.NoError(t, billing.ValidateInvoice(&entity.Invoice{
		ID: inv.ID, Detalles: inv.Detalles, Subtotal: inv.Subtotal, IVA: inv.IVA, IT: inv.IT,
		Total: inv.Total, Estado: entity.InvoiceStatusBorrador,
	}))
}
