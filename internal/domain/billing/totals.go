package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/money"
)

// Tasas fijas aplicadas sobre el subtotal de la factura.
var (
	IVARate = money.MustParse("0.13")
	ITRate  = money.MustParse("0.03")
)

// Totals montos agregados de una factura.
type Totals struct {
	Subtotal decimal.Decimal
	IVA      decimal.Decimal
	IT       decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals suma los subtotales de las líneas y deriva IVA, IT y total.
// IVA e IT se redondean a 2 decimales antes de sumarse al total.
func ComputeTotals(details []entity.InvoiceDetail) Totals {
	subtotal := decimal.Zero
	for _, d := range details {
		subtotal = subtotal.Add(d.Subtotal)
	}
	iva := money.Percent(subtotal, IVARate)
	it := money.Percent(subtotal, ITRate)
	return Totals{
		Subtotal: subtotal,
		IVA:      iva,
		IT:       it,
		Total:    money.Sum(subtotal, iva, it),
	}
}

// ApplyTotals recalcula y asigna los totales de la factura a partir de sus líneas.
func ApplyTotals(inv *entity.Invoice) {
	t := ComputeTotals(inv.Detalles)
	inv.Subtotal = t.Subtotal
	inv.IVA = t.IVA
	inv.IT = t.IT
	inv.Total = t.Total
}
