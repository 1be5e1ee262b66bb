package billing

import (
	"errors"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// ValidateInvoice comprueba la coherencia de una factura antes de persistirla:
// al menos una línea, cada línea con su subtotal correcto y totales que cuadren.
func ValidateInvoice(inv *entity.Invoice) error {
	if inv == nil {
		return fmt.Errorf("%w: factura nula", domain.ErrInvalidInput)
	}
	var errs []error
	if len(inv.Detalles) == 0 {
		errs = append(errs, errors.New("debe incluir al menos un detalle"))
	}
	for i, d := range inv.Detalles {
		if d.InvoiceID != inv.ID {
			errs = append(errs, fmt.Errorf("detalle %d: pertenece a otra factura", i+1))
		}
		if want := LineSubtotal(d.Cantidad, d.PrecioUnitario, d.Descuento); !d.Subtotal.Equal(want) {
			errs = append(errs, fmt.Errorf("detalle %d: subtotal %s, esperado %s", i+1, d.Subtotal, want))
		}
	}
	t := ComputeTotals(inv.Detalles)
	if !inv.Subtotal.Equal(t.Subtotal) || !inv.IVA.Equal(t.IVA) || !inv.IT.Equal(t.IT) || !inv.Total.Equal(t.Total) {
		errs = append(errs, fmt.Errorf("totales no cuadran con los detalles (total %s, esperado %s)", inv.Total, t.Total))
	}
	if !inv.Estado.Valid() {
		errs = append(errs, fmt.Errorf("estado inválido %q", inv.Estado))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
