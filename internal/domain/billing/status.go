package billing

import (
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// ValidateTransition verifica que from -> to sea válido por la vía genérica de cambio de estado.
// ANULADA y PAGADA son terminales. Un BORRADOR solo pasa a EMITIDA o ANULADA; desde EMITIDA
// se admite cualquier destino.
func ValidateTransition(from, to entity.InvoiceStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: estado destino desconocido %q", domain.ErrInvalidInput, to)
	}
	switch from {
	case entity.InvoiceStatusAnulada:
		return fmt.Errorf("%w: no se puede cambiar el estado de una factura anulada", domain.ErrInvalidTransition)
	case entity.InvoiceStatusPagada:
		return fmt.Errorf("%w: no se puede cambiar el estado de una factura pagada", domain.ErrInvalidTransition)
	case entity.InvoiceStatusBorrador:
		if to != entity.InvoiceStatusEmitida && to != entity.InvoiceStatusAnulada {
			return fmt.Errorf("%w: un borrador solo puede pasar a EMITIDA o ANULADA", domain.ErrInvalidTransition)
		}
	}
	return nil
}

// Transition valida y aplica el cambio de estado genérico.
func Transition(inv *entity.Invoice, to entity.InvoiceStatus) error {
	if err := ValidateTransition(inv.Estado, to); err != nil {
		return err
	}
	inv.Estado = to
	return nil
}

// Emit pasa la factura de BORRADOR a EMITIDA.
func Emit(inv *entity.Invoice) error {
	if inv.Estado != entity.InvoiceStatusBorrador {
		return fmt.Errorf("%w: solo se pueden emitir facturas en estado BORRADOR", domain.ErrInvalidTransition)
	}
	inv.Estado = entity.InvoiceStatusEmitida
	return nil
}

// Cancel anula la factura. Rechaza facturas ya anuladas o pagadas.
func Cancel(inv *entity.Invoice) error {
	switch inv.Estado {
	case entity.InvoiceStatusAnulada:
		return fmt.Errorf("%w: la factura ya está anulada", domain.ErrInvalidTransition)
	case entity.InvoiceStatusPagada:
		return fmt.Errorf("%w: no se puede anular una factura pagada", domain.ErrInvalidTransition)
	}
	inv.Estado = entity.InvoiceStatusAnulada
	return nil
}

// EnsureDeletable solo permite eliminar borradores.
func EnsureDeletable(inv *entity.Invoice) error {
	if inv.Estado != entity.InvoiceStatusBorrador {
		return fmt.Errorf("%w: solo se pueden eliminar facturas en estado BORRADOR", domain.ErrInvalidTransition)
	}
	return nil
}
