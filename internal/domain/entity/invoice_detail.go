package entity

import "github.com/shopspring/decimal"

// InvoiceDetail representa una línea de detalle de una factura.
// Solo guarda el ID de la factura dueña; no hay referencia de vuelta al objeto.
type InvoiceDetail struct {
	ID             string
	InvoiceID      string
	Descripcion    string
	Cantidad       int
	PrecioUnitario decimal.Decimal
	Descuento      decimal.Decimal
	Subtotal       decimal.Decimal // PrecioUnitario * Cantidad - Descuento
	UnidadMedida   string          // UND, KG, LTS...
	CodigoProducto string
}
