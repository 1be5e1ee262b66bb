// Package billing contiene las reglas de negocio de la factura: cálculo de líneas,
// totales e impuestos, numeración por serie y la máquina de estados.
// Es dominio puro: no conoce la base de datos ni HTTP.
package billing

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/money"
)

// Restricciones de una línea de detalle.
const (
	MaxDescripcionLen = 255
	MaxCodeLen        = 50
)

// MinUnitPrice precio unitario mínimo aceptado.
var MinUnitPrice = decimal.New(1, -2) // 0.01

// LineSubtotal calcula precioUnitario * cantidad - descuento con aritmética decimal exacta,
// a escala 2. No se recorta a cero: un descuento mayor que el bruto da subtotal negativo.
func LineSubtotal(cantidad int, precioUnitario, descuento decimal.Decimal) decimal.Decimal {
	bruto := money.Times(precioUnitario, cantidad)
	return money.Round2(bruto.Sub(descuento))
}

// LineInput datos de entrada de una línea, ya deserializados.
type LineInput struct {
	Descripcion    string
	Cantidad       int
	PrecioUnitario decimal.Decimal
	Descuento      *decimal.Decimal // nil = 0
	UnidadMedida   string
	CodigoProducto string
}

// NewDetail valida la entrada y construye la línea con su subtotal calculado.
func NewDetail(in LineInput) (entity.InvoiceDetail, error) {
	desc := strings.TrimSpace(in.Descripcion)
	switch {
	case desc == "":
		return entity.InvoiceDetail{}, fmt.Errorf("%w: la descripción es obligatoria", domain.ErrInvalidInput)
	case utf8.RuneCountInString(desc) > MaxDescripcionLen:
		return entity.InvoiceDetail{}, fmt.Errorf("%w: la descripción supera %d caracteres", domain.ErrInvalidInput, MaxDescripcionLen)
	case in.Cantidad < 1:
		return entity.InvoiceDetail{}, fmt.Errorf("%w: la cantidad debe ser mayor a 0", domain.ErrInvalidInput)
	case in.PrecioUnitario.LessThan(MinUnitPrice):
		return entity.InvoiceDetail{}, fmt.Errorf("%w: el precio debe ser mayor a 0", domain.ErrInvalidInput)
	case !hasMoneyScale(in.PrecioUnitario) || (in.Descuento != nil && !hasMoneyScale(*in.Descuento)):
		return entity.InvoiceDetail{}, fmt.Errorf("%w: precio y descuento admiten hasta %d decimales", domain.ErrInvalidInput, money.Scale)
	case len(in.UnidadMedida) > MaxCodeLen || len(in.CodigoProducto) > MaxCodeLen:
		return entity.InvoiceDetail{}, fmt.Errorf("%w: unidad de medida y código admiten hasta %d caracteres", domain.ErrInvalidInput, MaxCodeLen)
	}
	descuento := decimal.Zero
	if in.Descuento != nil {
		descuento = *in.Descuento
	}
	d := entity.InvoiceDetail{
		ID:             uuid.New().String(),
		Descripcion:    desc,
		Cantidad:       in.Cantidad,
		PrecioUnitario: in.PrecioUnitario,
		Descuento:      descuento,
		UnidadMedida:   strings.TrimSpace(in.UnidadMedida),
		CodigoProducto: strings.TrimSpace(in.CodigoProducto),
	}
	Recalculate(&d)
	return d, nil
}

// Recalculate vuelve a calcular el subtotal de la línea; se invoca siempre que
// cambian cantidad, precio o descuento y antes de persistir.
func Recalculate(d *entity.InvoiceDetail) {
	d.Subtotal = LineSubtotal(d.Cantidad, d.PrecioUnitario, d.Descuento)
}

func hasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(money.Round2(d))
}
