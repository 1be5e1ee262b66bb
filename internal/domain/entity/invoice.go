package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado del ciclo de vida de una factura. Conjunto cerrado:
// solo las constantes de abajo son valores válidos (ver ParseInvoiceStatus).
type InvoiceStatus string

const (
	InvoiceStatusBorrador InvoiceStatus = "BORRADOR" // Estado inicial; editable y eliminable
	InvoiceStatusEmitida  InvoiceStatus = "EMITIDA"  // Emitida al cliente
	InvoiceStatusPagada   InvoiceStatus = "PAGADA"   // Cobrada
	InvoiceStatusAnulada  InvoiceStatus = "ANULADA"  // Terminal
)

// InvoiceStatuses lista los estados en orden de ciclo de vida.
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusBorrador, InvoiceStatusEmitida, InvoiceStatusPagada, InvoiceStatusAnulada,
}

// ParseInvoiceStatus convierte un string (sin distinguir mayúsculas) al estado correspondiente.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	st := InvoiceStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("estado de factura desconocido: %q", s)
	}
	return st, nil
}

// Valid indica si el estado pertenece al conjunto cerrado.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusBorrador, InvoiceStatusEmitida, InvoiceStatusPagada, InvoiceStatusAnulada:
		return true
	}
	return false
}

func (s InvoiceStatus) String() string { return string(s) }

// VoucherType tipo de comprobante.
type VoucherType string

const (
	VoucherFactura     VoucherType = "FACTURA"
	VoucherNotaCredito VoucherType = "NOTA_CREDITO"
	VoucherNotaDebito  VoucherType = "NOTA_DEBITO"
	VoucherRecibo      VoucherType = "RECIBO"
)

// ParseVoucherType convierte un string al tipo de comprobante; vacío equivale a FACTURA.
func ParseVoucherType(s string) (VoucherType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return VoucherFactura, nil
	}
	switch v := VoucherType(s); v {
	case VoucherFactura, VoucherNotaCredito, VoucherNotaDebito, VoucherRecibo:
		return v, nil
	}
	return "", fmt.Errorf("tipo de comprobante desconocido: %q", s)
}

func (v VoucherType) String() string { return string(v) }

// Invoice representa la cabecera de una factura junto con sus líneas.
// La factura es dueña exclusiva de Detalles: se crean, guardan y eliminan juntos.
type Invoice struct {
	ID              string
	NumeroFactura   string // <serie>-<secuencia de 8 dígitos>, único
	Serie           string
	FechaEmision    time.Time // solo fecha
	ClientID        string
	Detalles        []InvoiceDetail
	Subtotal        decimal.Decimal
	IVA             decimal.Decimal // 13%
	IT              decimal.Decimal // 3%
	Total           decimal.Decimal
	Estado          InvoiceStatus
	TipoComprobante VoucherType
	Observaciones   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AddDetail agrega una línea y la vincula a esta factura por ID.
func (inv *Invoice) AddDetail(d InvoiceDetail) {
	d.InvoiceID = inv.ID
	inv.Detalles = append(inv.Detalles, d)
}
