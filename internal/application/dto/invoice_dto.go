package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices.
// FechaEmision formato YYYY-MM-DD; vacío = fecha actual.
type CreateInvoiceRequest struct {
	Serie           string                 `json:"serie"`
	FechaEmision    string                 `json:"fecha_emision,omitempty"`
	ClientID        string                 `json:"client_id"`
	TipoComprobante string                 `json:"tipo_comprobante,omitempty"`
	Observaciones   string                 `json:"observaciones,omitempty"`
	Detalles        []InvoiceDetailRequest `json:"detalles"`
}

// InvoiceDetailRequest línea de factura. Descuento opcional.
type InvoiceDetailRequest struct {
	Descripcion    string           `json:"descripcion"`
	Cantidad       int              `json:"cantidad"`
	PrecioUnitario decimal.Decimal  `json:"precio_unitario"`
	Descuento      *decimal.Decimal `json:"descuento,omitempty"`
	UnidadMedida   string           `json:"unidad_medida,omitempty"`
	CodigoProducto string           `json:"codigo_producto,omitempty"`
}

// InvoiceResponse factura con detalle.
type InvoiceResponse struct {
	ID              string                  `json:"id"`
	NumeroFactura   string                  `json:"numero_factura"`
	Serie           string                  `json:"serie"`
	FechaEmision    string                  `json:"fecha_emision"`
	ClientID        string                  `json:"client_id"`
	ClientNombre    string                  `json:"client_nombre,omitempty"`
	ClientNIT       int64                   `json:"client_nit,omitempty"`
	Subtotal        decimal.Decimal         `json:"subtotal"`
	IVA             decimal.Decimal         `json:"iva"`
	IT              decimal.Decimal         `json:"it"`
	Total           decimal.Decimal         `json:"total"`
	Estado          string                  `json:"estado"`
	TipoComprobante string                  `json:"tipo_comprobante"`
	Observaciones   string                  `json:"observaciones,omitempty"`
	Detalles        []InvoiceDetailResponse `json:"detalles"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// InvoiceDetailResponse línea de detalle en la respuesta.
type InvoiceDetailResponse struct {
	ID             string          `json:"id"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	UnidadMedida   string          `json:"unidad_medida,omitempty"`
	CodigoProducto string          `json:"codigo_producto,omitempty"`
}

// InvoiceExportFilter filtros de GET /api/invoices/export.xlsx. Campos vacíos no filtran.
type InvoiceExportFilter struct {
	Estado string `query:"status"`
	Desde  string `query:"start"`
	Hasta  string `query:"end"`
}
