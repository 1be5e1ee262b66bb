package billing

import (
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// DateLayout formato de fechas de emisión en la API.
const DateLayout = "2006-01-02"

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	if c == nil {
		return nil
	}
	return &dto.ClientResponse{
		ID:             c.ID,
		Nombre:         c.Nombre,
		Apellido:       c.Apellido,
		NombreCompleto: c.FullName(),
		NIT:            c.NIT,
		Email:          c.EmailValue(),
		Telefono:       c.Telefono,
		Direccion:      c.Direccion,
		Ciudad:         c.Ciudad,
		Departamento:   c.Departamento,
		Activo:         c.Activo,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toClientResponses(list []*entity.Client) []*dto.ClientResponse {
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	return out
}

// toInvoiceResponse mapea la factura; client es opcional (nombre y NIT en la respuesta).
func toInvoiceResponse(inv *entity.Invoice, client *entity.Client) *dto.InvoiceResponse {
	if inv == nil {
		return nil
	}
	out := &dto.InvoiceResponse{
		ID:              inv.ID,
		NumeroFactura:   inv.NumeroFactura,
		Serie:           inv.Serie,
		FechaEmision:    inv.FechaEmision.Format(DateLayout),
		ClientID:        inv.ClientID,
		Subtotal:        inv.Subtotal,
		IVA:             inv.IVA,
		IT:              inv.IT,
		Total:           inv.Total,
		Estado:          inv.Estado.String(),
		TipoComprobante: inv.TipoComprobante.String(),
		Observaciones:   inv.Observaciones,
		Detalles:        make([]dto.InvoiceDetailResponse, 0, len(inv.Detalles)),
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
	if client != nil {
		out.ClientNombre = client.FullName()
		out.ClientNIT = client.NIT
	}
	for _, d := range inv.Detalles {
		out.Detalles = append(out.Detalles, dto.InvoiceDetailResponse{
			ID:             d.ID,
			Descripcion:    d.Descripcion,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Descuento:      d.Descuento,
			Subtotal:       d.Subtotal,
			UnidadMedida:   d.UnidadMedida,
			CodigoProducto: d.CodigoProducto,
		})
	}
	return out
}

func toInvoiceResponses(list []*entity.Invoice) []*dto.InvoiceResponse {
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv, nil))
	}
	return out
}
