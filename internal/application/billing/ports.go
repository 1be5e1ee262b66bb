package billing

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Clients  repository.ClientRepository
	Invoices repository.InvoiceRepository
}

// TxRunner ejecuta una función dentro de una transacción con repos atados a ella.
// Si fn retorna error se hace rollback y el estado persistido no cambia.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
	// RunReadOnly igual que Run pero en una transacción de solo lectura.
	RunReadOnly(ctx context.Context, fn func(repos Repos) error) error
}

// Issuer datos del emisor impresos en los documentos.
type Issuer struct {
	Name string
	NIT  string
}

// InvoiceDocument factura lista para renderizar: cabecera, detalles, cliente y emisor.
type InvoiceDocument struct {
	Invoice *entity.Invoice
	Client  *entity.Client
	Issuer  Issuer
}

// InvoicePDFGenerator genera la representación gráfica (PDF) de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// InvoiceXMLBuilder construye el XML de la factura y su digest canónico.
type InvoiceXMLBuilder interface {
	// BuildInvoiceXML devuelve el XML y base64(SHA-256) de su forma canónica.
	BuildInvoiceXML(doc InvoiceDocument) (xml []byte, digest string, err error)
}

// InvoiceSheetExporter exporta facturas a una hoja de cálculo.
type InvoiceSheetExporter interface {
	ExportInvoices(ctx context.Context, docs []InvoiceDocument) ([]byte, error)
}
