package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// DocumentUseCase genera los documentos de salida de una factura: PDF, XML y la planilla XLSX.
type DocumentUseCase struct {
	tx     TxRunner
	pdf    InvoicePDFGenerator
	xml    InvoiceXMLBuilder
	sheet  InvoiceSheetExporter
	issuer Issuer
	log    *logger.Logger
}

// NewDocumentUseCase construye el caso de uso inyectando los generadores.
func NewDocumentUseCase(
	tx TxRunner,
	pdf InvoicePDFGenerator,
	xml InvoiceXMLBuilder,
	sheet InvoiceSheetExporter,
	issuer Issuer,
	log *logger.Logger,
) *DocumentUseCase {
	return &DocumentUseCase{tx: tx, pdf: pdf, xml: xml, sheet: sheet, issuer: issuer, log: log}
}

// InvoicePDF genera el PDF de la factura. Devuelve bytes y nombre de archivo.
func (uc *DocumentUseCase) InvoicePDF(ctx context.Context, id string) ([]byte, string, error) {
	doc, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	out, err := uc.pdf.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return out, fmt.Sprintf("factura-%s.pdf", doc.Invoice.NumeroFactura), nil
}

// InvoiceXML genera el XML de una factura ya emitida junto con su digest.
// Los borradores no tienen representación XML.
func (uc *DocumentUseCase) InvoiceXML(ctx context.Context, id string) (xml []byte, filename, digest string, err error) {
	doc, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", "", err
	}
	if doc.Invoice.Estado == entity.InvoiceStatusBorrador {
		return nil, "", "", fmt.Errorf("%w: la factura %s aún no ha sido emitida", domain.ErrInvalidInput, doc.Invoice.NumeroFactura)
	}
	xml, digest, err = uc.xml.BuildInvoiceXML(doc)
	if err != nil {
		return nil, "", "", fmt.Errorf("xml: generación fallida: %w", err)
	}
	return xml, fmt.Sprintf("factura-%s.xml", doc.Invoice.NumeroFactura), digest, nil
}

// ExportXLSX exporta las facturas que cumplen el filtro. Sin fechas exporta todas.
func (uc *DocumentUseCase) ExportXLSX(ctx context.Context, f dto.InvoiceExportFilter) ([]byte, string, error) {
	var estado entity.InvoiceStatus
	if f.Estado != "" {
		var err error
		if estado, err = entity.ParseInvoiceStatus(f.Estado); err != nil {
			return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	var (
		desde, hasta time.Time
		byDate       = f.Desde != "" || f.Hasta != ""
	)
	if byDate {
		if f.Desde == "" || f.Hasta == "" {
			return nil, "", fmt.Errorf("%w: indique fecha inicial y final", domain.ErrInvalidInput)
		}
		var err error
		if desde, hasta, err = parseRange(f.Desde, f.Hasta); err != nil {
			return nil, "", err
		}
	}

	var docs []InvoiceDocument
	err := uc.tx.RunReadOnly(ctx, func(r Repos) error {
		var (
			list []*entity.Invoice
			err  error
		)
		switch {
		case byDate:
			list, err = r.Invoices.ListByDateRange(ctx, desde, hasta)
		case estado != "":
			list, err = r.Invoices.ListByStatus(ctx, estado)
		default:
			list, err = r.Invoices.List(ctx)
		}
		if err != nil {
			return err
		}
		clients := make(map[string]*entity.Client)
		for _, inv := range list {
			if estado != "" && inv.Estado != estado {
				continue
			}
			c, ok := clients[inv.ClientID]
			if !ok {
				if c, err = r.Clients.GetByID(ctx, inv.ClientID); err != nil {
					return err
				}
				clients[inv.ClientID] = c
			}
			docs = append(docs, InvoiceDocument{Invoice: inv, Client: c, Issuer: uc.issuer})
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	out, err := uc.sheet.ExportInvoices(ctx, docs)
	if err != nil {
		return nil, "", fmt.Errorf("xlsx: exportación fallida: %w", err)
	}
	uc.log.Info().Int("facturas", len(docs)).Msg("exportación xlsx")
	return out, "facturas.xlsx", nil
}

func (uc *DocumentUseCase) load(ctx context.Context, id string) (InvoiceDocument, error) {
	doc := InvoiceDocument{Issuer: uc.issuer}
	err := uc.tx.RunReadOnly(ctx, func(r Repos) error {
		var err error
		if doc.Invoice, err = r.Invoices.GetByID(ctx, id); err != nil {
			return err
		}
		doc.Client, err = r.Clients.GetByID(ctx, doc.Invoice.ClientID)
		return err
	})
	return doc, err
}
