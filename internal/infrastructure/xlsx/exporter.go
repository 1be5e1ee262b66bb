// Package xlsx exporta el libro de facturas a una planilla Excel (excelize).
package xlsx

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	appbilling "github.com/jhoicas/Facturacion-api/internal/application/billing"
)

// Hojas del libro.
const (
	SheetFacturas = "Facturas"
	SheetDetalles = "Detalles"
)

var (
	facturasHeader = []any{
		"Número", "Serie", "Fecha", "Tipo", "Estado", "Cliente", "NIT",
		"Subtotal", "IVA", "IT", "Total", "Observaciones",
	}
	detallesHeader = []any{
		"Número", "Línea", "Código", "Descripción", "Cantidad", "Unidad",
		"P.Unit.", "Descuento", "Subtotal",
	}
)

// numFmtMoney formato interno de Excel "#,##0.00".
const numFmtMoney = 4

var _ appbilling.InvoiceSheetExporter = (*Exporter)(nil)

// Exporter implementa billing.InvoiceSheetExporter.
type Exporter struct{}

// NewExporter crea el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// ExportInvoices arma el libro con una fila por factura y una fila por línea de detalle.
func (e *Exporter) ExportInvoices(ctx context.Context, docs []appbilling.InvoiceDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetFacturas); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if _, err := f.NewSheet(SheetDetalles); err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"00467F"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	amounts, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	if err := writeHeader(f, SheetFacturas, facturasHeader, header); err != nil {
		return nil, err
	}
	if err := writeHeader(f, SheetDetalles, detallesHeader, header); err != nil {
		return nil, err
	}

	invRow, detRow := 2, 2
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inv := doc.Invoice
		var cliente string
		var nit int64
		if doc.Client != nil {
			cliente, nit = doc.Client.FullName(), doc.Client.NIT
		}
		values := []any{
			inv.NumeroFactura, inv.Serie, inv.FechaEmision.Format("2006-01-02"),
			inv.TipoComprobante.String(), inv.Estado.String(), cliente, nit,
			amount(inv.Subtotal), amount(inv.IVA), amount(inv.IT), amount(inv.Total), inv.Observaciones,
		}
		if err := setRow(f, SheetFacturas, invRow, values); err != nil {
			return nil, err
		}
		if err := styleRange(f, SheetFacturas, invRow, 8, 11, amounts); err != nil {
			return nil, err
		}
		invRow++

		for i, d := range inv.Detalles {
			values := []any{
				inv.NumeroFactura, i + 1, d.CodigoProducto, d.Descripcion, d.Cantidad, d.UnidadMedida,
				amount(d.PrecioUnitario), amount(d.Descuento), amount(d.Subtotal),
			}
			if err := setRow(f, SheetDetalles, detRow, values); err != nil {
				return nil, err
			}
			if err := styleRange(f, SheetDetalles, detRow, 7, 9, amounts); err != nil {
				return nil, err
			}
			detRow++
		}
	}

	_ = f.SetColWidth(SheetFacturas, "A", "A", 16)
	_ = f.SetColWidth(SheetFacturas, "F", "F", 30)
	_ = f.SetColWidth(SheetDetalles, "D", "D", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, cols []any, style int) error {
	if err := setRow(f, sheet, 1, cols); err != nil {
		return err
	}
	return styleRange(f, sheet, 1, 1, len(cols), style)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx: fila %d de %s: %w", row, sheet, err)
	}
	return nil
}

func styleRange(f *excelize.File, sheet string, row, fromCol, toCol, style int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

// amount las celdas numéricas de Excel son float64; el valor ya viene redondeado a 2 decimales.
func amount(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
