// Package pdf genera la representación gráfica de una factura con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + NIT        │  N° Factura + Fecha + Estado │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + NIT + contacto                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Descripción | Cant. | P.Unit. | Desc. | Subtotal │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / IVA 13% / IT 3% / TOTAL                 │
//	│  OBSERVACIONES                                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAnulada = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(ctx context.Context, doc appbilling.InvoiceDocument) ([]byte, error) {
	if doc.Invoice == nil || doc.Client == nil {
		return nil, fmt.Errorf("pdf: factura o cliente ausente")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inv := doc.Invoice

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+inv.NumeroFactura, true).
		WithAuthor(nonEmpty(doc.Issuer.Name, "Facturación"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv, doc.Issuer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(doc.Client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(inv.Detalles)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv))

	if inv.Observaciones != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(observacionesRow(inv.Observaciones))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq) y número, tipo, fecha y estado (der).
func headerRow(inv *entity.Invoice, issuer appbilling.Issuer) core.Row {
	estadoColor := colorGray
	if inv.Estado == entity.InvoiceStatusAnulada {
		estadoColor = colorAnulada
	}
	return row.New(24).Add(
		col.New(7).Add(
			text.New(nonEmpty(issuer.Name, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+nonEmpty(issuer.NIT, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(voucherTitle(inv.TipoComprobante), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.NumeroFactura, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Serie: "+inv.Serie+"   Fecha: "+inv.FechaEmision.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Estado: "+inv.Estado.String(), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 18, Color: estadoColor,
			}),
		),
	)
}

// clientRow: datos del cliente facturado.
func clientRow(c *entity.Client) core.Row {
	return row.New(20).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.FullName(), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NIT: %d   |   Email: %s   |   Tel: %s",
				c.NIT,
				nonEmpty(c.EmailValue(), "—"),
				nonEmpty(c.Telefono, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New(fmt.Sprintf("Dirección: %s   |   %s",
				nonEmpty(c.Direccion, "—"),
				joinPlace(c.Ciudad, c.Departamento),
			), props.Text{Size: 8, Top: 16, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de detalles.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Descripción", 4, align.Left),
		h("Cant.", 1, align.Center),
		h("P.Unit.", 2, align.Right),
		h("Desc.", 2, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea, en el orden de la factura.
func tableDetailRows(details []entity.InvoiceDetail) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	result := make([]core.Row, 0, len(details))
	for i, d := range details {
		desc := d.Descripcion
		if d.CodigoProducto != "" {
			desc = "[" + d.CodigoProducto + "] " + desc
		}
		result = append(result, row.New(7).Add(
			cell(strconv.Itoa(i+1), 1, align.Center),
			cell(desc, 4, align.Left),
			cell(strconv.Itoa(d.Cantidad)+" "+d.UnidadMedida, 1, align.Center),
			cell(money.FormatThousands(d.PrecioUnitario), 2, align.Right),
			cell(money.FormatThousands(d.Descuento), 2, align.Right),
			cell(money.FormatThousands(d.Subtotal), 2, align.Right),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(inv *entity.Invoice) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top,
		})
	}

	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("IVA 13%:", 6),
			label("IT 3%:", 11),
			grand("TOTAL:", 17),
		),
		col.New(3).Add(
			value(money.FormatThousands(inv.Subtotal), 1),
			value(money.FormatThousands(inv.IVA), 6),
			value(money.FormatThousands(inv.IT), 11),
			grand(money.FormatThousands(inv.Total), 17),
		),
	)
}

func observacionesRow(obs string) core.Row {
	return row.New(14).Add(col.New(12).Add(
		text.New("OBSERVACIONES", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(obs, props.Text{Size: 8, Top: 6, Color: colorGray}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func voucherTitle(t entity.VoucherType) string {
	switch t {
	case entity.VoucherNotaCredito:
		return "NOTA DE CRÉDITO"
	case entity.VoucherNotaDebito:
		return "NOTA DE DÉBITO"
	case entity.VoucherRecibo:
		return "RECIBO"
	}
	return "FACTURA"
}

func joinPlace(ciudad, depto string) string {
	switch {
	case ciudad != "" && depto != "":
		return ciudad + ", " + depto
	case ciudad != "":
		return ciudad
	}
	return nonEmpty(depto, "—")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
