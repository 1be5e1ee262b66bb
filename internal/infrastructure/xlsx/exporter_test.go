package xlsx

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	appbilling "github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

func invoiceDoc(numero string, estado entity.InvoiceStatus) appbilling.InvoiceDocument {
	inv := &entity.Invoice{
		ID: numero, NumeroFactura: numero, Serie: "FAC",
		FechaEmision: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Subtotal: decimal.NewFromInt(335), IVA: decimal.RequireFromString("43.55"),
		IT: decimal.RequireFromString("10.05"), Total: decimal.RequireFromString("388.60"),
		Estado: estado, TipoComprobante: entity.VoucherFactura,
	}
	inv.AddDetail(entity.InvoiceDetail{Descripcion: "Servicio", Cantidad: 2,
		PrecioUnitario: decimal.NewFromInt(100), Subtotal: decimal.NewFromInt(200), UnidadMedida: "UND"})
	inv.AddDetail(entity.InvoiceDetail{Descripcion: "Repuesto", Cantidad: 3,
		PrecioUnitario: decimal.NewFromInt(50), Descuento: decimal.NewFromInt(15), Subtotal: decimal.NewFromInt(135)})
	return appbilling.InvoiceDocument{
		Invoice: inv,
		Client:  &entity.Client{Nombre: "Ana", Apellido: "Rojas", NIT: 1234567890},
	}
}

func TestExportInvoices(t *testing.T) {
	docs := []appbilling.InvoiceDocument{
		invoiceDoc("FAC-00000002", entity.InvoiceStatusPagada),
		invoiceDoc("FAC-00000001", entity.InvoiceStatusEmitida),
	}
	out, err := NewExporter().ExportInvoices(context.Background(), docs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetFacturas, SheetDetalles}, f.GetSheetList())

	rows, err := f.GetRows(SheetFacturas)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Número", rows[0][0])
	assert.Equal(t, "FAC-00000002", rows[1][0])
	assert.Equal(t, "PAGADA", rows[1][4])
	assert.Equal(t, "Ana Rojas", rows[1][5])
	assert.Equal(t, "1234567890", rows[1][6])

	total, err := f.GetCellValue(SheetFacturas, "K2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "388.6", total)

	detalles, err := f.GetRows(SheetDetalles)
	require.NoError(t, err)
	assert.Len(t, detalles, 5)
	assert.Equal(t, "FAC-00000001", detalles[3][0])
	assert.Equal(t, "1", detalles[3][1])
	assert.Equal(t, "Repuesto", detalles[4][3])
}

func TestExportInvoices_SinFacturas(t *testing.T) {
	out, err := NewExporter().ExportInvoices(context.Background(), nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetFacturas)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExportInvoices_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewExporter().ExportInvoices(ctx, []appbilling.InvoiceDocument{invoiceDoc("FAC-00000001", entity.InvoiceStatusEmitida)})
	assert.ErrorIs(t, err, context.Canceled)
}
