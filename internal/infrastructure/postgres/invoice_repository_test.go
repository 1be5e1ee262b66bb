package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

var invoiceRowColumns = []string{
	"id", "numero_factura", "serie", "fecha_emision", "client_id",
	"subtotal", "iva", "it", "total", "estado", "tipo_comprobante", "observaciones",
	"created_at", "updated_at",
}

var detailRowColumns = []string{
	"id", "invoice_id", "descripcion", "cantidad", "precio_unitario", "descuento", "subtotal",
	"unidad_medida", "codigo_producto",
}

type InvoiceRepoTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo *InvoiceRepo
	ctx  context.Context
	now  time.Time
	day  time.Time
}

func (s *InvoiceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	s.Require().NoError(err)
	s.mock = mock
	s.repo = NewInvoiceRepository(mock)
	s.ctx = context.Background()
	s.now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	s.day = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
}

func (s *InvoiceRepoTestSuite) TearDownTest() {
	s.Require().NoError(s.mock.ExpectationsWereMet())
	s.mock.Close()
}

func TestInvoiceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceRepoTestSuite))
}

func (s *InvoiceRepoTestSuite) invoice() *entity.Invoice {
	inv := &entity.Invoice{
		ID: "i1", NumeroFactura: "FAC-00000001", Serie: "FAC", FechaEmision: s.day, ClientID: "c1",
		Subtotal: decimal.NewFromInt(335), IVA: decimal.RequireFromString("43.55"),
		IT: decimal.RequireFromString("10.05"), Total: decimal.RequireFromString("388.60"),
		Estado: entity.InvoiceStatusBorrador, TipoComprobante: entity.VoucherFactura,
		CreatedAt: s.now, UpdatedAt: s.now,
	}
	inv.AddDetail(entity.InvoiceDetail{
		ID: "d1", Descripcion: "Servicio", Cantidad: 2, PrecioUnitario: decimal.NewFromInt(100),
		Descuento: decimal.Zero, Subtotal: decimal.NewFromInt(200), UnidadMedida: "UND",
	})
	inv.AddDetail(entity.InvoiceDetail{
		ID: "d2", Descripcion: "Repuesto", Cantidad: 3, PrecioUnitario: decimal.NewFromInt(50),
		Descuento: decimal.NewFromInt(15), Subtotal: decimal.NewFromInt(135),
	})
	return inv
}

func (s *InvoiceRepoTestSuite) TestCreate_CabeceraYDetallesEnOrden() {
	inv := s.invoice()
	d1, d2 := inv.Detalles[0], inv.Detalles[1]
	s.mock.ExpectExec(`INSERT INTO invoices`).
		WithArgs(inv.ID, inv.NumeroFactura, inv.Serie, inv.FechaEmision, inv.ClientID,
			inv.Subtotal, inv.IVA, inv.IT, inv.Total, "BORRADOR", "FACTURA", noText, s.now, s.now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	s.mock.ExpectExec(`INSERT INTO invoice_details`).
		WithArgs("d1", "i1", 1, d1.Descripcion, 2, d1.PrecioUnitario, d1.Descuento, d1.Subtotal, nullIfEmpty("UND"), noText).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	s.mock.ExpectExec(`INSERT INTO invoice_details`).
		WithArgs("d2", "i1", 2, d2.Descripcion, 3, d2.PrecioUnitario, d2.Descuento, d2.Subtotal, noText, noText).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	s.NoError(s.repo.Create(s.ctx, inv))
}

func (s *InvoiceRepoTestSuite) TestCreate_NumeroDuplicado() {
	s.mock.ExpectExec(`INSERT INTO invoices`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "invoices_numero_factura_key"})

	err := s.repo.Create(s.ctx, s.invoice())
	s.True(errors.Is(err, domain.ErrConflict))
	s.Contains(err.Error(), "FAC-00000001")
}

func (s *InvoiceRepoTestSuite) TestCreate_ClienteInexistente() {
	s.mock.ExpectExec(`INSERT INTO invoices`).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	s.True(errors.Is(s.repo.Create(s.ctx, s.invoice()), domain.ErrNotFound))
}

func (s *InvoiceRepoTestSuite) TestCreate_FallaDetalle() {
	s.mock.ExpectExec(`INSERT INTO invoices`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	s.mock.ExpectExec(`INSERT INTO invoice_details`).WillReturnError(errors.New("boom"))

	err := s.repo.Create(s.ctx, s.invoice())
	s.Require().Error(err)
	s.Contains(err.Error(), "insert invoice detail 1")
}

func (s *InvoiceRepoTestSuite) TestGetByID_ConDetalles() {
	s.mock.ExpectQuery(`FROM invoices WHERE id = \$1`).
		WithArgs("i1").
		WillReturnRows(pgxmock.NewRows(invoiceRowColumns).AddRow(
			"i1", "FAC-00000001", "FAC", s.day, "c1",
			decimal.NewFromInt(200), decimal.NewFromInt(26), decimal.NewFromInt(6), decimal.NewFromInt(232),
			"EMITIDA", "FACTURA", "", s.now, s.now))
	s.mock.ExpectQuery(regexp.QuoteMeta(`FROM invoice_details WHERE invoice_id = ANY($1)`)).
		WithArgs([]string{"i1"}).
		WillReturnRows(pgxmock.NewRows(detailRowColumns).AddRow(
			"d1", "i1", "Servicio", 2, decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(200), "UND", ""))

	inv, err := s.repo.GetByID(s.ctx, "i1")
	s.Require().NoError(err)
	s.Equal(entity.InvoiceStatusEmitida, inv.Estado)
	s.Equal(entity.VoucherFactura, inv.TipoComprobante)
	s.Require().Len(inv.Detalles, 1)
	s.Equal("Servicio", inv.Detalles[0].Descripcion)
	s.True(inv.Total.Equal(decimal.NewFromInt(232)))
}

func (s *InvoiceRepoTestSuite) TestGetByNumber_NotFound() {
	s.mock.ExpectQuery(`FROM invoices WHERE numero_factura = \$1`).
		WithArgs("FAC-00000099").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.repo.GetByNumber(s.ctx, "FAC-00000099")
	s.True(errors.Is(err, domain.ErrNotFound))
	s.Equal("factura no encontrado con número: 'FAC-00000099'", err.Error())
}

func (s *InvoiceRepoTestSuite) TestList_VacioNoConsultaDetalles() {
	s.mock.ExpectQuery(`FROM invoices\s+ORDER BY fecha_emision DESC`).
		WillReturnRows(pgxmock.NewRows(invoiceRowColumns))

	list, err := s.repo.List(s.ctx)
	s.NoError(err)
	s.NotNil(list)
	s.Empty(list)
}

func (s *InvoiceRepoTestSuite) TestListByStatus() {
	s.mock.ExpectQuery(`WHERE estado = \$1`).
		WithArgs("PAGADA").
		WillReturnRows(pgxmock.NewRows(invoiceRowColumns).AddRow(
			"i2", "FAC-00000002", "FAC", s.day, "c1",
			decimal.NewFromInt(10), decimal.RequireFromString("1.30"), decimal.RequireFromString("0.30"),
			decimal.RequireFromString("11.60"), "PAGADA", "RECIBO", "pagado", s.now, s.now))
	s.mock.ExpectQuery(`FROM invoice_details`).
		WithArgs([]string{"i2"}).
		WillReturnRows(pgxmock.NewRows(detailRowColumns))

	list, err := s.repo.ListByStatus(s.ctx, entity.InvoiceStatusPagada)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(entity.VoucherRecibo, list[0].TipoComprobante)
	s.Equal("pagado", list[0].Observaciones)
	s.Empty(list[0].Detalles)
}

func (s *InvoiceRepoTestSuite) TestListByDateRange() {
	desde := s.day
	hasta := s.day.AddDate(0, 0, 30)
	s.mock.ExpectQuery(`WHERE fecha_emision BETWEEN \$1 AND \$2`).
		WithArgs(desde, hasta).
		WillReturnRows(pgxmock.NewRows(invoiceRowColumns))

	list, err := s.repo.ListByDateRange(s.ctx, desde, hasta)
	s.NoError(err)
	s.Empty(list)
}

func (s *InvoiceRepoTestSuite) TestMaxSequenceForSeries() {
	s.mock.ExpectQuery(`SUBSTRING\(numero_factura FROM \$2\)`).
		WithArgs("F.1", 5, `^F\.1-[0-9]+$`).
		WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow(int64(42)))

	last, err := s.repo.MaxSequenceForSeries(s.ctx, "F.1")
	s.NoError(err)
	s.Equal(int64(42), last)
}

func (s *InvoiceRepoTestSuite) TestMaxSequenceForSeries_SerieNoASCII() {
	// "FAÑ-" ocupa 4 caracteres (5 bytes): el consecutivo empieza en el carácter 5.
	s.mock.ExpectQuery(`SUBSTRING\(numero_factura FROM \$2\)`).
		WithArgs("FAÑ", 5, `^FAÑ-[0-9]+$`).
		WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow(int64(1000)))
	s.mock.ExpectQuery(`SUBSTRING\(numero_factura FROM \$2\)`).
		WithArgs("ÑÑÑÑÑ", 7, `^ÑÑÑÑÑ-[0-9]+$`).
		WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow(int64(0)))

	last, err := s.repo.MaxSequenceForSeries(s.ctx, "FAÑ")
	s.NoError(err)
	s.Equal(int64(1000), last)

	last, err = s.repo.MaxSequenceForSeries(s.ctx, "ÑÑÑÑÑ")
	s.NoError(err)
	s.Equal(int64(0), last)
}

func (s *InvoiceRepoTestSuite) TestLockSeries() {
	s.mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock(hashtext($1))`)).
		WithArgs("invoice_series:FAC").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	s.NoError(s.repo.LockSeries(s.ctx, "FAC"))
}

func (s *InvoiceRepoTestSuite) TestUpdateStatus() {
	s.mock.ExpectExec(`UPDATE invoices SET estado = \$2`).
		WithArgs("i1", "EMITIDA").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	s.mock.ExpectExec(`UPDATE invoices SET estado = \$2`).
		WithArgs("i9", "EMITIDA").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	s.NoError(s.repo.UpdateStatus(s.ctx, "i1", entity.InvoiceStatusEmitida))
	s.True(errors.Is(s.repo.UpdateStatus(s.ctx, "i9", entity.InvoiceStatusEmitida), domain.ErrNotFound))
}

func (s *InvoiceRepoTestSuite) TestDelete_NotFound() {
	s.mock.ExpectExec(`DELETE FROM invoices`).
		WithArgs("i9").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	s.True(errors.Is(s.repo.Delete(s.ctx, "i9"), domain.ErrNotFound))
}
