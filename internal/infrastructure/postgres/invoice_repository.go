package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	rules "github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// seriesLockPrefix espacio de nombres de los advisory locks de numeración.
const seriesLockPrefix = "invoice_series:"

const invoiceColumns = `id, numero_factura, serie, fecha_emision, client_id,
		subtotal, iva, it, total, estado, tipo_comprobante, COALESCE(observaciones, ''),
		created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera y sus detalles en el orden recibido.
// Debe ejecutarse dentro de una transacción para que cabecera y detalles sean atómicos.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, numero_factura, serie, fecha_emision, client_id,
		                      subtotal, iva, it, total, estado, tipo_comprobante, observaciones,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.NumeroFactura, inv.Serie, inv.FechaEmision, inv.ClientID,
		inv.Subtotal, inv.IVA, inv.IT, inv.Total, inv.Estado.String(), inv.TipoComprobante.String(),
		nullIfEmpty(inv.Observaciones), inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.NewConflict("factura", "número", inv.NumeroFactura)
		case isForeignKeyViolation(err):
			return domain.NewNotFound("cliente", "id", inv.ClientID)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	for i, d := range inv.Detalles {
		if err := r.createDetail(ctx, i+1, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *InvoiceRepo) createDetail(ctx context.Context, linea int, d entity.InvoiceDetail) error {
	query := `
		INSERT INTO invoice_details (id, invoice_id, linea, descripcion, cantidad, precio_unitario,
		                             descuento, subtotal, unidad_medida, codigo_producto)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.InvoiceID, linea, d.Descripcion, d.Cantidad, d.PrecioUnitario,
		d.Descuento, d.Subtotal, nullIfEmpty(d.UnidadMedida), nullIfEmpty(d.CodigoProducto),
	)
	if err != nil {
		return fmt.Errorf("insert invoice detail %d: %w", linea, err)
	}
	return nil
}

// UpdateStatus cambia solo el estado (y updated_at).
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id string, estado entity.InvoiceStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE invoices SET estado = $2, updated_at = now() WHERE id = $1`, id, estado.String())
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("factura", "id", id)
	}
	return nil
}

// GetByID obtiene una factura completa por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, "id", id)
}

// GetByNumber obtiene una factura completa por su número.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, numero string) (*entity.Invoice, error) {
	return r.getOne(ctx, "numero_factura", numero)
}

// getOne column es siempre un literal interno, nunca entrada del usuario.
func (r *InvoiceRepo) getOne(ctx context.Context, column, value string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE ` + column + ` = $1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			field := column
			if column == "numero_factura" {
				field = "número"
			}
			return nil, domain.NewNotFound("factura", field, value)
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if err := r.attachDetails(ctx, []*entity.Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

// List lista todas las facturas, más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context) ([]*entity.Invoice, error) {
	return r.list(ctx, ``)
}

// ListByClient lista las facturas de un cliente.
func (r *InvoiceRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Invoice, error) {
	return r.list(ctx, `WHERE client_id = $1`, clientID)
}

// ListByStatus lista las facturas en un estado.
func (r *InvoiceRepo) ListByStatus(ctx context.Context, estado entity.InvoiceStatus) ([]*entity.Invoice, error) {
	return r.list(ctx, `WHERE estado = $1`, estado.String())
}

// ListByDateRange lista por fecha de emisión, extremos incluidos.
func (r *InvoiceRepo) ListByDateRange(ctx context.Context, desde, hasta time.Time) ([]*entity.Invoice, error) {
	return r.list(ctx, `WHERE fecha_emision BETWEEN $1 AND $2`, desde, hasta)
}

func (r *InvoiceRepo) list(ctx context.Context, where string, args ...any) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ` + where + ` ORDER BY fecha_emision DESC, numero_factura DESC`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	list := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	if err := r.attachDetails(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachDetails carga con una sola consulta los detalles de todas las facturas dadas.
func (r *InvoiceRepo) attachDetails(ctx context.Context, invoices []*entity.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Invoice, len(invoices))
	ids := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
		ids = append(ids, inv.ID)
	}
	query := `
		SELECT id, invoice_id, descripcion, cantidad, precio_unitario, descuento, subtotal,
		       COALESCE(unidad_medida, ''), COALESCE(codigo_producto, '')
		FROM invoice_details WHERE invoice_id = ANY($1) ORDER BY invoice_id, linea`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list invoice details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.InvoiceDetail
		if err := rows.Scan(&d.ID, &d.InvoiceID, &d.Descripcion, &d.Cantidad, &d.PrecioUnitario,
			&d.Descuento, &d.Subtotal, &d.UnidadMedida, &d.CodigoProducto); err != nil {
			return fmt.Errorf("scan detail: %w", err)
		}
		if inv, ok := byID[d.InvoiceID]; ok {
			inv.Detalles = append(inv.Detalles, d)
		}
	}
	return rows.Err()
}

// MaxSequenceForSeries mayor consecutivo numérico usado en la serie; 0 si no hay facturas.
// Ignora números que no sigan el formato "<serie>-<dígitos>". SUBSTRING cuenta caracteres,
// por eso el inicio se calcula en runas y no en bytes.
func (r *InvoiceRepo) MaxSequenceForSeries(ctx context.Context, serie string) (int64, error) {
	query := `
		SELECT COALESCE(MAX(CAST(SUBSTRING(numero_factura FROM $2) AS BIGINT)), 0)
		FROM invoices
		WHERE serie = $1 AND numero_factura ~ $3`
	pattern := "^" + regexp.QuoteMeta(serie) + "-[0-9]+$"
	var last int64
	if err := r.q.QueryRow(ctx, query, serie, rules.SequenceStart(serie), pattern).Scan(&last); err != nil {
		return 0, fmt.Errorf("max sequence for series %s: %w", serie, err)
	}
	return last, nil
}

// LockSeries toma un advisory lock transaccional por serie; se libera en commit o rollback.
func (r *InvoiceRepo) LockSeries(ctx context.Context, serie string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, seriesLockPrefix+serie); err != nil {
		return fmt.Errorf("lock series %s: %w", serie, err)
	}
	return nil
}

// Delete elimina la factura; invoice_details cae por ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("factura", "id", id)
	}
	return nil
}

func scanInvoice(row scanner) (*entity.Invoice, error) {
	var (
		inv          entity.Invoice
		estado, tipo string
	)
	err := row.Scan(
		&inv.ID, &inv.NumeroFactura, &inv.Serie, &inv.FechaEmision, &inv.ClientID,
		&inv.Subtotal, &inv.IVA, &inv.IT, &inv.Total, &estado, &tipo, &inv.Observaciones,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Estado = entity.InvoiceStatus(estado)
	inv.TipoComprobante = entity.VoucherType(tipo)
	return &inv, nil
}
