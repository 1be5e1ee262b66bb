package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, nombre, apellido, nit, email,
		COALESCE(telefono, ''), COALESCE(direccion, ''), COALESCE(ciudad, ''), COALESCE(departamento, ''),
		activo, created_at, updated_at`

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (id, nombre, apellido, nit, email, telefono, direccion, ciudad, departamento, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Nombre, c.Apellido, c.NIT, c.Email,
		nullIfEmpty(c.Telefono), nullIfEmpty(c.Direccion), nullIfEmpty(c.Ciudad), nullIfEmpty(c.Departamento),
		c.Activo, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return clientConflict(err, c)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// Update actualiza todos los campos editables del cliente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients
		SET nombre = $2, apellido = $3, nit = $4, email = $5, telefono = $6,
		    direccion = $7, ciudad = $8, departamento = $9, activo = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Nombre, c.Apellido, c.NIT, c.Email, nullIfEmpty(c.Telefono),
		nullIfEmpty(c.Direccion), nullIfEmpty(c.Ciudad), nullIfEmpty(c.Departamento), c.Activo, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return clientConflict(err, c)
		}
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("cliente", "id", c.ID)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("cliente", "id", id)
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// GetByNIT obtiene un cliente por NIT.
func (r *ClientRepo) GetByNIT(ctx context.Context, nit int64) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE nit = $1`, nit))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("cliente", "NIT", nit)
		}
		return nil, fmt.Errorf("get client by nit: %w", err)
	}
	return c, nil
}

// ExistsByNIT indica si ya hay un cliente con ese NIT.
func (r *ClientRepo) ExistsByNIT(ctx context.Context, nit int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE nit = $1)`, nit)
}

// ExistsByEmail indica si ya hay un cliente con ese email (sin distinguir mayúsculas).
func (r *ClientRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE lower(email) = lower($1))`, email)
}

// HasInvoices indica si el cliente tiene facturas.
func (r *ClientRepo) HasInvoices(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE client_id = $1)`, id)
}

func (r *ClientRepo) exists(ctx context.Context, query string, arg any) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, query, arg).Scan(&ok); err != nil {
		return false, fmt.Errorf("client exists: %w", err)
	}
	return ok, nil
}

// List lista todos los clientes ordenados por apellido y nombre.
func (r *ClientRepo) List(ctx context.Context) ([]*entity.Client, error) {
	return r.list(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY apellido, nombre`)
}

// ListActive lista los clientes activos.
func (r *ClientRepo) ListActive(ctx context.Context) ([]*entity.Client, error) {
	return r.list(ctx, `SELECT `+clientColumns+` FROM clients WHERE activo ORDER BY apellido, nombre`)
}

// Search coincidencia parcial sin distinguir mayúsculas sobre nombre, apellido y NIT.
func (r *ClientRepo) Search(ctx context.Context, query string) ([]*entity.Client, error) {
	sql := `SELECT ` + clientColumns + ` FROM clients
		WHERE nombre ILIKE $1 OR apellido ILIKE $1 OR nit::text LIKE $1
		ORDER BY apellido, nombre`
	return r.list(ctx, sql, likePattern(strings.TrimSpace(query)))
}

func (r *ClientRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Delete elimina físicamente el cliente.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el cliente tiene facturas asociadas", domain.ErrConflict)
		}
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("cliente", "id", id)
	}
	return nil
}

func scanClient(row scanner) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(
		&c.ID, &c.Nombre, &c.Apellido, &c.NIT, &c.Email,
		&c.Telefono, &c.Direccion, &c.Ciudad, &c.Departamento,
		&c.Activo, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// clientConflict traduce la violación de unicidad al campo que colisionó.
func clientConflict(err error, c *entity.Client) error {
	if strings.Contains(constraintName(err), "email") {
		return domain.NewConflict("cliente", "email", c.EmailValue())
	}
	return domain.NewConflict("cliente", "NIT", c.NIT)
}
