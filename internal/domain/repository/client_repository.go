package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// Las búsquedas sin resultado devuelven un *domain.NotFoundError.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	Update(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByNIT(ctx context.Context, nit int64) (*entity.Client, error)
	ExistsByNIT(ctx context.Context, nit int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*entity.Client, error)
	ListActive(ctx context.Context) ([]*entity.Client, error)
	// Search coincidencia parcial sin distinguir mayúsculas sobre nombre, apellido y NIT.
	Search(ctx context.Context, query string) ([]*entity.Client, error)
	// Delete borrado físico.
	Delete(ctx context.Context, id string) error
	// HasInvoices indica si el cliente tiene facturas asociadas.
	HasInvoices(ctx context.Context, id string) (bool, error)
}
