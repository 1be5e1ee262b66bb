package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus detalles.
// Todas las lecturas devuelven la factura con sus detalles cargados.
type InvoiceRepository interface {
	// Create inserta la cabecera y todos sus detalles.
	Create(ctx context.Context, invoice *entity.Invoice) error
	UpdateStatus(ctx context.Context, id string, estado entity.InvoiceStatus) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, numero string) (*entity.Invoice, error)
	List(ctx context.Context) ([]*entity.Invoice, error)
	ListByClient(ctx context.Context, clientID string) ([]*entity.Invoice, error)
	ListByStatus(ctx context.Context, estado entity.InvoiceStatus) ([]*entity.Invoice, error)
	// ListByDateRange filtra por fecha de emisión, ambos extremos incluidos.
	ListByDateRange(ctx context.Context, desde, hasta time.Time) ([]*entity.Invoice, error)
	// MaxSequenceForSeries devuelve el mayor consecutivo usado en la serie, 0 si no hay.
	MaxSequenceForSeries(ctx context.Context, serie string) (int64, error)
	// LockSeries serializa la numeración de una serie hasta el fin de la transacción.
	LockSeries(ctx context.Context, serie string) error
	// Delete elimina la factura; los detalles caen en cascada.
	Delete(ctx context.Context, id string) error
}
