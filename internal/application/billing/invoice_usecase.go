package billing

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	rules "github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
	"github.com/jhoicas/Facturacion-api/pkg/money"
)

const (
	maxSerieLen         = 10
	maxObservacionesLen = 500
)

// InvoiceUseCase ciclo de vida de la factura: creación numerada, consultas y cambios de estado.
type InvoiceUseCase struct {
	tx  TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(tx TxRunner, log *logger.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{tx: tx, log: log, now: time.Now}
}

// Create crea la factura en BORRADOR.
// El número se asigna dentro de la transacción, con la serie bloqueada hasta el commit:
// dos altas concurrentes en la misma serie nunca reciben el mismo consecutivo.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.buildDraft(in)
	if err != nil {
		return nil, err
	}

	var client *entity.Client
	err = uc.tx.Run(ctx, func(r Repos) error {
		var err error
		client, err = r.Clients.GetByID(ctx, inv.ClientID)
		if err != nil {
			return err
		}
		if !client.Activo {
			return fmt.Errorf("%w: el cliente %s está inactivo", domain.ErrInvalidInput, client.FullName())
		}
		if err := r.Invoices.LockSeries(ctx, inv.Serie); err != nil {
			return err
		}
		last, err := r.Invoices.MaxSequenceForSeries(ctx, inv.Serie)
		if err != nil {
			return err
		}
		inv.NumeroFactura = rules.NextInvoiceNumber(inv.Serie, last)
		if err := rules.ValidateInvoice(inv); err != nil {
			return err
		}
		return r.Invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("numero", inv.NumeroFactura).
		Str("serie", inv.Serie).
		Str("total", money.Format(inv.Total)).
		Msg("factura creada")
	return toInvoiceResponse(inv, client), nil
}

// buildDraft valida la entrada y arma la factura con detalles y totales calculados.
func (uc *InvoiceUseCase) buildDraft(in dto.CreateInvoiceRequest) (*entity.Invoice, error) {
	serie := strings.TrimSpace(in.Serie)
	switch {
	case serie == "":
		return nil, fmt.Errorf("%w: la serie es obligatoria", domain.ErrInvalidInput)
	case utf8.RuneCountInString(serie) > maxSerieLen:
		return nil, fmt.Errorf("%w: la serie admite hasta %d caracteres", domain.ErrInvalidInput, maxSerieLen)
	case strings.IndexFunc(serie, unicode.IsSpace) >= 0:
		return nil, fmt.Errorf("%w: la serie no puede contener espacios", domain.ErrInvalidInput)
	case strings.TrimSpace(in.ClientID) == "":
		return nil, fmt.Errorf("%w: el cliente es obligatorio", domain.ErrInvalidInput)
	case utf8.RuneCountInString(in.Observaciones) > maxObservacionesLen:
		return nil, fmt.Errorf("%w: observaciones admite hasta %d caracteres", domain.ErrInvalidInput, maxObservacionesLen)
	case len(in.Detalles) == 0:
		return nil, fmt.Errorf("%w: la factura debe tener al menos un detalle", domain.ErrInvalidInput)
	}
	tipo, err := entity.ParseVoucherType(in.TipoComprobante)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	now := uc.now()
	fecha := dateOnly(now)
	if in.FechaEmision != "" {
		fecha, err = parseDate(in.FechaEmision)
		if err != nil {
			return nil, err
		}
	}

	inv := &entity.Invoice{
		ID:              uuid.New().String(),
		Serie:           serie,
		FechaEmision:    fecha,
		ClientID:        strings.TrimSpace(in.ClientID),
		Estado:          entity.InvoiceStatusBorrador,
		TipoComprobante: tipo,
		Observaciones:   strings.TrimSpace(in.Observaciones),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for i, item := range in.Detalles {
		d, err := rules.NewDetail(rules.LineInput{
			Descripcion:    item.Descripcion,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Descuento:      item.Descuento,
			UnidadMedida:   item.UnidadMedida,
			CodigoProducto: item.CodigoProducto,
		})
		if err != nil {
			return nil, fmt.Errorf("detalle %d: %w", i+1, err)
		}
		inv.AddDetail(d)
	}
	rules.ApplyTotals(inv)
	return inv, nil
}

// GetByID obtiene la factura con sus detalles.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.get(ctx, func(r Repos) (*entity.Invoice, error) { return r.Invoices.GetByID(ctx, id) })
}

// GetByNumber obtiene la factura por su número (FAC-00000001).
func (uc *InvoiceUseCase) GetByNumber(ctx context.Context, numero string) (*dto.InvoiceResponse, error) {
	numero = strings.TrimSpace(numero)
	return uc.get(ctx, func(r Repos) (*entity.Invoice, error) { return r.Invoices.GetByNumber(ctx, numero) })
}

func (uc *InvoiceUseCase) get(ctx context.Context, fn func(Repos) (*entity.Invoice, error)) (*dto.InvoiceResponse, error) {
	var (
		inv    *entity.Invoice
		client *entity.Client
	)
	err := uc.tx.RunReadOnly(ctx, func(r Repos) error {
		var err error
		if inv, err = fn(r); err != nil {
			return err
		}
		client, err = r.Clients.GetByID(ctx, inv.ClientID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, client), nil
}

// List lista todas las facturas.
func (uc *InvoiceUseCase) List(ctx context.Context) ([]*dto.InvoiceResponse, error) {
	return uc.list(ctx, func(r Repos) ([]*entity.Invoice, error) { return r.Invoices.List(ctx) })
}

// ListByClient lista las facturas de un cliente. 404 si el cliente no existe.
func (uc *InvoiceUseCase) ListByClient(ctx context.Context, clientID string) ([]*dto.InvoiceResponse, error) {
	return uc.list(ctx, func(r Repos) ([]*entity.Invoice, error) {
		if _, err := r.Clients.GetByID(ctx, clientID); err != nil {
			return nil, err
		}
		return r.Invoices.ListByClient(ctx, clientID)
	})
}

// ListByStatus lista las facturas en un estado.
func (uc *InvoiceUseCase) ListByStatus(ctx context.Context, raw string) ([]*dto.InvoiceResponse, error) {
	estado, err := entity.ParseInvoiceStatus(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return uc.list(ctx, func(r Repos) ([]*entity.Invoice, error) { return r.Invoices.ListByStatus(ctx, estado) })
}

// ListByDateRange lista las facturas emitidas entre dos fechas (YYYY-MM-DD), ambas incluidas.
func (uc *InvoiceUseCase) ListByDateRange(ctx context.Context, start, end string) ([]*dto.InvoiceResponse, error) {
	desde, hasta, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}
	return uc.list(ctx, func(r Repos) ([]*entity.Invoice, error) { return r.Invoices.ListByDateRange(ctx, desde, hasta) })
}

func (uc *InvoiceUseCase) list(ctx context.Context, fn func(Repos) ([]*entity.Invoice, error)) ([]*dto.InvoiceResponse, error) {
	var list []*entity.Invoice
	err := uc.tx.RunReadOnly(ctx, func(r Repos) error {
		var err error
		list, err = fn(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponses(list), nil
}

// UpdateStatus cambio de estado genérico según la tabla de transiciones.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, id, raw string) (*dto.InvoiceResponse, error) {
	to, err := entity.ParseInvoiceStatus(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return uc.changeStatus(ctx, id, "cambio de estado", func(inv *entity.Invoice) error {
		return rules.Transition(inv, to)
	})
}

// Emit emite un borrador.
func (uc *InvoiceUseCase) Emit(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.changeStatus(ctx, id, "emisión", rules.Emit)
}

// Cancel anula una factura en BORRADOR o EMITIDA.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.changeStatus(ctx, id, "anulación", rules.Cancel)
}

// changeStatus carga la factura, aplica la regla y persiste el nuevo estado.
// Si la regla falla no se escribe nada.
func (uc *InvoiceUseCase) changeStatus(ctx context.Context, id, action string, apply func(*entity.Invoice) error) (*dto.InvoiceResponse, error) {
	var (
		inv    *entity.Invoice
		client *entity.Client
		from   entity.InvoiceStatus
	)
	err := uc.tx.Run(ctx, func(r Repos) error {
		var err error
		if inv, err = r.Invoices.GetByID(ctx, id); err != nil {
			return err
		}
		from = inv.Estado
		if err := apply(inv); err != nil {
			return err
		}
		if err := r.Invoices.UpdateStatus(ctx, inv.ID, inv.Estado); err != nil {
			return err
		}
		inv.UpdatedAt = uc.now()
		client, err = r.Clients.GetByID(ctx, inv.ClientID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("numero", inv.NumeroFactura).
		Str("from", from.String()).
		Str("to", inv.Estado.String()).
		Msg(action)
	return toInvoiceResponse(inv, client), nil
}

// Delete elimina un borrador junto con sus detalles.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	var numero string
	err := uc.tx.Run(ctx, func(r Repos) error {
		inv, err := r.Invoices.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := rules.EnsureDeletable(inv); err != nil {
			return err
		}
		numero = inv.NumeroFactura
		return r.Invoices.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("numero", numero).Msg("factura eliminada")
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q inválida, use YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	desde, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	hasta, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if hasta.Before(desde) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: la fecha final es anterior a la inicial", domain.ErrInvalidInput)
	}
	return desde, hasta, nil
}
