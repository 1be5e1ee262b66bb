package billing

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
	"github.com/jhoicas/Facturacion-api/pkg/nit"
)

const maxNameLen = 100

// ClientUseCase casos de uso para clientes: alta, consulta, actualización y bajas.
// NIT y email son únicos; la comprobación se hace dentro de la misma transacción que la escritura.
type ClientUseCase struct {
	tx  TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(tx TxRunner, log *logger.Logger) *ClientUseCase {
	return &ClientUseCase{tx: tx, log: log, now: time.Now}
}

// Create registra un cliente activo.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	fields, err := normalizeClient(in)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		Activo:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	fields.applyTo(client)

	err = uc.tx.Run(ctx, func(r Repos) error {
		if err := ensureUniqueNIT(ctx, r, client.NIT); err != nil {
			return err
		}
		if email := client.EmailValue(); email != "" {
			if err := ensureUniqueEmail(ctx, r, email); err != nil {
				return err
			}
		}
		return r.Clients.Create(ctx, client)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("client_id", client.ID).Int64("nit", client.NIT).Msg("cliente creado")
	return toClientResponse(client), nil
}

// GetByID obtiene un cliente.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	var client *entity.Client
	err := uc.tx.RunReadOnly(ctx, func(r Repos) error {
		var err error
		client, err = r.Clients.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetByNIT obtiene un cliente por su NIT.
func (uc *ClientUseCase) GetByNIT(ctx context.Context, raw string) (*dto.ClientResponse, error) {
	n, err := nit.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	var client *entity.Client
	err = uc.tx.RunReadOnly(ctx, func(r Repos) error {
		var err error
		client, err = r.Clients.GetByNIT(ctx, n)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista todos los clientes.
func (uc *ClientUseCase) List(ctx context.Context) ([]*dto.ClientResponse, error) {
	return uc.list(ctx, func(r Repos) ([]*entity.Client, error) { return r.Clients.List(ctx) })
}

// ListActive lista solo los clientes activos.
func (uc *ClientUseCase) ListActive(ctx context.Context) ([]*dto.ClientResponse, error) {
	return uc.list(ctx, func(r Repos) ([]*entity.Client, error) { return r.Clients.ListActive(ctx) })
}

// Search busca por nombre, apellido o NIT. Una consulta vacía lista todos.
func (uc *ClientUseCase) Search(ctx context.Context, query string) ([]*dto.ClientResponse, error) {
	query = normalizeText(query)
	if query == "" {
		return uc.List(ctx)
	}
	return uc.list(ctx, func(r Repos) ([]*entity.Client, error) { return r.Clients.Search(ctx, query) })
}

func (uc *ClientUseCase) list(ctx context.Context, fn func(Repos) ([]*entity.Client, error)) ([]*dto.ClientResponse, error) {
	var list []*entity.Client
	err := uc.tx.RunReadOnly(ctx, func(r Repos) error {
		var err error
		list, err = fn(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toClientResponses(list), nil
}

// Update modifica los datos del cliente. Solo comprueba unicidad de NIT y email
// cuando cambian respecto del valor guardado.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	fields, err := normalizeClient(in.CreateClientRequest)
	if err != nil {
		return nil, err
	}
	var client *entity.Client
	err = uc.tx.Run(ctx, func(r Repos) error {
		var err error
		client, err = r.Clients.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if fields.nit != client.NIT {
			if err := ensureUniqueNIT(ctx, r, fields.nit); err != nil {
				return err
			}
		}
		if fields.email != "" && !strings.EqualFold(fields.email, client.EmailValue()) {
			if err := ensureUniqueEmail(ctx, r, fields.email); err != nil {
				return err
			}
		}
		fields.applyTo(client)
		if in.Activo != nil {
			client.Activo = *in.Activo
		}
		client.UpdatedAt = uc.now()
		return r.Clients.Update(ctx, client)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("client_id", client.ID).Msg("cliente actualizado")
	return toClientResponse(client), nil
}

// Deactivate baja lógica: el cliente queda con activo=false y conserva sus facturas.
func (uc *ClientUseCase) Deactivate(ctx context.Context, id string) error {
	err := uc.tx.Run(ctx, func(r Repos) error {
		client, err := r.Clients.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !client.Activo {
			return nil
		}
		client.Activo = false
		client.UpdatedAt = uc.now()
		return r.Clients.Update(ctx, client)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("client_id", id).Msg("cliente desactivado")
	return nil
}

// HardDelete elimina físicamente al cliente. Falla si tiene facturas.
func (uc *ClientUseCase) HardDelete(ctx context.Context, id string) error {
	err := uc.tx.Run(ctx, func(r Repos) error {
		if _, err := r.Clients.GetByID(ctx, id); err != nil {
			return err
		}
		has, err := r.Clients.HasInvoices(ctx, id)
		if err != nil {
			return err
		}
		if has {
			return fmt.Errorf("%w: el cliente tiene facturas asociadas, desactívelo en su lugar", domain.ErrConflict)
		}
		return r.Clients.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Warn().Str("client_id", id).Msg("cliente eliminado")
	return nil
}

func ensureUniqueNIT(ctx context.Context, r Repos, n int64) error {
	exists, err := r.Clients.ExistsByNIT(ctx, n)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewConflict("cliente", "NIT", n)
	}
	return nil
}

func ensureUniqueEmail(ctx context.Context, r Repos, email string) error {
	exists, err := r.Clients.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewConflict("cliente", "email", email)
	}
	return nil
}

// clientFields entrada de cliente ya validada y normalizada.
type clientFields struct {
	nombre       string
	apellido     string
	nit          int64
	email        string
	telefono     string
	direccion    string
	ciudad       string
	departamento string
}

func (f clientFields) applyTo(c *entity.Client) {
	c.Nombre = f.nombre
	c.Apellido = f.apellido
	c.NIT = f.nit
	c.Email = nil
	if f.email != "" {
		email := f.email
		c.Email = &email
	}
	c.Telefono = f.telefono
	c.Direccion = f.direccion
	c.Ciudad = f.ciudad
	c.Departamento = f.departamento
}

func normalizeClient(in dto.CreateClientRequest) (clientFields, error) {
	f := clientFields{
		nombre:       normalizeText(in.Nombre),
		apellido:     normalizeText(in.Apellido),
		nit:          in.NIT,
		email:        strings.ToLower(strings.TrimSpace(in.Email)),
		telefono:     strings.TrimSpace(in.Telefono),
		direccion:    normalizeText(in.Direccion),
		ciudad:       normalizeText(in.Ciudad),
		departamento: normalizeText(in.Departamento),
	}
	switch {
	case f.nombre == "" || f.apellido == "":
		return f, fmt.Errorf("%w: nombre y apellido son obligatorios", domain.ErrInvalidInput)
	case utf8.RuneCountInString(f.nombre) > maxNameLen || utf8.RuneCountInString(f.apellido) > maxNameLen:
		return f, fmt.Errorf("%w: nombre y apellido admiten hasta %d caracteres", domain.ErrInvalidInput, maxNameLen)
	}
	if err := nit.Validate(f.nit); err != nil {
		return f, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if f.email != "" {
		if _, err := mail.ParseAddress(f.email); err != nil {
			return f, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
		}
	}
	return f, nil
}

// normalizeText recorta, colapsa espacios y normaliza a NFC.
func normalizeText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
