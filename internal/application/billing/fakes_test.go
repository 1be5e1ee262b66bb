package billing

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	rules "github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// memStore almacén en memoria con semántica transaccional mínima:
// Run serializa las transacciones y restaura la copia previa si fn falla.
type memStore struct {
	mu       sync.Mutex
	clients  map[string]entity.Client
	invoices map[string]entity.Invoice

	failCreate error // si no es nil, Invoices.Create devuelve este error
	locks      []string
	readOnly   int

	// txCalls operaciones de numeración de cada Run (lock, max, create), en orden.
	txCalls [][]string
	current []string
}

func newMemStore() *memStore {
	return &memStore{clients: map[string]entity.Client{}, invoices: map[string]entity.Invoice{}}
}

var _ TxRunner = (*memStore)(nil)

func (s *memStore) Run(ctx context.Context, fn func(Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clients, invoices := cloneMap(s.clients), cloneMap(s.invoices)
	s.current = nil
	defer func() {
		if s.current != nil {
			s.txCalls = append(s.txCalls, s.current)
		}
	}()
	if err := fn(Repos{Clients: memClients{s}, Invoices: memInvoices{s}}); err != nil {
		s.clients, s.invoices = clients, invoices
		return err
	}
	return nil
}

func (s *memStore) record(op, serie string) {
	s.current = append(s.current, op+":"+serie)
}

func (s *memStore) RunReadOnly(ctx context.Context, fn func(Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readOnly++
	return fn(Repos{Clients: memClients{s}, Invoices: memInvoices{s}})
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) addClient(c entity.Client) *entity.Client {
	s.clients[c.ID] = c
	return &c
}

// ── clientes ────────────────────────────────────────────────────────────────

type memClients struct{ s *memStore }

var _ repository.ClientRepository = memClients{}

func (m memClients) Create(_ context.Context, c *entity.Client) error {
	m.s.clients[c.ID] = *c
	return nil
}

func (m memClients) Update(_ context.Context, c *entity.Client) error {
	if _, ok := m.s.clients[c.ID]; !ok {
		return domain.NewNotFound("cliente", "id", c.ID)
	}
	m.s.clients[c.ID] = *c
	return nil
}

func (m memClients) GetByID(_ context.Context, id string) (*entity.Client, error) {
	c, ok := m.s.clients[id]
	if !ok {
		return nil, domain.NewNotFound("cliente", "id", id)
	}
	return &c, nil
}

func (m memClients) GetByNIT(_ context.Context, nit int64) (*entity.Client, error) {
	for _, c := range m.s.clients {
		if c.NIT == nit {
			return &c, nil
		}
	}
	return nil, domain.NewNotFound("cliente", "NIT", nit)
}

func (m memClients) ExistsByNIT(_ context.Context, nit int64) (bool, error) {
	for _, c := range m.s.clients {
		if c.NIT == nit {
			return true, nil
		}
	}
	return false, nil
}

func (m memClients) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, c := range m.s.clients {
		if strings.EqualFold(c.EmailValue(), email) {
			return true, nil
		}
	}
	return false, nil
}

func (m memClients) List(context.Context) ([]*entity.Client, error) {
	return m.filter(func(*entity.Client) bool { return true }), nil
}

func (m memClients) ListActive(context.Context) ([]*entity.Client, error) {
	return m.filter(func(c *entity.Client) bool { return c.Activo }), nil
}

func (m memClients) Search(_ context.Context, q string) ([]*entity.Client, error) {
	q = strings.ToLower(q)
	return m.filter(func(c *entity.Client) bool {
		return strings.Contains(strings.ToLower(c.Nombre), q) ||
			strings.Contains(strings.ToLower(c.Apellido), q) ||
			strings.Contains(strconv.FormatInt(c.NIT, 10), q)
	}), nil
}

func (m memClients) Delete(_ context.Context, id string) error {
	delete(m.s.clients, id)
	return nil
}

func (m memClients) HasInvoices(_ context.Context, id string) (bool, error) {
	for _, inv := range m.s.invoices {
		if inv.ClientID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m memClients) filter(keep func(*entity.Client) bool) []*entity.Client {
	var out []*entity.Client
	for _, c := range m.s.clients {
		c := c
		if keep(&c) {
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out
}

// ── facturas ────────────────────────────────────────────────────────────────

type memInvoices struct{ s *memStore }

var _ repository.InvoiceRepository = memInvoices{}

func (m memInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	m.s.record("create", inv.Serie)
	if m.s.failCreate != nil {
		return m.s.failCreate
	}
	for _, other := range m.s.invoices {
		if other.NumeroFactura == inv.NumeroFactura {
			return domain.NewConflict("factura", "número", inv.NumeroFactura)
		}
	}
	cp := *inv
	cp.Detalles = append([]entity.InvoiceDetail(nil), inv.Detalles...)
	m.s.invoices[inv.ID] = cp
	return nil
}

func (m memInvoices) UpdateStatus(_ context.Context, id string, estado entity.InvoiceStatus) error {
	inv, ok := m.s.invoices[id]
	if !ok {
		return domain.NewNotFound("factura", "id", id)
	}
	inv.Estado = estado
	m.s.invoices[id] = inv
	return nil
}

func (m memInvoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	inv, ok := m.s.invoices[id]
	if !ok {
		return nil, domain.NewNotFound("factura", "id", id)
	}
	return &inv, nil
}

func (m memInvoices) GetByNumber(_ context.Context, numero string) (*entity.Invoice, error) {
	for _, inv := range m.s.invoices {
		if inv.NumeroFactura == numero {
			return &inv, nil
		}
	}
	return nil, domain.NewNotFound("factura", "número", numero)
}

func (m memInvoices) List(context.Context) ([]*entity.Invoice, error) {
	return m.filter(func(*entity.Invoice) bool { return true }), nil
}

func (m memInvoices) ListByClient(_ context.Context, clientID string) ([]*entity.Invoice, error) {
	return m.filter(func(inv *entity.Invoice) bool { return inv.ClientID == clientID }), nil
}

func (m memInvoices) ListByStatus(_ context.Context, estado entity.InvoiceStatus) ([]*entity.Invoice, error) {
	return m.filter(func(inv *entity.Invoice) bool { return inv.Estado == estado }), nil
}

func (m memInvoices) ListByDateRange(_ context.Context, desde, hasta time.Time) ([]*entity.Invoice, error) {
	return m.filter(func(inv *entity.Invoice) bool {
		return !inv.FechaEmision.Before(desde) && !inv.FechaEmision.After(hasta)
	}), nil
}

// MaxSequenceForSeries igual que la consulta SQL: el consecutivo empieza en el carácter
// rules.SequenceStart(serie) del número.
func (m memInvoices) MaxSequenceForSeries(_ context.Context, serie string) (int64, error) {
	m.s.record("max", serie)
	var maxSeq int64
	for _, inv := range m.s.invoices {
		if inv.Serie != serie {
			continue
		}
		runes := []rune(inv.NumeroFactura)
		start := rules.SequenceStart(serie) - 1
		if start > len(runes) {
			continue
		}
		if seq, err := strconv.ParseInt(string(runes[start:]), 10, 64); err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq, nil
}

func (m memInvoices) LockSeries(_ context.Context, serie string) error {
	m.s.locks = append(m.s.locks, serie)
	m.s.record("lock", serie)
	return nil
}

func (m memInvoices) Delete(_ context.Context, id string) error {
	if _, ok := m.s.invoices[id]; !ok {
		return domain.NewNotFound("factura", "id", id)
	}
	delete(m.s.invoices, id)
	return nil
}

func (m memInvoices) filter(keep func(*entity.Invoice) bool) []*entity.Invoice {
	var out []*entity.Invoice
	for _, inv := range m.s.invoices {
		inv := inv
		if keep(&inv) {
			out = append(out, &inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NumeroFactura < out[j].NumeroFactura })
	return out
}

var errBoom = errors.New("boom")
