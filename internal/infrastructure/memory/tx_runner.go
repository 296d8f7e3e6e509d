package memory

import (
	"context"

	"github.com/mesafacil/pos-api/internal/application/fiscal"
	"github.com/mesafacil/pos-api/internal/domain"
	"github.com/mesafacil/pos-api/internal/domain/entity"
	"github.com/mesafacil/pos-api/internal/domain/repository"
)

var _ fiscal.TxRunner = (*Store)(nil)

// RunFiscal ejecuta fn con el lock global tomado: dos emisiones concurrentes
// se serializan completas, igual que el bloqueo de fila de la DB real. Si fn
// falla se restauran los contadores y se descartan los comprobantes creados
// dentro del callback, emulando el rollback.
func (s *Store) RunFiscal(ctx context.Context, fn func(
	seq repository.SequenceAllocator,
	comprobantes repository.ComprobanteRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Snapshot de contadores para rollback.
	ticketCounters := make(map[string]int64, len(s.companies))
	for id, c := range s.companies {
		ticketCounters[id] = c.TicketCorrelative
	}
	fiscalCounters := make(map[string]entity.FiscalRegistration, len(s.fiscalRegs))
	for id, reg := range s.fiscalRegs {
		fiscalCounters[id] = *reg
	}

	tx := &fiscalTx{s: s}
	if err := fn(&txAllocator{s: s}, tx); err != nil {
		for id, n := range ticketCounters {
			s.companies[id].TicketCorrelative = n
		}
		for id, snap := range fiscalCounters {
			reg := s.fiscalRegs[id]
			reg.CorrelativoFactura = snap.CorrelativoFactura
			reg.CorrelativoBoleta = snap.CorrelativoBoleta
			reg.CorrelativoNotaCredito = snap.CorrelativoNotaCredito
			reg.CorrelativoNotaDebito = snap.CorrelativoNotaDebito
		}
		for _, id := range tx.created {
			delete(s.comprobantes, id)
		}
		return err
	}
	return nil
}

// ── SequenceAllocator ─────────────────────────────────────────────────────────

var _ repository.SequenceAllocator = (*Store)(nil)

// Allocate asigna el siguiente correlativo fuera de una transacción.
// Preferir RunFiscal en la emisión real.
func (s *Store) Allocate(ctx context.Context, companyID, documentType string) (string, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allocateLocked(companyID, documentType)
}

// allocateLocked lectura-incremento-escritura sobre el contador dueño de la
// serie. El caller debe tener el lock.
func (s *Store) allocateLocked(companyID, documentType string) (string, int64, error) {
	if documentType == entity.TypeTicket {
		c, ok := s.companies[companyID]
		if !ok {
			return "", 0, domain.ErrNotFound
		}
		n := c.TicketCorrelative
		c.TicketCorrelative = n + 1
		return c.TicketPrefix, n, nil
	}

	reg, ok := s.fiscalRegs[companyID]
	if !ok {
		return "", 0, domain.ErrNoFiscalRegistration
	}
	switch documentType {
	case entity.TypeBoleta:
		n := reg.CorrelativoBoleta
		reg.CorrelativoBoleta = n + 1
		return reg.SerieBoleta, n, nil
	case entity.TypeFactura:
		n := reg.CorrelativoFactura
		reg.CorrelativoFactura = n + 1
		return reg.SerieFactura, n, nil
	case entity.TypeNotaCredito:
		n := reg.CorrelativoNotaCredito
		reg.CorrelativoNotaCredito = n + 1
		return reg.SerieNotaCredito, n, nil
	case entity.TypeNotaDebito:
		n := reg.CorrelativoNotaDebito
		reg.CorrelativoNotaDebito = n + 1
		return reg.SerieNotaDebito, n, nil
	default:
		return "", 0, domain.ErrInvalidInput
	}
}

// txAllocator asignador atado a la transacción en curso (lock ya tomado).
type txAllocator struct{ s *Store }

func (a *txAllocator) Allocate(_ context.Context, companyID, documentType string) (string, int64, error) {
	return a.s.allocateLocked(companyID, documentType)
}

// fiscalTx repositorio de comprobantes atado a la transacción (lock ya tomado).
// Registra los IDs creados para poder revertirlos.
type fiscalTx struct {
	s       *Store
	created []string
}

func (t *fiscalTx) Create(_ context.Context, c *entity.Comprobante) error {
	if err := t.s.createComprobanteLocked(c); err != nil {
		return err
	}
	t.created = append(t.created, c.ID)
	return nil
}

func (t *fiscalTx) GetByID(_ context.Context, id string) (*entity.Comprobante, error) {
	c, ok := t.s.comprobantes[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (t *fiscalTx) GetByPayment(_ context.Context, paymentID string) (*entity.Comprobante, error) {
	var latest *entity.Comprobante
	for _, c := range t.s.comprobantes {
		if c.PaymentID != paymentID {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (t *fiscalTx) Update(_ context.Context, c *entity.Comprobante) error {
	if _, ok := t.s.comprobantes[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	t.s.comprobantes[c.ID] = &cp
	return nil
}

func (t *fiscalTx) ListByCompany(_ context.Context, companyID string, filter repository.ComprobanteFilter) ([]*entity.Comprobante, error) {
	var list []*entity.Comprobante
	for _, c := range t.s.comprobantes {
		if c.CompanyID == companyID {
			cp := *c
			list = append(list, &cp)
		}
	}
	return list, nil
}
