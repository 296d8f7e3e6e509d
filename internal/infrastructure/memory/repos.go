package memory

import (
	"context"
	"sort"

	"github.com/mesafacil/pos-api/internal/domain"
	"github.com/mesafacil/pos-api/internal/domain/entity"
	"github.com/mesafacil/pos-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository            = (*CompanyRepo)(nil)
	_ repository.FiscalRegistrationRepository = (*FiscalRegistrationRepo)(nil)
	_ repository.ComprobanteRepository        = (*ComprobanteRepo)(nil)
	_ repository.PaymentRepository            = (*PaymentRepo)(nil)
	_ repository.UserRepository               = (*UserRepo)(nil)
)

// ── CompanyRepo ───────────────────────────────────────────────────────────────

// CompanyRepo vista CompanyRepository del store.
type CompanyRepo struct{ s *Store }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[c.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *c
	r.s.companies[c.ID] = &cp
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// Update preserva el contador de tickets: solo el asignador lo mueve.
func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.companies[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *c
	cp.TicketCorrelative = existing.TicketCorrelative
	r.s.companies[c.ID] = &cp
	return nil
}

func (r *CompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Company
	for _, c := range r.s.companies {
		cp := *c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// ── FiscalRegistrationRepo ────────────────────────────────────────────────────

// FiscalRegistrationRepo vista FiscalRegistrationRepository del store.
type FiscalRegistrationRepo struct{ s *Store }

func (r *FiscalRegistrationRepo) Create(_ context.Context, reg *entity.FiscalRegistration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.fiscalRegs[reg.CompanyID]; ok {
		return domain.ErrDuplicate
	}
	cp := *reg
	r.s.fiscalRegs[reg.CompanyID] = &cp
	return nil
}

func (r *FiscalRegistrationRepo) GetByCompany(_ context.Context, companyID string) (*entity.FiscalRegistration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg, ok := r.s.fiscalRegs[companyID]
	if !ok {
		return nil, nil
	}
	cp := *reg
	return &cp, nil
}

// Update preserva los correlativos: solo el asignador los mueve.
func (r *FiscalRegistrationRepo) Update(_ context.Context, reg *entity.FiscalRegistration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.fiscalRegs[reg.CompanyID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *reg
	cp.CorrelativoFactura = existing.CorrelativoFactura
	cp.CorrelativoBoleta = existing.CorrelativoBoleta
	cp.CorrelativoNotaCredito = existing.CorrelativoNotaCredito
	cp.CorrelativoNotaDebito = existing.CorrelativoNotaDebito
	r.s.fiscalRegs[reg.CompanyID] = &cp
	return nil
}

// ── ComprobanteRepo ───────────────────────────────────────────────────────────

// ComprobanteRepo vista ComprobanteRepository del store.
type ComprobanteRepo struct{ s *Store }

func (r *ComprobanteRepo) Create(_ context.Context, c *entity.Comprobante) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.createComprobanteLocked(c)
}

func (r *ComprobanteRepo) GetByID(_ context.Context, id string) (*entity.Comprobante, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comprobantes[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *ComprobanteRepo) GetByPayment(_ context.Context, paymentID string) (*entity.Comprobante, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *entity.Comprobante
	for _, c := range r.s.comprobantes {
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

func (r *ComprobanteRepo) Update(_ context.Context, c *entity.Comprobante) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comprobantes[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.s.comprobantes[c.ID] = &cp
	return nil
}

func (r *ComprobanteRepo) ListByCompany(_ context.Context, companyID string, filter repository.ComprobanteFilter) ([]*entity.Comprobante, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Comprobante
	for _, c := range r.s.comprobantes {
		if c.CompanyID != companyID {
			continue
		}
		if filter.Type != "" && c.Type != filter.Type {
			continue
		}
		if filter.From != nil && c.IssuedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && c.IssuedAt.After(*filter.To) {
			continue
		}
		cp := *c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].IssuedAt.After(list[j].IssuedAt) })
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// createComprobanteLocked inserta verificando unicidad de ID y (serie, número).
// El caller debe tener el lock.
func (s *Store) createComprobanteLocked(c *entity.Comprobante) error {
	if _, ok := s.comprobantes[c.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range s.comprobantes {
		if existing.Series == c.Series && existing.Number == c.Number {
			return domain.ErrConcurrency
		}
	}
	cp := *c
	s.comprobantes[c.ID] = &cp
	return nil
}

// ── PaymentRepo ───────────────────────────────────────────────────────────────

// PaymentRepo vista PaymentRepository del store.
type PaymentRepo struct{ s *Store }

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment, items []entity.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[p.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *p
	r.s.payments[p.ID] = &cp
	r.s.items[p.OrderID] = append([]entity.OrderItem(nil), items...)
	return nil
}

func (r *PaymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *PaymentRepo) ItemsByOrder(_ context.Context, orderID string) ([]entity.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]entity.OrderItem(nil), r.s.items[orderID]...), nil
}

// ── UserRepo ──────────────────────────────────────────────────────────────────

// UserRepo vista UserRepository del store.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByEmailAndCompany(_ context.Context, email, companyID string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email && u.CompanyID == companyID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
