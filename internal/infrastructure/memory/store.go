// Package memory implementa los puertos de persistencia sobre mapas en
// memoria. Se usa en tests y en demos sin PostgreSQL. La emisión transaccional
// se emula con un lock global: el callback de RunFiscal corre serializado y,
// si falla, los contadores y los comprobantes creados dentro del callback se
// revierten, igual que el rollback de la transacción real.
package memory

import (
	"sync"

	"github.com/mesafacil/pos-api/internal/domain/entity"
)

// Store contenedor en memoria de todas las entidades. Los repositorios son
// vistas sobre este contenedor (ver Companies(), Comprobantes(), etc.).
type Store struct {
	mu           sync.Mutex
	companies    map[string]*entity.Company
	fiscalRegs   map[string]*entity.FiscalRegistration // por companyID
	comprobantes map[string]*entity.Comprobante
	payments     map[string]*entity.Payment
	items        map[string][]entity.OrderItem // por orderID
	users        map[string]*entity.User
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		companies:    make(map[string]*entity.Company),
		fiscalRegs:   make(map[string]*entity.FiscalRegistration),
		comprobantes: make(map[string]*entity.Comprobante),
		payments:     make(map[string]*entity.Payment),
		items:        make(map[string][]entity.OrderItem),
		users:        make(map[string]*entity.User),
	}
}

// Companies vista CompanyRepository.
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s: s} }

// FiscalRegistrations vista FiscalRegistrationRepository.
func (s *Store) FiscalRegistrations() *FiscalRegistrationRepo { return &FiscalRegistrationRepo{s: s} }

// Comprobantes vista ComprobanteRepository.
func (s *Store) Comprobantes() *ComprobanteRepo { return &ComprobanteRepo{s: s} }

// Payments vista PaymentRepository.
func (s *Store) Payments() *PaymentRepo { return &PaymentRepo{s: s} }

// Users vista UserRepository.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }
