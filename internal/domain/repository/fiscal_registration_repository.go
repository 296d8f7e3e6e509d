package repository

import (
	"context"

	"github.com/mesafacil/pos-api/internal/domain/entity"
)

// FiscalRegistrationRepository puerto de persistencia para el registro fiscal.
// GetByCompany devuelve nil, nil si la empresa no tiene registro (empresa
// sin RUC: solo puede emitir tickets internos).
type FiscalRegistrationRepository interface {
	Create(ctx context.Context, reg *entity.FiscalRegistration) error
	GetByCompany(ctx context.Context, companyID string) (*entity.FiscalRegistration, error)
	Update(ctx context.Context, reg *entity.FiscalRegistration) error
}
