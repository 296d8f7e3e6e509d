package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mesafacil/pos-api/internal/domain"
	"github.com/mesafacil/pos-api/internal/domain/entity"
	"github.com/mesafacil/pos-api/internal/domain/repository"
)

var _ repository.FiscalRegistrationRepository = (*FiscalRegistrationRepo)(nil)

// FiscalRegistrationRepo implementación del puerto FiscalRegistrationRepository sobre PostgreSQL.
type FiscalRegistrationRepo struct {
	q Querier
}

// NewFiscalRegistrationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFiscalRegistrationRepository(q Querier) *FiscalRegistrationRepo {
	return &FiscalRegistrationRepo{q: q}
}

const fiscalRegColumns = `id, company_id, tax_id, legal_name, electronic_billing_active,
	serie_factura, correlativo_factura, serie_boleta, correlativo_boleta,
	serie_nota_credito, correlativo_nota_credito, serie_nota_debito, correlativo_nota_debito,
	created_at, updated_at`

// Create persiste el registro fiscal de una empresa. Una empresa tiene a lo sumo un registro.
func (r *FiscalRegistrationRepo) Create(ctx context.Context, reg *entity.FiscalRegistration) error {
	query := `
		INSERT INTO fiscal_registrations (` + fiscalRegColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		reg.ID, reg.CompanyID, reg.TaxID, reg.LegalName, reg.ElectronicBillingActive,
		reg.SerieFactura, reg.CorrelativoFactura, reg.SerieBoleta, reg.CorrelativoBoleta,
		reg.SerieNotaCredito, reg.CorrelativoNotaCredito, reg.SerieNotaDebito, reg.CorrelativoNotaDebito,
		reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert fiscal registration: %w", err)
	}
	return nil
}

// GetByCompany obtiene el registro fiscal de la empresa. Devuelve nil, nil si
// la empresa no está registrada ante la autoridad tributaria.
func (r *FiscalRegistrationRepo) GetByCompany(ctx context.Context, companyID string) (*entity.FiscalRegistration, error) {
	query := `SELECT ` + fiscalRegColumns + ` FROM fiscal_registrations WHERE company_id = $1`
	var reg entity.FiscalRegistration
	err := r.q.QueryRow(ctx, query, companyID).Scan(
		&reg.ID, &reg.CompanyID, &reg.TaxID, &reg.LegalName, &reg.ElectronicBillingActive,
		&reg.SerieFactura, &reg.CorrelativoFactura, &reg.SerieBoleta, &reg.CorrelativoBoleta,
		&reg.SerieNotaCredito, &reg.CorrelativoNotaCredito, &reg.SerieNotaDebito, &reg.CorrelativoNotaDebito,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fiscal registration: %w", err)
	}
	return &reg, nil
}

// Update actualiza los datos del registro fiscal.
// No toca los correlativos: esos solo los mueve el asignador de secuencias.
func (r *FiscalRegistrationRepo) Update(ctx context.Context, reg *entity.FiscalRegistration) error {
	query := `
		UPDATE fiscal_registrations SET tax_id = $2, legal_name = $3, electronic_billing_active = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		reg.ID, reg.TaxID, reg.LegalName, reg.ElectronicBillingActive, reg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update fiscal registration: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
