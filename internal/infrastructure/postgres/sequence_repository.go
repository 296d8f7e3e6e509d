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

var _ repository.SequenceAllocator = (*SequenceRepo)(nil)

// SequenceRepo asignador de correlativos sobre PostgreSQL.
//
// El incremento y la lectura van en un solo UPDATE ... RETURNING: la fila
// dueña del contador queda bloqueada hasta el commit de la tx del caller, así
// dos emisiones concurrentes de la misma serie se serializan en la DB y nunca
// reciben el mismo número. El contador guarda el próximo número a emitir, por
// eso se devuelve el valor previo al incremento (correlativo - 1 tras el SET).
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el asignador. Pasarlo siempre atado a la tx
// de emisión (ver TxRunner.RunFiscal) para que el rollback libere el número.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Allocate asigna el siguiente número de la serie del tipo de comprobante.
// TICKET usa el contador de la empresa; los tipos fiscales usan el registro
// fiscal y fallan con ErrNoFiscalRegistration si la empresa no lo tiene.
func (r *SequenceRepo) Allocate(ctx context.Context, companyID, documentType string) (string, int64, error) {
	if documentType == entity.TypeTicket {
		query := `
			UPDATE companies
			SET ticket_correlative = ticket_correlative + 1, updated_at = now()
			WHERE id = $1
			RETURNING ticket_prefix, ticket_correlative - 1`
		var series string
		var number int64
		err := r.q.QueryRow(ctx, query, companyID).Scan(&series, &number)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return "", 0, domain.ErrNotFound
			}
			return "", 0, fmt.Errorf("allocate ticket number: %w", err)
		}
		return series, number, nil
	}

	var serieCol, correlativoCol string
	switch documentType {
	case entity.TypeBoleta:
		serieCol, correlativoCol = "serie_boleta", "correlativo_boleta"
	case entity.TypeFactura:
		serieCol, correlativoCol = "serie_factura", "correlativo_factura"
	case entity.TypeNotaCredito:
		serieCol, correlativoCol = "serie_nota_credito", "correlativo_nota_credito"
	case entity.TypeNotaDebito:
		serieCol, correlativoCol = "serie_nota_debito", "correlativo_nota_debito"
	default:
		return "", 0, domain.ErrInvalidInput
	}

	// Nombres de columna de lista cerrada (switch de arriba), no input del usuario.
	query := fmt.Sprintf(`
		UPDATE fiscal_registrations
		SET %[2]s = %[2]s + 1, updated_at = now()
		WHERE company_id = $1
		RETURNING %[1]s, %[2]s - 1`, serieCol, correlativoCol)

	var series string
	var number int64
	err := r.q.QueryRow(ctx, query, companyID).Scan(&series, &number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, domain.ErrNoFiscalRegistration
		}
		return "", 0, fmt.Errorf("allocate %s number: %w", documentType, err)
	}
	return series, number, nil
}
