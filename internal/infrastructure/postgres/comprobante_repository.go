package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/mesafacil/pos-api/internal/domain"
	"github.com/mesafacil/pos-api/internal/domain/entity"
	"github.com/mesafacil/pos-api/internal/domain/repository"
)

var _ repository.ComprobanteRepository = (*ComprobanteRepo)(nil)

// ComprobanteRepo implementación del puerto ComprobanteRepository sobre PostgreSQL.
// La tabla lleva UNIQUE (series, number): la violación se traduce a
// ErrConcurrency porque solo puede ocurrir si dos emisiones obtuvieron el
// mismo correlativo, cosa que el asignador ya impide dentro de la tx.
type ComprobanteRepo struct {
	q Querier
}

// NewComprobanteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewComprobanteRepository(q Querier) *ComprobanteRepo {
	return &ComprobanteRepo{q: q}
}

const comprobanteColumns = `id, company_id, payment_id, type, series, number, issued_at, state,
	verification_hash, subtotal, tax, discount, total, currency, pdf_path, ticket_path,
	print_count, first_printed_at, voided_at, voided_by, dispatched_at, dispatch_email,
	observations, error_message, created_at, updated_at`

func scanComprobante(row pgx.Row) (*entity.Comprobante, error) {
	var c entity.Comprobante
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.PaymentID, &c.Type, &c.Series, &c.Number, &c.IssuedAt, &c.State,
		&c.VerificationHash, &c.Subtotal, &c.Tax, &c.Discount, &c.Total, &c.Currency,
		&c.PDFPath, &c.TicketPath, &c.PrintCount, &c.FirstPrintedAt, &c.VoidedAt, &c.VoidedBy,
		&c.DispatchedAt, &c.DispatchEmail, &c.Observations, &c.ErrorMessage, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un comprobante recién emitido (estado GENERATED).
func (r *ComprobanteRepo) Create(ctx context.Context, c *entity.Comprobante) error {
	query := `
		INSERT INTO comprobantes (` + comprobanteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyID, c.PaymentID, c.Type, c.Series, c.Number, c.IssuedAt, c.State,
		c.VerificationHash, c.Subtotal, c.Tax, c.Discount, c.Total, c.Currency,
		c.PDFPath, c.TicketPath, c.PrintCount, c.FirstPrintedAt, c.VoidedAt, c.VoidedBy,
		c.DispatchedAt, c.DispatchEmail, c.Observations, c.ErrorMessage, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConcurrency
		}
		return fmt.Errorf("insert comprobante: %w", err)
	}
	return nil
}

// GetByID obtiene un comprobante por ID. Devuelve nil, nil si no existe.
func (r *ComprobanteRepo) GetByID(ctx context.Context, id string) (*entity.Comprobante, error) {
	query := `SELECT ` + comprobanteColumns + ` FROM comprobantes WHERE id = $1`
	c, err := scanComprobante(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comprobante: %w", err)
	}
	return c, nil
}

// GetByPayment obtiene el comprobante más reciente emitido sobre un pago.
// Devuelve nil, nil si el pago aún no tiene comprobante.
func (r *ComprobanteRepo) GetByPayment(ctx context.Context, paymentID string) (*entity.Comprobante, error) {
	query := `SELECT ` + comprobanteColumns + ` FROM comprobantes WHERE payment_id = $1 ORDER BY created_at DESC LIMIT 1`
	c, err := scanComprobante(r.q.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comprobante by payment: %w", err)
	}
	return c, nil
}

// Update actualiza los campos mutables del comprobante: estado, rutas de
// archivo, contadores de impresión y marcas de anulación/envío. El par
// (series, number) y los totales son inmutables después de la emisión.
func (r *ComprobanteRepo) Update(ctx context.Context, c *entity.Comprobante) error {
	query := `
		UPDATE comprobantes SET state = $2, pdf_path = $3, ticket_path = $4, print_count = $5,
			first_printed_at = $6, voided_at = $7, voided_by = $8, dispatched_at = $9,
			dispatch_email = $10, observations = $11, error_message = $12, updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.State, c.PDFPath, c.TicketPath, c.PrintCount,
		c.FirstPrintedAt, c.VoidedAt, c.VoidedBy, c.DispatchedAt,
		c.DispatchEmail, c.Observations, c.ErrorMessage, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update comprobante: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista comprobantes de la empresa con filtros de auditoría
// (tipo y rango de fechas de emisión), del más reciente al más antiguo.
func (r *ComprobanteRepo) ListByCompany(ctx context.Context, companyID string, filter repository.ComprobanteFilter) ([]*entity.Comprobante, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + comprobanteColumns + ` FROM comprobantes WHERE company_id = $1`)
	args := []any{companyID}
	if filter.Type != "" {
		args = append(args, filter.Type)
		sb.WriteString(` AND type = $` + strconv.Itoa(len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		sb.WriteString(` AND issued_at >= $` + strconv.Itoa(len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		sb.WriteString(` AND issued_at <= $` + strconv.Itoa(len(args)))
	}
	sb.WriteString(` ORDER BY issued_at DESC, series, number DESC`)
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	sb.WriteString(` LIMIT $` + strconv.Itoa(len(args)))

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list comprobantes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Comprobante
	for rows.Next() {
		c, err := scanComprobante(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comprobante: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
