package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesafacil/pos-api/internal/application/fiscal"
	"github.com/mesafacil/pos-api/internal/domain/repository"
)

var _ fiscal.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunFiscal inicia una transacción con el asignador de secuencias y el
// repositorio de comprobantes atados a la tx, y hace Commit o Rollback.
// Si la inserción del comprobante falla, el rollback devuelve el correlativo:
// un número solo queda consumido cuando la emisión completa confirma.
func (r *TxRunner) RunFiscal(ctx context.Context, fn func(
	seq repository.SequenceAllocator,
	comprobantes repository.ComprobanteRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	seqRepo := NewSequenceRepository(tx)
	comprobanteRepo := NewComprobanteRepository(tx)

	if err := fn(seqRepo, comprobanteRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
