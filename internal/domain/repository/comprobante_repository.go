package repository

import (
	"context"
	"time"

	"github.com/mesafacil/pos-api/internal/domain/entity"
)

// ComprobanteFilter filtros del listado de auditoría.
// El par (serie, número) es consultable por rango de fechas y tipo.
type ComprobanteFilter struct {
	Type  string // vacío = todos los tipos
	From  *time.Time
	To    *time.Time
	Limit int
}

// ComprobanteRepository puerto de persistencia para comprobantes.
// GetByID devuelve nil, nil si no existe. No hay Delete: los comprobantes
// nunca se eliminan, la anulación es un estado terminal.
type ComprobanteRepository interface {
	Create(ctx context.Context, c *entity.Comprobante) error
	GetByID(ctx context.Context, id string) (*entity.Comprobante, error)
	GetByPayment(ctx context.Context, paymentID string) (*entity.Comprobante, error)
	Update(ctx context.Context, c *entity.Comprobante) error
	ListByCompany(ctx context.Context, companyID string, filter ComprobanteFilter) ([]*entity.Comprobante, error)
}
