package repository

import (
	"context"

	"github.com/mesafacil/pos-api/internal/domain/entity"
)

// PaymentRepository puerto de persistencia para pagos y sus líneas de consumo.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment, items []entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	ItemsByOrder(ctx context.Context, orderID string) ([]entity.OrderItem, error)
}
