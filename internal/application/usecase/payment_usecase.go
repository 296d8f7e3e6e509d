package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesafacil/pos-api/internal/application/dto"
	"github.com/mesafacil/pos-api/internal/application/fiscal"
	"github.com/mesafacil/pos-api/internal/domain"
	"github.com/mesafacil/pos-api/internal/domain/entity"
	"github.com/mesafacil/pos-api/internal/domain/repository"
)

// PaymentUseCase registra cobros de órdenes cerradas. El comprobante fiscal
// se emite después, sobre el pago (ver fiscal.ComprobanteUseCase).
type PaymentUseCase struct {
	paymentRepo repository.PaymentRepository
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(paymentRepo repository.PaymentRepository) *PaymentUseCase {
	return &PaymentUseCase{paymentRepo: paymentRepo}
}

// Register registra un pago completado con el snapshot de líneas de consumo.
// El subtotal de cada línea se congela aquí (cantidad × precio, 2 decimales).
func (uc *PaymentUseCase) Register(ctx context.Context, companyID string, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if in.OrderID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	items := make([]entity.OrderItem, 0, len(in.Items))
	amount := decimal.Zero
	for _, it := range in.Items {
		if it.Description == "" || !it.Quantity.GreaterThan(decimal.Zero) || it.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		subtotal := fiscal.LineSubtotal(it.Quantity, it.UnitPrice)
		items = append(items, entity.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     in.OrderID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    subtotal,
		})
		amount = amount.Add(subtotal)
	}
	method := in.Method
	if method == "" {
		method = "cash"
	}
	payment := &entity.Payment{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		OrderID:   in.OrderID,
		Amount:    amount,
		Method:    method,
		Status:    entity.PaymentCompleted,
		PaidAt:    now,
		CreatedAt: now,
	}
	if err := uc.paymentRepo.Create(ctx, payment, items); err != nil {
		return nil, err
	}
	return toPaymentResponse(payment), nil
}

// Get devuelve un pago verificando que pertenece a la empresa.
func (uc *PaymentUseCase) Get(ctx context.Context, companyID, id string) (*dto.PaymentResponse, error) {
	payment, err := uc.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil || payment.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toPaymentResponse(payment), nil
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Method:    p.Method,
		Status:    p.Status,
		PaidAt:    p.PaidAt,
	}
}
