package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentItemRequest línea de consumo del pago.
type PaymentItemRequest struct {
	Description string          `json:"descripcion"`
	Quantity    decimal.Decimal `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
}

// CreatePaymentRequest registra el cobro de una orden cerrada.
type CreatePaymentRequest struct {
	OrderID string               `json:"order_id"`
	Method  string               `json:"metodo"` // cash, card, transfer
	Items   []PaymentItemRequest `json:"items"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	OrderID   string          `json:"order_id"`
	Amount    decimal.Decimal `json:"monto"`
	Method    string          `json:"metodo"`
	Status    string          `json:"status"`
	PaidAt    time.Time       `json:"pagado_en"`
}
