package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pago. Solo un pago completado puede generar comprobante.
const (
	PaymentCompleted = "completed"
	PaymentPending   = "pending"
	PaymentCancelled = "cancelled"
)

// Payment es el cobro de una orden cerrada. El comprobante fiscal se emite
// sobre el pago, nunca directamente sobre la orden.
type Payment struct {
	ID        string
	CompanyID string
	OrderID   string // referencia a la orden del módulo de mesas (externo)
	Amount    decimal.Decimal
	Method    string // cash, card, transfer
	Status    string // ver constantes Payment*
	PaidAt    time.Time
	CreatedAt time.Time
}

// OrderItem es la línea de consumo congelada al momento del cobro.
// Subtotal ya viene redondeado a 2 decimales (cantidad × precio unitario).
type OrderItem struct {
	ID          string
	OrderID     string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
