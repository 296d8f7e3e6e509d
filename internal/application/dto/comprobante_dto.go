package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesafacil/pos-api/internal/domain/entity"
)

// EmitRequest solicitud de emisión de comprobante sobre un pago.
type EmitRequest struct {
	PaymentID string `json:"payment_id"`
	Type      string `json:"tipo"` // TICKET, BOLETA, FACTURA
}

// VoidRequest solicitud de anulación.
type VoidRequest struct {
	Reason string `json:"motivo"`
}

// DispatchRequest solicitud de envío por correo.
type DispatchRequest struct {
	Email string `json:"email"`
}

// LineItemRequest línea para simulación de totales.
type LineItemRequest struct {
	Description string          `json:"descripcion"`
	Quantity    decimal.Decimal `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
}

// SimulateRequest previsualización de totales (no persiste nada).
type SimulateRequest struct {
	Items []LineItemRequest `json:"items"`
}

// ComprobanteResponse representación HTTP de un comprobante.
type ComprobanteResponse struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"company_id"`
	PaymentID        string          `json:"payment_id"`
	Type             string          `json:"tipo"`
	Series           string          `json:"serie"`
	Number           string          `json:"numero"`
	FullNumber       string          `json:"numero_completo"`
	IssuedAt         time.Time       `json:"emitido_en"`
	State            string          `json:"estado"`
	VerificationHash string          `json:"hash_verificacion"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Tax              decimal.Decimal `json:"impuesto"`
	Discount         decimal.Decimal `json:"descuento"`
	Total            decimal.Decimal `json:"total"`
	Currency         string          `json:"moneda"`
	PrintCount       int             `json:"impresiones"`
	FirstPrintedAt   *time.Time      `json:"primera_impresion,omitempty"`
	VoidedAt         *time.Time      `json:"anulado_en,omitempty"`
	VoidedBy         string          `json:"anulado_por,omitempty"`
	DispatchedAt     *time.Time      `json:"enviado_en,omitempty"`
	DispatchEmail    string          `json:"enviado_a,omitempty"`
	Observations     string          `json:"observaciones,omitempty"`
	ErrorMessage     string          `json:"error,omitempty"`
}

// ToComprobanteResponse mapea la entidad a su representación HTTP.
func ToComprobanteResponse(c *entity.Comprobante) ComprobanteResponse {
	return ComprobanteResponse{
		ID:               c.ID,
		CompanyID:        c.CompanyID,
		PaymentID:        c.PaymentID,
		Type:             c.Type,
		Series:           c.Series,
		Number:           c.Number,
		FullNumber:       c.FullNumber(),
		IssuedAt:         c.IssuedAt,
		State:            c.State,
		VerificationHash: c.VerificationHash,
		Subtotal:         c.Subtotal,
		Tax:              c.Tax,
		Discount:         c.Discount,
		Total:            c.Total,
		Currency:         c.Currency,
		PrintCount:       c.PrintCount,
		FirstPrintedAt:   c.FirstPrintedAt,
		VoidedAt:         c.VoidedAt,
		VoidedBy:         c.VoidedBy,
		DispatchedAt:     c.DispatchedAt,
		DispatchEmail:    c.DispatchEmail,
		Observations:     c.Observations,
		ErrorMessage:     c.ErrorMessage,
	}
}

// CapabilityResponse política fiscal resuelta de la empresa.
type CapabilityResponse struct {
	AppliesTax   bool            `json:"aplica_impuesto"`
	Rate         decimal.Decimal `json:"tasa"`
	Currency     string          `json:"moneda"`
	AllowedTypes []string        `json:"tipos_permitidos"`
	Valid        bool            `json:"configuracion_valida"`
	Message      string          `json:"mensaje"`
	Warnings     []string        `json:"advertencias,omitempty"`
	Limitations  []string        `json:"limitaciones,omitempty"`
}
