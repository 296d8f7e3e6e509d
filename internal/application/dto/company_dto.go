package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCompanyRequest alta de empresa.
type CreateCompanyRequest struct {
	Name          string          `json:"name"`
	RUC           string          `json:"ruc"`
	Address       string          `json:"address"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	OperationMode string          `json:"modo_operacion"` // default SIMPLE_TICKET
	AppliesTax    bool            `json:"aplica_impuesto"`
	TaxRate       decimal.Decimal `json:"tasa_impuesto"`
	Currency      string          `json:"moneda"` // default PEN
	TicketPrefix  string          `json:"prefijo_ticket"`
}

// UpdateCompanyRequest cambios de configuración fiscal de la empresa.
type UpdateCompanyRequest struct {
	Name          string          `json:"name"`
	Address       string          `json:"address"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	OperationMode string          `json:"modo_operacion"`
	AppliesTax    *bool           `json:"aplica_impuesto"`
	TaxRate       decimal.Decimal `json:"tasa_impuesto"`
}

// FiscalRegistrationRequest alta/actualización del registro fiscal.
type FiscalRegistrationRequest struct {
	TaxID                   string `json:"ruc"`
	LegalName               string `json:"razon_social"`
	ElectronicBillingActive bool   `json:"facturacion_electronica_activa"`
	SerieFactura            string `json:"serie_factura"`
	SerieBoleta             string `json:"serie_boleta"`
}

// CompanyResponse empresa con su configuración fiscal.
type CompanyResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	RUC           string          `json:"ruc,omitempty"`
	Address       string          `json:"address,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Email         string          `json:"email,omitempty"`
	Status        string          `json:"status"`
	OperationMode string          `json:"modo_operacion"`
	AppliesTax    bool            `json:"aplica_impuesto"`
	TaxRate       decimal.Decimal `json:"tasa_impuesto"`
	Currency      string          `json:"moneda"`
	TicketPrefix  string          `json:"prefijo_ticket"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
