package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de operación fiscal de la empresa. Determinan qué tipos de
// comprobante puede emitir legalmente (ver fiscal.ResolveTaxPolicy).
const (
	ModeSimpleTicket        = "SIMPLE_TICKET"        // solo tickets internos
	ModeManualReceipt       = "MANUAL_RECEIPT"       // tickets + boletas manuales
	ModeElectronicInvoicing = "ELECTRONIC_INVOICING" // facturación electrónica SUNAT
	ModeMixed               = "MIXED"                // tickets + boletas + facturas
)

// Company representa un restaurante/tenant del sistema.
// Todo el flujo fiscal se parametriza con el CompanyID explícito del token,
// nunca con una "empresa activa" implícita.
type Company struct {
	ID                string
	Name              string
	RUC               string // vacío si la empresa no está registrada ante SUNAT
	Address           string
	Phone             string
	Email             string
	Status            string // active, suspended, inactive
	OperationMode     string // ver constantes Mode*
	AppliesTax        bool
	TaxRate           decimal.Decimal // porcentaje IGV, ej. 18
	Currency          string          // ISO 4217, ej. PEN
	TicketPrefix      string          // serie de tickets internos, default TKT
	TicketCorrelative int64           // próximo número de ticket a emitir
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
