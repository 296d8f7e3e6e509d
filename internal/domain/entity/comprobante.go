package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de comprobante emitibles.
const (
	TypeTicket      = "TICKET"
	TypeBoleta      = "BOLETA"
	TypeFactura     = "FACTURA"
	TypeNotaCredito = "NOTA_CREDITO"
	TypeNotaDebito  = "NOTA_DEBITO"
)

// Estados del ciclo de vida de un comprobante.
// GENERATED → PRINTED → {VOIDED, SENT}; GENERATED → ERROR si falla la
// generación de archivos. VOIDED y ERROR son terminales. Un comprobante
// nunca se elimina: la anulación es un estado, no un borrado.
const (
	StateGenerated = "GENERATED"
	StatePrinted   = "PRINTED"
	StateSent      = "SENT"
	StateVoided    = "VOIDED"
	StateError     = "ERROR"
)

// Comprobante es el documento fiscal emitido sobre un pago: ticket interno,
// boleta o factura. El par (Series, Number) es único global y el número es
// estrictamente consecutivo por (empresa, serie), sin huecos una vez
// confirmada la transacción de emisión.
type Comprobante struct {
	ID               string
	CompanyID        string
	PaymentID        string
	Type             string // ver constantes Type*
	Series           string // ej. F001, B001, TKT
	Number           string // 8 dígitos con ceros a la izquierda, ej. 00000042
	IssuedAt         time.Time
	State            string // ver constantes State*
	VerificationHash string // SHA-256 determinístico sobre pago (id|monto|fecha)
	Subtotal         decimal.Decimal
	Tax              decimal.Decimal
	Discount         decimal.Decimal
	Total            decimal.Decimal
	Currency         string
	PDFPath          string // representación A4 formal
	TicketPath       string // variante térmica 80mm
	PrintCount       int
	FirstPrintedAt   *time.Time
	VoidedAt         *time.Time
	VoidedBy         string
	DispatchedAt     *time.Time
	DispatchEmail    string
	Observations     string // motivos de anulación y notas de auditoría
	ErrorMessage     string // causa cuando State == ERROR
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FullNumber devuelve la denominación completa serie-número, ej. "F001-00000042".
func (c *Comprobante) FullNumber() string {
	return c.Series + "-" + c.Number
}

// FormatNumber formatea un correlativo como número de comprobante de 8 dígitos.
func FormatNumber(n int64) string {
	return fmt.Sprintf("%08d", n)
}

// IsTerminal informa si el estado no admite más transiciones de emisión.
func (c *Comprobante) IsTerminal() bool {
	return c.State == StateVoided || c.State == StateError
}
