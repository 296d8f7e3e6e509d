package entity

import "time"

// FiscalRegistration es el registro formal de la empresa ante la autoridad
// tributaria. Solo existe para empresas con RUC; sin él la empresa no puede
// emitir boletas ni facturas, únicamente tickets internos.
//
// Cada correlativo guarda el PRÓXIMO número a emitir para su serie (arranca
// en 1). La asignación se hace con un incremento atómico sobre esta fila.
type FiscalRegistration struct {
	ID                      string
	CompanyID               string
	TaxID                   string // RUC; un registro sin RUC es una advertencia de configuración
	LegalName               string
	ElectronicBillingActive bool
	SerieFactura            string // ej. F001
	CorrelativoFactura      int64
	SerieBoleta             string // ej. B001
	CorrelativoBoleta       int64
	SerieNotaCredito        string // ej. FC01
	CorrelativoNotaCredito  int64
	SerieNotaDebito         string // ej. FD01
	CorrelativoNotaDebito   int64
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Series por defecto al crear un registro fiscal.
const (
	DefaultSerieFactura     = "F001"
	DefaultSerieBoleta      = "B001"
	DefaultSerieNotaCredito = "FC01"
	DefaultSerieNotaDebito  = "FD01"
	DefaultTicketPrefix     = "TKT"
)
