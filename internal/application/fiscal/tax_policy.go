package fiscal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mesafacil/pos-api/internal/domain/entity"
)

// TaxPolicy es la política fiscal derivada de la configuración de la empresa.
// Es un valor calculado, nunca se persiste ni se muta.
//
// Warnings son avisos que no bloquean la emisión; Limitations sí la bloquean
// (Valid == false cuando hay limitaciones).
type TaxPolicy struct {
	AppliesTax   bool
	Rate         decimal.Decimal
	Currency     string
	AllowedTypes []string
	Valid        bool
	Message      string
	Warnings     []string
	Limitations  []string
}

// Allows informa si la política permite emitir el tipo de comprobante.
func (p TaxPolicy) Allows(documentType string) bool {
	for _, t := range p.AllowedTypes {
		if t == documentType {
			return true
		}
	}
	return false
}

// ResolveTaxPolicy deriva la política fiscal de una empresa. Es una función
// pura de solo lectura: no escribe nada y no tiene efectos colaterales.
//
// Reglas:
//   - AppliesTax solo si la empresa tiene IGV habilitado con tasa > 0.
//   - En ELECTRONIC_INVOICING se exige registro fiscal con RUC y facturación
//     electrónica activa; si falta, la configuración se marca inválida en vez
//     de degradar silenciosamente a otro modo.
//   - Tipos permitidos por modo: SIMPLE_TICKET → ticket; MANUAL_RECEIPT →
//     ticket y boleta; ELECTRONIC_INVOICING → factura, boleta y notas;
//     MIXED → ticket, boleta y factura.
func ResolveTaxPolicy(company *entity.Company, capability Capability) TaxPolicy {
	policy := TaxPolicy{
		Rate:     company.TaxRate,
		Currency: company.Currency,
		Valid:    true,
	}
	if policy.Currency == "" {
		policy.Currency = "PEN"
	}

	policy.AppliesTax = company.AppliesTax && company.TaxRate.GreaterThan(decimal.Zero)

	reg, registered := capability.Registration()

	switch company.OperationMode {
	case entity.ModeSimpleTicket:
		policy.AllowedTypes = []string{entity.TypeTicket}
	case entity.ModeManualReceipt:
		policy.AllowedTypes = []string{entity.TypeTicket, entity.TypeBoleta}
	case entity.ModeElectronicInvoicing:
		policy.AllowedTypes = []string{
			entity.TypeFactura, entity.TypeBoleta,
			entity.TypeNotaCredito, entity.TypeNotaDebito,
		}
		switch {
		case !registered:
			policy.Valid = false
			policy.AllowedTypes = nil
			policy.Limitations = append(policy.Limitations,
				"facturación electrónica sin registro fiscal: no puede emitir comprobantes electrónicos")
		case reg.TaxID == "":
			policy.Valid = false
			policy.AllowedTypes = nil
			policy.Limitations = append(policy.Limitations,
				"el registro fiscal no tiene RUC: no puede emitir comprobantes electrónicos")
		case !reg.ElectronicBillingActive:
			policy.Valid = false
			policy.AllowedTypes = nil
			policy.Limitations = append(policy.Limitations,
				"la facturación electrónica no está activa en el registro fiscal")
		}
	case entity.ModeMixed:
		policy.AllowedTypes = []string{entity.TypeTicket, entity.TypeBoleta, entity.TypeFactura}
	default:
		policy.Valid = false
		policy.Limitations = append(policy.Limitations,
			fmt.Sprintf("modo de operación desconocido: %q", company.OperationMode))
	}

	// Advertencias: informan, no bloquean.
	if company.Status != "active" {
		policy.Warnings = append(policy.Warnings, "la empresa no está activa")
	}
	if policy.AppliesTax && !registered {
		policy.Warnings = append(policy.Warnings, "IGV habilitado sin registro fiscal")
	}
	if registered && reg.TaxID == "" && company.OperationMode != entity.ModeElectronicInvoicing {
		policy.Warnings = append(policy.Warnings, "el registro fiscal no tiene RUC")
	}

	if policy.Valid {
		policy.Message = "La empresa puede emitir: " + strings.Join(policy.AllowedTypes, ", ")
	} else {
		policy.Message = "La empresa no puede emitir comprobantes: " + strings.Join(policy.Limitations, "; ")
	}
	return policy
}
