package fiscal

import (
	"github.com/shopspring/decimal"

	"github.com/mesafacil/pos-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals totales derivados de una orden bajo una política fiscal.
// Alimentan un documento auditable: toda la aritmética es decimal de punto
// fijo con redondeo half-up en cada frontera, nunca flotante.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// LineSubtotal calcula el subtotal de una línea: cantidad × precio unitario,
// redondeado a 2 decimales half-up.
func LineSubtotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(2)
}

// ComputeTotals deriva subtotal/impuesto/descuento/total de las líneas.
// Función pura: se usa tanto para totales reales como para previsualización
// ("simular") sin persistir nada. Dos llamadas con la misma entrada producen
// exactamente el mismo resultado.
//
// El descuento es siempre cero por ahora: punto de extensión deliberado hasta
// definir una política de descuentos.
func ComputeTotals(items []entity.OrderItem, policy TaxPolicy) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal)
	}

	tax := decimal.Zero
	if policy.AppliesTax {
		tax = subtotal.Mul(policy.Rate).Div(hundred).Round(2)
	}

	discount := decimal.Zero

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal.Add(tax).Sub(discount),
	}
}
