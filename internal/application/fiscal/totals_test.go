package fiscal_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesafacil/pos-api/internal/application/fiscal"
	"github.com/mesafacil/pos-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func item(qty, price string) entity.OrderItem {
	q, p := dec(qty), dec(price)
	return entity.OrderItem{
		Description: "consumo",
		Quantity:    q,
		UnitPrice:   p,
		Subtotal:    fiscal.LineSubtotal(q, p),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// LineSubtotal
// ──────────────────────────────────────────────────────────────────────────────

func TestLineSubtotal_RedondeaADosDecimales(t *testing.T) {
	// 3 × 3.333 = 9.999 → 10.00
	assert.True(t, dec("10.00").Equal(fiscal.LineSubtotal(dec("3"), dec("3.333"))),
		"el subtotal de línea debe redondearse a 2 decimales")

	// 1.5 × 2.01 = 3.015 → 3.02 (half-up, alejándose de cero)
	assert.True(t, dec("3.02").Equal(fiscal.LineSubtotal(dec("1.5"), dec("2.01"))),
		"el medio centavo debe redondear hacia arriba")
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeTotals
// ──────────────────────────────────────────────────────────────────────────────

// Ticket interno de 25.00 sin IGV: total == subtotal, impuesto cero.
func TestComputeTotals_SinImpuesto(t *testing.T) {
	policy := fiscal.TaxPolicy{AppliesTax: false, Rate: decimal.Zero}
	items := []entity.OrderItem{item("2", "10.00"), item("1", "5.00")}

	totals := fiscal.ComputeTotals(items, policy)

	assert.True(t, dec("25.00").Equal(totals.Subtotal), "subtotal esperado 25.00, fue %s", totals.Subtotal)
	assert.True(t, totals.Tax.IsZero(), "sin política de impuesto el IGV debe ser cero")
	assert.True(t, totals.Discount.IsZero(), "el descuento es estructuralmente cero")
	assert.True(t, dec("25.00").Equal(totals.Total), "total esperado 25.00, fue %s", totals.Total)
}

// Factura de 100.00 con IGV 18%: impuesto 18.00, total 118.00.
func TestComputeTotals_ConIGV18(t *testing.T) {
	policy := fiscal.TaxPolicy{AppliesTax: true, Rate: dec("18")}
	items := []entity.OrderItem{item("4", "25.00")}

	totals := fiscal.ComputeTotals(items, policy)

	assert.True(t, dec("100.00").Equal(totals.Subtotal))
	assert.True(t, dec("18.00").Equal(totals.Tax), "IGV esperado 18.00, fue %s", totals.Tax)
	assert.True(t, dec("118.00").Equal(totals.Total), "total esperado 118.00, fue %s", totals.Total)
}

// El impuesto se redondea half-up en la frontera.
func TestComputeTotals_RedondeoImpuesto(t *testing.T) {
	policy := fiscal.TaxPolicy{AppliesTax: true, Rate: dec("18")}
	// subtotal 10.25 → IGV 1.845 → 1.85
	items := []entity.OrderItem{item("1", "10.25")}

	totals := fiscal.ComputeTotals(items, policy)

	assert.True(t, dec("1.85").Equal(totals.Tax), "IGV esperado 1.85, fue %s", totals.Tax)
	assert.True(t, dec("12.10").Equal(totals.Total))
}

// La función es pura: misma entrada, mismo resultado, sin importar cuántas veces.
func TestComputeTotals_Determinista(t *testing.T) {
	policy := fiscal.TaxPolicy{AppliesTax: true, Rate: dec("18")}
	items := []entity.OrderItem{item("3", "7.77"), item("2", "12.49")}

	first := fiscal.ComputeTotals(items, policy)
	for i := 0; i < 100; i++ {
		again := fiscal.ComputeTotals(items, policy)
		require.True(t, first.Subtotal.Equal(again.Subtotal))
		require.True(t, first.Tax.Equal(again.Tax))
		require.True(t, first.Total.Equal(again.Total))
	}
}

func TestComputeTotals_SinLineas(t *testing.T) {
	totals := fiscal.ComputeTotals(nil, fiscal.TaxPolicy{AppliesTax: true, Rate: dec("18")})
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.IsZero())
}
