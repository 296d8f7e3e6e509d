package fiscal_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesafacil/pos-api/internal/application/fiscal"
	"github.com/mesafacil/pos-api/internal/domain/entity"
)

func testCompany(mode string) *entity.Company {
	return &entity.Company{
		ID:            "co-1",
		Name:          "Cevichería El Puerto",
		Status:        "active",
		OperationMode: mode,
		AppliesTax:    true,
		TaxRate:       decimal.NewFromInt(18),
		Currency:      "PEN",
		TicketPrefix:  "TKT",
	}
}

func testRegistration() *entity.FiscalRegistration {
	return &entity.FiscalRegistration{
		ID:                      "reg-1",
		CompanyID:               "co-1",
		TaxID:                   "20123456789",
		LegalName:               "El Puerto SAC",
		ElectronicBillingActive: true,
		SerieFactura:            entity.DefaultSerieFactura,
		SerieBoleta:             entity.DefaultSerieBoleta,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tipos permitidos por modo de operación
// ──────────────────────────────────────────────────────────────────────────────

func TestResolveTaxPolicy_SimpleTicket_SoloTickets(t *testing.T) {
	policy := fiscal.ResolveTaxPolicy(testCompany(entity.ModeSimpleTicket), fiscal.Unregistered())

	require.True(t, policy.Valid)
	assert.Equal(t, []string{entity.TypeTicket}, policy.AllowedTypes)
	assert.True(t, policy.Allows(entity.TypeTicket))
	assert.False(t, policy.Allows(entity.TypeBoleta), "SIMPLE_TICKET no emite boletas")
	assert.False(t, policy.Allows(entity.TypeFactura), "SIMPLE_TICKET no emite facturas")
}

func TestResolveTaxPolicy_ManualReceipt_TicketsYBoletas(t *testing.T) {
	policy := fiscal.ResolveTaxPolicy(testCompany(entity.ModeManualReceipt), fiscal.Registered(testRegistration()))

	require.True(t, policy.Valid)
	assert.ElementsMatch(t, []string{entity.TypeTicket, entity.TypeBoleta}, policy.AllowedTypes)
	assert.False(t, policy.Allows(entity.TypeFactura))
}

func TestResolveTaxPolicy_Mixed_TresTipos(t *testing.T) {
	policy := fiscal.ResolveTaxPolicy(testCompany(entity.ModeMixed), fiscal.Registered(testRegistration()))

	require.True(t, policy.Valid)
	assert.ElementsMatch(t,
		[]string{entity.TypeTicket, entity.TypeBoleta, entity.TypeFactura},
		policy.AllowedTypes)
}

func TestResolveTaxPolicy_ElectronicInvoicing_Completo(t *testing.T) {
	policy := fiscal.ResolveTaxPolicy(testCompany(entity.ModeElectronicInvoicing), fiscal.Registered(testRegistration()))

	require.True(t, policy.Valid, "con registro, RUC y facturación activa la configuración es válida")
	assert.ElementsMatch(t,
		[]string{entity.TypeFactura, entity.TypeBoleta, entity.TypeNotaCredito, entity.TypeNotaDebito},
		policy.AllowedTypes)
	assert.Empty(t, policy.Limitations)
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturación electrónica: configuración inválida no degrada, bloquea
// ──────────────────────────────────────────────────────────────────────────────

func TestResolveTaxPolicy_ElectronicSinRegistro_Invalida(t *testing.T) {
	policy := fiscal.ResolveTaxPolicy(testCompany(entity.ModeElectronicInvoicing), fiscal.Unregistered())

	assert.False(t, policy.Valid, "facturación electrónica sin registro fiscal debe marcarse inválida")
	assert.Empty(t, policy.AllowedTypes, "una configuración inválida no permite emitir nada")
	assert.NotEmpty(t, policy.Limitations)
}

func TestResolveTaxPolicy_ElectronicSinRUC_Invalida(t *testing.T) {
	reg := testRegistration()
	reg.TaxID = ""
	policy := fiscal.ResolveTaxPolicy(testCompany(entity.ModeElectronicInvoicing), fiscal.Registered(reg))

	assert.False(t, policy.Valid)
	assert.Empty(t, policy.AllowedTypes)
}

func TestResolveTaxPolicy_ElectronicInactiva_Invalida(t *testing.T) {
	reg := testRegistration()
	reg.ElectronicBillingActive = false
	policy := fiscal.ResolveTaxPolicy(testCompany(entity.ModeElectronicInvoicing), fiscal.Registered(reg))

	assert.False(t, policy.Valid)
	assert.Empty(t, policy.AllowedTypes)
}

func TestResolveTaxPolicy_ModoDesconocido_Invalida(t *testing.T) {
	policy := fiscal.ResolveTaxPolicy(testCompany("MODO_RARO"), fiscal.Unregistered())
	assert.False(t, policy.Valid)
}

// ──────────────────────────────────────────────────────────────────────────────
// Impuesto, moneda y advertencias
// ──────────────────────────────────────────────────────────────────────────────

func TestResolveTaxPolicy_ImpuestoSoloConTasaPositiva(t *testing.T) {
	company := testCompany(entity.ModeSimpleTicket)
	company.AppliesTax = true
	company.TaxRate = decimal.Zero
	policy := fiscal.ResolveTaxPolicy(company, fiscal.Unregistered())
	assert.False(t, policy.AppliesTax, "IGV con tasa cero no aplica impuesto")

	company.TaxRate = decimal.NewFromInt(18)
	policy = fiscal.ResolveTaxPolicy(company, fiscal.Unregistered())
	assert.True(t, policy.AppliesTax)
}

func TestResolveTaxPolicy_MonedaPorDefecto(t *testing.T) {
	company := testCompany(entity.ModeSimpleTicket)
	company.Currency = ""
	policy := fiscal.ResolveTaxPolicy(company, fiscal.Unregistered())
	assert.Equal(t, "PEN", policy.Currency)
}

func TestResolveTaxPolicy_Advertencias(t *testing.T) {
	// Empresa suspendida con IGV pero sin registro: dos advertencias, sigue válida.
	company := testCompany(entity.ModeSimpleTicket)
	company.Status = "suspended"
	policy := fiscal.ResolveTaxPolicy(company, fiscal.Unregistered())

	assert.True(t, policy.Valid, "las advertencias no bloquean la emisión")
	assert.Len(t, policy.Warnings, 2)
}

func TestResolveTaxPolicy_EsPura(t *testing.T) {
	company := testCompany(entity.ModeMixed)
	reg := testRegistration()
	before := *company
	regBefore := *reg

	_ = fiscal.ResolveTaxPolicy(company, fiscal.Registered(reg))

	assert.Equal(t, before, *company, "el resolver no debe mutar la empresa")
	assert.Equal(t, regBefore, *reg, "el resolver no debe mutar el registro")
}
