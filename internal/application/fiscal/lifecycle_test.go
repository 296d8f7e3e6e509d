package fiscal_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesafacil/pos-api/internal/application/fiscal"
	"github.com/mesafacil/pos-api/internal/domain"
	"github.com/mesafacil/pos-api/internal/domain/entity"
	"github.com/mesafacil/pos-api/internal/domain/repository"
	"github.com/mesafacil/pos-api/internal/infrastructure/memory"
	"github.com/mesafacil/pos-api/internal/infrastructure/storage"
	"github.com/mesafacil/pos-api/internal/infrastructure/sunat"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

// stubRenderer produce bytes fijos; puede forzarse a fallar.
type stubRenderer struct {
	mu      sync.Mutex
	failDoc bool
	calls   int
}

func (r *stubRenderer) RenderDocument(_ context.Context, in fiscal.RenderInput) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failDoc {
		return nil, errors.New("motor PDF caído")
	}
	return []byte("%PDF-doc " + in.Comprobante.FullNumber()), nil
}

func (r *stubRenderer) RenderTicket(_ context.Context, in fiscal.RenderInput) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return []byte("%PDF-ticket " + in.Comprobante.FullNumber()), nil
}

type sentMail struct {
	To          string
	Subject     string
	Attachments []fiscal.Attachment
}

// stubMailer registra los envíos; puede forzarse a fallar.
type stubMailer struct {
	fail bool
	sent []sentMail
}

func (m *stubMailer) Send(_ context.Context, to, subject, _ string, attachments []fiscal.Attachment) error {
	if m.fail {
		return errors.New("SMTP rechazó la conexión")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Attachments: attachments})
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store    *memory.Store
	uc       *fiscal.ComprobanteUseCase
	renderer *stubRenderer
	mailer   *stubMailer
	company  *entity.Company
	payment  *entity.Payment
}

// newFixture arma el motor completo con persistencia en memoria y archivos en
// un filesystem virtual. Si reg no es nil se registra la empresa ante SUNAT.
func newFixture(t *testing.T, mode string, appliesTax bool, reg *entity.FiscalRegistration) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	company := testCompany(mode)
	company.AppliesTax = appliesTax
	company.TicketCorrelative = 1
	require.NoError(t, store.Companies().Create(ctx, company))

	if reg != nil {
		reg.CompanyID = company.ID
		reg.CorrelativoFactura = 1
		reg.CorrelativoBoleta = 1
		reg.CorrelativoNotaCredito = 1
		reg.CorrelativoNotaDebito = 1
		require.NoError(t, store.FiscalRegistrations().Create(ctx, reg))
	}

	items := []entity.OrderItem{
		{ID: "it-1", OrderID: "ord-1", Description: "Ceviche clásico", Quantity: dec("2"), UnitPrice: dec("10.00"), Subtotal: dec("20.00")},
		{ID: "it-2", OrderID: "ord-1", Description: "Chicha morada", Quantity: dec("1"), UnitPrice: dec("5.00"), Subtotal: dec("5.00")},
	}
	payment := &entity.Payment{
		ID:        "pay-1",
		CompanyID: company.ID,
		OrderID:   "ord-1",
		Amount:    dec("25.00"),
		Method:    "cash",
		Status:    entity.PaymentCompleted,
		PaidAt:    time.Date(2026, 8, 15, 20, 30, 0, 0, time.UTC),
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Payments().Create(ctx, payment, items))

	renderer := &stubRenderer{}
	mailer := &stubMailer{}
	uc := fiscal.NewComprobanteUseCase(
		store,
		store.Companies(),
		store.FiscalRegistrations(),
		store.Comprobantes(),
		store.Payments(),
		renderer,
		storage.NewAferoStore(afero.NewMemMapFs()),
		mailer,
		sunat.NewSummaryBuilder(),
	)
	return &fixture{store: store, uc: uc, renderer: renderer, mailer: mailer, company: company, payment: payment}
}

// ──────────────────────────────────────────────────────────────────────────────
// Emisión
// ──────────────────────────────────────────────────────────────────────────────

func TestEmit_TicketInterno(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()

	comp, err := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)
	require.NoError(t, err)

	assert.Equal(t, "TKT", comp.Series)
	assert.Equal(t, "00000001", comp.Number, "el primer número de la serie es 1 con padding de 8")
	assert.Equal(t, "TKT-00000001", comp.FullNumber())
	assert.Equal(t, entity.StateGenerated, comp.State)
	assert.True(t, dec("25.00").Equal(comp.Subtotal))
	assert.True(t, comp.Tax.IsZero(), "sin IGV el impuesto es cero")
	assert.True(t, dec("25.00").Equal(comp.Total))
	assert.NotEmpty(t, comp.VerificationHash)
	assert.NotEmpty(t, comp.PDFPath, "la emisión materializa el documento A4")
	assert.NotEmpty(t, comp.TicketPath, "la emisión materializa la variante térmica")
}

func TestEmit_NumerosConsecutivos(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		comp, err := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%08d", i), comp.Number)
	}
}

func TestEmit_SeriesIndependientes(t *testing.T) {
	f := newFixture(t, entity.ModeMixed, true, testRegistration())
	ctx := context.Background()

	boleta, err := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeBoleta)
	require.NoError(t, err)
	factura, err := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeFactura)
	require.NoError(t, err)
	ticket, err := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)
	require.NoError(t, err)

	assert.Equal(t, "B001-00000001", boleta.FullNumber())
	assert.Equal(t, "F001-00000001", factura.FullNumber())
	assert.Equal(t, "TKT-00000001", ticket.FullNumber())

	// Con IGV 18%: 25.00 + 4.50 = 29.50
	assert.True(t, dec("4.50").Equal(factura.Tax))
	assert.True(t, dec("29.50").Equal(factura.Total))
}

func TestEmit_TipoNoPermitido_NoConsumeNumero(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()

	_, err := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeBoleta)
	require.ErrorIs(t, err, domain.ErrDocumentTypeNotAllowed)

	// El rechazo no tocó ningún contador ni persistió nada.
	list, err := f.uc.List(ctx, f.company.ID, repository.ComprobanteFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	comp, err := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)
	require.NoError(t, err)
	assert.Equal(t, "00000001", comp.Number, "el rechazo previo no debe consumir números")
}

func TestEmit_BoletaSinRegistroFiscal(t *testing.T) {
	f := newFixture(t, entity.ModeManualReceipt, false, nil)
	ctx := context.Background()

	_, err := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeBoleta)
	require.ErrorIs(t, err, domain.ErrNoFiscalRegistration)

	list, err := f.uc.List(ctx, f.company.ID, repository.ComprobanteFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "la emisión fallida no debe persistir comprobantes")
}

func TestEmit_ConfiguracionElectronicaInvalida(t *testing.T) {
	f := newFixture(t, entity.ModeElectronicInvoicing, true, nil)
	ctx := context.Background()

	_, err := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeFactura)
	require.ErrorIs(t, err, domain.ErrInvalidFiscalConfig,
		"facturación electrónica sin registro bloquea la emisión, no degrada")
}

func TestEmit_PagoIncompleto(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()

	pending := &entity.Payment{
		ID: "pay-2", CompanyID: f.company.ID, OrderID: "ord-1",
		Amount: dec("25.00"), Status: entity.PaymentPending, PaidAt: time.Now(),
	}
	require.NoError(t, f.store.Payments().Create(ctx, pending, nil))

	_, err := f.uc.Emit(ctx, f.company.ID, pending.ID, entity.TypeTicket)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEmit_PagoDeOtraEmpresa(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()

	_, err := f.uc.Emit(ctx, "otra-empresa", f.payment.ID, entity.TypeTicket)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallo de render: número consumido, estado ERROR, reparación
// ──────────────────────────────────────────────────────────────────────────────

func TestEmit_RenderFalla_NumeroConsumidoYEstadoError(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()
	f.renderer.failDoc = true

	comp, err := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)
	require.Error(t, err, "el fallo de render debe reportarse")
	require.NotNil(t, comp, "el comprobante existe aunque el render falle")
	assert.Equal(t, domain.KindRender, domain.KindOf(err))
	assert.Equal(t, entity.StateError, comp.State)
	assert.NotEmpty(t, comp.ErrorMessage)
	assert.Equal(t, "00000001", comp.Number)

	// El número quedó consumido: la siguiente emisión usa el 2.
	f.renderer.failDoc = false
	next, err := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)
	require.NoError(t, err)
	assert.Equal(t, "00000002", next.Number, "un número errado jamás se reutiliza")
}

func TestEnsureArtifacts_ReparaYRecuperaDeError(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()
	f.renderer.failDoc = true

	comp, _ := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)
	require.Equal(t, entity.StateError, comp.State)

	f.renderer.failDoc = false
	repaired, err := f.uc.EnsureArtifacts(ctx, f.company.ID, comp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateGenerated, repaired.State, "la reparación completa recupera el comprobante")
	assert.Empty(t, repaired.ErrorMessage)
	assert.NotEmpty(t, repaired.PDFPath)

	// Idempotente: con los archivos presentes no regenera nada.
	callsBefore := f.renderer.calls
	again, err := f.uc.EnsureArtifacts(ctx, f.company.ID, comp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateGenerated, again.State)
	assert.Equal(t, callsBefore, f.renderer.calls, "sin archivos faltantes no debe re-renderizar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Impresión
// ──────────────────────────────────────────────────────────────────────────────

func TestDownload_PrimeraImpresionSellaPrinted(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()
	comp, err := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)
	require.NoError(t, err)

	data, filename, err := f.uc.Download(ctx, f.company.ID, comp.ID, false)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.True(t, strings.HasPrefix(filename, "comprobante_"), "sin autoprint entrega el documento A4")

	after, err := f.uc.Get(ctx, f.company.ID, comp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatePrinted, after.State)
	require.NotNil(t, after.FirstPrintedAt)
	assert.Equal(t, 1, after.PrintCount)

	// La segunda descarga solo incrementa el contador.
	first := *after.FirstPrintedAt
	_, filename, err = f.uc.Download(ctx, f.company.ID, comp.ID, true)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "ticket_"), "con autoprint entrega la variante térmica")

	after, _ = f.uc.Get(ctx, f.company.ID, comp.ID)
	assert.Equal(t, entity.StatePrinted, after.State)
	assert.Equal(t, 2, after.PrintCount)
	assert.Equal(t, first, *after.FirstPrintedAt, "FirstPrintedAt se sella una sola vez")
}

func TestDownload_AnuladoNoSeImprime(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()
	comp, _ := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)
	_, err := f.uc.Void(ctx, f.company.ID, comp.ID, "error de caja", "admin@puerto.pe")
	require.NoError(t, err)

	_, _, err = f.uc.Download(ctx, f.company.ID, comp.ID, false)
	require.ErrorIs(t, err, domain.ErrDocumentVoided)
}

func TestReprint_RegistraReimpresion(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()
	comp, _ := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)

	re, err := f.uc.Reprint(ctx, f.company.ID, comp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatePrinted, re.State)
	assert.Equal(t, 1, re.PrintCount)
}

// ──────────────────────────────────────────────────────────────────────────────
// Anulación
// ──────────────────────────────────────────────────────────────────────────────

func TestVoid_FlujoCompleto(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()
	comp, _ := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)

	voided, err := f.uc.Void(ctx, f.company.ID, comp.ID, "cliente pidió cambio de comprobante", "cajero-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StateVoided, voided.State)
	assert.Equal(t, "cajero-1", voided.VoidedBy)
	require.NotNil(t, voided.VoidedAt)
	assert.Contains(t, voided.Observations, "cliente pidió cambio de comprobante")
	assert.Equal(t, "00000001", voided.Number, "la anulación no devuelve el número")

	// Terminal: no se anula dos veces.
	_, err = f.uc.Void(ctx, f.company.ID, comp.ID, "otra vez", "cajero-1")
	require.ErrorIs(t, err, domain.ErrAlreadyVoided)

	// Ni se reimprime.
	_, err = f.uc.Reprint(ctx, f.company.ID, comp.ID)
	require.ErrorIs(t, err, domain.ErrCannotReprintVoided)

	// El siguiente número sigue la secuencia.
	next, err := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)
	require.NoError(t, err)
	assert.Equal(t, "00000002", next.Number)
}

func TestVoid_MotivoObligatorio(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()
	comp, _ := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)

	_, err := f.uc.Void(ctx, f.company.ID, comp.ID, "   ", "cajero-1")
	require.ErrorIs(t, err, domain.ErrReasonRequired)
}

func TestVoid_ComprobanteErradoNoSeAnula(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()
	f.renderer.failDoc = true
	comp, _ := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)
	require.Equal(t, entity.StateError, comp.State)

	_, err := f.uc.Void(ctx, f.company.ID, comp.ID, "motivo válido", "cajero-1")
	require.ErrorIs(t, err, domain.ErrCannotVoidErrored)
}

func TestVoid_SinActorUsaSystem(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()
	comp, _ := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)

	voided, err := f.uc.Void(ctx, f.company.ID, comp.ID, "cierre de caja", "")
	require.NoError(t, err)
	assert.Equal(t, "SYSTEM", voided.VoidedBy)
}

// ──────────────────────────────────────────────────────────────────────────────
// Envío digital
// ──────────────────────────────────────────────────────────────────────────────

func TestDispatch_EnviaYMarcaSent(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()
	comp, _ := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)

	sent, err := f.uc.Dispatch(ctx, f.company.ID, comp.ID, "cliente@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.StateSent, sent.State)
	assert.Equal(t, "cliente@example.com", sent.DispatchEmail)
	require.NotNil(t, sent.DispatchedAt)

	require.Len(t, f.mailer.sent, 1)
	require.Len(t, f.mailer.sent[0].Attachments, 1, "sin facturación electrónica solo va el PDF")
	assert.Equal(t, "application/pdf", f.mailer.sent[0].Attachments[0].MIMEType)
}

func TestDispatch_ElectronicaAdjuntaXML(t *testing.T) {
	f := newFixture(t, entity.ModeElectronicInvoicing, true, testRegistration())
	ctx := context.Background()
	comp, err := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeFactura)
	require.NoError(t, err)

	_, err = f.uc.Dispatch(ctx, f.company.ID, comp.ID, "cliente@example.com")
	require.NoError(t, err)

	require.Len(t, f.mailer.sent, 1)
	require.Len(t, f.mailer.sent[0].Attachments, 2, "facturación electrónica adjunta PDF y resumen XML")
	assert.Equal(t, "application/xml", f.mailer.sent[0].Attachments[1].MIMEType)
	assert.Contains(t, string(f.mailer.sent[0].Attachments[1].Content), "F001")
}

func TestDispatch_EmailInvalido(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()
	comp, _ := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)

	for _, email := range []string{"", "sin-arroba", "a@b", "dos @espacios.com"} {
		_, err := f.uc.Dispatch(ctx, f.company.ID, comp.ID, email)
		assert.ErrorIs(t, err, domain.ErrInvalidEmail, "email %q debe rechazarse", email)
	}
}

func TestDispatch_FalloDeTransporteNoCambiaEstado(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()
	comp, _ := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)
	f.mailer.fail = true

	_, err := f.uc.Dispatch(ctx, f.company.ID, comp.ID, "cliente@example.com")
	require.Error(t, err)
	assert.Equal(t, domain.KindDispatch, domain.KindOf(err))

	after, _ := f.uc.Get(ctx, f.company.ID, comp.ID)
	assert.Equal(t, entity.StateGenerated, after.State, "el fallo del correo no toca el estado")
	assert.Empty(t, after.DispatchEmail)
}

func TestDispatch_AnuladoNoSeEnvia(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()
	comp, _ := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)
	_, err := f.uc.Void(ctx, f.company.ID, comp.ID, "anulado", "cajero-1")
	require.NoError(t, err)

	_, err = f.uc.Dispatch(ctx, f.company.ID, comp.ID, "cliente@example.com")
	require.ErrorIs(t, err, domain.ErrDocumentVoided)
}

// ──────────────────────────────────────────────────────────────────────────────
// Simulación y capacidad
// ──────────────────────────────────────────────────────────────────────────────

func TestSimulateTotals_NoPersisteNada(t *testing.T) {
	f := newFixture(t, entity.ModeMixed, true, testRegistration())
	ctx := context.Background()

	totals, err := f.uc.SimulateTotals(ctx, f.company.ID, []entity.OrderItem{item("4", "25.00")})
	require.NoError(t, err)
	assert.True(t, dec("118.00").Equal(totals.Total))

	list, err := f.uc.List(ctx, f.company.ID, repository.ComprobanteFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "simular no debe crear comprobantes")
}

func TestCapability_ReportaTiposPermitidos(t *testing.T) {
	f := newFixture(t, entity.ModeManualReceipt, false, testRegistration())
	ctx := context.Background()

	policy, err := f.uc.Capability(ctx, f.company.ID)
	require.NoError(t, err)
	assert.True(t, policy.Valid)
	assert.ElementsMatch(t, []string{entity.TypeTicket, entity.TypeBoleta}, policy.AllowedTypes)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: emisión simultánea nunca duplica números
// ──────────────────────────────────────────────────────────────────────────────

func TestEmit_Concurrente_NumerosUnicos(t *testing.T) {
	f := newFixture(t, entity.ModeSimpleTicket, false, nil)
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	results := make(chan string, n)
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			comp, err := f.uc.Emit(ctx, f.company.ID, f.payment.ID, entity.TypeTicket)
			if err != nil {
				errs <- err
				return
			}
			results <- comp.Number
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("emisión concurrente falló: %v", err)
	}

	seen := make(map[string]bool, n)
	for num := range results {
		require.False(t, seen[num], "número duplicado: %s", num)
		seen[num] = true
		v, err := strconv.Atoi(num)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, n)
	}
	assert.Len(t, seen, n, "deben emitirse exactamente %d números distintos", n)
}
