package fiscal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesafacil/pos-api/internal/domain"
	"github.com/mesafacil/pos-api/internal/domain/entity"
	"github.com/mesafacil/pos-api/internal/domain/repository"
)

// ComprobanteUseCase es el motor del ciclo de vida de comprobantes:
// emisión, regeneración de archivos, impresión, anulación y envío digital.
type ComprobanteUseCase struct {
	txRunner        TxRunner
	companyRepo     repository.CompanyRepository
	fiscalRepo      repository.FiscalRegistrationRepository
	comprobanteRepo repository.ComprobanteRepository
	paymentRepo     repository.PaymentRepository
	renderer        Renderer
	store           ArtifactStore
	mailer          MailSender
	xmlBuilder      SummaryBuilder
}

// NewComprobanteUseCase construye el motor con todos sus colaboradores.
// xmlBuilder puede ser nil si la empresa no usa facturación electrónica.
func NewComprobanteUseCase(
	txRunner TxRunner,
	companyRepo repository.CompanyRepository,
	fiscalRepo repository.FiscalRegistrationRepository,
	comprobanteRepo repository.ComprobanteRepository,
	paymentRepo repository.PaymentRepository,
	renderer Renderer,
	store ArtifactStore,
	mailer MailSender,
	xmlBuilder SummaryBuilder,
) *ComprobanteUseCase {
	return &ComprobanteUseCase{
		txRunner:        txRunner,
		companyRepo:     companyRepo,
		fiscalRepo:      fiscalRepo,
		comprobanteRepo: comprobanteRepo,
		paymentRepo:     paymentRepo,
		renderer:        renderer,
		store:           store,
		mailer:          mailer,
		xmlBuilder:      xmlBuilder,
	}
}

// Emit emite un comprobante sobre un pago completado.
//
// Pasos: resolver política fiscal → validar tipo permitido → asignar
// serie+número y persistir el comprobante en GENERATED en una sola
// transacción → renderizar PDF y ticket fuera de la transacción.
//
// Si el render falla, el comprobante pasa a ERROR con el motivo y el número
// asignado queda consumido: re-emitir el número arriesgaría un duplicado si
// el render original avanzó parcialmente. Se devuelve el comprobante junto
// con el error para que el caller pueda inspeccionarlo y reintentar con
// EnsureArtifacts.
func (uc *ComprobanteUseCase) Emit(ctx context.Context, companyID, paymentID, documentType string) (*entity.Comprobante, error) {
	company, policy, err := uc.resolvePolicy(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !policy.Valid {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidFiscalConfig, strings.Join(policy.Limitations, "; "))
	}
	if !policy.Allows(documentType) {
		return nil, fmt.Errorf("%w: %s no está permitido en modo %s",
			domain.ErrDocumentTypeNotAllowed, documentType, company.OperationMode)
	}

	payment, err := uc.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("obtener pago: %w", err)
	}
	if payment == nil || payment.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if payment.Status != entity.PaymentCompleted {
		return nil, fmt.Errorf("%w: el pago no está completado", domain.ErrInvalidInput)
	}
	items, err := uc.paymentRepo.ItemsByOrder(ctx, payment.OrderID)
	if err != nil {
		return nil, fmt.Errorf("obtener líneas de la orden: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: la orden no tiene líneas", domain.ErrInvalidInput)
	}

	totals := ComputeTotals(items, policy)
	now := time.Now()

	var comp *entity.Comprobante
	err = uc.txRunner.RunFiscal(ctx, func(
		seq repository.SequenceAllocator,
		comprobantes repository.ComprobanteRepository,
	) error {
		series, number, err := seq.Allocate(ctx, companyID, documentType)
		if err != nil {
			return err
		}
		comp = &entity.Comprobante{
			ID:               uuid.New().String(),
			CompanyID:        companyID,
			PaymentID:        payment.ID,
			Type:             documentType,
			Series:           series,
			Number:           entity.FormatNumber(number),
			IssuedAt:         now,
			State:            entity.StateGenerated,
			VerificationHash: verificationHash(payment),
			Subtotal:         totals.Subtotal,
			Tax:              totals.Tax,
			Discount:         totals.Discount,
			Total:            totals.Total,
			Currency:         policy.Currency,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		return comprobantes.Create(ctx, comp)
	})
	if err != nil {
		return nil, err
	}

	// Render fuera de la transacción: puede ser lento y no debe retener el
	// candado del correlativo.
	if rerr := uc.renderArtifacts(ctx, comp, company, payment, items); rerr != nil {
		comp.State = entity.StateError
		comp.ErrorMessage = rerr.Error()
		comp.UpdatedAt = time.Now()
		_ = uc.comprobanteRepo.Update(ctx, comp)
		return comp, rerr
	}
	comp.UpdatedAt = time.Now()
	if err := uc.comprobanteRepo.Update(ctx, comp); err != nil {
		return nil, fmt.Errorf("guardar rutas de archivos: %w", err)
	}
	return comp, nil
}

// Get obtiene un comprobante verificando que pertenece a la empresa.
func (uc *ComprobanteUseCase) Get(ctx context.Context, companyID, id string) (*entity.Comprobante, error) {
	comp, err := uc.comprobanteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener comprobante: %w", err)
	}
	if comp == nil || comp.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return comp, nil
}

// List devuelve los comprobantes de la empresa filtrados por tipo y rango de
// fechas (consulta de auditoría: "todas las facturas emitidas entre fechas").
func (uc *ComprobanteUseCase) List(ctx context.Context, companyID string, filter repository.ComprobanteFilter) ([]*entity.Comprobante, error) {
	return uc.comprobanteRepo.ListByCompany(ctx, companyID, filter)
}

// Capability resuelve la política fiscal de la empresa (solo lectura).
func (uc *ComprobanteUseCase) Capability(ctx context.Context, companyID string) (TaxPolicy, error) {
	_, policy, err := uc.resolvePolicy(ctx, companyID)
	return policy, err
}

// SimulateTotals calcula los totales de una lista de líneas sin persistir
// nada: previsualización para el cajero antes de cobrar.
func (uc *ComprobanteUseCase) SimulateTotals(ctx context.Context, companyID string, items []entity.OrderItem) (Totals, error) {
	_, policy, err := uc.resolvePolicy(ctx, companyID)
	if err != nil {
		return Totals{}, err
	}
	return ComputeTotals(items, policy), nil
}

// resolvePolicy carga empresa + registro fiscal y deriva la política.
func (uc *ComprobanteUseCase) resolvePolicy(ctx context.Context, companyID string) (*entity.Company, TaxPolicy, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, TaxPolicy{}, fmt.Errorf("obtener empresa: %w", err)
	}
	if company == nil {
		return nil, TaxPolicy{}, domain.ErrNotFound
	}
	reg, err := uc.fiscalRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, TaxPolicy{}, fmt.Errorf("obtener registro fiscal: %w", err)
	}
	return company, ResolveTaxPolicy(company, CapabilityOf(reg)), nil
}

// verificationHash deriva un digest estable del pago: id, monto y fecha.
// Es determinístico para toda la vida del comprobante.
func verificationHash(p *entity.Payment) string {
	sum := sha256.Sum256([]byte(
		p.ID + "|" + p.Amount.StringFixed(2) + "|" + p.PaidAt.UTC().Format(time.RFC3339),
	))
	return hex.EncodeToString(sum[:])
}

// documentPath / ticketPath rutas de los archivos dentro del ArtifactStore.
func documentPath(c *entity.Comprobante) string {
	return "comprobantes/" + strings.ToLower(c.Type) + "_" + c.FullNumber() + ".pdf"
}

func ticketPath(c *entity.Comprobante) string {
	return "tickets/" + strings.ToLower(c.Type) + "_" + c.FullNumber() + ".pdf"
}
