package fiscal

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mesafacil/pos-api/internal/domain"
	"github.com/mesafacil/pos-api/internal/domain/entity"
)

// Actor centinela cuando no se puede resolver quién anula.
const systemActor = "SYSTEM"

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Void anula un comprobante. La anulación es terminal y no devuelve el número
// al pool: los números anulados quedan consumidos permanentemente por
// exigencia de auditoría fiscal.
//
// Guardas: motivo no vacío; no anulado previamente; un comprobante en ERROR
// no puede anularse (nunca fue emitido válidamente).
func (uc *ComprobanteUseCase) Void(ctx context.Context, companyID, id, reason, actor string) (*entity.Comprobante, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}
	comp, err := uc.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	switch comp.State {
	case entity.StateVoided:
		return nil, domain.ErrAlreadyVoided
	case entity.StateError:
		return nil, domain.ErrCannotVoidErrored
	}
	if actor = strings.TrimSpace(actor); actor == "" {
		actor = systemActor
	}

	now := time.Now()
	comp.State = entity.StateVoided
	comp.VoidedAt = &now
	comp.VoidedBy = actor
	note := fmt.Sprintf("ANULADO por %s: %s", actor, reason)
	if comp.Observations == "" {
		comp.Observations = note
	} else {
		comp.Observations += "\n" + note
	}
	comp.UpdatedAt = now
	if err := uc.comprobanteRepo.Update(ctx, comp); err != nil {
		return nil, fmt.Errorf("anular comprobante: %w", err)
	}
	return comp, nil
}

// Dispatch envía el comprobante por correo. Exige que el documento formal ya
// esté materializado (no regenera nada: la reparación es EnsureArtifacts).
// El estado solo cambia a SENT si el transporte confirma el envío; un fallo
// del transporte deja el comprobante intacto.
func (uc *ComprobanteUseCase) Dispatch(ctx context.Context, companyID, id, email string) (*entity.Comprobante, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return nil, domain.ErrInvalidEmail
	}
	comp, err := uc.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if comp.State == entity.StateVoided {
		return nil, domain.ErrDocumentVoided
	}
	present, err := uc.artifactPresent(ctx, comp.PDFPath)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, domain.ErrArtifactMissing
	}

	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil || company == nil {
		return nil, fmt.Errorf("obtener empresa: %w", err)
	}

	pdfData, err := uc.store.Read(ctx, comp.PDFPath)
	if err != nil {
		return nil, fmt.Errorf("leer documento: %w", err)
	}
	attachments := []Attachment{{
		Filename: strings.ToLower(comp.Type) + "_" + comp.FullNumber() + ".pdf",
		MIMEType: "application/pdf",
		Content:  pdfData,
	}}

	// Empresas con facturación electrónica adjuntan además el resumen XML.
	if company.OperationMode == entity.ModeElectronicInvoicing && uc.xmlBuilder != nil {
		payment, items, err := uc.loadPaymentAndItems(ctx, comp)
		if err != nil {
			return nil, err
		}
		xmlData, err := uc.xmlBuilder.BuildXML(RenderInput{
			Comprobante: comp, Company: company, Payment: payment, Items: items,
		})
		if err != nil {
			return nil, fmt.Errorf("generar resumen XML: %w", err)
		}
		attachments = append(attachments, Attachment{
			Filename: strings.ToLower(comp.Type) + "_" + comp.FullNumber() + ".xml",
			MIMEType: "application/xml",
			Content:  xmlData,
		})
	}

	subject := fmt.Sprintf("%s %s - %s", typeLabel(comp.Type), comp.FullNumber(), company.Name)
	body := fmt.Sprintf(
		"Adjuntamos su %s %s emitido el %s por un total de %s %s.\n\nGracias por su preferencia.\n%s",
		strings.ToLower(typeLabel(comp.Type)), comp.FullNumber(),
		comp.IssuedAt.Format("02/01/2006"),
		comp.Currency, comp.Total.StringFixed(2),
		company.Name,
	)
	if err := uc.mailer.Send(ctx, email, subject, body, attachments); err != nil {
		return nil, &domain.DispatchError{Email: email, Err: err}
	}

	now := time.Now()
	comp.State = entity.StateSent
	comp.DispatchedAt = &now
	comp.DispatchEmail = email
	comp.UpdatedAt = now
	if err := uc.comprobanteRepo.Update(ctx, comp); err != nil {
		return nil, fmt.Errorf("registrar envío: %w", err)
	}
	return comp, nil
}

// typeLabel nombre en español del tipo de comprobante.
func typeLabel(documentType string) string {
	switch documentType {
	case entity.TypeTicket:
		return "Ticket"
	case entity.TypeBoleta:
		return "Boleta de Venta"
	case entity.TypeFactura:
		return "Factura"
	case entity.TypeNotaCredito:
		return "Nota de Crédito"
	case entity.TypeNotaDebito:
		return "Nota de Débito"
	default:
		return "Comprobante"
	}
}
