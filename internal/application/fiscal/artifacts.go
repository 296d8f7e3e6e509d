package fiscal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mesafacil/pos-api/internal/domain"
	"github.com/mesafacil/pos-api/internal/domain/entity"
)

// renderArtifacts genera y guarda ambas representaciones (A4 y ticket) y
// deja las rutas en el comprobante. No persiste el comprobante: eso es
// responsabilidad del caller.
func (uc *ComprobanteUseCase) renderArtifacts(
	ctx context.Context,
	comp *entity.Comprobante,
	company *entity.Company,
	payment *entity.Payment,
	items []entity.OrderItem,
) error {
	in := RenderInput{Comprobante: comp, Company: company, Payment: payment, Items: items}

	docBytes, err := uc.renderer.RenderDocument(ctx, in)
	if err != nil {
		return &domain.RenderError{Reason: "documento A4", Err: err}
	}
	docPath := documentPath(comp)
	if err := uc.store.Save(ctx, docPath, docBytes); err != nil {
		return &domain.RenderError{Reason: "guardar documento A4", Err: err}
	}

	tkBytes, err := uc.renderer.RenderTicket(ctx, in)
	if err != nil {
		return &domain.RenderError{Reason: "ticket térmico", Err: err}
	}
	tkPath := ticketPath(comp)
	if err := uc.store.Save(ctx, tkPath, tkBytes); err != nil {
		return &domain.RenderError{Reason: "guardar ticket térmico", Err: err}
	}

	comp.PDFPath = docPath
	comp.TicketPath = tkPath
	return nil
}

// EnsureArtifacts repara los archivos del comprobante: regenera solo los que
// faltan. Es idempotente (con ambos archivos presentes no escribe nada) y
// nunca reasigna número. Si el comprobante estaba en ERROR y la reparación
// completa ambos archivos, vuelve a GENERATED; fuera de ese caso el estado
// no cambia.
func (uc *ComprobanteUseCase) EnsureArtifacts(ctx context.Context, companyID, id string) (*entity.Comprobante, error) {
	comp, err := uc.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	changed, err := uc.ensureArtifacts(ctx, comp)
	if err != nil {
		return comp, err
	}
	if changed {
		comp.UpdatedAt = time.Now()
		if err := uc.comprobanteRepo.Update(ctx, comp); err != nil {
			return comp, fmt.Errorf("guardar rutas regeneradas: %w", err)
		}
	}
	return comp, nil
}

// ensureArtifacts regenera los archivos faltantes sobre el comprobante ya
// cargado. Devuelve true si hubo que regenerar algo.
func (uc *ComprobanteUseCase) ensureArtifacts(ctx context.Context, comp *entity.Comprobante) (bool, error) {
	docOK, err := uc.artifactPresent(ctx, comp.PDFPath)
	if err != nil {
		return false, err
	}
	tkOK, err := uc.artifactPresent(ctx, comp.TicketPath)
	if err != nil {
		return false, err
	}
	if docOK && tkOK {
		return false, nil
	}

	payment, items, err := uc.loadPaymentAndItems(ctx, comp)
	if err != nil {
		return false, err
	}
	company, err := uc.companyRepo.GetByID(ctx, comp.CompanyID)
	if err != nil || company == nil {
		return false, fmt.Errorf("obtener empresa: %w", err)
	}
	in := RenderInput{Comprobante: comp, Company: company, Payment: payment, Items: items}

	if !docOK {
		data, err := uc.renderer.RenderDocument(ctx, in)
		if err != nil {
			return false, &domain.RenderError{Reason: "regenerar documento A4", Err: err}
		}
		path := documentPath(comp)
		if err := uc.store.Save(ctx, path, data); err != nil {
			return false, &domain.RenderError{Reason: "guardar documento A4", Err: err}
		}
		comp.PDFPath = path
	}
	if !tkOK {
		data, err := uc.renderer.RenderTicket(ctx, in)
		if err != nil {
			return false, &domain.RenderError{Reason: "regenerar ticket térmico", Err: err}
		}
		path := ticketPath(comp)
		if err := uc.store.Save(ctx, path, data); err != nil {
			return false, &domain.RenderError{Reason: "guardar ticket térmico", Err: err}
		}
		comp.TicketPath = path
	}

	// La reparación completa recupera un comprobante errado.
	if comp.State == entity.StateError {
		comp.State = entity.StateGenerated
		comp.ErrorMessage = ""
	}
	return true, nil
}

// Download entrega el archivo del comprobante para un camino de impresión.
// No es una lectura pura: cada llamada cuenta como "el documento fue enviado
// a imprimir", incrementa PrintCount y en la primera impresión pasa de
// GENERATED a PRINTED sellando FirstPrintedAt.
//
// Con autoprint se entrega la variante térmica; si el archivo elegido falta,
// primero se repara con ensureArtifacts.
func (uc *ComprobanteUseCase) Download(ctx context.Context, companyID, id string, autoprint bool) ([]byte, string, error) {
	comp, err := uc.Get(ctx, companyID, id)
	if err != nil {
		return nil, "", err
	}
	if comp.State == entity.StateVoided {
		return nil, "", domain.ErrDocumentVoided
	}

	selected := comp.PDFPath
	if autoprint {
		selected = comp.TicketPath
	}
	present, err := uc.artifactPresent(ctx, selected)
	if err != nil {
		return nil, "", err
	}
	if !present {
		if _, err = uc.ensureArtifacts(ctx, comp); err != nil {
			return nil, "", err
		}
		selected = comp.PDFPath
		if autoprint {
			selected = comp.TicketPath
		}
	}

	data, err := uc.store.Read(ctx, selected)
	if err != nil {
		return nil, "", fmt.Errorf("leer archivo %s: %w", selected, err)
	}

	now := time.Now()
	if comp.State == entity.StateGenerated {
		comp.State = entity.StatePrinted
		comp.FirstPrintedAt = &now
	}
	comp.PrintCount++
	comp.UpdatedAt = now
	if err := uc.comprobanteRepo.Update(ctx, comp); err != nil {
		return nil, "", fmt.Errorf("registrar impresión: %w", err)
	}

	kind := "comprobante"
	if autoprint {
		kind = "ticket"
	}
	filename := fmt.Sprintf("%s_%s_%s.pdf", kind, strings.ToLower(comp.Type), comp.FullNumber())
	return data, filename, nil
}

// Reprint fuerza la reparación de archivos y registra una reimpresión.
// Un comprobante anulado no puede reimprimirse.
func (uc *ComprobanteUseCase) Reprint(ctx context.Context, companyID, id string) (*entity.Comprobante, error) {
	comp, err := uc.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if comp.State == entity.StateVoided {
		return nil, domain.ErrCannotReprintVoided
	}

	if _, err := uc.ensureArtifacts(ctx, comp); err != nil {
		return nil, err
	}

	now := time.Now()
	if comp.State != entity.StateVoided && comp.State != entity.StateError {
		comp.State = entity.StatePrinted
		if comp.FirstPrintedAt == nil {
			comp.FirstPrintedAt = &now
		}
	}
	comp.PrintCount++
	comp.UpdatedAt = now
	if err := uc.comprobanteRepo.Update(ctx, comp); err != nil {
		return nil, fmt.Errorf("registrar reimpresión: %w", err)
	}
	return comp, nil
}

// artifactPresent informa si la ruta existe en el almacén (vacía = ausente).
func (uc *ComprobanteUseCase) artifactPresent(ctx context.Context, path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	ok, err := uc.store.Exists(ctx, path)
	if err != nil {
		return false, fmt.Errorf("verificar archivo %s: %w", path, err)
	}
	return ok, nil
}

// loadPaymentAndItems carga el pago y las líneas necesarias para re-renderizar.
func (uc *ComprobanteUseCase) loadPaymentAndItems(ctx context.Context, comp *entity.Comprobante) (*entity.Payment, []entity.OrderItem, error) {
	payment, err := uc.paymentRepo.GetByID(ctx, comp.PaymentID)
	if err != nil {
		return nil, nil, fmt.Errorf("obtener pago: %w", err)
	}
	if payment == nil {
		return nil, nil, domain.ErrNotFound
	}
	items, err := uc.paymentRepo.ItemsByOrder(ctx, payment.OrderID)
	if err != nil {
		return nil, nil, fmt.Errorf("obtener líneas: %w", err)
	}
	return payment, items, nil
}
