package fiscal

import (
	"context"

	"github.com/mesafacil/pos-api/internal/domain/entity"
	"github.com/mesafacil/pos-api/internal/domain/repository"
)

// RenderInput datos completos para renderizar un comprobante.
type RenderInput struct {
	Comprobante *entity.Comprobante
	Company     *entity.Company
	Payment     *entity.Payment
	Items       []entity.OrderItem
}

// Renderer genera las representaciones del comprobante: documento formal A4
// y variante de ticket térmico. Debe ser seguro llamarlo de nuevo para el
// mismo comprobante (sobrescribe o produce el mismo contenido).
type Renderer interface {
	RenderDocument(ctx context.Context, in RenderInput) ([]byte, error)
	RenderTicket(ctx context.Context, in RenderInput) ([]byte, error)
}

// ArtifactStore almacena los archivos generados (PDF y ticket).
type ArtifactStore interface {
	Save(ctx context.Context, path string, data []byte) error
	Exists(ctx context.Context, path string) (bool, error)
	Read(ctx context.Context, path string) ([]byte, error)
}

// Attachment adjunto de correo.
type Attachment struct {
	Filename string
	MIMEType string
	Content  []byte
}

// MailSender transporte de correo para el envío digital de comprobantes.
// El contrato del caso de uso es solo la transición de estado más el
// pass/fail de este colaborador.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string, attachments []Attachment) error
}

// SummaryBuilder construye el resumen XML del comprobante electrónico
// (se adjunta al correo en empresas con facturación electrónica).
type SummaryBuilder interface {
	BuildXML(in RenderInput) ([]byte, error)
}

// TxRunner ejecuta la asignación de número y la creación del comprobante en
// una sola transacción: si una falla, la otra se revierte.
type TxRunner interface {
	RunFiscal(ctx context.Context, fn func(
		seq repository.SequenceAllocator,
		comprobantes repository.ComprobanteRepository,
	) error) error
}
