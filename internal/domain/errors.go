package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConcurrency        = errors.New("conflicto de concurrencia, reintentar")
)

// Errores del ciclo de vida de comprobantes.
var (
	ErrDocumentTypeNotAllowed = errors.New("tipo de comprobante no permitido para la empresa")
	ErrNoFiscalRegistration   = errors.New("la empresa no tiene registro fiscal")
	ErrInvalidFiscalConfig    = errors.New("configuración fiscal inválida")
	ErrReasonRequired         = errors.New("motivo de anulación requerido")
	ErrAlreadyVoided          = errors.New("el comprobante ya está anulado")
	ErrCannotVoidErrored      = errors.New("un comprobante en ERROR no puede anularse")
	ErrCannotReprintVoided    = errors.New("un comprobante anulado no puede reimprimirse")
	ErrDocumentVoided         = errors.New("el comprobante está anulado")
	ErrInvalidEmail           = errors.New("email inválido")
	ErrArtifactMissing        = errors.New("el comprobante no tiene archivo generado")
)

// Kind clasifica un error de dominio para la capa HTTP. Todo fallo interno se
// traduce a uno de estos tipos antes de cruzar el límite del caso de uso.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConcurrency
	KindRender
	KindDispatch
)

// RenderError falla en la generación de un archivo (PDF/ticket).
// El número asignado queda consumido; el comprobante pasa a estado ERROR.
type RenderError struct {
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return "render: " + e.Reason + ": " + e.Err.Error()
	}
	return "render: " + e.Reason
}

func (e *RenderError) Unwrap() error { return e.Err }

// DispatchError falla del transporte de correo. El estado del comprobante no cambia.
type DispatchError struct {
	Email string
	Err   error
}

func (e *DispatchError) Error() string {
	return "envío a " + e.Email + ": " + e.Err.Error()
}

func (e *DispatchError) Unwrap() error { return e.Err }

// KindOf devuelve la clasificación del error para mapear a código HTTP.
func KindOf(err error) Kind {
	var rErr *RenderError
	if errors.As(err, &rErr) {
		return KindRender
	}
	var dErr *DispatchError
	if errors.As(err, &dErr) {
		return KindDispatch
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrConcurrency):
		return KindConcurrency
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrDocumentTypeNotAllowed),
		errors.Is(err, ErrNoFiscalRegistration),
		errors.Is(err, ErrInvalidFiscalConfig),
		errors.Is(err, ErrReasonRequired),
		errors.Is(err, ErrAlreadyVoided),
		errors.Is(err, ErrCannotVoidErrored),
		errors.Is(err, ErrCannotReprintVoided),
		errors.Is(err, ErrDocumentVoided),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrArtifactMissing):
		return KindValidation
	default:
		return KindInternal
	}
}
