package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mesafacil/pos-api/internal/application/dto"
	"github.com/mesafacil/pos-api/internal/application/fiscal"
	"github.com/mesafacil/pos-api/internal/domain"
	"github.com/mesafacil/pos-api/internal/domain/entity"
	"github.com/mesafacil/pos-api/internal/domain/repository"
)

// ComprobanteHandler maneja el ciclo de vida de los comprobantes fiscales.
type ComprobanteHandler struct {
	uc *fiscal.ComprobanteUseCase
}

// NewComprobanteHandler construye el handler.
func NewComprobanteHandler(uc *fiscal.ComprobanteUseCase) *ComprobanteHandler {
	return &ComprobanteHandler{uc: uc}
}

// Emit emite un comprobante sobre un pago completado.
// POST /api/comprobantes
//
// Si la emisión confirma el número pero el render falla, responde 502 con el
// comprobante en estado ERROR: el cliente puede reintentar con /regenerar.
func (h *ComprobanteHandler) Emit(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.EmitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.PaymentID == "" || in.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "payment_id y tipo requeridos"})
	}
	comp, err := h.uc.Emit(c.Context(), companyID, in.PaymentID, in.Type)
	if err != nil {
		if comp != nil && domain.KindOf(err) == domain.KindRender {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":       dto.ErrorResponse{Code: "RENDER_FAILED", Message: err.Error()},
				"comprobante": dto.ToComprobanteResponse(comp),
			})
		}
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToComprobanteResponse(comp))
}

// Get obtiene un comprobante.
// GET /api/comprobantes/:id
func (h *ComprobanteHandler) Get(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	comp, err := h.uc.Get(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToComprobanteResponse(comp))
}

// List lista comprobantes con filtros de auditoría.
// GET /api/comprobantes?tipo=FACTURA&desde=2026-01-01&hasta=2026-01-31&limit=50
func (h *ComprobanteHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	filter := repository.ComprobanteFilter{
		Type:  c.Query("tipo"),
		Limit: c.QueryInt("limit", 100),
	}
	if v := c.Query("desde"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "desde: formato esperado YYYY-MM-DD"})
		}
		filter.From = &t
	}
	if v := c.Query("hasta"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "hasta: formato esperado YYYY-MM-DD"})
		}
		// Inclusivo hasta el final del día.
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	list, err := h.uc.List(c.Context(), companyID, filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ComprobanteResponse, 0, len(list))
	for _, comp := range list {
		out = append(out, dto.ToComprobanteResponse(comp))
	}
	return c.JSON(out)
}

// Download entrega el PDF del comprobante y registra la impresión.
// GET /api/comprobantes/:id/pdf?autoprint=true entrega la variante térmica.
func (h *ComprobanteHandler) Download(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	autoprint := c.QueryBool("autoprint", false)
	data, filename, err := h.uc.Download(c.Context(), companyID, c.Params("id"), autoprint)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(data)
}

// Reprint repara archivos si faltan y registra una reimpresión.
// POST /api/comprobantes/:id/reimprimir
func (h *ComprobanteHandler) Reprint(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	comp, err := h.uc.Reprint(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToComprobanteResponse(comp))
}

// Regenerate repara los archivos faltantes sin registrar impresión.
// POST /api/comprobantes/:id/regenerar
func (h *ComprobanteHandler) Regenerate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	comp, err := h.uc.EnsureArtifacts(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToComprobanteResponse(comp))
}

// Void anula el comprobante con un motivo obligatorio. El número queda
// consumido: la serie sigue siendo consecutiva.
// POST /api/comprobantes/:id/anular
func (h *ComprobanteHandler) Void(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.VoidRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	comp, err := h.uc.Void(c.Context(), companyID, c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToComprobanteResponse(comp))
}

// Dispatch envía el comprobante por correo con el PDF adjunto.
// POST /api/comprobantes/:id/enviar
func (h *ComprobanteHandler) Dispatch(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.DispatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	comp, err := h.uc.Dispatch(c.Context(), companyID, c.Params("id"), in.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToComprobanteResponse(comp))
}

// Simulate calcula los totales de una lista de líneas sin persistir nada.
// POST /api/comprobantes/simular
func (h *ComprobanteHandler) Simulate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SimulateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items requeridos"})
	}
	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.OrderItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    fiscal.LineSubtotal(it.Quantity, it.UnitPrice),
		})
	}
	totals, err := h.uc.SimulateTotals(c.Context(), companyID, items)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(totals)
}

// Capability devuelve la política fiscal resuelta de la empresa: qué tipos
// puede emitir y con qué advertencias o limitaciones.
// GET /api/comprobantes/capacidad
func (h *ComprobanteHandler) Capability(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	policy, err := h.uc.Capability(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CapabilityResponse{
		AppliesTax:   policy.AppliesTax,
		Rate:         policy.Rate,
		Currency:     policy.Currency,
		AllowedTypes: policy.AllowedTypes,
		Valid:        policy.Valid,
		Message:      policy.Message,
		Warnings:     policy.Warnings,
		Limitations:  policy.Limitations,
	})
}
