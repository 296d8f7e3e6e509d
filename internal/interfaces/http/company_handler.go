package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mesafacil/pos-api/internal/application/dto"
	"github.com/mesafacil/pos-api/internal/application/usecase"
)

// CompanyHandler maneja las peticiones de empresas y su configuración fiscal.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create da de alta una empresa.
// POST /api/companies
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	company, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(company)
}

// Get devuelve la empresa del token.
// GET /api/company
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	company, err := h.uc.Get(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(company)
}

// Update modifica datos y modo de operación de la empresa del token.
// PUT /api/company
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	company, err := h.uc.Update(c.Context(), companyID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(company)
}

// UpsertFiscalRegistration crea o actualiza el registro fiscal de la empresa.
// PUT /api/company/fiscal
func (h *CompanyHandler) UpsertFiscalRegistration(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.FiscalRegistrationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	reg, err := h.uc.UpsertFiscalRegistration(c.Context(), companyID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reg)
}
