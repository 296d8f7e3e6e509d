package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mesafacil/pos-api/internal/application/auth"
	"github.com/mesafacil/pos-api/internal/application/fiscal"
	"github.com/mesafacil/pos-api/internal/application/usecase"
	"github.com/mesafacil/pos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CompanyUC     *usecase.CompanyUseCase
	PaymentUC     *usecase.PaymentUseCase
	ComprobanteUC *fiscal.ComprobanteUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	companyHandler := NewCompanyHandler(deps.CompanyUC)

	// Alta de empresa (público: es el onboarding inicial)
	api.Post("/companies", companyHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Empresa del token
	company := protected.Group("/company")
	company.Get("/", companyHandler.Get)
	company.Put("/", RequireRole(entity.RoleAdmin), companyHandler.Update)
	company.Put("/fiscal", RequireRole(entity.RoleAdmin), companyHandler.UpsertFiscalRegistration)

	// Pagos
	payments := protected.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	payments.Post("/", RequireRole(entity.RoleAdmin, entity.RoleCajero), paymentHandler.Register)
	payments.Get("/:id", paymentHandler.Get)

	// Comprobantes
	comprobantes := protected.Group("/comprobantes")
	comprobanteHandler := NewComprobanteHandler(deps.ComprobanteUC)
	comprobantes.Get("/capacidad", comprobanteHandler.Capability)
	comprobantes.Post("/simular", comprobanteHandler.Simulate)
	comprobantes.Post("/", RequireRole(entity.RoleAdmin, entity.RoleCajero), comprobanteHandler.Emit)
	comprobantes.Get("/", comprobanteHandler.List)
	comprobantes.Get("/:id", comprobanteHandler.Get)
	comprobantes.Get("/:id/pdf", comprobanteHandler.Download)
	comprobantes.Post("/:id/reimprimir", RequireRole(entity.RoleAdmin, entity.RoleCajero), comprobanteHandler.Reprint)
	comprobantes.Post("/:id/regenerar", RequireRole(entity.RoleAdmin, entity.RoleCajero), comprobanteHandler.Regenerate)
	comprobantes.Post("/:id/anular", RequireRole(entity.RoleAdmin), comprobanteHandler.Void)
	comprobantes.Post("/:id/enviar", RequireRole(entity.RoleAdmin, entity.RoleCajero), comprobanteHandler.Dispatch)
}
