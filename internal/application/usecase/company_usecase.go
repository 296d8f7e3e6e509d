package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mesafacil/pos-api/internal/application/dto"
	"github.com/mesafacil/pos-api/internal/domain"
	"github.com/mesafacil/pos-api/internal/domain/entity"
	"github.com/mesafacil/pos-api/internal/domain/repository"
)

// CompanyUseCase administración de empresas y su configuración fiscal.
type CompanyUseCase struct {
	companyRepo repository.CompanyRepository
	fiscalRepo  repository.FiscalRegistrationRepository
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(companyRepo repository.CompanyRepository, fiscalRepo repository.FiscalRegistrationRepository) *CompanyUseCase {
	return &CompanyUseCase{companyRepo: companyRepo, fiscalRepo: fiscalRepo}
}

// Create da de alta una empresa con su configuración fiscal inicial.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	mode := in.OperationMode
	if mode == "" {
		mode = entity.ModeSimpleTicket
	}
	switch mode {
	case entity.ModeSimpleTicket, entity.ModeManualReceipt, entity.ModeElectronicInvoicing, entity.ModeMixed:
	default:
		return nil, domain.ErrInvalidInput
	}
	currency := in.Currency
	if currency == "" {
		currency = "PEN"
	}
	prefix := in.TicketPrefix
	if prefix == "" {
		prefix = entity.DefaultTicketPrefix
	}
	now := time.Now()
	company := &entity.Company{
		ID:                uuid.New().String(),
		Name:              in.Name,
		RUC:               in.RUC,
		Address:           in.Address,
		Phone:             in.Phone,
		Email:             in.Email,
		Status:            "active",
		OperationMode:     mode,
		AppliesTax:        in.AppliesTax,
		TaxRate:           in.TaxRate,
		Currency:          currency,
		TicketPrefix:      prefix,
		TicketCorrelative: 1, // próximo ticket a emitir
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// Get devuelve la empresa por ID.
func (uc *CompanyUseCase) Get(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return toCompanyResponse(company), nil
}

// Update modifica datos y configuración fiscal de la empresa.
func (uc *CompanyUseCase) Update(ctx context.Context, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		company.Name = in.Name
	}
	if in.Address != "" {
		company.Address = in.Address
	}
	if in.Phone != "" {
		company.Phone = in.Phone
	}
	if in.Email != "" {
		company.Email = in.Email
	}
	if in.OperationMode != "" {
		switch in.OperationMode {
		case entity.ModeSimpleTicket, entity.ModeManualReceipt, entity.ModeElectronicInvoicing, entity.ModeMixed:
			company.OperationMode = in.OperationMode
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	if in.AppliesTax != nil {
		company.AppliesTax = *in.AppliesTax
	}
	if !in.TaxRate.IsZero() {
		company.TaxRate = in.TaxRate
	}
	company.UpdatedAt = time.Now()
	if err := uc.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// UpsertFiscalRegistration crea o actualiza el registro fiscal de la empresa.
// Las series por defecto solo se aplican en la creación; los correlativos
// nunca se tocan desde aquí (solo el asignador de secuencias los mueve).
func (uc *CompanyUseCase) UpsertFiscalRegistration(ctx context.Context, companyID string, in dto.FiscalRegistrationRequest) (*entity.FiscalRegistration, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.fiscalRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if existing == nil {
		serieFactura := in.SerieFactura
		if serieFactura == "" {
			serieFactura = entity.DefaultSerieFactura
		}
		serieBoleta := in.SerieBoleta
		if serieBoleta == "" {
			serieBoleta = entity.DefaultSerieBoleta
		}
		reg := &entity.FiscalRegistration{
			ID:                      uuid.New().String(),
			CompanyID:               companyID,
			TaxID:                   in.TaxID,
			LegalName:               in.LegalName,
			ElectronicBillingActive: in.ElectronicBillingActive,
			SerieFactura:            serieFactura,
			CorrelativoFactura:      1,
			SerieBoleta:             serieBoleta,
			CorrelativoBoleta:       1,
			SerieNotaCredito:        entity.DefaultSerieNotaCredito,
			CorrelativoNotaCredito:  1,
			SerieNotaDebito:         entity.DefaultSerieNotaDebito,
			CorrelativoNotaDebito:   1,
			CreatedAt:               now,
			UpdatedAt:               now,
		}
		if err := uc.fiscalRepo.Create(ctx, reg); err != nil {
			return nil, err
		}
		return reg, nil
	}
	existing.TaxID = in.TaxID
	existing.LegalName = in.LegalName
	existing.ElectronicBillingActive = in.ElectronicBillingActive
	existing.UpdatedAt = now
	if err := uc.fiscalRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:            c.ID,
		Name:          c.Name,
		RUC:           c.RUC,
		Address:       c.Address,
		Phone:         c.Phone,
		Email:         c.Email,
		Status:        c.Status,
		OperationMode: c.OperationMode,
		AppliesTax:    c.AppliesTax,
		TaxRate:       c.TaxRate,
		Currency:      c.Currency,
		TicketPrefix:  c.TicketPrefix,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
