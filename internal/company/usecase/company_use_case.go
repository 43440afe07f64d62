package usecase

import (
	"context"

	"go.uber.org/zap"

	"quotehub/internal/domain"
	"quotehub/internal/dto"
)

type CompanyRepository interface {
	FindAll(ctx context.Context) ([]domain.Company, error)
	FindByID(ctx context.Context, id int) (*domain.Company, error)
	Update(ctx context.Context, id int, company domain.Company, logoURL *string) error
}

type QuotationCounter interface {
	CountByCompanyID(ctx context.Context, companyID int) (int, error)
}

type CompanyUseCase struct {
	companyRepo      CompanyRepository
	quotationCounter QuotationCounter
	logger           *zap.Logger
}

func NewCompanyUseCase(companyRepo CompanyRepository, quotationCounter QuotationCounter, logger *zap.Logger) *CompanyUseCase {
	return &CompanyUseCase{
		companyRepo:      companyRepo,
		quotationCounter: quotationCounter,
		logger:           logger,
	}
}

func (uc *CompanyUseCase) List(ctx context.Context) ([]domain.Company, error) {
	return uc.companyRepo.FindAll(ctx)
}

func (uc *CompanyUseCase) Get(ctx context.Context, id int) (*domain.Company, error) {
	return uc.companyRepo.FindByID(ctx, id)
}

// Update overwrites the full field set and returns the post-update record.
// A nil logoURL leaves the stored logo reference untouched.
func (uc *CompanyUseCase) Update(ctx context.Context, id int, fields dto.CompanyUpdate, logoURL *string) (*domain.Company, error) {
	company := domain.Company{
		Name:           fields.Name,
		Address:        fields.Address,
		TPIN:           fields.TPIN,
		BankDetails:    fields.BankDetails,
		VATRate:        fields.VATRate,
		PPDARate:       fields.PPDARate,
		PrimaryColor:   fields.PrimaryColor,
		SecondaryColor: fields.SecondaryColor,
	}

	if err := uc.companyRepo.Update(ctx, id, company, logoURL); err != nil {
		return nil, err
	}

	uc.logger.Info("company updated", zap.Int("companyId", id), zap.Bool("logoReplaced", logoURL != nil))

	return uc.companyRepo.FindByID(ctx, id)
}

// NextQuoteNumber previews the next number from current row counts. It takes
// no lock and reserves nothing; creation derives the committed number under
// the company row lock.
func (uc *CompanyUseCase) NextQuoteNumber(ctx context.Context, companyID int) (string, error) {
	company, err := uc.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return "", err
	}

	count, err := uc.quotationCounter.CountByCompanyID(ctx, companyID)
	if err != nil {
		return "", err
	}

	return domain.FormatQuoteNumber(company.QuotePrefix(), count+1), nil
}
