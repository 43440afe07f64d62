package company

import (
	"database/sql"

	"go.uber.org/zap"

	"quotehub/internal/company/controller"
	"quotehub/internal/company/repository"
	"quotehub/internal/company/storage"
	"quotehub/internal/company/usecase"
	"quotehub/internal/config"
	quotationrepo "quotehub/internal/quotation/repository"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) (*controller.CompanyController, error) {
	companyRepo := repository.NewMySQLCompanyRepository(db)
	quotationRepo := quotationrepo.NewMySQLQuotationRepository(db)

	logoStore, err := storage.NewLogoStore(cfg.Upload.Dir)
	if err != nil {
		return nil, err
	}

	uc := usecase.NewCompanyUseCase(companyRepo, quotationRepo, logger)

	return controller.NewCompanyController(uc, logoStore, logger, cfg.Upload.MaxBytes), nil
}
