package quotation

import (
	"database/sql"

	"go.uber.org/zap"

	companyrepo "quotehub/internal/company/repository"
	"quotehub/internal/config"
	"quotehub/internal/quotation/controller"
	"quotehub/internal/quotation/repository"
	"quotehub/internal/quotation/service"
	"quotehub/internal/quotation/usecase"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *controller.QuotationController {
	quotationRepo := repository.NewMySQLQuotationRepository(db)
	itemRepo := repository.NewMySQLQuotationItemRepository(db)
	companyRepo := companyrepo.NewMySQLCompanyRepository(db)

	writer := service.NewQuotationWriter(
		db,
		companyRepo,
		quotationRepo,
		itemRepo,
		logger,
		cfg.Quotation.TxTimeout,
	)

	uc := usecase.NewQuotationUseCase(
		writer,
		quotationRepo,
		itemRepo,
		logger,
		cfg.Quotation.MaxRetryAttempts,
	)

	return controller.NewQuotationController(uc, logger)
}
