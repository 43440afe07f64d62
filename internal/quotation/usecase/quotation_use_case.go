package usecase

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"quotehub/internal/domain"
	apperrors "quotehub/internal/errors"
)

type QuotationWriter interface {
	Create(ctx context.Context, q domain.Quotation, items []domain.QuotationItem) (uint, error)
	Update(ctx context.Context, id uint, q domain.Quotation, items []domain.QuotationItem) error
	Delete(ctx context.Context, id uint) error
}

type QuotationReader interface {
	FindAll(ctx context.Context, companyID *int) ([]domain.QuotationSummary, error)
	FindSummaryByID(ctx context.Context, id uint) (*domain.QuotationSummary, error)
	FindDetailByID(ctx context.Context, id uint) (*domain.QuotationDetail, error)
}

type QuotationItemReader interface {
	FindByQuotationID(ctx context.Context, quotationID uint) ([]domain.QuotationItem, error)
}

type QuotationUseCase struct {
	writer           QuotationWriter
	reader           QuotationReader
	itemReader       QuotationItemReader
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewQuotationUseCase(
	writer QuotationWriter,
	reader QuotationReader,
	itemReader QuotationItemReader,
	logger *zap.Logger,
	maxRetryAttempts int,
) *QuotationUseCase {
	return &QuotationUseCase{
		writer:           writer,
		reader:           reader,
		itemReader:       itemReader,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *QuotationUseCase) List(ctx context.Context, companyID *int) ([]domain.QuotationSummary, error) {
	return uc.reader.FindAll(ctx, companyID)
}

func (uc *QuotationUseCase) Get(ctx context.Context, id uint) (*domain.QuotationDetail, error) {
	detail, err := uc.reader.FindDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := uc.itemReader.FindByQuotationID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Items = items

	return detail, nil
}

func (uc *QuotationUseCase) Create(ctx context.Context, q domain.Quotation, items []domain.QuotationItem) (*domain.QuotationSummary, error) {
	uc.logger.Info("quotation create started", zap.Int("companyId", q.CompanyID), zap.Int("itemCount", len(items)))

	var quotationID uint
	err := uc.withDeadlockRetry(ctx, func() error {
		id, err := uc.writer.Create(ctx, q, items)
		if err != nil {
			return err
		}
		quotationID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return uc.reader.FindSummaryByID(ctx, quotationID)
}

func (uc *QuotationUseCase) Update(ctx context.Context, id uint, q domain.Quotation, items []domain.QuotationItem) (*domain.QuotationSummary, error) {
	uc.logger.Info("quotation update started", zap.Uint("quotationId", id), zap.Int("itemCount", len(items)))

	err := uc.withDeadlockRetry(ctx, func() error {
		return uc.writer.Update(ctx, id, q, items)
	})
	if err != nil {
		return nil, err
	}

	return uc.reader.FindSummaryByID(ctx, id)
}

func (uc *QuotationUseCase) Delete(ctx context.Context, id uint) error {
	return uc.withDeadlockRetry(ctx, func() error {
		return uc.writer.Delete(ctx, id)
	})
}

// withDeadlockRetry retries a write after InnoDB deadlock or lock-wait
// timeout, with linear backoff plus jitter. Other errors pass through.
func (uc *QuotationUseCase) withDeadlockRetry(ctx context.Context, op func() error) error {
	backoffBase := 100 * time.Millisecond

	for attempt := 1; attempt <= uc.maxRetryAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		if !isDeadlockError(err) {
			return err
		}

		if attempt < uc.maxRetryAttempts {
			backoff := backoffBase * time.Duration(attempt-1)
			// ±20% jitter
			jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
			uc.logger.Warn("deadlock detected, retrying",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", uc.maxRetryAttempts))
			select {
			case <-time.After(jitter):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return apperrors.NewConflictError("write conflict: max retries exceeded")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
