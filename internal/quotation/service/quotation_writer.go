package service

import (
	"context"
	"database/sql"
	"time"

	"quotehub/internal/domain"

	"go.uber.org/zap"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type CompanyRepository interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int) (*domain.Company, error)
}

type QuotationRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, q domain.Quotation) (uint, error)
	Update(ctx context.Context, tx *sql.Tx, id uint, q domain.Quotation) error
	Delete(ctx context.Context, tx *sql.Tx, id uint) error
	CountByCompanyIDTx(ctx context.Context, tx *sql.Tx, companyID int) (int, error)
}

type QuotationItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item domain.QuotationItem) (uint, error)
	DeleteByQuotationID(ctx context.Context, tx *sql.Tx, quotationID uint) error
}

// QuotationWriter owns every multi-statement write against the quotation
// tables. A header and its item list always commit or roll back together.
type QuotationWriter struct {
	db            TransactionManager
	companyRepo   CompanyRepository
	quotationRepo QuotationRepository
	itemRepo      QuotationItemRepository
	logger        *zap.Logger
	txTimeout     time.Duration
}

func NewQuotationWriter(
	db TransactionManager,
	companyRepo CompanyRepository,
	quotationRepo QuotationRepository,
	itemRepo QuotationItemRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *QuotationWriter {
	return &QuotationWriter{
		db:            db,
		companyRepo:   companyRepo,
		quotationRepo: quotationRepo,
		itemRepo:      itemRepo,
		logger:        logger,
		txTimeout:     txTimeout,
	}
}

// Create inserts the header and its items in one transaction. When the
// submitted header has no quote number, the number is derived inside the
// transaction while holding the company row lock, so concurrent creates for
// the same company cannot produce duplicates.
func (s *QuotationWriter) Create(ctx context.Context, q domain.Quotation, items []domain.QuotationItem) (uint, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return 0, err
	}
	// Ensure rollback on any exit path. MySQL ignores rollback if already committed.
	defer tx.Rollback()

	if q.QuoteNumber == "" {
		number, err := s.reserveQuoteNumber(txCtx, tx, q.CompanyID)
		if err != nil {
			return 0, err
		}
		q.QuoteNumber = number
	}

	quotationID, err := s.quotationRepo.Insert(txCtx, tx, q)
	if err != nil {
		s.logger.Error("failed to insert quotation", zap.Int("companyId", q.CompanyID), zap.Error(err))
		return 0, err
	}

	if err := s.insertItems(txCtx, tx, quotationID, items); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("quotationId", quotationID), zap.Error(err))
		return 0, err
	}

	s.logger.Info("quotation created",
		zap.Uint("quotationId", quotationID),
		zap.Int("companyId", q.CompanyID),
		zap.String("quoteNumber", q.QuoteNumber),
		zap.Int("itemCount", len(items)))

	return quotationID, nil
}

// Update replaces the mutable header fields and the full item set in one
// transaction. A missing header rolls back before any item is touched.
func (s *QuotationWriter) Update(ctx context.Context, id uint, q domain.Quotation, items []domain.QuotationItem) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.quotationRepo.Update(txCtx, tx, id, q); err != nil {
		return err
	}

	if err := s.itemRepo.DeleteByQuotationID(txCtx, tx, id); err != nil {
		s.logger.Error("failed to delete quotation items", zap.Uint("quotationId", id), zap.Error(err))
		return err
	}

	if err := s.insertItems(txCtx, tx, id, items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("quotationId", id), zap.Error(err))
		return err
	}

	s.logger.Info("quotation updated", zap.Uint("quotationId", id), zap.Int("itemCount", len(items)))

	return nil
}

// Delete removes the items and then the header in one transaction. The items
// table also carries ON DELETE CASCADE, but the explicit delete keeps the
// no-orphans invariant independent of schema configuration.
func (s *QuotationWriter) Delete(ctx context.Context, id uint) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.itemRepo.DeleteByQuotationID(txCtx, tx, id); err != nil {
		s.logger.Error("failed to delete quotation items", zap.Uint("quotationId", id), zap.Error(err))
		return err
	}

	if err := s.quotationRepo.Delete(txCtx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("quotationId", id), zap.Error(err))
		return err
	}

	s.logger.Info("quotation deleted", zap.Uint("quotationId", id))

	return nil
}

// insertItems writes the submitted sequence with fresh zero-based sort_order.
// Input order is authoritative.
func (s *QuotationWriter) insertItems(ctx context.Context, tx *sql.Tx, quotationID uint, items []domain.QuotationItem) error {
	for i, item := range items {
		item.QuotationID = quotationID
		item.SortOrder = i

		if _, err := s.itemRepo.Insert(ctx, tx, item); err != nil {
			s.logger.Error("failed to insert quotation item",
				zap.Uint("quotationId", quotationID),
				zap.Int("sortOrder", i),
				zap.Error(err))
			return err
		}
	}
	return nil
}

func (s *QuotationWriter) reserveQuoteNumber(ctx context.Context, tx *sql.Tx, companyID int) (string, error) {
	company, err := s.companyRepo.FindByIDForUpdate(ctx, tx, companyID)
	if err != nil {
		s.logger.Error("failed to lock company for numbering", zap.Int("companyId", companyID), zap.Error(err))
		return "", err
	}

	count, err := s.quotationRepo.CountByCompanyIDTx(ctx, tx, companyID)
	if err != nil {
		return "", err
	}

	return domain.FormatQuoteNumber(company.QuotePrefix(), count+1), nil
}
