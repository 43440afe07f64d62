package repository

import (
	"context"
	"database/sql"
	"fmt"

	"quotehub/internal/domain"
	"quotehub/internal/errors"
)

type MySQLQuotationRepository struct {
	db *sql.DB
}

func NewMySQLQuotationRepository(db *sql.DB) *MySQLQuotationRepository {
	return &MySQLQuotationRepository{db: db}
}

const quotationColumns = `q.id, q.company_id, q.quote_number, q.client_name, q.client_address,
	       q.client_email, q.client_phone, q.date, q.expiry_days, q.subtotal,
	       q.vat_amount, q.ppda_amount, q.grand_total, q.notes, q.terms_conditions, q.created_at`

func scanQuotation(row interface{ Scan(...any) error }, extra ...any) (*domain.Quotation, error) {
	var q domain.Quotation
	dest := []any{
		&q.ID, &q.CompanyID, &q.QuoteNumber, &q.ClientName, &q.ClientAddress,
		&q.ClientEmail, &q.ClientPhone, &q.Date, &q.ExpiryDays, &q.Subtotal,
		&q.VATAmount, &q.PPDAAmount, &q.GrandTotal, &q.Notes, &q.TermsConditions, &q.CreatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *MySQLQuotationRepository) FindAll(ctx context.Context, companyID *int) ([]domain.QuotationSummary, error) {
	query := `
		SELECT ` + quotationColumns + `, c.name
		FROM quotations q
		JOIN companies c ON q.company_id = c.id`
	args := []any{}

	if companyID != nil {
		query += ` WHERE q.company_id = ?`
		args = append(args, *companyID)
	}

	query += ` ORDER BY q.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying quotations: %w", err)
	}
	defer rows.Close()

	quotations := []domain.QuotationSummary{}
	for rows.Next() {
		var companyName string
		q, err := scanQuotation(rows, &companyName)
		if err != nil {
			return nil, fmt.Errorf("scanning quotation row: %w", err)
		}
		quotations = append(quotations, domain.QuotationSummary{Quotation: *q, CompanyName: companyName})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating quotation rows: %w", err)
	}

	return quotations, nil
}

func (r *MySQLQuotationRepository) FindSummaryByID(ctx context.Context, id uint) (*domain.QuotationSummary, error) {
	query := `
		SELECT ` + quotationColumns + `, c.name
		FROM quotations q
		JOIN companies c ON q.company_id = c.id
		WHERE q.id = ?`

	var companyName string
	q, err := scanQuotation(r.db.QueryRowContext(ctx, query, id), &companyName)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("quotation with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying quotation by id: %w", err)
	}

	return &domain.QuotationSummary{Quotation: *q, CompanyName: companyName}, nil
}

// FindDetailByID joins the company presentation fields needed to render the
// quotation. Items are fetched separately by the item repository.
func (r *MySQLQuotationRepository) FindDetailByID(ctx context.Context, id uint) (*domain.QuotationDetail, error) {
	query := `
		SELECT ` + quotationColumns + `, c.name, COALESCE(c.address, ''), c.tpin,
		       COALESCE(c.bank_details, ''), c.logo_url, c.primary_color, c.secondary_color
		FROM quotations q
		JOIN companies c ON q.company_id = c.id
		WHERE q.id = ?`

	var detail domain.QuotationDetail
	q, err := scanQuotation(r.db.QueryRowContext(ctx, query, id),
		&detail.CompanyName, &detail.CompanyAddress, &detail.CompanyTPIN,
		&detail.CompanyBankDetails, &detail.CompanyLogo, &detail.PrimaryColor, &detail.SecondaryColor,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("quotation with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying quotation detail by id: %w", err)
	}

	detail.Quotation = *q
	return &detail, nil
}

func (r *MySQLQuotationRepository) Insert(ctx context.Context, tx *sql.Tx, q domain.Quotation) (uint, error) {
	query := `
		INSERT INTO quotations
		(company_id, quote_number, client_name, client_address, client_email, client_phone,
		 date, expiry_days, subtotal, vat_amount, ppda_amount, grand_total, notes, terms_conditions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query,
		q.CompanyID, q.QuoteNumber, q.ClientName, q.ClientAddress, q.ClientEmail, q.ClientPhone,
		q.Date, q.ExpiryDays, q.Subtotal, q.VATAmount, q.PPDAAmount, q.GrandTotal, q.Notes, q.TermsConditions,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting quotation: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

// Update overwrites the mutable header fields. The owning company and the
// quote number are immutable after creation.
func (r *MySQLQuotationRepository) Update(ctx context.Context, tx *sql.Tx, id uint, q domain.Quotation) error {
	query := `
		UPDATE quotations
		SET client_name = ?, client_address = ?, client_email = ?, client_phone = ?,
		    date = ?, expiry_days = ?, subtotal = ?, vat_amount = ?, ppda_amount = ?,
		    grand_total = ?, notes = ?, terms_conditions = ?
		WHERE id = ?`

	result, err := tx.ExecContext(ctx, query,
		q.ClientName, q.ClientAddress, q.ClientEmail, q.ClientPhone,
		q.Date, q.ExpiryDays, q.Subtotal, q.VATAmount, q.PPDAAmount,
		q.GrandTotal, q.Notes, q.TermsConditions, id,
	)
	if err != nil {
		return fmt.Errorf("updating quotation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("quotation with id %d not found", id))
	}

	return nil
}

func (r *MySQLQuotationRepository) Delete(ctx context.Context, tx *sql.Tx, id uint) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM quotations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting quotation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("quotation with id %d not found", id))
	}

	return nil
}

func (r *MySQLQuotationRepository) CountByCompanyID(ctx context.Context, companyID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotations WHERE company_id = ?`, companyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting quotations: %w", err)
	}
	return count, nil
}

// CountByCompanyIDTx counts inside a transaction that already holds the
// company row lock, so the derived quote number cannot race a concurrent
// create for the same company.
func (r *MySQLQuotationRepository) CountByCompanyIDTx(ctx context.Context, tx *sql.Tx, companyID int) (int, error) {
	var count int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotations WHERE company_id = ?`, companyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting quotations in transaction: %w", err)
	}
	return count, nil
}
