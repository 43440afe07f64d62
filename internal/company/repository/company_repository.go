package repository

import (
	"context"
	"database/sql"
	"fmt"

	"quotehub/internal/domain"
	"quotehub/internal/errors"
)

type MySQLCompanyRepository struct {
	db *sql.DB
}

func NewMySQLCompanyRepository(db *sql.DB) *MySQLCompanyRepository {
	return &MySQLCompanyRepository{db: db}
}

const companyColumns = `id, name, COALESCE(address, ''), tpin, COALESCE(bank_details, ''),
	       vat_rate, ppda_rate, primary_color, secondary_color, logo_url, created_at, updated_at`

func scanCompany(row interface{ Scan(...any) error }) (*domain.Company, error) {
	var company domain.Company
	err := row.Scan(
		&company.ID, &company.Name, &company.Address, &company.TPIN, &company.BankDetails,
		&company.VATRate, &company.PPDARate, &company.PrimaryColor, &company.SecondaryColor,
		&company.LogoURL, &company.CreatedAt, &company.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *MySQLCompanyRepository) FindAll(ctx context.Context) ([]domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying companies: %w", err)
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning company row: %w", err)
		}
		companies = append(companies, *company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating company rows: %w", err)
	}

	return companies, nil
}

func (r *MySQLCompanyRepository) FindByID(ctx context.Context, id int) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = ?`

	company, err := scanCompany(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("company with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying company by id: %w", err)
	}

	return company, nil
}

// FindByIDForUpdate locks the company row for the duration of the transaction.
// Quotation creation uses this to serialize quote-number derivation per company.
func (r *MySQLCompanyRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = ? FOR UPDATE`

	company, err := scanCompany(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("company with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying company for update: %w", err)
	}

	return company, nil
}

// Update overwrites every mutable field. The logo reference is only written
// when a new one was uploaded with the request.
func (r *MySQLCompanyRepository) Update(ctx context.Context, id int, company domain.Company, logoURL *string) error {
	query := `
		UPDATE companies
		SET name = ?, address = ?, tpin = ?, bank_details = ?,
		    vat_rate = ?, ppda_rate = ?, primary_color = ?, secondary_color = ?`
	args := []any{
		company.Name, company.Address, company.TPIN, company.BankDetails,
		company.VATRate, company.PPDARate, company.PrimaryColor, company.SecondaryColor,
	}

	if logoURL != nil {
		query += `, logo_url = ?`
		args = append(args, *logoURL)
	}

	query += ` WHERE id = ?`
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating company: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("company with id %d not found", id))
	}

	return nil
}
