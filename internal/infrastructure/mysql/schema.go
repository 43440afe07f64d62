package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

// Bootstrap statements run in order; each must stay individually idempotent
// because Bootstrap executes on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		address TEXT,
		tpin VARCHAR(50) NOT NULL DEFAULT '',
		bank_details TEXT,
		vat_rate DECIMAL(5,2) NOT NULL DEFAULT 16.50,
		ppda_rate DECIMAL(5,2) NOT NULL DEFAULT 1.00,
		primary_color VARCHAR(7) NOT NULL DEFAULT '#1976d2',
		secondary_color VARCHAR(7) NOT NULL DEFAULT '#424242',
		logo_url VARCHAR(255),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS quotations (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		company_id INT NOT NULL,
		quote_number VARCHAR(50) NOT NULL,
		client_name VARCHAR(255) NOT NULL,
		client_address TEXT,
		client_email VARCHAR(255),
		client_phone VARCHAR(50),
		date DATE NOT NULL,
		expiry_days INT NOT NULL DEFAULT 30,
		subtotal DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		vat_amount DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		ppda_amount DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		grand_total DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		notes TEXT,
		terms_conditions TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (company_id) REFERENCES companies(id),
		INDEX idx_company (company_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS quotation_items (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		quotation_id INT UNSIGNED NOT NULL,
		description TEXT NOT NULL,
		quantity DECIMAL(12,2) NOT NULL DEFAULT 1.00,
		unit_price DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		total DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		sort_order INT NOT NULL DEFAULT 0,
		FOREIGN KEY (quotation_id) REFERENCES quotations(id) ON DELETE CASCADE,
		INDEX idx_quotation (quotation_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	// The API has no create-company operation, so a fresh install needs the
	// distinguished company present.
	`INSERT IGNORE INTO companies (name, address, bank_details)
		VALUES ('Arkay Pak', '', '')`,
}

func Bootstrap(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement %d: %w", i, err)
		}
	}
	return nil
}
