package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration-test database. Expects a MySQL instance
// on localhost:3306 with a 'quotehub_test' schema; skips the test otherwise.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/quotehub_test?parseTime=true&clientFoundRows=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the test tables, children first.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"quotation_items", "quotations", "companies"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the tables needed by the integration tests.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createCompaniesTable := `
	CREATE TABLE IF NOT EXISTS companies (
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
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	createQuotationsTable := `
	CREATE TABLE IF NOT EXISTS quotations (
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
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	createQuotationItemsTable := `
	CREATE TABLE IF NOT EXISTS quotation_items (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		quotation_id INT UNSIGNED NOT NULL,
		description TEXT NOT NULL,
		quantity DECIMAL(12,2) NOT NULL DEFAULT 1.00,
		unit_price DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		total DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		sort_order INT NOT NULL DEFAULT 0,
		FOREIGN KEY (quotation_id) REFERENCES quotations(id) ON DELETE CASCADE,
		INDEX idx_quotation (quotation_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	tables := []struct {
		name  string
		query string
	}{
		{"companies", createCompaniesTable},
		{"quotations", createQuotationsTable},
		{"quotation_items", createQuotationItemsTable},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.query); err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}

// InsertTestCompany inserts a company row and returns its id.
func InsertTestCompany(t *testing.T, db *sql.DB, name string) int {
	result, err := db.Exec(`
		INSERT INTO companies (name, address, tpin, bank_details, vat_rate, ppda_rate)
		VALUES (?, 'Area 28, Lilongwe', 'TP-001', 'NBM 0123456789', 16.50, 1.00)
	`, name)
	if err != nil {
		t.Fatalf("failed to insert test company: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to get company id: %v", err)
	}

	return int(id)
}

// InsertTestQuotation inserts a minimal quotation row and returns its id.
func InsertTestQuotation(t *testing.T, db *sql.DB, companyID int, quoteNumber string) uint {
	result, err := db.Exec(`
		INSERT INTO quotations
		(company_id, quote_number, client_name, date, expiry_days, subtotal, vat_amount, ppda_amount, grand_total)
		VALUES (?, ?, 'Test Client', '2025-06-01', 30, 100.00, 16.50, 1.00, 117.50)
	`, companyID, quoteNumber)
	if err != nil {
		t.Fatalf("failed to insert test quotation: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to get quotation id: %v", err)
	}

	return uint(id)
}
