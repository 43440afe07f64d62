package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	companyrepo "quotehub/internal/company/repository"
	"quotehub/internal/domain"
	apperrors "quotehub/internal/errors"
	"quotehub/internal/quotation/repository"
	"quotehub/internal/testutil"
)

func newTestWriter(db *sql.DB) *QuotationWriter {
	return NewQuotationWriter(
		db,
		companyrepo.NewMySQLCompanyRepository(db),
		repository.NewMySQLQuotationRepository(db),
		repository.NewMySQLQuotationItemRepository(db),
		zap.NewNop(),
		5*time.Second,
	)
}

func testQuotation(companyID int, quoteNumber string) domain.Quotation {
	return domain.Quotation{
		CompanyID:   companyID,
		QuoteNumber: quoteNumber,
		ClientName:  "Acme Ltd",
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDays:  30,
		Subtotal:    100.00,
		VATAmount:   16.50,
		PPDAAmount:  1.00,
		GrandTotal:  117.50,
	}
}

func testItems(n int) []domain.QuotationItem {
	items := make([]domain.QuotationItem, n)
	for i := range items {
		items[i] = domain.QuotationItem{
			Description: "line item",
			Quantity:    1,
			UnitPrice:   10.00,
			Total:       10.00,
		}
	}
	return items
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	var count int
	require.NoError(t, db.QueryRow(query, args...).Scan(&count))
	return count
}

func TestQuotationWriter_Create_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	writer := newTestWriter(db)
	companyID := testutil.InsertTestCompany(t, db, "Arkay Pak")

	id, err := writer.Create(context.Background(), testQuotation(companyID, "AP-0001"), testItems(2))
	require.NoError(t, err)
	assert.NotZero(t, id)

	assert.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM quotations WHERE id = ?`, id))

	itemRepo := repository.NewMySQLQuotationItemRepository(db)
	items, err := itemRepo.FindByQuotationID(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 0, items[0].SortOrder)
	assert.Equal(t, 1, items[1].SortOrder)
}

func TestQuotationWriter_Create_DerivesNumberWhenEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	writer := newTestWriter(db)
	companyID := testutil.InsertTestCompany(t, db, "Arkay Pak")
	testutil.InsertTestQuotation(t, db, companyID, "AP-0001")

	id, err := writer.Create(context.Background(), testQuotation(companyID, ""), testItems(1))
	require.NoError(t, err)

	var quoteNumber string
	require.NoError(t, db.QueryRow(`SELECT quote_number FROM quotations WHERE id = ?`, id).Scan(&quoteNumber))
	assert.Equal(t, "AP-0002", quoteNumber)
}

func TestQuotationWriter_Create_DefaultPrefixForOtherCompanies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	writer := newTestWriter(db)
	companyID := testutil.InsertTestCompany(t, db, "Mzuzu Traders")

	id, err := writer.Create(context.Background(), testQuotation(companyID, ""), nil)
	require.NoError(t, err)

	var quoteNumber string
	require.NoError(t, db.QueryRow(`SELECT quote_number FROM quotations WHERE id = ?`, id).Scan(&quoteNumber))
	assert.Equal(t, "EH-0001", quoteNumber)
}

func TestQuotationWriter_Create_UnknownCompanyWithEmptyNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	writer := newTestWriter(db)

	_, err := writer.Create(context.Background(), testQuotation(9999, ""), testItems(1))
	assert.Error(t, err)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, 0, countRows(t, db, `SELECT COUNT(*) FROM quotations`))
}

// failingItemRepo fails on a chosen insert call to force a mid-transaction fault.
type failingItemRepo struct {
	real   *repository.MySQLQuotationItemRepository
	failAt int
	calls  int
}

func (f *failingItemRepo) Insert(ctx context.Context, tx *sql.Tx, item domain.QuotationItem) (uint, error) {
	f.calls++
	if f.calls == f.failAt {
		return 0, errors.New("injected fault")
	}
	return f.real.Insert(ctx, tx, item)
}

func (f *failingItemRepo) DeleteByQuotationID(ctx context.Context, tx *sql.Tx, quotationID uint) error {
	return f.real.DeleteByQuotationID(ctx, tx, quotationID)
}

func TestQuotationWriter_Create_RollsBackOnItemFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	companyID := testutil.InsertTestCompany(t, db, "Arkay Pak")

	itemRepo := &failingItemRepo{real: repository.NewMySQLQuotationItemRepository(db), failAt: 2}
	writer := NewQuotationWriter(
		db,
		companyrepo.NewMySQLCompanyRepository(db),
		repository.NewMySQLQuotationRepository(db),
		itemRepo,
		zap.NewNop(),
		5*time.Second,
	)

	_, err := writer.Create(context.Background(), testQuotation(companyID, "AP-0001"), testItems(3))
	assert.Error(t, err)

	// the failed second insert must take the header and the first item with it
	assert.Equal(t, 0, countRows(t, db, `SELECT COUNT(*) FROM quotations`))
	assert.Equal(t, 0, countRows(t, db, `SELECT COUNT(*) FROM quotation_items`))
}

func TestQuotationWriter_Update_RollsBackOnItemFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	companyID := testutil.InsertTestCompany(t, db, "Arkay Pak")

	writer := newTestWriter(db)
	id, err := writer.Create(context.Background(), testQuotation(companyID, "AP-0001"), testItems(2))
	require.NoError(t, err)

	itemRepo := &failingItemRepo{real: repository.NewMySQLQuotationItemRepository(db), failAt: 1}
	failingWriter := NewQuotationWriter(
		db,
		companyrepo.NewMySQLCompanyRepository(db),
		repository.NewMySQLQuotationRepository(db),
		itemRepo,
		zap.NewNop(),
		5*time.Second,
	)

	err = failingWriter.Update(context.Background(), id, testQuotation(companyID, "AP-0001"), testItems(1))
	assert.Error(t, err)

	// the prior item set must survive the failed replacement intact
	assert.Equal(t, 2, countRows(t, db, `SELECT COUNT(*) FROM quotation_items WHERE quotation_id = ?`, id))
}

func TestQuotationWriter_Update_ReplacesItemSet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	writer := newTestWriter(db)
	companyID := testutil.InsertTestCompany(t, db, "Arkay Pak")

	id, err := writer.Create(context.Background(), testQuotation(companyID, "AP-0001"), testItems(3))
	require.NoError(t, err)

	replacement := testItems(1)
	replacement[0].Description = "replacement line"
	require.NoError(t, writer.Update(context.Background(), id, testQuotation(companyID, "AP-0001"), replacement))

	items, err := repository.NewMySQLQuotationItemRepository(db).FindByQuotationID(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "replacement line", items[0].Description)
	assert.Equal(t, 0, items[0].SortOrder)
}

func TestQuotationWriter_Update_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	writer := newTestWriter(db)
	companyID := testutil.InsertTestCompany(t, db, "Arkay Pak")

	id, err := writer.Create(context.Background(), testQuotation(companyID, "AP-0001"), testItems(2))
	require.NoError(t, err)

	payload := testQuotation(companyID, "AP-0001")
	payload.ClientName = "Updated Client"
	items := testItems(2)

	require.NoError(t, writer.Update(context.Background(), id, payload, items))
	require.NoError(t, writer.Update(context.Background(), id, payload, items))

	var clientName string
	require.NoError(t, db.QueryRow(`SELECT client_name FROM quotations WHERE id = ?`, id).Scan(&clientName))
	assert.Equal(t, "Updated Client", clientName)
	assert.Equal(t, 2, countRows(t, db, `SELECT COUNT(*) FROM quotation_items WHERE quotation_id = ?`, id))
}

func TestQuotationWriter_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	writer := newTestWriter(db)
	companyID := testutil.InsertTestCompany(t, db, "Arkay Pak")

	err := writer.Update(context.Background(), 9999, testQuotation(companyID, "AP-0001"), testItems(1))
	assert.Error(t, err)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, 0, countRows(t, db, `SELECT COUNT(*) FROM quotation_items`))
}

func TestQuotationWriter_Delete_RemovesAllItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	writer := newTestWriter(db)
	companyID := testutil.InsertTestCompany(t, db, "Arkay Pak")

	id, err := writer.Create(context.Background(), testQuotation(companyID, "AP-0001"), testItems(4))
	require.NoError(t, err)

	require.NoError(t, writer.Delete(context.Background(), id))

	assert.Equal(t, 0, countRows(t, db, `SELECT COUNT(*) FROM quotations WHERE id = ?`, id))
	assert.Equal(t, 0, countRows(t, db, `SELECT COUNT(*) FROM quotation_items WHERE quotation_id = ?`, id))
}

func TestQuotationWriter_Delete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	writer := newTestWriter(db)

	err := writer.Delete(context.Background(), 9999)
	assert.Error(t, err)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestQuotationWriter_Create_ConcurrentNumbering(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	writer := newTestWriter(db)
	companyID := testutil.InsertTestCompany(t, db, "Arkay Pak")

	const workers = 5
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = writer.Create(context.Background(), testQuotation(companyID, ""), testItems(1))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}

	// the company row lock serializes derivation, so numbers must be distinct
	distinct := countRows(t, db, `SELECT COUNT(DISTINCT quote_number) FROM quotations WHERE company_id = ?`, companyID)
	assert.Equal(t, workers, distinct)
}
