package repository

import (
	"context"
	"database/sql"
	"fmt"

	"quotehub/internal/domain"
)

type MySQLQuotationItemRepository struct {
	db *sql.DB
}

func NewMySQLQuotationItemRepository(db *sql.DB) *MySQLQuotationItemRepository {
	return &MySQLQuotationItemRepository{db: db}
}

func (r *MySQLQuotationItemRepository) Insert(ctx context.Context, tx *sql.Tx, item domain.QuotationItem) (uint, error) {
	query := `
		INSERT INTO quotation_items (quotation_id, description, quantity, unit_price, total, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query,
		item.QuotationID, item.Description, item.Quantity, item.UnitPrice, item.Total, item.SortOrder,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting quotation item: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLQuotationItemRepository) DeleteByQuotationID(ctx context.Context, tx *sql.Tx, quotationID uint) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM quotation_items WHERE quotation_id = ?`, quotationID)
	if err != nil {
		return fmt.Errorf("deleting quotation items: %w", err)
	}
	return nil
}

func (r *MySQLQuotationItemRepository) FindByQuotationID(ctx context.Context, quotationID uint) ([]domain.QuotationItem, error) {
	query := `
		SELECT id, quotation_id, description, quantity, unit_price, total, sort_order
		FROM quotation_items
		WHERE quotation_id = ?
		ORDER BY sort_order, id`

	rows, err := r.db.QueryContext(ctx, query, quotationID)
	if err != nil {
		return nil, fmt.Errorf("querying quotation items: %w", err)
	}
	defer rows.Close()

	items := []domain.QuotationItem{}
	for rows.Next() {
		var item domain.QuotationItem
		err := rows.Scan(&item.ID, &item.QuotationID, &item.Description,
			&item.Quantity, &item.UnitPrice, &item.Total, &item.SortOrder)
		if err != nil {
			return nil, fmt.Errorf("scanning quotation item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating quotation item rows: %w", err)
	}

	return items, nil
}
