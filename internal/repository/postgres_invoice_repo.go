package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/minoru/makanai/internal/model"
)

// PostgresInvoiceRepo はPostgreSQLを使用した請求書リポジトリ。
type PostgresInvoiceRepo struct {
	db *sql.DB
}

// NewPostgresInvoiceRepo はPostgresInvoiceRepoを生成する。
func NewPostgresInvoiceRepo(db *sql.DB) *PostgresInvoiceRepo {
	return &PostgresInvoiceRepo{db: db}
}

// FindByID は指定IDの請求書を取得する。見つからない場合はnilを返す。
func (r *PostgresInvoiceRepo) FindByID(ctx context.Context, id string) (*model.Invoice, error) {
	inv := &model.Invoice{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, organization_id, order_id, amount, status, created_at
		 FROM invoices WHERE id = $1`,
		id,
	).Scan(&inv.ID, &inv.UserID, &inv.OrganizationID, &inv.OrderID, &inv.Amount, &inv.Status, &inv.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}

	return inv, nil
}

// ListByUserID はユーザーの請求書一覧を作成日時降順で返す。
// statusまたはorganizationIDが空でない場合は絞り込む。
func (r *PostgresInvoiceRepo) ListByUserID(ctx context.Context, userID, status, organizationID string) ([]*model.Invoice, error) {
	query := `SELECT id, user_id, organization_id, order_id, amount, status, created_at
	          FROM invoices
	          WHERE user_id = $1`
	args := []interface{}{userID}
	if status != "" {
		args = append(args, status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if organizationID != "" {
		args = append(args, organizationID)
		query += ` AND organization_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*model.Invoice
	for rows.Next() {
		inv := &model.Invoice{}
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.OrganizationID, &inv.OrderID, &inv.Amount, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}

	return invoices, nil
}

// Create は請求書を作成する。
func (r *PostgresInvoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invoices (id, user_id, organization_id, order_id, amount, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		invoice.ID, invoice.UserID, invoice.OrganizationID, invoice.OrderID, invoice.Amount, invoice.Status, invoice.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	return nil
}

// Update は請求書を上書き更新する。
func (r *PostgresInvoiceRepo) Update(ctx context.Context, invoice *model.Invoice) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices
		 SET organization_id = $2, order_id = $3, amount = $4, status = $5
		 WHERE id = $1`,
		invoice.ID, invoice.OrganizationID, invoice.OrderID, invoice.Amount, invoice.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("invoice not found: %s", invoice.ID)
	}
	return nil
}

// UpdateStatus は請求書の支払いステータスのみを更新する。
func (r *PostgresInvoiceRepo) UpdateStatus(ctx context.Context, id string, status model.InvoiceStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = $2 WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("invoice not found: %s", id)
	}
	return nil
}

// Delete は指定IDの請求書を削除する。
func (r *PostgresInvoiceRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM invoices WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("invoice not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ InvoiceRepository = (*PostgresInvoiceRepo)(nil)
