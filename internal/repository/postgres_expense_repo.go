package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minoru/makanai/internal/model"
)

// PostgresExpenseRepo はPostgreSQLを使用した経費リポジトリ。
type PostgresExpenseRepo struct {
	db *sql.DB
}

// NewPostgresExpenseRepo はPostgresExpenseRepoを生成する。
func NewPostgresExpenseRepo(db *sql.DB) *PostgresExpenseRepo {
	return &PostgresExpenseRepo{db: db}
}

// FindByID は指定IDの経費を取得する。見つからない場合はnilを返す。
func (r *PostgresExpenseRepo) FindByID(ctx context.Context, id string) (*model.Expense, error) {
	exp := &model.Expense{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, description, amount, category, expense_date, created_at
		 FROM expenses WHERE id = $1`,
		id,
	).Scan(&exp.ID, &exp.UserID, &exp.Description, &exp.Amount, &exp.Category, &exp.ExpenseDate, &exp.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find expense: %w", err)
	}

	return exp, nil
}

// ListByUserID はユーザーの経費一覧を日付降順で返す。
// categoryが空でない場合はカテゴリで絞り込む。
func (r *PostgresExpenseRepo) ListByUserID(ctx context.Context, userID, category string) ([]*model.Expense, error) {
	query := `SELECT id, user_id, description, amount, category, expense_date, created_at
	          FROM expenses
	          WHERE user_id = $1`
	args := []interface{}{userID}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY expense_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*model.Expense
	for rows.Next() {
		exp := &model.Expense{}
		if err := rows.Scan(&exp.ID, &exp.UserID, &exp.Description, &exp.Amount, &exp.Category, &exp.ExpenseDate, &exp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// Create は経費を作成する。
func (r *PostgresExpenseRepo) Create(ctx context.Context, expense *model.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, description, amount, category, expense_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		expense.ID, expense.UserID, expense.Description, expense.Amount, expense.Category, expense.ExpenseDate, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// Update は経費を上書き更新する。
func (r *PostgresExpenseRepo) Update(ctx context.Context, expense *model.Expense) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET description = $2, amount = $3, category = $4, expense_date = $5
		 WHERE id = $1`,
		expense.ID, expense.Description, expense.Amount, expense.Category, expense.ExpenseDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("expense not found: %s", expense.ID)
	}
	return nil
}

// Delete は指定IDの経費を削除する。
func (r *PostgresExpenseRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("expense not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ ExpenseRepository = (*PostgresExpenseRepo)(nil)
