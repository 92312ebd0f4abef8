package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/minoru/makanai/internal/model"
)

// PostgresFoodOrderRepo はPostgreSQLを使用した飲食注文リポジトリ。
// 注文品目はJSONBカラムに配列として保持する。
type PostgresFoodOrderRepo struct {
	db *sql.DB
}

// NewPostgresFoodOrderRepo はPostgresFoodOrderRepoを生成する。
func NewPostgresFoodOrderRepo(db *sql.DB) *PostgresFoodOrderRepo {
	return &PostgresFoodOrderRepo{db: db}
}

// FindByID は指定IDの注文を取得する。見つからない場合はnilを返す。
func (r *PostgresFoodOrderRepo) FindByID(ctx context.Context, id string) (*model.FoodOrder, error) {
	order := &model.FoodOrder{}
	var itemsJSON []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, organization_id, items, total_amount, order_date, created_at
		 FROM food_orders WHERE id = $1`,
		id,
	).Scan(&order.ID, &order.UserID, &order.OrganizationID, &itemsJSON, &order.TotalAmount, &order.OrderDate, &order.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find food order: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}

	return order, nil
}

// ListByUserID はユーザーの注文一覧を注文日降順で返す。
// organizationIDが空でない場合は対象組織の注文に絞り込む。
func (r *PostgresFoodOrderRepo) ListByUserID(ctx context.Context, userID, organizationID string) ([]*model.FoodOrder, error) {
	query := `SELECT id, user_id, organization_id, items, total_amount, order_date, created_at
	          FROM food_orders
	          WHERE user_id = $1`
	args := []interface{}{userID}
	if organizationID != "" {
		query += ` AND organization_id = $2`
		args = append(args, organizationID)
	}
	query += ` ORDER BY order_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list food orders: %w", err)
	}
	defer rows.Close()

	var orders []*model.FoodOrder
	for rows.Next() {
		order := &model.FoodOrder{}
		var itemsJSON []byte
		if err := rows.Scan(&order.ID, &order.UserID, &order.OrganizationID, &itemsJSON, &order.TotalAmount, &order.OrderDate, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan food order: %w", err)
		}
		if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate food orders: %w", err)
	}

	return orders, nil
}

// Create は注文を作成する。
func (r *PostgresFoodOrderRepo) Create(ctx context.Context, order *model.FoodOrder) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO food_orders (id, user_id, organization_id, items, total_amount, order_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.ID, order.UserID, order.OrganizationID, itemsJSON, order.TotalAmount, order.OrderDate, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert food order: %w", err)
	}
	return nil
}

// Update は注文を上書き更新する。
func (r *PostgresFoodOrderRepo) Update(ctx context.Context, order *model.FoodOrder) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE food_orders
		 SET organization_id = $2, items = $3, total_amount = $4, order_date = $5
		 WHERE id = $1`,
		order.ID, order.OrganizationID, itemsJSON, order.TotalAmount, order.OrderDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update food order: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("food order not found: %s", order.ID)
	}
	return nil
}

// Delete は指定IDの注文を削除する。
func (r *PostgresFoodOrderRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM food_orders WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete food order: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("food order not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ FoodOrderRepository = (*PostgresFoodOrderRepo)(nil)
