package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minoru/makanai/internal/model"
)

// PostgresOrganizationRepo はPostgreSQLを使用した取引先組織リポジトリ。
type PostgresOrganizationRepo struct {
	db *sql.DB
}

// NewPostgresOrganizationRepo はPostgresOrganizationRepoを生成する。
func NewPostgresOrganizationRepo(db *sql.DB) *PostgresOrganizationRepo {
	return &PostgresOrganizationRepo{db: db}
}

// FindByID は指定IDの組織を取得する。見つからない場合はnilを返す。
func (r *PostgresOrganizationRepo) FindByID(ctx context.Context, id string) (*model.Organization, error) {
	org := &model.Organization{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, contact_person, email, created_at
		 FROM organizations WHERE id = $1`,
		id,
	).Scan(&org.ID, &org.UserID, &org.Name, &org.ContactPerson, &org.Email, &org.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	return org, nil
}

// ListByUserID はユーザーが所有する組織一覧を作成日時の降順で返す。
func (r *PostgresOrganizationRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Organization, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, contact_person, email, created_at
		 FROM organizations
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*model.Organization
	for rows.Next() {
		org := &model.Organization{}
		if err := rows.Scan(&org.ID, &org.UserID, &org.Name, &org.ContactPerson, &org.Email, &org.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate organizations: %w", err)
	}

	return orgs, nil
}

// Create は組織を作成する。
func (r *PostgresOrganizationRepo) Create(ctx context.Context, org *model.Organization) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO organizations (id, user_id, name, contact_person, email, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		org.ID, org.UserID, org.Name, org.ContactPerson, org.Email, org.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert organization: %w", err)
	}
	return nil
}

// Update は組織情報を更新する。
func (r *PostgresOrganizationRepo) Update(ctx context.Context, org *model.Organization) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE organizations
		 SET name = $2, contact_person = $3, email = $4
		 WHERE id = $1`,
		org.ID, org.Name, org.ContactPerson, org.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("organization not found: %s", org.ID)
	}
	return nil
}

// Delete は指定IDの組織を削除する。
func (r *PostgresOrganizationRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM organizations WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("organization not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ OrganizationRepository = (*PostgresOrganizationRepo)(nil)
