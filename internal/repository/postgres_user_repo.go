package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/minoru/makanai/internal/model"
)

// pqUniqueViolation はPostgreSQLの一意制約違反のエラーコード。
const pqUniqueViolation = "23505"

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, email, password_hash, name, reset_token, reset_token_expires_at, created_at, updated_at`

// scanUser は1行分のユーザーレコードをスキャンする。
func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name,
		&user.ResetToken, &user.ResetTokenExpiresAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail はメールアドレスの完全一致でユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByResetToken はリセットトークンの完全一致でユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE reset_token = $1`,
		token,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by reset token: %w", err)
	}
	return user, nil
}

// Create はユーザーを作成する。
// emailの一意制約違反の場合はErrDuplicateEmailを返す。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// SetResetToken はリセットトークンと有効期限を対で設定する。
func (r *PostgresUserRepo) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET reset_token = $2, reset_token_expires_at = $3, updated_at = now()
		 WHERE id = $1`,
		id, token, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// UpdatePasswordAndClearResetToken はパスワードハッシュを更新し、
// リセットトークンと有効期限を同一UPDATEでクリアする。
// クリア後は同一トークンでの再照合が必ず失敗する（再利用防止）。
func (r *PostgresUserRepo) UpdatePasswordAndClearResetToken(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET password_hash = $2, reset_token = NULL, reset_token_expires_at = NULL, updated_at = now()
		 WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// ClearExpiredResetTokens は有効期限を過ぎたリセットトークンを一括クリアする。
// 冪等: 対象がない場合でもエラーにならない。
func (r *PostgresUserRepo) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET reset_token = NULL, reset_token_expires_at = NULL, updated_at = now()
		 WHERE reset_token IS NOT NULL AND reset_token_expires_at <= $1`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired reset tokens: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
