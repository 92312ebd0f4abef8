// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/minoru/makanai/internal/model"
)

// ErrDuplicateEmail はusers.emailの一意制約違反を示すセンチネルエラー。
// 重複チェックはアプリケーション側の事前クエリではなく、ストア層の
// 一意インデックスで強制する。制約違反そのものが重複登録のシグナルとなる。
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository はユーザーデータの永続化インターフェース。
// ID指定の取得は提供しない。認証後のユーザー情報はセッションの
// スナップショットから復元され、usersテーブルへの再問い合わせは行わない。
type UserRepository interface {
	// FindByEmail はメールアドレスの完全一致でユーザーを検索する。
	// 見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByResetToken はリセットトークンの完全一致でユーザーを検索する。
	// 見つからない場合はnilを返す。有効期限の判定は呼び出し側が行う。
	FindByResetToken(ctx context.Context, token string) (*model.User, error)

	// Create はユーザーを作成する。
	// emailの一意制約違反の場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// SetResetToken はリセットトークンと有効期限を対で設定する。
	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error

	// UpdatePasswordAndClearResetToken はパスワードハッシュを更新し、
	// リセットトークンと有効期限を同一UPDATEでクリアする。
	UpdatePasswordAndClearResetToken(ctx context.Context, id, passwordHash string) error

	// ClearExpiredResetTokens は有効期限を過ぎたリセットトークンを
	// 一括でクリアし、対象件数を返す。
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。存在しない場合も成功する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired は有効期限を過ぎたセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// OrganizationRepository は取引先組織の永続化インターフェース。
type OrganizationRepository interface {
	// FindByID は指定IDの組織を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Organization, error)

	// ListByUserID はユーザーが所有する組織一覧を作成日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Organization, error)

	// Create は組織を作成する。
	Create(ctx context.Context, org *model.Organization) error

	// Update は組織情報を更新する。
	Update(ctx context.Context, org *model.Organization) error

	// Delete は指定IDの組織を削除する。
	Delete(ctx context.Context, id string) error
}

// FoodOrderRepository は飲食注文の永続化インターフェース。
type FoodOrderRepository interface {
	// FindByID は指定IDの注文を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.FoodOrder, error)

	// ListByUserID はユーザーの注文一覧を注文日降順で返す。
	// organizationIDが空でない場合は対象組織の注文に絞り込む。
	ListByUserID(ctx context.Context, userID, organizationID string) ([]*model.FoodOrder, error)

	// Create は注文を作成する。
	Create(ctx context.Context, order *model.FoodOrder) error

	// Update は注文を上書き更新する。
	Update(ctx context.Context, order *model.FoodOrder) error

	// Delete は指定IDの注文を削除する。
	Delete(ctx context.Context, id string) error
}

// InvoiceRepository は請求書の永続化インターフェース。
type InvoiceRepository interface {
	// FindByID は指定IDの請求書を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Invoice, error)

	// ListByUserID はユーザーの請求書一覧を作成日時降順で返す。
	// statusまたはorganizationIDが空でない場合は絞り込む。
	ListByUserID(ctx context.Context, userID, status, organizationID string) ([]*model.Invoice, error)

	// Create は請求書を作成する。
	Create(ctx context.Context, invoice *model.Invoice) error

	// Update は請求書を上書き更新する。
	Update(ctx context.Context, invoice *model.Invoice) error

	// UpdateStatus は請求書の支払いステータスのみを更新する。
	UpdateStatus(ctx context.Context, id string, status model.InvoiceStatus) error

	// Delete は指定IDの請求書を削除する。
	Delete(ctx context.Context, id string) error
}

// ExpenseRepository は経費の永続化インターフェース。
type ExpenseRepository interface {
	// FindByID は指定IDの経費を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Expense, error)

	// ListByUserID はユーザーの経費一覧を日付降順で返す。
	// categoryが空でない場合はカテゴリで絞り込む。
	ListByUserID(ctx context.Context, userID, category string) ([]*model.Expense, error)

	// Create は経費を作成する。
	Create(ctx context.Context, expense *model.Expense) error

	// Update は経費を上書き更新する。
	Update(ctx context.Context, expense *model.Expense) error

	// Delete は指定IDの経費を削除する。
	Delete(ctx context.Context, id string) error
}
