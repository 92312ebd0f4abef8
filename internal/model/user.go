// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashにはbcryptハッシュを保持し、平文パスワードは保存しない。
// ResetTokenとResetTokenExpiresAtは常に対で設定・クリアされる。
type User struct {
	ID                  string
	Email               string
	PasswordHash        string
	Name                string
	ResetToken          *string
	ResetTokenExpiresAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Session はユーザーのログインセッションを表す。
// UserSnapshotにはログイン時点のユーザー情報をJSONで保持する。
// セッション有効中にusersレコードが変更されても、スナップショットは
// 次回ログインまで更新されない。
type Session struct {
	ID           string
	UserID       string
	UserSnapshot []byte
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// Valid はセッションが指定時刻において有効かどうかを返す。
// 有効期限ちょうどの時刻は無効と判定する（境界は排他的）。
func (s *Session) Valid(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
