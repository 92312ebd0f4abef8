// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, business, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeDuplicateAccount     = "DUPLICATE_ACCOUNT"
	ErrCodeAccountNotFound      = "ACCOUNT_NOT_FOUND"
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeTokenInvalid         = "TOKEN_INVALID"
	ErrCodePasswordMismatch     = "PASSWORD_MISMATCH"
	ErrCodePasswordTooWeak      = "PASSWORD_TOO_WEAK"
	ErrCodeMailDeliveryFailed   = "MAIL_DELIVERY_FAILED"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
	ErrCodeOrganizationNotFound = "ORGANIZATION_NOT_FOUND"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeInvoiceNotFound      = "INVOICE_NOT_FOUND"
	ErrCodeExpenseNotFound      = "EXPENSE_NOT_FOUND"
	ErrCodeMenuItemNotFound     = "MENU_ITEM_NOT_FOUND"
	ErrCodeEmptyOrder           = "EMPTY_ORDER"
	ErrCodeInvalidStatus        = "INVALID_STATUS"
)

// NewDuplicateAccountError はアカウント重複エラーを生成する。
func NewDuplicateAccountError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateAccount,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewAccountNotFoundError はアカウント未検出エラーを生成する。
func NewAccountNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeAccountNotFound,
		Message:  "このメールアドレスのアカウントが見つかりません。",
		Category: "auth",
		Action:   "メールアドレスを確認するか、新規登録してください。",
	}
}

// NewInvalidCredentialsError はパスワード不一致エラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "パスワードが正しくありません。",
		Category: "auth",
		Action:   "パスワードを確認して再度お試しください。",
	}
}

// NewTokenInvalidError はリセットトークンが無効または期限切れの場合のエラーを生成する。
// 未検出と期限切れは区別せず、同一のエラーとして表面化する。
func NewTokenInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenInvalid,
		Message:  "リセットトークンが無効か、有効期限が切れています。",
		Category: "auth",
		Action:   "パスワードリセットを再度リクエストしてください。",
	}
}

// NewPasswordMismatchError は新パスワードと確認パスワードの不一致エラーを生成する。
func NewPasswordMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordMismatch,
		Message:  "パスワードが一致しません。",
		Category: "validation",
		Action:   "新しいパスワードと確認用パスワードに同じ値を入力してください。",
	}
}

// NewPasswordTooWeakError はパスワードが短すぎる場合のエラーを生成する。
func NewPasswordTooWeakError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordTooWeak,
		Message:  "パスワードは6文字以上で入力してください。",
		Category: "validation",
		Action:   "6文字以上のパスワードを設定してください。",
	}
}

// NewMailDeliveryFailedError はリセットメールの送信失敗エラーを生成する。
func NewMailDeliveryFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeMailDeliveryFailed,
		Message:  "リセットメールの送信に失敗しました。",
		Category: "system",
		Action:   "しばらく待ってからパスワードリセットを再度リクエストしてください。",
	}
}

// NewUnauthorizedError は認証が必要な場合のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInvalidRequestError はリクエスト形式が不正な場合のエラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewOrganizationNotFoundError は組織未検出エラーを生成する。
func NewOrganizationNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeOrganizationNotFound,
		Message:  fmt.Sprintf("指定された組織が見つかりません: %s", id),
		Category: "business",
		Action:   "組織IDを確認してください。",
	}
}

// NewOrderNotFoundError は注文未検出エラーを生成する。
func NewOrderNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeOrderNotFound,
		Message:  fmt.Sprintf("指定された注文が見つかりません: %s", id),
		Category: "business",
		Action:   "注文IDを確認してください。",
	}
}

// NewInvoiceNotFoundError は請求書未検出エラーを生成する。
func NewInvoiceNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeInvoiceNotFound,
		Message:  fmt.Sprintf("指定された請求書が見つかりません: %s", id),
		Category: "business",
		Action:   "請求書IDを確認してください。",
	}
}

// NewExpenseNotFoundError は経費未検出エラーを生成する。
func NewExpenseNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeExpenseNotFound,
		Message:  fmt.Sprintf("指定された経費が見つかりません: %s", id),
		Category: "business",
		Action:   "経費IDを確認してください。",
	}
}

// NewMenuItemNotFoundError はメニュー品目未検出エラーを生成する。
func NewMenuItemNotFoundError(itemID string) *APIError {
	return &APIError{
		Code:     ErrCodeMenuItemNotFound,
		Message:  fmt.Sprintf("指定された品目はメニューに存在しません: %s", itemID),
		Category: "validation",
		Action:   "メニューカタログに存在する品目IDを指定してください。",
	}
}

// NewEmptyOrderError は品目が1つも選択されていない注文のエラーを生成する。
func NewEmptyOrderError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyOrder,
		Message:  "注文には少なくとも1つの品目が必要です。",
		Category: "validation",
		Action:   "品目を選択して再度お試しください。",
	}
}

// NewInvalidStatusError は請求書ステータスが不正な場合のエラーを生成する。
func NewInvalidStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  fmt.Sprintf("無効な請求書ステータスです: %s", status),
		Category: "validation",
		Action:   "ステータスには pending または paid を指定してください。",
	}
}
