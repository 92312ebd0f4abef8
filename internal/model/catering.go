package model

import "time"

// Organization はケータリングの取引先組織を表す。
// 全レコードは作成したユーザーに属し、他ユーザーからは参照できない。
type Organization struct {
	ID            string
	UserID        string
	Name          string
	ContactPerson string
	Email         string
	CreatedAt     time.Time
}

// OrderItem は注文内の1品目を表す。
// Rateは注文時点のメニューカタログの単価を記録する。
type OrderItem struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	Rate     int    `json:"rate"`
}

// FoodOrder は組織からの飲食注文を表す。
// TotalAmountはサーバー側でカタログ単価から再計算され、
// クライアントから受け取った値をそのまま信用することはない。
type FoodOrder struct {
	ID             string
	UserID         string
	OrganizationID string
	Items          []OrderItem
	TotalAmount    int
	OrderDate      time.Time
	CreatedAt      time.Time
}

// InvoiceStatus は請求書の支払い状態を表す。
type InvoiceStatus string

const (
	// InvoiceStatusPending は未払いの請求書を示す。
	InvoiceStatusPending InvoiceStatus = "pending"
	// InvoiceStatusPaid は支払い済みの請求書を示す。
	InvoiceStatusPaid InvoiceStatus = "paid"
)

// ValidInvoiceStatus はステータス文字列が有効かどうかを返す。
func ValidInvoiceStatus(s string) bool {
	switch InvoiceStatus(s) {
	case InvoiceStatusPending, InvoiceStatusPaid:
		return true
	default:
		return false
	}
}

// Invoice は注文に対する請求書を表す。
type Invoice struct {
	ID             string
	UserID         string
	OrganizationID string
	OrderID        string
	Amount         int
	Status         InvoiceStatus
	CreatedAt      time.Time
}

// Expense は事業経費を表す。
type Expense struct {
	ID          string
	UserID      string
	Description string
	Amount      int
	Category    string
	ExpenseDate time.Time
	CreatedAt   time.Time
}
