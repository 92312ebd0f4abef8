package invoice

import (
	"context"
	"errors"
	"testing"

	"github.com/minoru/makanai/internal/model"
)

// --- モック ---

type mockInvoiceRepo struct {
	findByIDFn     func(ctx context.Context, id string) (*model.Invoice, error)
	listByUserIDFn func(ctx context.Context, userID, status, organizationID string) ([]*model.Invoice, error)
	createFn       func(ctx context.Context, inv *model.Invoice) error
	updateFn       func(ctx context.Context, inv *model.Invoice) error
	updateStatusFn func(ctx context.Context, id string, status model.InvoiceStatus) error
	deleteFn       func(ctx context.Context, id string) error
}

func (m *mockInvoiceRepo) FindByID(ctx context.Context, id string) (*model.Invoice, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockInvoiceRepo) ListByUserID(ctx context.Context, userID, status, organizationID string) ([]*model.Invoice, error) {
	if m.listByUserIDFn != nil {
		return m.listByUserIDFn(ctx, userID, status, organizationID)
	}
	return nil, nil
}
func (m *mockInvoiceRepo) Create(ctx context.Context, inv *model.Invoice) error {
	if m.createFn != nil {
		return m.createFn(ctx, inv)
	}
	return nil
}
func (m *mockInvoiceRepo) Update(ctx context.Context, inv *model.Invoice) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, inv)
	}
	return nil
}
func (m *mockInvoiceRepo) UpdateStatus(ctx context.Context, id string, status model.InvoiceStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}
func (m *mockInvoiceRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockOrderRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.FoodOrder, error)
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id string) (*model.FoodOrder, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockOrderRepo) ListByUserID(ctx context.Context, userID, organizationID string) ([]*model.FoodOrder, error) {
	return nil, nil
}
func (m *mockOrderRepo) Create(ctx context.Context, order *model.FoodOrder) error { return nil }
func (m *mockOrderRepo) Update(ctx context.Context, order *model.FoodOrder) error { return nil }
func (m *mockOrderRepo) Delete(ctx context.Context, id string) error              { return nil }

type mockOrgRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.Organization, error)
}

func (m *mockOrgRepo) FindByID(ctx context.Context, id string) (*model.Organization, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockOrgRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Organization, error) {
	return nil, nil
}
func (m *mockOrgRepo) Create(ctx context.Context, org *model.Organization) error { return nil }
func (m *mockOrgRepo) Update(ctx context.Context, org *model.Organization) error { return nil }
func (m *mockOrgRepo) Delete(ctx context.Context, id string) error               { return nil }

func ownedReferences(userID string, orderTotal int) (*mockOrderRepo, *mockOrgRepo) {
	orderRepo := &mockOrderRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.FoodOrder, error) {
			return &model.FoodOrder{ID: id, UserID: userID, TotalAmount: orderTotal}, nil
		},
	}
	orgRepo := &mockOrgRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Organization, error) {
			return &model.Organization{ID: id, UserID: userID}, nil
		},
	}
	return orderRepo, orgRepo
}

func assertAPIErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != code {
		t.Errorf("error code = %q, want %q", apiErr.Code, code)
	}
}

// --- テスト ---

// TestService_Create_Defaults はStatusとAmountの既定値を検証する。
// Amount未指定時は参照注文の合計金額が使用される。
func TestService_Create_Defaults(t *testing.T) {
	orderRepo, orgRepo := ownedReferences("user-1", 250)
	svc := NewService(&mockInvoiceRepo{}, orderRepo, orgRepo)

	inv, err := svc.Create(context.Background(), "user-1", Input{
		OrganizationID: "org-1",
		OrderID:        "order-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Status != model.InvoiceStatusPending {
		t.Errorf("status = %q, want pending", inv.Status)
	}
	if inv.Amount != 250 {
		t.Errorf("amount = %d, want order total 250", inv.Amount)
	}
}

// TestService_Create_ExplicitAmount は明示指定したAmountが優先されることを検証する。
func TestService_Create_ExplicitAmount(t *testing.T) {
	orderRepo, orgRepo := ownedReferences("user-1", 250)
	svc := NewService(&mockInvoiceRepo{}, orderRepo, orgRepo)

	inv, err := svc.Create(context.Background(), "user-1", Input{
		OrganizationID: "org-1",
		OrderID:        "order-1",
		Amount:         300,
		Status:         "paid",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Amount != 300 {
		t.Errorf("amount = %d, want 300", inv.Amount)
	}
	if inv.Status != model.InvoiceStatusPaid {
		t.Errorf("status = %q, want paid", inv.Status)
	}
}

// TestService_Create_InvalidStatus は不正ステータスが拒否されることを検証する。
func TestService_Create_InvalidStatus(t *testing.T) {
	orderRepo, orgRepo := ownedReferences("user-1", 100)
	svc := NewService(&mockInvoiceRepo{}, orderRepo, orgRepo)

	_, err := svc.Create(context.Background(), "user-1", Input{
		OrganizationID: "org-1",
		OrderID:        "order-1",
		Status:         "cancelled",
	})
	assertAPIErrorCode(t, err, model.ErrCodeInvalidStatus)
}

// TestService_Create_MissingReferences は参照先未指定の請求書が拒否されることを検証する。
func TestService_Create_MissingReferences(t *testing.T) {
	orderRepo, orgRepo := ownedReferences("user-1", 100)
	svc := NewService(&mockInvoiceRepo{}, orderRepo, orgRepo)

	tests := []struct {
		name  string
		input Input
	}{
		{name: "組織ID未指定", input: Input{OrderID: "order-1"}},
		{name: "注文ID未指定", input: Input{OrganizationID: "org-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user-1", tt.input)
			assertAPIErrorCode(t, err, model.ErrCodeInvalidRequest)
		})
	}
}

// TestService_Create_OtherUsersOrder は他ユーザーの注文への請求書が拒否されることを検証する。
func TestService_Create_OtherUsersOrder(t *testing.T) {
	orderRepo := &mockOrderRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.FoodOrder, error) {
			return &model.FoodOrder{ID: id, UserID: "other-user"}, nil
		},
	}
	orgRepo := &mockOrgRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Organization, error) {
			return &model.Organization{ID: id, UserID: "user-1"}, nil
		},
	}
	svc := NewService(&mockInvoiceRepo{}, orderRepo, orgRepo)

	_, err := svc.Create(context.Background(), "user-1", Input{
		OrganizationID: "org-1",
		OrderID:        "order-1",
	})
	assertAPIErrorCode(t, err, model.ErrCodeOrderNotFound)
}

// TestService_List_InvalidStatusFilter は不正なステータス絞り込みが拒否されることを検証する。
func TestService_List_InvalidStatusFilter(t *testing.T) {
	orderRepo, orgRepo := ownedReferences("user-1", 100)
	svc := NewService(&mockInvoiceRepo{}, orderRepo, orgRepo)

	_, err := svc.List(context.Background(), "user-1", "unknown", "")
	assertAPIErrorCode(t, err, model.ErrCodeInvalidStatus)
}

// TestService_UpdateStatus はステータスのみの更新を検証する。
func TestService_UpdateStatus(t *testing.T) {
	var updatedID string
	var updatedStatus model.InvoiceStatus
	invoiceRepo := &mockInvoiceRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Invoice, error) {
			return &model.Invoice{ID: id, UserID: "user-1", Status: model.InvoiceStatusPending}, nil
		},
		updateStatusFn: func(ctx context.Context, id string, status model.InvoiceStatus) error {
			updatedID = id
			updatedStatus = status
			return nil
		},
	}
	orderRepo, orgRepo := ownedReferences("user-1", 100)
	svc := NewService(invoiceRepo, orderRepo, orgRepo)

	inv, err := svc.UpdateStatus(context.Background(), "user-1", "inv-1", "paid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updatedID != "inv-1" || updatedStatus != model.InvoiceStatusPaid {
		t.Errorf("UpdateStatus called with (%q, %q), want (inv-1, paid)", updatedID, updatedStatus)
	}
	if inv.Status != model.InvoiceStatusPaid {
		t.Errorf("returned status = %q, want paid", inv.Status)
	}
}

// TestService_UpdateStatus_Invalid は不正ステータスへの更新が拒否されることを検証する。
func TestService_UpdateStatus_Invalid(t *testing.T) {
	invoiceRepo := &mockInvoiceRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Invoice, error) {
			return &model.Invoice{ID: id, UserID: "user-1"}, nil
		},
		updateStatusFn: func(ctx context.Context, id string, status model.InvoiceStatus) error {
			t.Error("UpdateStatus should not be called for invalid status")
			return nil
		},
	}
	orderRepo, orgRepo := ownedReferences("user-1", 100)
	svc := NewService(invoiceRepo, orderRepo, orgRepo)

	_, err := svc.UpdateStatus(context.Background(), "user-1", "inv-1", "PAID")
	assertAPIErrorCode(t, err, model.ErrCodeInvalidStatus)
}

// TestService_Get_OwnershipScope は所有者検証を検証する。
func TestService_Get_OwnershipScope(t *testing.T) {
	invoiceRepo := &mockInvoiceRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Invoice, error) {
			return &model.Invoice{ID: id, UserID: "other-user"}, nil
		},
	}
	orderRepo, orgRepo := ownedReferences("user-1", 100)
	svc := NewService(invoiceRepo, orderRepo, orgRepo)

	_, err := svc.Get(context.Background(), "user-1", "inv-1")
	assertAPIErrorCode(t, err, model.ErrCodeInvoiceNotFound)
}

// TestService_Delete_NotFound は存在しない請求書の削除が404相当になることを検証する。
func TestService_Delete_NotFound(t *testing.T) {
	invoiceRepo := &mockInvoiceRepo{
		deleteFn: func(ctx context.Context, id string) error {
			t.Error("delete should not be called for missing invoice")
			return nil
		},
	}
	orderRepo, orgRepo := ownedReferences("user-1", 100)
	svc := NewService(invoiceRepo, orderRepo, orgRepo)

	err := svc.Delete(context.Background(), "user-1", "unknown")
	assertAPIErrorCode(t, err, model.ErrCodeInvoiceNotFound)
}
