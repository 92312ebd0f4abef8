package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/minoru/makanai/internal/expense"
	"github.com/minoru/makanai/internal/invoice"
	"github.com/minoru/makanai/internal/middleware"
	"github.com/minoru/makanai/internal/model"
	"github.com/minoru/makanai/internal/order"
	"github.com/minoru/makanai/internal/organization"
)

// --- ルーター用モック ---

type mockRouterSessionFinder struct {
	session *model.Session
}

func (m *mockRouterSessionFinder) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.session != nil && m.session.ID == id {
		return m.session, nil
	}
	return nil, nil
}

type mockOrgService struct {
	listFn func(ctx context.Context, userID string) ([]*model.Organization, error)
}

func (m *mockOrgService) List(ctx context.Context, userID string) ([]*model.Organization, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}
func (m *mockOrgService) Get(ctx context.Context, userID, id string) (*model.Organization, error) {
	return nil, model.NewOrganizationNotFoundError(id)
}
func (m *mockOrgService) Create(ctx context.Context, userID string, input organization.Input) (*model.Organization, error) {
	return &model.Organization{ID: "org-1", UserID: userID, Name: input.Name}, nil
}
func (m *mockOrgService) Update(ctx context.Context, userID, id string, input organization.Input) (*model.Organization, error) {
	return nil, model.NewOrganizationNotFoundError(id)
}
func (m *mockOrgService) Delete(ctx context.Context, userID, id string) error {
	return nil
}

type mockOrderService struct{}

func (m *mockOrderService) List(ctx context.Context, userID, organizationID string) ([]*model.FoodOrder, error) {
	return nil, nil
}
func (m *mockOrderService) Get(ctx context.Context, userID, id string) (*model.FoodOrder, error) {
	return nil, model.NewOrderNotFoundError(id)
}
func (m *mockOrderService) Create(ctx context.Context, userID string, input order.Input) (*model.FoodOrder, error) {
	return nil, model.NewEmptyOrderError()
}
func (m *mockOrderService) Update(ctx context.Context, userID, id string, input order.Input) (*model.FoodOrder, error) {
	return nil, model.NewOrderNotFoundError(id)
}
func (m *mockOrderService) Delete(ctx context.Context, userID, id string) error {
	return nil
}

type mockInvoiceService struct{}

func (m *mockInvoiceService) List(ctx context.Context, userID, status, organizationID string) ([]*model.Invoice, error) {
	return nil, nil
}
func (m *mockInvoiceService) Get(ctx context.Context, userID, id string) (*model.Invoice, error) {
	return nil, model.NewInvoiceNotFoundError(id)
}
func (m *mockInvoiceService) Create(ctx context.Context, userID string, input invoice.Input) (*model.Invoice, error) {
	return nil, model.NewOrderNotFoundError(input.OrderID)
}
func (m *mockInvoiceService) Update(ctx context.Context, userID, id string, input invoice.Input) (*model.Invoice, error) {
	return nil, model.NewInvoiceNotFoundError(id)
}
func (m *mockInvoiceService) UpdateStatus(ctx context.Context, userID, id, status string) (*model.Invoice, error) {
	return nil, model.NewInvalidStatusError(status)
}
func (m *mockInvoiceService) Delete(ctx context.Context, userID, id string) error {
	return nil
}

type mockExpenseService struct{}

func (m *mockExpenseService) List(ctx context.Context, userID, category string) ([]*model.Expense, error) {
	return nil, nil
}
func (m *mockExpenseService) Get(ctx context.Context, userID, id string) (*model.Expense, error) {
	return nil, model.NewExpenseNotFoundError(id)
}
func (m *mockExpenseService) Create(ctx context.Context, userID string, input expense.Input) (*model.Expense, error) {
	return &model.Expense{ID: "exp-1", UserID: userID}, nil
}
func (m *mockExpenseService) Update(ctx context.Context, userID, id string, input expense.Input) (*model.Expense, error) {
	return nil, model.NewExpenseNotFoundError(id)
}
func (m *mockExpenseService) Delete(ctx context.Context, userID, id string) error {
	return nil
}

func newTestRouter(t *testing.T, finder middleware.SessionFinder, authSvc AuthServiceInterface) http.Handler {
	t.Helper()
	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rl.Stop)

	return NewRouter(&RouterDeps{
		SessionFinder:     finder,
		CORSAllowedOrigin: "http://localhost:3000",
		RateLimiter:       rl,

		AuthService: authSvc,
		AuthConfig:  AuthHandlerConfig{},

		OrganizationService: &mockOrgService{},
		OrderService:        &mockOrderService{},
		InvoiceService:      &mockInvoiceService{},
		ExpenseService:      &mockExpenseService{},
	})
}

func validTestSession() *model.Session {
	return &model.Session{
		ID:        "session-1",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// TestRouter_Health はヘルスチェックエンドポイントを検証する。
func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, &mockRouterSessionFinder{}, &mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

// TestRouter_APIRequiresSession は/api配下がセッション必須であることを検証する。
func TestRouter_APIRequiresSession(t *testing.T) {
	router := newTestRouter(t, &mockRouterSessionFinder{}, &mockAuthService{})

	paths := []string{
		"/api/menu",
		"/api/organizations",
		"/api/orders",
		"/api/invoices",
		"/api/expenses",
	}

	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", path, rec.Code)
		}
	}
}

// TestRouter_MenuWithSession は有効セッションでのメニュー取得を検証する。
func TestRouter_MenuWithSession(t *testing.T) {
	finder := &mockRouterSessionFinder{session: validTestSession()}
	router := newTestRouter(t, finder, &mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "session-1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(items) != 10 {
		t.Errorf("menu items = %d, want 10", len(items))
	}
}

// TestRouter_OrganizationsWithSession は有効セッションでの組織一覧取得を検証する。
func TestRouter_OrganizationsWithSession(t *testing.T) {
	finder := &mockRouterSessionFinder{session: validTestSession()}
	router := newTestRouter(t, finder, &mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/organizations", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "session-1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

// TestRouter_AuthRoutesOutsideSession は/auth配下がセッションなしで到達できることを検証する。
func TestRouter_AuthRoutesOutsideSession(t *testing.T) {
	authSvc := &mockAuthService{
		signupFn: func(ctx context.Context, email, password, name string) error {
			return nil
		},
		loginFn: func(ctx context.Context, email, password string, rememberMe bool) (*model.Session, *model.User, error) {
			return nil, nil, model.NewAccountNotFoundError()
		},
		validateResetTokenFn: func(ctx context.Context, token string) error {
			return model.NewTokenInvalidError()
		},
	}
	router := newTestRouter(t, &mockRouterSessionFinder{}, authSvc)

	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"email":"a@example.com","password":"secret","name":"A"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Errorf("signup: status = %d, want 201", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@example.com","password":"secret"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("login: status = %d, want 404", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/reset-password/some-token", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("validate token: status = %d, want 400", rec.Code)
	}
}

// TestRouter_LoginRateLimited はログインのIP単位レート制限を検証する。
func TestRouter_LoginRateLimited(t *testing.T) {
	authSvc := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string, rememberMe bool) (*model.Session, *model.User, error) {
			return nil, nil, model.NewInvalidCredentialsError()
		},
	}

	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    1,
		AuthRate:        1,
		AuthBurst:       2,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(rl.Stop)

	router := NewRouter(&RouterDeps{
		SessionFinder:       &mockRouterSessionFinder{},
		RateLimiter:         rl,
		AuthService:         authSvc,
		OrganizationService: &mockOrgService{},
		OrderService:        &mockOrderService{},
		InvoiceService:      &mockInvoiceService{},
		ExpenseService:      &mockExpenseService{},
	})

	var lastCode int
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"a@example.com","password":"wrong"}`))
		req.RemoteAddr = "203.0.113.5:12345"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		lastCode = rec.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Errorf("status after burst = %d, want 429", lastCode)
	}
}

// TestRouter_CORSHeaders はCORSヘッダーが付与されることを検証する。
func TestRouter_CORSHeaders(t *testing.T) {
	router := newTestRouter(t, &mockRouterSessionFinder{}, &mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q, want http://localhost:3000", got)
	}
}
