package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/minoru/makanai/internal/expense"
	"github.com/minoru/makanai/internal/middleware"
	"github.com/minoru/makanai/internal/model"
)

// ExpenseServiceInterface は経費ハンドラーが必要とするサービスインターフェース。
type ExpenseServiceInterface interface {
	List(ctx context.Context, userID, category string) ([]*model.Expense, error)
	Get(ctx context.Context, userID, id string) (*model.Expense, error)
	Create(ctx context.Context, userID string, input expense.Input) (*model.Expense, error)
	Update(ctx context.Context, userID, id string, input expense.Input) (*model.Expense, error)
	Delete(ctx context.Context, userID, id string) error
}

// ExpenseHandler は経費管理のHTTPハンドラー。
type ExpenseHandler struct {
	service ExpenseServiceInterface
}

// NewExpenseHandler はExpenseHandlerを生成する。
func NewExpenseHandler(service ExpenseServiceInterface) *ExpenseHandler {
	return &ExpenseHandler{
		service: service,
	}
}

// expenseRequest は経費の作成・更新リクエストのボディ。
type expenseRequest struct {
	Description string    `json:"description"`
	Amount      int       `json:"amount"`
	Category    string    `json:"category"`
	ExpenseDate time.Time `json:"expense_date"`
}

// expenseResponse は経費情報のAPIレスポンス。
type expenseResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      int       `json:"amount"`
	Category    string    `json:"category"`
	ExpenseDate time.Time `json:"expense_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// List はユーザーの経費一覧を取得する。
// categoryクエリパラメータでカテゴリごとの絞り込みができる。
// GET /api/expenses?category=xxx
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	expenses, err := h.service.List(r.Context(), userID, r.URL.Query().Get("category"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		resp = append(resp, toExpenseResponse(e))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Get は指定IDの経費を取得する。
// GET /api/expenses/{id}
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	e, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toExpenseResponse(e))
}

// Create は経費を記録する。
// POST /api/expenses
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	e, err := h.service.Create(r.Context(), userID, expense.Input{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		ExpenseDate: req.ExpenseDate,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toExpenseResponse(e))
}

// Update は経費を更新する。
// PUT /api/expenses/{id}
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	e, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), expense.Input{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		ExpenseDate: req.ExpenseDate,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toExpenseResponse(e))
}

// Delete は経費を削除する。
// DELETE /api/expenses/{id}
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toExpenseResponse は経費モデルをAPIレスポンス形式に変換する。
func toExpenseResponse(e *model.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		ExpenseDate: e.ExpenseDate,
		CreatedAt:   e.CreatedAt,
	}
}
