package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/minoru/makanai/internal/invoice"
	"github.com/minoru/makanai/internal/middleware"
	"github.com/minoru/makanai/internal/model"
)

// InvoiceServiceInterface は請求書ハンドラーが必要とするサービスインターフェース。
type InvoiceServiceInterface interface {
	List(ctx context.Context, userID, status, organizationID string) ([]*model.Invoice, error)
	Get(ctx context.Context, userID, id string) (*model.Invoice, error)
	Create(ctx context.Context, userID string, input invoice.Input) (*model.Invoice, error)
	Update(ctx context.Context, userID, id string, input invoice.Input) (*model.Invoice, error)
	UpdateStatus(ctx context.Context, userID, id, status string) (*model.Invoice, error)
	Delete(ctx context.Context, userID, id string) error
}

// InvoiceHandler は請求書管理のHTTPハンドラー。
type InvoiceHandler struct {
	service InvoiceServiceInterface
}

// NewInvoiceHandler はInvoiceHandlerを生成する。
func NewInvoiceHandler(service InvoiceServiceInterface) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
	}
}

// invoiceRequest は請求書の作成・更新リクエストのボディ。
// amountが0の場合は対象注文の合計金額が使用される。
type invoiceRequest struct {
	OrganizationID string `json:"organization_id"`
	OrderID        string `json:"order_id"`
	Amount         int    `json:"amount"`
	Status         string `json:"status"`
}

// invoiceStatusRequest はステータス更新リクエストのボディ。
type invoiceStatusRequest struct {
	Status string `json:"status"`
}

// invoiceResponse は請求書情報のAPIレスポンス。
type invoiceResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	OrderID        string    `json:"order_id"`
	Amount         int       `json:"amount"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// List はユーザーの請求書一覧を取得する。
// statusとorganization_idクエリパラメータで絞り込みができる。
// GET /api/invoices?status=pending&organization_id=xxx
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	invoices, err := h.service.List(r.Context(), userID,
		r.URL.Query().Get("status"),
		r.URL.Query().Get("organization_id"),
	)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		resp = append(resp, toInvoiceResponse(inv))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Get は指定IDの請求書を取得する。
// GET /api/invoices/{id}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	inv, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toInvoiceResponse(inv))
}

// Create は請求書を作成する。
// POST /api/invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	inv, err := h.service.Create(r.Context(), userID, invoice.Input{
		OrganizationID: req.OrganizationID,
		OrderID:        req.OrderID,
		Amount:         req.Amount,
		Status:         req.Status,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toInvoiceResponse(inv))
}

// Update は請求書を更新する。
// PUT /api/invoices/{id}
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	inv, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), invoice.Input{
		OrganizationID: req.OrganizationID,
		OrderID:        req.OrderID,
		Amount:         req.Amount,
		Status:         req.Status,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toInvoiceResponse(inv))
}

// UpdateStatus は請求書の支払いステータスのみを更新する。
// PATCH /api/invoices/{id}/status
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req invoiceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	inv, err := h.service.UpdateStatus(r.Context(), userID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toInvoiceResponse(inv))
}

// Delete は請求書を削除する。
// DELETE /api/invoices/{id}
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// toInvoiceResponse は請求書モデルをAPIレスポンス形式に変換する。
func toInvoiceResponse(inv *model.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:             inv.ID,
		OrganizationID: inv.OrganizationID,
		OrderID:        inv.OrderID,
		Amount:         inv.Amount,
		Status:         string(inv.Status),
		CreatedAt:      inv.CreatedAt,
	}
}
