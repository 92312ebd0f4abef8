package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/minoru/makanai/internal/middleware"
	"github.com/minoru/makanai/internal/model"
	"github.com/minoru/makanai/internal/order"
)

// OrderServiceInterface は注文ハンドラーが必要とするサービスインターフェース。
type OrderServiceInterface interface {
	List(ctx context.Context, userID, organizationID string) ([]*model.FoodOrder, error)
	Get(ctx context.Context, userID, id string) (*model.FoodOrder, error)
	Create(ctx context.Context, userID string, input order.Input) (*model.FoodOrder, error)
	Update(ctx context.Context, userID, id string, input order.Input) (*model.FoodOrder, error)
	Delete(ctx context.Context, userID, id string) error
}

// OrderHandler は飲食注文管理のHTTPハンドラー。
type OrderHandler struct {
	service OrderServiceInterface
}

// NewOrderHandler はOrderHandlerを生成する。
func NewOrderHandler(service OrderServiceInterface) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// orderItemRequest は注文品目のリクエスト表現。
// 単価はサーバー側でメニューカタログから解決されるため受け取らない。
type orderItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// orderRequest は注文の作成・更新リクエストのボディ。
type orderRequest struct {
	OrganizationID string             `json:"organization_id"`
	Items          []orderItemRequest `json:"items"`
	OrderDate      time.Time          `json:"order_date"`
}

// orderResponse は注文情報のAPIレスポンス。
type orderResponse struct {
	ID             string            `json:"id"`
	OrganizationID string            `json:"organization_id"`
	Items          []model.OrderItem `json:"items"`
	TotalAmount    int               `json:"total_amount"`
	OrderDate      time.Time         `json:"order_date"`
	CreatedAt      time.Time         `json:"created_at"`
}

// List はユーザーの注文一覧を取得する。
// organization_idクエリパラメータで組織ごとの絞り込みができる。
// GET /api/orders?organization_id=xxx
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	orders, err := h.service.List(r.Context(), userID, r.URL.Query().Get("organization_id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Get は指定IDの注文を取得する。
// GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	o, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toOrderResponse(o))
}

// Create は注文を作成する。
// 単価と合計金額はメニューカタログから計算される。
// POST /api/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	o, err := h.service.Create(r.Context(), userID, toOrderInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toOrderResponse(o))
}

// Update は注文を更新する。
// PUT /api/orders/{id}
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	o, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), toOrderInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toOrderResponse(o))
}

// Delete は注文を削除する。
// DELETE /api/orders/{id}
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// toOrderInput はリクエストボディをサービス層の入力値に変換する。
func toOrderInput(req orderRequest) order.Input {
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.OrderItem{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
		})
	}
	return order.Input{
		OrganizationID: req.OrganizationID,
		Items:          items,
		OrderDate:      req.OrderDate,
	}
}

// toOrderResponse は注文モデルをAPIレスポンス形式に変換する。
func toOrderResponse(o *model.FoodOrder) orderResponse {
	return orderResponse{
		ID:             o.ID,
		OrganizationID: o.OrganizationID,
		Items:          o.Items,
		TotalAmount:    o.TotalAmount,
		OrderDate:      o.OrderDate,
		CreatedAt:      o.CreatedAt,
	}
}
