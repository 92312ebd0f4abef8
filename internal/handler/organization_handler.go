package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/minoru/makanai/internal/middleware"
	"github.com/minoru/makanai/internal/model"
	"github.com/minoru/makanai/internal/organization"
)

// OrganizationServiceInterface は組織ハンドラーが必要とするサービスインターフェース。
type OrganizationServiceInterface interface {
	List(ctx context.Context, userID string) ([]*model.Organization, error)
	Get(ctx context.Context, userID, id string) (*model.Organization, error)
	Create(ctx context.Context, userID string, input organization.Input) (*model.Organization, error)
	Update(ctx context.Context, userID, id string, input organization.Input) (*model.Organization, error)
	Delete(ctx context.Context, userID, id string) error
}

// OrganizationHandler は取引先組織管理のHTTPハンドラー。
type OrganizationHandler struct {
	service OrganizationServiceInterface
}

// NewOrganizationHandler はOrganizationHandlerを生成する。
func NewOrganizationHandler(service OrganizationServiceInterface) *OrganizationHandler {
	return &OrganizationHandler{
		service: service,
	}
}

// organizationRequest は組織の作成・更新リクエストのボディ。
type organizationRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
}

// organizationResponse は組織情報のAPIレスポンス。
type organizationResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
}

// List はユーザーの組織一覧を取得する。
// GET /api/organizations
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	orgs, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]organizationResponse, 0, len(orgs))
	for _, org := range orgs {
		resp = append(resp, toOrganizationResponse(org))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Get は指定IDの組織を取得する。
// GET /api/organizations/{id}
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	org, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toOrganizationResponse(org))
}

// Create は組織を作成する。
// POST /api/organizations
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req organizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	org, err := h.service.Create(r.Context(), userID, organization.Input{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toOrganizationResponse(org))
}

// Update は組織情報を更新する。
// PUT /api/organizations/{id}
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req organizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	org, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), organization.Input{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toOrganizationResponse(org))
}

// Delete は組織を削除する。
// 配下の注文・請求書もDBの外部キー制約によりカスケード削除される。
// DELETE /api/organizations/{id}
func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// toOrganizationResponse は組織モデルをAPIレスポンス形式に変換する。
func toOrganizationResponse(org *model.Organization) organizationResponse {
	return organizationResponse{
		ID:            org.ID,
		Name:          org.Name,
		ContactPerson: org.ContactPerson,
		Email:         org.Email,
		CreatedAt:     org.CreatedAt,
	}
}
