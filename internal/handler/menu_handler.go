package handler

import (
	"encoding/json"
	"net/http"

	"github.com/minoru/makanai/internal/menu"
)

// MenuHandler はメニューカタログのHTTPハンドラー。
// カタログは静的なため、サービス層を介さず直接参照する。
type MenuHandler struct{}

// NewMenuHandler はMenuHandlerを生成する。
func NewMenuHandler() *MenuHandler {
	return &MenuHandler{}
}

// List はメニューカタログの全品目を返す。
// GET /api/menu
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(menu.Items())
}
