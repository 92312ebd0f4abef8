package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/minoru/makanai/internal/model"
)

// TestWriteErrorResponse は統一エラーフォーマットでのレスポンス書き込みを検証する。
func TestWriteErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorResponse(rec, 401, model.NewUnauthorizedError())

	if rec.Code != 401 {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body ErrorResponseBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want UNAUTHORIZED", body.Code)
	}
	if body.Category != "auth" {
		t.Errorf("category = %q, want auth", body.Category)
	}
	if body.Action == "" {
		t.Error("action should not be empty")
	}
}

// TestWriteInternalServerError は内部エラーの統一レスポンスを検証する。
func TestWriteInternalServerError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteInternalServerError(rec)

	if rec.Code != 500 {
		t.Errorf("status = %d, want 500", rec.Code)
	}

	var body ErrorResponseBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want INTERNAL_ERROR", body.Code)
	}
}
