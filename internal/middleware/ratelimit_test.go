package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func testRateLimiterConfig(authBurst int) RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(2),
		GeneralBurst:    3,
		AuthRate:        rate.Limit(1),
		AuthBurst:       authBurst,
		CleanupInterval: time.Minute,
	}
}

// TestRateLimiter_GeneralMiddleware_AllowsWithinLimit はバースト内のリクエストが通過することを検証する。
func TestRateLimiter_GeneralMiddleware_AllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(2))
	defer rl.Stop()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := rl.GeneralMiddleware()(next)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), "user-1"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
	}
}

// TestRateLimiter_GeneralMiddleware_BlocksOverLimit はバースト超過で429が返ることを検証する。
func TestRateLimiter_GeneralMiddleware_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(2))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var lastCode int
	var lastRetryAfter string
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), "user-1"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
		lastRetryAfter = rec.Header().Get("Retry-After")
	}

	if lastCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", lastCode)
	}
	if lastRetryAfter == "" {
		t.Error("Retry-After header should be set")
	}
}

// TestRateLimiter_GeneralMiddleware_PerUser は制限がユーザー単位であることを検証する。
func TestRateLimiter_GeneralMiddleware_PerUser(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(2))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// user-1のバーストを使い切る
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), "user-1"))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	// 別ユーザーは影響を受けない
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), "user-2"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("other user's request: status = %d, want 200", rec.Code)
	}
}

// TestRateLimiter_GeneralMiddleware_RequiresAuth はコンテキストにユーザーIDがない場合の401を検証する。
func TestRateLimiter_GeneralMiddleware_RequiresAuth(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(2))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestRateLimiter_AuthMiddleware_PerIP は認証エンドポイントの制限がIP単位であることを検証する。
func TestRateLimiter_AuthMiddleware_PerIP(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(1))
	defer rl.Stop()

	handler := rl.AuthMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// 同一IPからの2回目はバースト1を超過する
	req1 := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req1.RemoteAddr = "203.0.113.5:12345"
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req2.RemoteAddr = "203.0.113.5:54321" // 同一IP、別ポート
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Errorf("second request from same IP: status = %d, want 429", rec2.Code)
	}

	// 別IPは影響を受けない
	req3 := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req3.RemoteAddr = "198.51.100.7:12345"
	rec3 := httptest.NewRecorder()
	handler.ServeHTTP(rec3, req3)
	if rec3.Code != http.StatusOK {
		t.Errorf("request from other IP: status = %d, want 200", rec3.Code)
	}
}

// TestClientIP はRemoteAddrからのIP抽出を検証する。
func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.5:12345"
	if got := clientIP(req); got != "203.0.113.5" {
		t.Errorf("clientIP = %q, want %q", got, "203.0.113.5")
	}

	req.RemoteAddr = "203.0.113.5"
	if got := clientIP(req); got != "203.0.113.5" {
		t.Errorf("clientIP without port = %q, want %q", got, "203.0.113.5")
	}
}

// TestDefaultRateLimiterConfig はデフォルト設定値を検証する。
func TestDefaultRateLimiterConfig(t *testing.T) {
	cfg := DefaultRateLimiterConfig()
	if cfg.GeneralBurst != 120 {
		t.Errorf("GeneralBurst = %d, want 120", cfg.GeneralBurst)
	}
	if cfg.AuthBurst != 10 {
		t.Errorf("AuthBurst = %d, want 10", cfg.AuthBurst)
	}
}
