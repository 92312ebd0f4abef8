package config

import (
	"testing"
	"time"
)

// setRequiredEnv はLoadに必要な必須環境変数を設定する。
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/makanai")
	t.Setenv("BASE_URL", "http://localhost:8080")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("MAIL_FROM", "noreply@example.com")
}

// TestLoad_RequiredMissing は必須環境変数が未設定の場合のエラーを検証する。
func TestLoad_RequiredMissing(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("MAIL_FROM", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when required env vars are missing")
	}
}

// TestLoad_Defaults はオプション項目のデフォルト値を検証する。
func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_TTL", "")
	t.Setenv("SESSION_TTL_REMEMBER", "")
	t.Setenv("RESET_TOKEN_TTL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v, want 2h", cfg.SessionTTL)
	}
	if cfg.SessionTTLRemember != 24*time.Hour {
		t.Errorf("SessionTTLRemember = %v, want 24h", cfg.SessionTTLRemember)
	}
	if cfg.ResetTokenTTL != time.Hour {
		t.Errorf("ResetTokenTTL = %v, want 1h", cfg.ResetTokenTTL)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, want 587", cfg.SMTPPort)
	}
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want 120", cfg.RateLimitGeneral)
	}
	if cfg.RateLimitAuth != 10 {
		t.Errorf("RateLimitAuth = %d, want 10", cfg.RateLimitAuth)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.CORSAllowedOrigin != "http://localhost:3000" {
		t.Errorf("CORSAllowedOrigin = %q, want http://localhost:3000", cfg.CORSAllowedOrigin)
	}
}

// TestLoad_CookieSecure はBASE_URLがhttpsの場合のみSecure Cookieが有効になることを検証する。
func TestLoad_CookieSecure(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("BASE_URL", "http://localhost:8080")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CookieSecure {
		t.Error("CookieSecure should be false for http base URL")
	}

	t.Setenv("BASE_URL", "https://makanai.example.com")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure should be true for https base URL")
	}
}

// TestLoad_Overrides は環境変数による上書きを検証する。
func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("RATE_LIMIT_AUTH", "5")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v, want 30m", cfg.SessionTTL)
	}
	if cfg.RateLimitAuth != 5 {
		t.Errorf("RateLimitAuth = %d, want 5", cfg.RateLimitAuth)
	}
	if cfg.SMTPPort != 2525 {
		t.Errorf("SMTPPort = %d, want 2525", cfg.SMTPPort)
	}
}

// TestLoad_InvalidDuration は不正なduration値でデフォルトにフォールバックすることを検証する。
func TestLoad_InvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v, want default 2h", cfg.SessionTTL)
	}
}
