package mailer

import (
	"strings"
	"testing"
)

// TestNewSMTPMailer_Initializes は初期化を検証する。
func TestNewSMTPMailer_Initializes(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{
		Host: "localhost",
		Port: 587,
		From: "noreply@makanai.example.com",
	})
	if m == nil {
		t.Fatal("expected non-nil mailer")
	}
}

// TestBuildPasswordResetBody は本文に宛名とリセットURLが含まれることを検証する。
func TestBuildPasswordResetBody(t *testing.T) {
	body := buildPasswordResetBody(PasswordResetMail{
		ToEmail:  "yamada@example.com",
		UserName: "山田太郎",
		ResetURL: "https://makanai.example.com/reset-password/abc123def4567",
	})

	if !strings.Contains(body, "山田太郎 様") {
		t.Errorf("body should address the user by name, got %q", body)
	}
	if !strings.Contains(body, "https://makanai.example.com/reset-password/abc123def4567") {
		t.Errorf("body should contain the reset URL, got %q", body)
	}
	if !strings.Contains(body, "有効期限は1時間") {
		t.Errorf("body should mention the expiry, got %q", body)
	}
	// メールアドレスは本文に含めない
	if strings.Contains(body, "yamada@example.com") {
		t.Errorf("body should not contain the recipient address, got %q", body)
	}
}
