// Package mailer はトランザクションメールの送信機能を提供する。
// パスワードリセットメールの整形とSMTP経由での配信を担当する。
package mailer

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// PasswordResetMail はパスワードリセットメールの送信パラメータ。
type PasswordResetMail struct {
	ToEmail  string
	UserName string
	ResetURL string
}

// Mailer はメール送信のインターフェース。
type Mailer interface {
	// SendPasswordResetEmail はパスワードリセットメールを送信する。
	SendPasswordResetEmail(ctx context.Context, mail PasswordResetMail) error
}

// SMTPConfig はSMTPメーラーの設定。
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer はgomailを使用したSMTPメール送信の実装。
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer はSMTPMailerを生成する。
func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		from:   config.From,
	}
}

// SendPasswordResetEmail はパスワードリセットメールを送信する。
// リセットURLにはトークンがパスセグメントとして埋め込まれている。
// 送信失敗はそのままエラーとして返し、リトライは行わない。
func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, mail PasswordResetMail) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", mail.ToEmail)
	msg.SetHeader("Subject", "【まかない】パスワードリセットのご案内")
	msg.SetBody("text/plain", buildPasswordResetBody(mail))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

// buildPasswordResetBody はリセットメールの本文を組み立てる。
func buildPasswordResetBody(mail PasswordResetMail) string {
	return fmt.Sprintf(
		"%s 様\n\n"+
			"パスワードリセットのリクエストを受け付けました。\n"+
			"以下のリンクから新しいパスワードを設定してください。\n\n"+
			"%s\n\n"+
			"このリンクの有効期限は1時間です。\n"+
			"心当たりがない場合は、このメールを無視してください。\n",
		mail.UserName, mail.ResetURL,
	)
}

// compile-time interface check
var _ Mailer = (*SMTPMailer)(nil)
