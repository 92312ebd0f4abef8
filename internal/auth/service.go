// Package auth はローカル認証、セッション管理、パスワードリセットフローを提供する。
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minoru/makanai/internal/mailer"
	"github.com/minoru/makanai/internal/model"
	"github.com/minoru/makanai/internal/repository"
)

// minPasswordLength はリセット時に要求するパスワードの最小長。
const minPasswordLength = 6

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	// SessionTTL は通常ログインのセッション有効期間（デフォルト2時間）。
	SessionTTL time.Duration
	// SessionTTLRemember は「ログイン状態を保持」選択時のセッション有効期間（デフォルト24時間）。
	// rememberMeの効果はこの有効期間の差のみで、それ以外の挙動差はない。
	SessionTTLRemember time.Duration
	// ResetTokenTTL はリセットトークンの有効期間（デフォルト1時間）。
	ResetTokenTTL time.Duration
	// BaseURL はリセットURLの生成に使用するアプリケーションのオリジン。
	BaseURL string
}

// MetricsRecorder は認証イベントのメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordSignup()
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordPasswordResetRequest()
	RecordPasswordResetRedeem()
	RecordMailSent()
	RecordMailFailure()
}

// userSnapshot はセッションに保存するログイン時点のユーザー情報。
// パスワードハッシュとリセットトークンは含めない。
type userSnapshot struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	mailer      mailer.Mailer
	metrics     MetricsRecorder
	config      ServiceConfig
}

// NewService はServiceを生成する。
// metricsにnilを渡した場合、メトリクス記録はスキップされる。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	m mailer.Mailer,
	metrics MetricsRecorder,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		mailer:      m,
		metrics:     metrics,
		config:      config,
	}
}

// Signup は新規ユーザーを登録する。
// メールアドレスの一意性はストア層の一意インデックスで強制され、
// 制約違反がそのまま重複登録のシグナルとなる（事前チェッククエリは行わない）。
// 登録が成功しても呼び出し元を認証済みにはしない。ログインは別途必要。
func (s *Service) Signup(ctx context.Context, email, password, name string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(name) == "" {
		return model.NewInvalidRequestError("メールアドレスと名前は必須です")
	}
	if password == "" {
		return model.NewInvalidRequestError("パスワードは必須です")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if err == repository.ErrDuplicateEmail {
			return model.NewDuplicateAccountError()
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	s.recordSignup()
	slog.Info("user signed up",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	return nil
}

// Login はメールアドレスとパスワードで認証し、セッションと認証済みユーザーを返す。
// rememberMeの唯一の効果はセッション有効期間の差（24時間 vs 2時間）であり、
// 永続化の経路はどちらも同じ。
func (s *Service) Login(ctx context.Context, email, password string, rememberMe bool) (*model.Session, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		s.recordLoginFailure()
		return nil, nil, model.NewAccountNotFoundError()
	}

	if !verifyPassword(user.PasswordHash, password) {
		s.recordLoginFailure()
		slog.Warn("login failed: invalid password",
			slog.String("user_id", user.ID),
		)
		return nil, nil, model.NewInvalidCredentialsError()
	}

	session, err := s.createSession(ctx, user, rememberMe)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.recordLoginSuccess()
	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.Bool("remember_me", rememberMe),
	)
	return session, user, nil
}

// CurrentUser はセッションからログイン時点のユーザースナップショットを復元する。
// usersテーブルへの再問い合わせは行わないため、ログイン後にユーザー情報が
// 変更されていてもスナップショットには反映されない（次回ログインまで）。
// セッションが存在しないか期限切れの場合はUnauthorizedを返す。
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, model.NewUnauthorizedError()
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthorizedError()
	}

	var snapshot userSnapshot
	if err := json.Unmarshal(session.UserSnapshot, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode user snapshot: %w", err)
	}

	return &model.User{
		ID:        snapshot.ID,
		Email:     snapshot.Email,
		Name:      snapshot.Name,
		CreatedAt: snapshot.CreatedAt,
	}, nil
}

// Logout はセッションを破棄する。
// 冪等: セッションIDが空、または既に存在しない場合も成功する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// RequestPasswordReset はリセットトークンを発行し、リセットメールを送信する。
// トークンの永続化が成功した後にメール送信が失敗した場合、トークンは
// 有効なまま残る（補償的ロールバックは行わない）。ユーザーは単に
// リセットを再リクエストすればよい。
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.NewAccountNotFoundError()
	}

	token, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	expiresAt := time.Now().Add(s.config.ResetTokenTTL)

	if err := s.userRepo.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return fmt.Errorf("failed to persist reset token: %w", err)
	}

	s.recordPasswordResetRequest()

	resetURL := s.buildResetURL(token)
	if err := s.mailer.SendPasswordResetEmail(ctx, mailer.PasswordResetMail{
		ToEmail:  user.Email,
		UserName: user.Name,
		ResetURL: resetURL,
	}); err != nil {
		s.recordMailFailure()
		slog.Error("failed to send password reset email",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return model.NewMailDeliveryFailedError()
	}

	s.recordMailSent()
	slog.Info("password reset requested",
		slog.String("user_id", user.ID),
	)
	return nil
}

// ValidateResetToken はリセットトークンが現時点で引き換え可能かを検証する。
// 何も変更しない。トークン未検出と期限切れは区別せず、いずれもTokenInvalidとなる。
// 有効期限ちょうどの時刻は期限切れとして扱う（境界は排他的）。
func (s *Service) ValidateResetToken(ctx context.Context, token string) error {
	if token == "" {
		return model.NewTokenInvalidError()
	}

	user, err := s.userRepo.FindByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to find user by reset token: %w", err)
	}
	if user == nil || user.ResetTokenExpiresAt == nil || !user.ResetTokenExpiresAt.After(time.Now()) {
		return model.NewTokenInvalidError()
	}

	return nil
}

// RedeemResetToken はリセットトークンを引き換えてパスワードを更新する。
// トークンは事前のValidateResetToken呼び出しからキャッシュされず、この時点で
// 再照合される。検証と引き換えの間に期限切れになったトークンはここで拒否される。
// パスワード更新とトークンのクリアは同一UPDATEで行われ、クリア後の再利用は
// 照合段階で必ず失敗する。更新後はそのユーザーの全セッションを失効させる。
func (s *Service) RedeemResetToken(ctx context.Context, token, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return model.NewPasswordMismatchError()
	}
	if len(newPassword) < minPasswordLength {
		return model.NewPasswordTooWeakError()
	}

	user, err := s.userRepo.FindByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to find user by reset token: %w", err)
	}
	if user == nil || user.ResetTokenExpiresAt == nil || !user.ResetTokenExpiresAt.After(time.Now()) {
		return model.NewTokenInvalidError()
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePasswordAndClearResetToken(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// 旧パスワードで確立された既存セッションを全て失効させる。
	// パスワード更新自体は完了しているため、失効の失敗で引き換えは巻き戻さない。
	if err := s.sessionRepo.DeleteByUserID(ctx, user.ID); err != nil {
		slog.Error("failed to revoke sessions after password reset",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.recordPasswordResetRedeem()
	slog.Info("password reset completed",
		slog.String("user_id", user.ID),
	)
	return nil
}

// createSession はセッションを作成し永続化する。
// dataカラムにログイン時点のユーザースナップショットをJSONで保存する。
func (s *Service) createSession(ctx context.Context, user *model.User, rememberMe bool) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	snapshot, err := json.Marshal(userSnapshot{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode user snapshot: %w", err)
	}

	ttl := s.config.SessionTTL
	if rememberMe {
		ttl = s.config.SessionTTLRemember
	}

	now := time.Now()
	session := &model.Session{
		ID:           sessionID,
		UserID:       user.ID,
		UserSnapshot: snapshot,
		ExpiresAt:    now.Add(ttl),
		CreatedAt:    now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// buildResetURL はリセット確認画面のURLを組み立てる。
// トークンはパスセグメントとしてそのまま埋め込まれる。
func (s *Service) buildResetURL(token string) string {
	return strings.TrimRight(s.config.BaseURL, "/") + "/reset-password/" + token
}

func (s *Service) recordSignup() {
	if s.metrics != nil {
		s.metrics.RecordSignup()
	}
}

func (s *Service) recordLoginSuccess() {
	if s.metrics != nil {
		s.metrics.RecordLoginSuccess()
	}
}

func (s *Service) recordLoginFailure() {
	if s.metrics != nil {
		s.metrics.RecordLoginFailure()
	}
}

func (s *Service) recordPasswordResetRequest() {
	if s.metrics != nil {
		s.metrics.RecordPasswordResetRequest()
	}
}

func (s *Service) recordPasswordResetRedeem() {
	if s.metrics != nil {
		s.metrics.RecordPasswordResetRedeem()
	}
}

func (s *Service) recordMailSent() {
	if s.metrics != nil {
		s.metrics.RecordMailSent()
	}
}

func (s *Service) recordMailFailure() {
	if s.metrics != nil {
		s.metrics.RecordMailFailure()
	}
}
