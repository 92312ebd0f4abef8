package cleanup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/minoru/makanai/internal/model"
)

// --- モック ---

type mockSessionRepo struct {
	deleteExpiredFn func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error { return nil }
func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return nil, nil
}
func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error         { return nil }
func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) error { return nil }
func (m *mockSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx, now)
	}
	return 0, nil
}

type mockUserRepo struct {
	clearExpiredFn func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserRepo) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	return nil
}
func (m *mockUserRepo) UpdatePasswordAndClearResetToken(ctx context.Context, id, passwordHash string) error {
	return nil
}
func (m *mockUserRepo) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	if m.clearExpiredFn != nil {
		return m.clearExpiredFn(ctx, now)
	}
	return 0, nil
}

type mockMetrics struct {
	sessionsCleaned    []int64
	resetTokensCleaned []int64
}

func (m *mockMetrics) RecordSessionsCleaned(count int64) {
	m.sessionsCleaned = append(m.sessionsCleaned, count)
}
func (m *mockMetrics) RecordResetTokensCleaned(count int64) {
	m.resetTokensCleaned = append(m.resetTokensCleaned, count)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- テスト ---

// TestJob_RunOnce はセッションとリセットトークンの両方が掃除されることを検証する。
func TestJob_RunOnce(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		deleteExpiredFn: func(ctx context.Context, now time.Time) (int64, error) {
			return 3, nil
		},
	}
	userRepo := &mockUserRepo{
		clearExpiredFn: func(ctx context.Context, now time.Time) (int64, error) {
			return 2, nil
		},
	}
	metrics := &mockMetrics{}
	job := NewJob(sessionRepo, userRepo, metrics, testLogger())

	if err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(metrics.sessionsCleaned) != 1 || metrics.sessionsCleaned[0] != 3 {
		t.Errorf("sessions cleaned metric = %v, want [3]", metrics.sessionsCleaned)
	}
	if len(metrics.resetTokensCleaned) != 1 || metrics.resetTokensCleaned[0] != 2 {
		t.Errorf("reset tokens cleaned metric = %v, want [2]", metrics.resetTokensCleaned)
	}
}

// TestJob_RunOnce_SessionError はセッション削除の失敗が伝播することを検証する。
// 失敗時はトークンのクリアに進まない。
func TestJob_RunOnce_SessionError(t *testing.T) {
	wantErr := errors.New("db down")
	sessionRepo := &mockSessionRepo{
		deleteExpiredFn: func(ctx context.Context, now time.Time) (int64, error) {
			return 0, wantErr
		},
	}
	userRepo := &mockUserRepo{
		clearExpiredFn: func(ctx context.Context, now time.Time) (int64, error) {
			t.Error("reset token cleanup should not run after session cleanup failure")
			return 0, nil
		},
	}
	job := NewJob(sessionRepo, userRepo, nil, testLogger())

	if err := job.RunOnce(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
}

// TestJob_RunOnce_NilMetrics はメトリクスなしでも動作することを検証する。
func TestJob_RunOnce_NilMetrics(t *testing.T) {
	job := NewJob(&mockSessionRepo{}, &mockUserRepo{}, nil, testLogger())

	if err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestJob_Start_RunsImmediatelyAndStopsOnCancel は起動直後の実行と
// コンテキストキャンセルによる停止を検証する。
func TestJob_Start_RunsImmediatelyAndStopsOnCancel(t *testing.T) {
	ran := make(chan struct{}, 1)
	sessionRepo := &mockSessionRepo{
		deleteExpiredFn: func(ctx context.Context, now time.Time) (int64, error) {
			select {
			case ran <- struct{}{}:
			default:
			}
			return 0, nil
		},
	}
	job := NewJob(sessionRepo, &mockUserRepo{}, nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx, time.Hour)
		close(done)
	}()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("cleanup should run immediately on start")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job should stop after context cancellation")
	}
}
