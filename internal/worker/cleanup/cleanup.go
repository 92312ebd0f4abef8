// Package cleanup は期限切れセッションとリセットトークンの定期削除を提供する。
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/minoru/makanai/internal/repository"
)

// MetricsRecorder はクリーンアップ結果のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordSessionsCleaned(count int64)
	RecordResetTokensCleaned(count int64)
}

// Job は期限切れデータの定期クリーンアップジョブ。
// 期限切れセッションの削除と、期限切れリセットトークンのクリアを行う。
// トークンのクリアは保守的な掃除であり、照合段階の有効期限チェックが
// 正とする挙動には影響しない。
type Job struct {
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
	metrics     MetricsRecorder
	logger      *slog.Logger
}

// NewJob はJobの新しいインスタンスを生成する。
// metricsにnilを渡した場合、メトリクス記録はスキップされる。
func NewJob(
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	metrics MetricsRecorder,
	logger *slog.Logger,
) *Job {
	return &Job{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		metrics:     metrics,
		logger:      logger,
	}
}

// Start は指定間隔でクリーンアップを実行する。
// コンテキストがキャンセルされるまで実行を継続する。
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("クリーンアップジョブを開始しました",
		slog.Duration("interval", interval),
	)

	// 起動直後に1回実行
	if err := j.RunOnce(ctx); err != nil {
		j.logger.Error("クリーンアップの実行に失敗しました",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("クリーンアップジョブを停止しました")
			return
		case <-ticker.C:
			if err := j.RunOnce(ctx); err != nil {
				j.logger.Error("クリーンアップの実行に失敗しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// RunOnce は期限切れセッションとリセットトークンを1回クリーンアップする。
func (j *Job) RunOnce(ctx context.Context) error {
	start := time.Now()
	now := time.Now()

	sessions, err := j.sessionRepo.DeleteExpired(ctx, now)
	if err != nil {
		return err
	}
	if j.metrics != nil {
		j.metrics.RecordSessionsCleaned(sessions)
	}

	tokens, err := j.userRepo.ClearExpiredResetTokens(ctx, now)
	if err != nil {
		return err
	}
	if j.metrics != nil {
		j.metrics.RecordResetTokensCleaned(tokens)
	}

	j.logger.Info("クリーンアップが完了しました",
		slog.Int64("sessions_deleted", sessions),
		slog.Int64("reset_tokens_cleared", tokens),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return nil
}
