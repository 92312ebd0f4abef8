// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// 認証イベントとHTTPリクエストの統計を記録する。
type Collector struct {
	signupTotal        prometheus.Counter
	loginSuccess       prometheus.Counter
	loginFail          prometheus.Counter
	resetRequestTotal  prometheus.Counter
	resetRedeemTotal   prometheus.Counter
	mailSentTotal      prometheus.Counter
	mailFailTotal      prometheus.Counter
	httpStatus         *prometheus.CounterVec
	requestDuration    prometheus.Histogram
	sessionsCleaned    prometheus.Counter
	resetTokensCleaned prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signupTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "makanai_signup_total",
			Help: "ユーザー登録成功の合計数",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "makanai_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "makanai_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		resetRequestTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "makanai_password_reset_request_total",
			Help: "パスワードリセットリクエストの合計数",
		}),
		resetRedeemTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "makanai_password_reset_redeem_total",
			Help: "パスワードリセット完了の合計数",
		}),
		mailSentTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "makanai_mail_sent_total",
			Help: "送信に成功したメールの合計数",
		}),
		mailFailTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "makanai_mail_fail_total",
			Help: "送信に失敗したメールの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "makanai_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "makanai_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		sessionsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "makanai_sessions_cleaned_total",
			Help: "クリーンアップジョブが削除した期限切れセッションの合計数",
		}),
		resetTokensCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "makanai_reset_tokens_cleaned_total",
			Help: "クリーンアップジョブがクリアした期限切れリセットトークンの合計数",
		}),
	}

	reg.MustRegister(
		c.signupTotal,
		c.loginSuccess,
		c.loginFail,
		c.resetRequestTotal,
		c.resetRedeemTotal,
		c.mailSentTotal,
		c.mailFailTotal,
		c.httpStatus,
		c.requestDuration,
		c.sessionsCleaned,
		c.resetTokensCleaned,
	)

	return c
}

// RecordSignup はユーザー登録成功を記録する。
func (c *Collector) RecordSignup() {
	c.signupTotal.Inc()
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordPasswordResetRequest はリセットリクエストを記録する。
func (c *Collector) RecordPasswordResetRequest() {
	c.resetRequestTotal.Inc()
}

// RecordPasswordResetRedeem はリセット完了を記録する。
func (c *Collector) RecordPasswordResetRedeem() {
	c.resetRedeemTotal.Inc()
}

// RecordMailSent はメール送信成功を記録する。
func (c *Collector) RecordMailSent() {
	c.mailSentTotal.Inc()
}

// RecordMailFailure はメール送信失敗を記録する。
func (c *Collector) RecordMailFailure() {
	c.mailFailTotal.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はリクエスト処理時間を記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// RecordSessionsCleaned は削除された期限切れセッション数を記録する。
func (c *Collector) RecordSessionsCleaned(count int64) {
	c.sessionsCleaned.Add(float64(count))
}

// RecordResetTokensCleaned はクリアされた期限切れリセットトークン数を記録する。
func (c *Collector) RecordResetTokensCleaned(count int64) {
	c.resetTokensCleaned.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
