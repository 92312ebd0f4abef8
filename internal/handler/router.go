package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/minoru/makanai/internal/middleware"
)

// healthCheckTimeout はヘルスチェック時のDB疎通確認のタイムアウト。
const healthCheckTimeout = 3 * time.Second

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	MetricsRecorder   middleware.HTTPMetricsRecorder
	MetricsHandler    http.Handler

	// ヘルスチェック用DB接続
	DB *sql.DB

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ドメインサービス
	OrganizationService OrganizationServiceInterface
	OrderService        OrderServiceInterface
	InvoiceService      InvoiceServiceInterface
	ExpenseService      ExpenseServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → CORS → SecurityHeaders → Logging → Metrics
//
// 認証ルート（/auth/*）はセッションミドルウェアの外に配置し、
// ログインとリセット要求にはIP単位のレート制限を追加する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	orgHandler := NewOrganizationHandler(deps.OrganizationService)
	orderHandler := NewOrderHandler(deps.OrderService)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceService)
	expenseHandler := NewExpenseHandler(deps.ExpenseService)
	menuHandler := NewMenuHandler()

	// --- 認証不要のルート ---

	r.Get("/health", healthHandler(deps.DB))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/auth", func(r chi.Router) {
		// 総当たり対策としてログインとリセット要求にIP単位のレート制限を適用
		r.With(deps.RateLimiter.AuthMiddleware()).Post("/login", authHandler.Login)
		r.With(deps.RateLimiter.AuthMiddleware()).Post("/forgot-password", authHandler.ForgotPassword)

		r.Post("/signup", authHandler.Signup)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)

		r.Route("/reset-password/{token}", func(r chi.Router) {
			r.Get("/", authHandler.ValidateResetToken)
			r.Post("/", authHandler.RedeemResetToken)
		})
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// メニューカタログ
		r.Get("/api/menu", menuHandler.List)

		// 取引先組織管理
		r.Route("/api/organizations", func(r chi.Router) {
			r.Get("/", orgHandler.List)
			r.Post("/", orgHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", orgHandler.Get)
				r.Put("/", orgHandler.Update)
				r.Delete("/", orgHandler.Delete)
			})
		})

		// 注文管理
		r.Route("/api/orders", func(r chi.Router) {
			r.Get("/", orderHandler.List)
			r.Post("/", orderHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", orderHandler.Get)
				r.Put("/", orderHandler.Update)
				r.Delete("/", orderHandler.Delete)
			})
		})

		// 請求書管理
		r.Route("/api/invoices", func(r chi.Router) {
			r.Get("/", invoiceHandler.List)
			r.Post("/", invoiceHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", invoiceHandler.Get)
				r.Put("/", invoiceHandler.Update)
				r.Patch("/status", invoiceHandler.UpdateStatus)
				r.Delete("/", invoiceHandler.Delete)
			})
		})

		// 経費管理
		r.Route("/api/expenses", func(r chi.Router) {
			r.Get("/", expenseHandler.List)
			r.Post("/", expenseHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", expenseHandler.Get)
				r.Put("/", expenseHandler.Update)
				r.Delete("/", expenseHandler.Delete)
			})
		})
	})

	return r
}

// healthHandler はDB疎通を含むヘルスチェックハンドラーを返す。
func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("unhealthy"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
