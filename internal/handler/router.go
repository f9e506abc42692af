package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/linkstash/internal/metrics"
	"github.com/hitoshi/linkstash/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	Logger            *slog.Logger
	StatusObserver    middleware.StatusObserver

	// 監視
	HealthChecker HealthChecker
	Gatherer      prometheus.Gatherer

	// サービス
	AuthService    AuthServiceInterface
	ContentService ContentServiceInterface
	ShareService   ShareServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → (保護ルートのみ) Auth
//
// 認証ゲートを通過しないのはsignup、login、共有トークン解決、
// /healthz、/metricsのみ。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(logger, deps.StatusObserver))

	authHandler := NewAuthHandler(deps.AuthService)
	contentHandler := NewContentHandler(deps.ContentService)
	shareHandler := NewShareHandler(deps.ShareService)

	// --- 監視エンドポイント ---

	r.Get("/healthz", newHealthHandler(deps.HealthChecker))

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// --- 認証不要のルート ---

		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)

		// 共有トークン解決（匿名アクセスの唯一の経路）
		r.Get("/share/{token}", shareHandler.Resolve)

		// --- 認証が必要なルート ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))

			r.Post("/content", contentHandler.Create)
			r.Get("/content", contentHandler.List)
			r.Delete("/delete/{id}", contentHandler.Delete)
			r.Post("/share", shareHandler.Update)
		})
	})

	return r
}

// newHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := checker.PingContext(ctx); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, messageResponse{Message: "unhealthy"})
				return
			}
		}

		writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
	}
}
