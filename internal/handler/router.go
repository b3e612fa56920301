package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/tweetwrap/internal/metrics"
	"github.com/hitoshi/tweetwrap/internal/middleware"
	"github.com/hitoshi/tweetwrap/internal/render"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// ストア
	Store  ShareStore
	Pinger StorePinger

	// 描画
	Renderer      *render.Renderer
	Generator     OGImageGenerator
	AvatarFetcher AvatarFetcher

	// メトリクス
	Collector metrics.MetricsCollector
	Gatherer  prometheus.Gatherer

	// 設定
	ShareConfig ShareHandlerConfig
	TargetYear  int
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RecoveryMiddleware → LoggingMiddleware → SecurityHeaders → CORSMiddleware → RateLimitMiddleware
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	shareHandler := NewShareHandler(deps.Store, deps.Collector, deps.ShareConfig)
	pageHandler := NewPageHandler(deps.Store, deps.Renderer, deps.Generator, deps.AvatarFetcher, deps.Collector, deps.TargetYear)
	healthHandler := NewHealthHandler(deps.Pinger)

	// --- 運用系ルート（レート制限なし） ---

	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	// --- 一般ルート ---
	// ミドルウェアスタック: RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/", pageHandler.Landing)
		r.Get("/w/{id}", pageHandler.Wrapped)
		r.Get("/og/{id}.png", pageHandler.OGImage)

		r.Route("/api", func(r chi.Router) {
			// POST /api/share - 共有作成（作成専用レート制限を追加）
			r.With(deps.RateLimiter.ShareMiddleware()).Post("/share", shareHandler.CreateShare)
			r.Post("/generated", shareHandler.MarkGenerated)
		})
	})

	return r
}
