package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/shopapi/internal/metrics"
	"github.com/hitoshi/shopapi/internal/middleware"
	"github.com/hitoshi/shopapi/internal/repository"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	Logger            *slog.Logger
	Metrics           metrics.MetricsCollector
	MetricsHandler    http.Handler
	HealthChecker     HealthChecker

	// クレデンシャル検証
	CredentialVerifier middleware.CredentialVerifier
	CredentialConfig   middleware.CredentialConfig

	// セッション・OAuth
	SessionRefresher middleware.SessionRefresher
	CookieSigner     CookieSigner
	AuthService      AuthServiceInterface
	AuthConfig       AuthHandlerConfig

	// リソース
	Users     repository.UserRepository
	Products  repository.ProductRepository
	Orders    repository.OrderRepository
	Contacts  repository.ContactRepository
	Sanitizer TextSanitizer
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// グローバルミドルウェアの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics
//
// Bearer認証が必要なルートにはCredentialミドルウェア、
// ブラウザ向けページにはSessionミドルウェアを追加で適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(logger))

	var credentialRecorder middleware.CredentialRecorder
	var loginRecorder LoginRecorder
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
		credentialRecorder = deps.Metrics
		loginRecorder = deps.Metrics
	}

	requireCredential := middleware.NewCredentialMiddleware(deps.CredentialVerifier, deps.CredentialConfig, credentialRecorder)
	requireSession := middleware.NewSessionMiddleware(deps.SessionRefresher, deps.CookieSigner, middleware.SessionCookieConfig{
		Domain: deps.AuthConfig.CookieDomain,
		Secure: deps.AuthConfig.CookieSecure,
	})

	authHandler := NewAuthHandler(deps.AuthService, deps.CookieSigner, loginRecorder, deps.AuthConfig)
	userHandler := NewUserHandler(deps.Users, deps.Sanitizer)
	productHandler := NewProductHandler(deps.Products, deps.Sanitizer)
	orderHandler := NewOrderHandler(deps.Orders)
	contactHandler := NewContactHandler(deps.Contacts, deps.Sanitizer)

	// --- 認証不要のルート ---
	r.Get("/", Welcome)
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
	r.Get("/login", authHandler.LoginHint)

	// OAuthフロー
	r.Route("/auth", func(r chi.Router) {
		r.Get("/google", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)
		r.Get("/logout", authHandler.Logout)
		r.With(requireSession).Get("/me", authHandler.Me)
	})

	// --- セッションが必要なページ ---
	r.With(requireSession).Get("/dashboard", authHandler.Dashboard)

	// --- リソース ---
	r.Route("/users", func(r chi.Router) {
		r.Use(requireCredential)
		userHandler.Routes(r)
	})

	r.Route("/products", func(r chi.Router) {
		productHandler.PublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(requireCredential)
			productHandler.ProtectedRoutes(r)
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(requireCredential)
		orderHandler.Routes(r)
	})

	r.Route("/contacts", contactHandler.Routes)

	return r
}
