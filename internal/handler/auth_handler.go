// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/shopapi/internal/auth"
	"github.com/hitoshi/shopapi/internal/middleware"
	"github.com/hitoshi/shopapi/internal/model"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 600 // 10分

	loginRedirect     = "/login"
	dashboardRedirect = "/dashboard"
	logoutRedirect    = "/"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	GetLoginURL(state string) string
	HandleCallback(ctx context.Context, code string) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// CookieSigner はセッションCookieの署名と検証を行う。auth.CookieSignerが実装する。
type CookieSigner interface {
	Sign(value string) string
	Verify(signed string) (string, bool)
}

// LoginRecorder はOAuthログイン結果を記録する。
type LoginRecorder interface {
	RecordOAuthLogin(success bool)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はOAuth認証関連のHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	signer   CookieSigner
	recorder LoginRecorder
	config   AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。recorderはnilでもよい。
func NewAuthHandler(service AuthServiceInterface, signer CookieSigner, recorder LoginRecorder, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		signer:   signer,
		recorder: recorder,
		config:   config,
	}
}

// Login はGoogle OAuthフローを開始する。セッションはまだ作成しない。
// GET /auth/google
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := auth.NewRandomToken(16)
	if err != nil {
		slog.Error("failed to generate oauth state", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	// stateをCookieに保存（CSRF対策）
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   oauthStateMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.service.GetLoginURL(state), http.StatusFound)
}

// Callback はOAuthコールバックを処理する。
// 失敗時はいずれの理由でも/loginへリダイレクトし、セッションは作成しない。
// GET /auth/google/callback?code=xxx&state=yyy
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	stateCookie, cookieErr := r.Cookie(oauthStateCookie)
	h.clearCookie(w, oauthStateCookie, "")

	// 同意拒否とプロバイダーエラーは区別しない
	if providerErr := q.Get("error"); providerErr != "" {
		slog.Warn("oauth provider returned error", slog.String("error", providerErr))
		h.failLogin(w, r)
		return
	}

	state := q.Get("state")
	if cookieErr != nil || state == "" || stateCookie.Value != state {
		slog.Warn("oauth state mismatch")
		h.failLogin(w, r)
		return
	}

	code := q.Get("code")
	if code == "" {
		slog.Warn("oauth callback without authorization code")
		h.failLogin(w, r)
		return
	}

	session, err := h.service.HandleCallback(r.Context(), code)
	if err != nil {
		slog.Error("oauth callback failed", slog.String("error", err.Error()))
		h.failLogin(w, r)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    h.signer.Sign(session.ID),
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	h.recordLogin(true)
	http.Redirect(w, r, dashboardRedirect, http.StatusFound)
}

// Logout はセッションを破棄してトップへリダイレクトする。
// 破棄に失敗してもCookieはクリアする。
// GET /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if sessionID, ok := h.signer.Verify(cookie.Value); ok {
			if err := h.service.Logout(r.Context(), sessionID); err != nil {
				attrs := []any{slog.String("error", err.Error())}
				if errors.Is(err, auth.ErrSessionDestroy) {
					attrs = append(attrs, slog.String("kind", "session_destroy_failed"))
				}
				slog.Error("failed to logout", attrs...)
			}
		}
	}

	h.clearCookie(w, middleware.SessionCookieName, h.config.CookieDomain)
	http.Redirect(w, r, logoutRedirect, http.StatusFound)
}

// Me は現在のセッションのプロフィールを返す。セッションミドルウェア配下で使う。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, loginRedirect, http.StatusFound)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, session.Profile)
}

// Dashboard はログイン済みユーザー向けのダッシュボード情報を返す。
// GET /dashboard
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, loginRedirect, http.StatusFound)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"message":   "Welcome, " + session.Profile.DisplayName,
		"user":      session.Profile,
		"expiresAt": session.ExpiresAt,
	})
}

// LoginHint はログイン手段を案内する。
// GET /login
func (h *AuthHandler) LoginHint(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Please log in with Google",
		"login":   "/auth/google",
	})
}

func (h *AuthHandler) failLogin(w http.ResponseWriter, r *http.Request) {
	h.recordLogin(false)
	http.Redirect(w, r, loginRedirect, http.StatusFound)
}

func (h *AuthHandler) recordLogin(success bool) {
	if h.recorder != nil {
		h.recorder.RecordOAuthLogin(success)
	}
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter, name, domain string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
