package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/shopapi/internal/model"
)

// SessionCookieName はセッションIDを保持する署名付きCookieの名前。
const SessionCookieName = "session_id"

// loginPath はセッションが無効な場合のリダイレクト先。
const loginPath = "/login"

// SessionRefresher は有効なセッションの取得と期限延長を行う。
// auth.Serviceが実装する。
type SessionRefresher interface {
	Refresh(ctx context.Context, sessionID string) (*model.Session, error)
}

// CookieVerifier は署名付きCookie値を検証する。auth.CookieSignerが実装する。
type CookieVerifier interface {
	Verify(signed string) (string, bool)
}

// SessionCookieConfig は再発行するセッションCookieの属性。
// ログイン時にセットしたCookieと同じ値を指定する。
type SessionCookieConfig struct {
	Domain string
	Secure bool
}

// NewSessionMiddleware は署名付きセッションCookieを検証し、
// セッションの有効期限を延長してコンテキストに注入するミドルウェアを返す。
// 延長後の残り時間でCookieを再発行し、ブラウザ側の期限もストアに揃える。
// Cookieが無い・署名不正・期限切れ・未存在の場合は/loginへリダイレクトする。
func NewSessionMiddleware(refresher SessionRefresher, verifier CookieVerifier, cookieConfig SessionCookieConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			sessionID, ok := verifier.Verify(cookie.Value)
			if !ok {
				slog.Warn("session cookie signature mismatch")
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			session, err := refresher.Refresh(r.Context(), sessionID)
			if err != nil {
				slog.Error("failed to load session", slog.String("error", err.Error()))
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}
			if session == nil {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    cookie.Value,
				Path:     "/",
				Domain:   cookieConfig.Domain,
				MaxAge:   remainingSeconds(session.ExpiresAt),
				HttpOnly: true,
				Secure:   cookieConfig.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), session)))
		})
	}
}

// remainingSeconds はCookieのMaxAgeとして使う残り秒数を返す。
// MaxAge=0は「属性なし」を意味するため、最小値は1とする。
func remainingSeconds(expiresAt time.Time) int {
	return max(int(time.Until(expiresAt).Seconds()), 1)
}
