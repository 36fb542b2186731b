package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hitoshi/shopapi/internal/token"
)

// クレデンシャル検証の失敗時メッセージ
const (
	msgMissingOrMalformed  = "Missing or invalid authorization header"
	msgServerMisconfigured = "Server misconfiguration: JWT_SECRET is missing"
	msgInvalidCredential   = "Invalid or malformed token"
	msgCredentialExpired   = "Token expired, please refresh your token"

	resultAccepted = "accepted"

	bearerPrefix = "Bearer "
)

// CredentialVerifier はBearerクレデンシャルの検証と再発行を行う。
// token.Managerが実装する。
type CredentialVerifier interface {
	Verify(tokenStr string) (*token.Claims, error)
	Reissue(expired *token.Claims, ttl time.Duration) (string, error)
}

// CredentialRecorder は検証結果を記録する。metrics.Collectorが実装する。
type CredentialRecorder interface {
	RecordCredentialCheck(result string)
}

// CredentialConfig は期限切れ時の再発行の設定。
type CredentialConfig struct {
	ReissueExpired bool
	ReissueTTL     time.Duration
}

// NewCredentialMiddleware はAuthorization: Bearer ヘッダーを検証するミドルウェアを返す。
// 検証に成功した場合のみ後続ハンドラーを呼び出し、クレームをコンテキストに注入する。
// 期限切れの場合は再発行したクレデンシャルをnewTokenとして返すが、
// 当該リクエスト自体は常に拒否する。recorderはnilでもよい。
func NewCredentialMiddleware(verifier CredentialVerifier, config CredentialConfig, recorder CredentialRecorder) func(next http.Handler) http.Handler {
	record := func(result string) {
		if recorder != nil {
			recorder.RecordCredentialCheck(result)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				record(token.KindMissingOrMalformed.String())
				WriteMessage(w, http.StatusUnauthorized, msgMissingOrMalformed)
				return
			}

			claims, err := verifier.Verify(raw)
			if err == nil {
				record(resultAccepted)
				next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
				return
			}

			kind := token.KindOf(err)
			record(kind.String())

			switch kind {
			case token.KindMissingOrMalformed:
				WriteMessage(w, http.StatusUnauthorized, msgMissingOrMalformed)
			case token.KindServerMisconfigured:
				slog.Error("credential verification unavailable", slog.String("error", err.Error()))
				WriteMessage(w, http.StatusInternalServerError, msgServerMisconfigured)
			case token.KindExpired:
				body := MessageBody{Message: msgCredentialExpired}
				if config.ReissueExpired {
					body.NewToken = reissue(verifier, claims, config.ReissueTTL)
				}
				WriteJSON(w, http.StatusUnauthorized, body)
			case token.KindInvalid:
				WriteMessage(w, http.StatusForbidden, msgInvalidCredential)
			default:
				slog.Error("unexpected credential verification error", slog.String("error", err.Error()))
				WriteMessage(w, http.StatusForbidden, msgInvalidCredential)
			}
		})
	}
}

// bearerToken は "Bearer <token>" 形式のヘッダーからトークンを取り出す。
// スキーム名は大文字小文字を区別し、区切りは半角空白1つに限る。
// トークンが空、または空白を含む場合はfalseを返す。
func bearerToken(header string) (string, bool) {
	raw, found := strings.CutPrefix(header, bearerPrefix)
	if !found || raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return "", false
	}
	return raw, true
}

// reissue は期限切れクレームから新しいクレデンシャルを発行する。
// 失敗した場合は空文字列を返し、レスポンスからnewTokenを省く。
func reissue(verifier CredentialVerifier, claims *token.Claims, ttl time.Duration) string {
	newToken, err := verifier.Reissue(claims, ttl)
	if err != nil {
		slog.Warn("failed to reissue expired credential", slog.String("error", err.Error()))
		return ""
	}
	return newToken
}
