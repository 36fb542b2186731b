// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"

	"github.com/hitoshi/shopapi/internal/model"
	"github.com/hitoshi/shopapi/internal/token"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var (
	claimsContextKey  = contextKey("claims")
	sessionContextKey = contextKey("session")
)

// ContextWithClaims はコンテキストに検証済みクレームを注入する。
// ロギングミドルウェアの内側であれば、userIdをログ用にも記録する。
func ContextWithClaims(ctx context.Context, claims *token.Claims) context.Context {
	if h, ok := ctx.Value(userIDHolderKey).(*userIDHolder); ok && claims != nil {
		h.userID = claims.UserID
	}
	return context.WithValue(ctx, claimsContextKey, claims)
}

func contextWithUserIDHolder(ctx context.Context, h *userIDHolder) context.Context {
	return context.WithValue(ctx, userIDHolderKey, h)
}

// ClaimsFromContext はクレデンシャルミドルウェアが注入したクレームを取得する。
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*token.Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext は検証済みクレームのuserIdを取得する。
// クレデンシャルミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.UserID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return claims.UserID, nil
}

// ContextWithSession はコンテキストにセッションを注入する。
func ContextWithSession(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext はセッションミドルウェアが注入したセッションを取得する。
func SessionFromContext(ctx context.Context) (*model.Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(*model.Session)
	return session, ok && session != nil
}
