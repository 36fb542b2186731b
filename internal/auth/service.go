// Package auth はGoogle OAuthによるログインフローとセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/shopapi/internal/model"
	"github.com/hitoshi/shopapi/internal/repository"
)

var (
	// ErrProviderExchange は認可コードの交換またはプロフィール取得に失敗したことを表す。
	ErrProviderExchange = errors.New("oauth provider exchange failed")
	// ErrSessionDestroy はログアウト時のセッション削除に失敗したことを表す。
	ErrSessionDestroy = errors.New("session destroy failed")
)

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
type OAuthProvider interface {
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、プロフィールを取得する。
	ExchangeCode(ctx context.Context, code string) (*model.Profile, error)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service はログインフローとセッションのライフサイクルを扱う。
// ユーザーの自動作成は行わず、IdPのプロフィールはセッション内にのみ保持する。
type Service struct {
	oauth       OAuthProvider
	sessionRepo repository.SessionRepository
	config      ServiceConfig
	now         func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	oauth OAuthProvider,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		oauth:       oauth,
		sessionRepo: sessionRepo,
		config:      config,
		now:         time.Now,
	}
}

// GetLoginURL はOAuth認証URLを生成する。
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// HandleCallback は認可コードを交換し、取得したプロフィールで新しいセッションを発行する。
func (s *Service) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code is empty", ErrProviderExchange)
	}

	profile, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	session, err := s.createSession(ctx, *profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user logged in",
		slog.String("provider", profile.Provider),
		slog.String("provider_user_id", profile.ProviderUserID),
	)
	return session, nil
}

// Logout はセッションを同期的に破棄する。
// 戻り値がnilの場合、同じセッションIDは以後どのリクエストでも認証に使えない。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionDestroy, err)
	}

	slog.Info("user logged out")
	return nil
}

// Refresh は有効なセッションを取得し、有効期限をSESSION_MAX_AGE分延長する。
// 未存在・期限切れの場合はnilを返す。
func (s *Service) Refresh(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	now := s.now()
	if session.Expired(now) {
		return nil, nil
	}

	expiresAt := now.Add(s.maxAge())
	if err := s.sessionRepo.Touch(ctx, session.ID, expiresAt); err != nil {
		// 延長に失敗しても現在のセッションは有効なまま扱う
		slog.Warn("failed to touch session", slog.String("error", err.Error()))
		return session, nil
	}
	session.ExpiresAt = expiresAt
	return session, nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, profile model.Profile) (*model.Session, error) {
	sessionID, err := NewRandomToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := s.now()
	session := &model.Session{
		ID:        sessionID,
		Profile:   profile,
		ExpiresAt: now.Add(s.maxAge()),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

func (s *Service) maxAge() time.Duration {
	return time.Duration(s.config.SessionMaxAge) * time.Second
}

// NewRandomToken は暗号的に安全なnバイトの乱数を16進文字列で返す。
// セッションIDとOAuthのstate値に使用する。
func NewRandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
