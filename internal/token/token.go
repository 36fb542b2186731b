// Package token はBearerクレデンシャル（HS256署名のJWT）の発行と検証を提供する。
//
// 検証結果の失敗は閉じた列挙型 Kind で表現され、呼び出し側は
// errors.As で *Error を取り出して網羅的に分岐できる。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind はクレデンシャル検証の失敗種別を表す。
type Kind int

const (
	// KindMissingOrMalformed はAuthorizationヘッダーが欠落しているか、
	// "Bearer <token>" 形式でないことを示す。
	KindMissingOrMalformed Kind = iota + 1
	// KindServerMisconfigured は署名シークレットが未設定であることを示す。
	// 呼び出し側の誤りではなくサーバー側の設定不備。
	KindServerMisconfigured
	// KindInvalid は署名不一致・不正なペイロードなど、期限切れ以外の検証失敗。
	KindInvalid
	// KindExpired は署名は正しいが有効期限を過ぎていることを示す。
	KindExpired
)

// String はKindの識別名を返す。メトリクスのラベルにも使用する。
func (k Kind) String() string {
	switch k {
	case KindMissingOrMalformed:
		return "missing_or_malformed"
	case KindServerMisconfigured:
		return "server_misconfigured"
	case KindInvalid:
		return "invalid"
	case KindExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Error はクレデンシャル検証エラー。
type Error struct {
	Kind Kind
	Err  error
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	if e.Err == nil {
		return "credential " + e.Kind.String()
	}
	return fmt.Sprintf("credential %s: %v", e.Kind, e.Err)
}

// Unwrap は元のエラーを返す。
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf はerrから失敗種別を取り出す。*Errorでない場合は0を返す。
func KindOf(err error) Kind {
	var tokErr *Error
	if errors.As(err, &tokErr) {
		return tokErr.Kind
	}
	return 0
}

// ErrSecretMissing は署名シークレットが未設定の場合のエラー。
var ErrSecretMissing = errors.New("JWT_SECRET is missing")

// Claims はクレデンシャルのペイロード。
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Manager は共有シークレットでクレデンシャルを発行・検証する。
// 生成後は読み取り専用で、複数goroutineから同時に使用できる。
type Manager struct {
	secret []byte
	now    func() time.Time
}

// NewManager はManagerを生成する。
// secretが空でも生成は成功し、発行・検証時にKindServerMisconfiguredを返す。
func NewManager(secret string) *Manager {
	return &Manager{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Configured は署名シークレットが設定されているかを返す。
func (m *Manager) Configured() bool {
	return len(m.secret) > 0
}

// Issue はuserIDを主体とするクレデンシャルを発行する。
// ttlが負の場合は発行時点で期限切れのクレデンシャルになる。
func (m *Manager) Issue(userID string, ttl time.Duration) (string, error) {
	if !m.Configured() {
		return "", &Error{Kind: KindServerMisconfigured, Err: ErrSecretMissing}
	}

	now := m.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign credential: %w", err)
	}
	return signed, nil
}

// Verify はクレデンシャルの署名と有効期限を検証する。
//
// 失敗時は*Errorを返す。KindExpiredの場合のみ、署名検証済みのClaimsも
// 併せて返す（再発行の主体特定に使う）。それ以外の失敗ではClaimsはnil。
// 副作用はなく、同一入力に対して常に同じ判定を返す。
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	if !m.Configured() {
		return nil, &Error{Kind: KindServerMisconfigured, Err: ErrSecretMissing}
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		// jwt/v5は署名検証の後にクレーム検証を行うため、
		// ErrTokenExpiredは署名が正しいことを含意する。
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return claims, &Error{Kind: KindExpired, Err: err}
		}
		return nil, &Error{Kind: KindInvalid, Err: err}
	}
	if !token.Valid {
		return nil, &Error{Kind: KindInvalid, Err: jwt.ErrTokenInvalidClaims}
	}

	return claims, nil
}

// Reissue は期限切れクレデンシャルと同じ主体で、新しい有効期間を持つクレデンシャルを発行する。
// 再発行は利便性のためのものであり、元のリクエストを認可するものではない。
func (m *Manager) Reissue(expired *Claims, ttl time.Duration) (string, error) {
	if expired == nil {
		return "", errors.New("no claims to reissue")
	}
	return m.Issue(expired.UserID, ttl)
}
