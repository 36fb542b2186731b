// Package model はドメインモデルを定義する。
package model

import "time"

// User はAPIで管理されるユーザーを表す。
// PasswordHashはbcryptハッシュで、レスポンスには含めない。
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile は外部IdPから取得した本人情報を表す。
// セッション内にのみ保持し、usersテーブルには書き込まない。
type Profile struct {
	Provider       string `json:"provider"`
	ProviderUserID string `json:"provider_user_id"`
	DisplayName    string `json:"display_name"`
	Email          string `json:"email"`
}

// Session はブラウザクライアントのログインセッションを表す。
type Session struct {
	ID        string
	Profile   Profile
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired はセッションが期限切れかどうかを返す。
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
